// Package httpprobe checks candidate endpoints over HTTP. The primary check
// is a GET against the health path; when that path errors the prober falls
// back to a minimal GraphQL introspection POST against the query path before
// declaring the candidate unreachable. Both checks share the caller's
// deadline.
package httpprobe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/ports"
)

const (
	defaultHealthPath = "/health"
	defaultQueryPath  = "/"

	introspectionPayload  = `{"query":"{ __typename }"}`
	maxProbeResponseBytes = 1 << 16
)

type Prober struct {
	HTTPClient *http.Client
	HealthPath string
	QueryPath  string
}

var _ ports.EndpointProber = (*Prober)(nil)

func (p *Prober) Probe(ctx context.Context, endpoint domain.Endpoint) (time.Duration, error) {
	base := strings.TrimRight(endpoint.URL, "/")
	if base == "" {
		return 0, errors.New("endpoint url is empty")
	}

	start := time.Now()
	healthErr := p.check(ctx, http.MethodGet, base+p.healthPath(), "")
	if healthErr == nil {
		return time.Since(start), nil
	}
	if ctx.Err() != nil {
		return 0, healthErr
	}

	start = time.Now()
	queryErr := p.check(ctx, http.MethodPost, base+p.queryPath(), introspectionPayload)
	if queryErr == nil {
		return time.Since(start), nil
	}

	return 0, fmt.Errorf("health check failed: %w; query check failed: %w", healthErr, queryErr)
}

func (p *Prober) check(ctx context.Context, method, url, body string) error {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create probe request: %w", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain so the connection can be reused across cycles.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxProbeResponseBytes))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("probe %s: status %d", url, resp.StatusCode)
	}

	return nil
}

func (p *Prober) httpClient() *http.Client {
	if p.HTTPClient != nil {
		return p.HTTPClient
	}
	return http.DefaultClient
}

func (p *Prober) healthPath() string {
	if p.HealthPath != "" {
		return p.HealthPath
	}
	return defaultHealthPath
}

func (p *Prober) queryPath() string {
	if p.QueryPath != "" {
		return p.QueryPath
	}
	return defaultQueryPath
}
