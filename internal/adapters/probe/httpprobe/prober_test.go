package httpprobe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endpointFor(server *httptest.Server) domain.Endpoint {
	return domain.Endpoint{Name: "local", URL: server.URL, Kind: domain.NetworkLocal}
}

func TestProbeSucceedsOnHealthPath(t *testing.T) {
	t.Parallel()

	queryHits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		default:
			queryHits++
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	prober := &Prober{}
	latency, err := prober.Probe(context.Background(), endpointFor(server))
	require.NoError(t, err)
	assert.Greater(t, latency, time.Duration(0))
	assert.Zero(t, queryHits)
}

func TestProbeFallsBackToIntrospectionQuery(t *testing.T) {
	t.Parallel()

	var queryBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			queryBody = string(body)
			_, _ = w.Write([]byte(`{"data":{"__typename":"Query"}}`))
			return
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer server.Close()

	prober := &Prober{}
	latency, err := prober.Probe(context.Background(), endpointFor(server))
	require.NoError(t, err)
	assert.Greater(t, latency, time.Duration(0))
	assert.Contains(t, queryBody, "__typename")
}

func TestProbeReportsBothFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	prober := &Prober{}
	_, err := prober.Probe(context.Background(), endpointFor(server))
	require.Error(t, err)
	assert.ErrorContains(t, err, "health check failed")
	assert.ErrorContains(t, err, "query check failed")
	assert.ErrorContains(t, err, "status 503")
}

func TestProbeUnreachableHostFails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close()

	prober := &Prober{}
	_, err := prober.Probe(context.Background(), domain.Endpoint{Name: "dead", URL: server.URL, Kind: domain.NetworkLocal})
	require.Error(t, err)
}

func TestProbeHonorsContextDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	prober := &Prober{}
	_, err := prober.Probe(ctx, endpointFor(server))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProbeEmptyURLFails(t *testing.T) {
	t.Parallel()

	prober := &Prober{}
	_, err := prober.Probe(context.Background(), domain.Endpoint{Name: "blank"})
	require.Error(t, err)
}
