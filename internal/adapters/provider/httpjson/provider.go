// Package httpjson is an injected-provider bridge speaking JSON-RPC 2.0
// over HTTP. The target system has no push channel here, so accountsChanged
// is surfaced by polling eth_accounts on a short cadence.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/ports"
)

const (
	methodClientVersion = "web3_clientVersion"
	methodAccounts      = "eth_accounts"

	defaultRequestTimeout = 10 * time.Second
	defaultPollInterval   = 5 * time.Second

	codeUserRejected    = 4001
	maxRPCResponseBytes = 1 << 20
)

type Provider struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	PollInterval   time.Duration

	requestID atomic.Int64
}

var _ ports.InjectedProvider = (*Provider)(nil)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("provider rpc error %d: %s", e.Code, e.Message)
}

func (p *Provider) ClientTag(ctx context.Context) (string, error) {
	raw, err := p.Request(ctx, methodClientVersion, nil)
	if err != nil {
		return "", err
	}

	var tag string
	if err := json.Unmarshal(raw, &tag); err != nil {
		return "", fmt.Errorf("decode client version: %w", err)
	}
	return tag, nil
}

func (p *Provider) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      p.requestID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}

	requestCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(ctx, p.requestTimeout())
		defer cancel()
	}

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, p.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: provider request %s: %v", domain.ErrBackendUnavailable, method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: provider status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}

	var decoded rpcResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxRPCResponseBytes)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}

	if decoded.Error != nil {
		if decoded.Error.Code == codeUserRejected {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserRejected, decoded.Error.Message)
		}
		return nil, decoded.Error
	}

	return decoded.Result, nil
}

// OnAccountsChanged polls eth_accounts and invokes fn whenever the account
// set differs from the previous poll. Subscribers only watch after a
// successful connect, so a first poll that already comes back empty is a
// revocation and is delivered rather than swallowed as the baseline. Cancel
// stops the poller; once it returns, fn no longer fires. It is safe to call
// more than once.
func (p *Provider) OnAccountsChanged(fn func(accounts []string)) func() {
	stop := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(p.pollInterval())
		defer ticker.Stop()

		var last []string
		primed := false

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
			// A tick and a close can be ready at the same time and the
			// select picks either, so cancellation is re-checked here and
			// again after the request before fn can fire.
			if stopped(stop) {
				return
			}

			raw, err := p.Request(context.Background(), methodAccounts, nil)
			if err != nil {
				continue
			}

			var accounts []string
			if err := json.Unmarshal(raw, &accounts); err != nil {
				continue
			}

			if stopped(stop) {
				return
			}

			switch {
			case primed && !equalAccounts(last, accounts):
				fn(accounts)
			case !primed && len(accounts) == 0:
				fn(accounts)
			}
			last = accounts
			primed = true
		}
	}()

	return func() {
		once.Do(func() { close(stop) })
	}
}

func stopped(stop <-chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}

func equalAccounts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (p *Provider) httpClient() *http.Client {
	if p.HTTPClient != nil {
		return p.HTTPClient
	}
	return http.DefaultClient
}

func (p *Provider) requestTimeout() time.Duration {
	if p.RequestTimeout > 0 {
		return p.RequestTimeout
	}
	return defaultRequestTimeout
}

func (p *Provider) pollInterval() time.Duration {
	if p.PollInterval > 0 {
		return p.PollInterval
	}
	return defaultPollInterval
}
