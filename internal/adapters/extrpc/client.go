// Package extrpc talks JSON-RPC to the natively installed extension wallet
// over its unix socket. The socket path is the well-known binding: when it
// is absent the extension is not installed and the backend must not be
// offered.
package extrpc

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/ports"
)

const (
	methodConnect           = "wallet_connect"
	methodDisconnect        = "wallet_disconnect"
	methodSign              = "wallet_sign"
	methodGetIdentity       = "wallet_getIdentity"
	methodGetAccountHandles = "wallet_getAccountHandles"

	defaultDialTimeout = 5 * time.Second

	// Extension error codes, shared with the injected-provider convention.
	codeUserRejected = 4001
	codeUnauthorized = 4100
)

type Client struct {
	SocketPath  string
	DialTimeout time.Duration
}

var _ ports.ExtensionRPC = (*Client)(nil)

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("extension rpc error %d: %s", e.Code, e.Message)
}

func (c *Client) Available(_ context.Context) bool {
	info, err := os.Stat(c.SocketPath)
	return err == nil && info.Mode()&os.ModeSocket != 0
}

func (c *Client) Connect(ctx context.Context) error {
	return c.call(ctx, methodConnect, nil, nil)
}

func (c *Client) Disconnect(ctx context.Context) error {
	return c.call(ctx, methodDisconnect, nil, nil)
}

func (c *Client) Sign(ctx context.Context, message []byte) (string, error) {
	var signature string
	params := map[string]string{"message": hex.EncodeToString(message)}
	if err := c.call(ctx, methodSign, params, &signature); err != nil {
		return "", err
	}
	return signature, nil
}

func (c *Client) GetIdentity(ctx context.Context) (string, error) {
	var identity string
	if err := c.call(ctx, methodGetIdentity, nil, &identity); err != nil {
		return "", err
	}
	return identity, nil
}

func (c *Client) GetAccountHandles(ctx context.Context) ([]string, error) {
	var handles []string
	if err := c.call(ctx, methodGetAccountHandles, nil, &handles); err != nil {
		return nil, err
	}
	return handles, nil
}

// call runs one request/response exchange on a fresh connection.
func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	dialer := net.Dialer{Timeout: c.dialTimeout()}
	conn, err := dialer.DialContext(ctx, "unix", c.SocketPath)
	if err != nil {
		return fmt.Errorf("%w: dial extension socket: %v", domain.ErrBackendUnavailable, err)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := json.NewEncoder(conn).Encode(request{
		JSONRPC: "2.0",
		ID:      time.Now().UnixNano(),
		Method:  method,
		Params:  params,
	}); err != nil {
		return fmt.Errorf("send %s request: %w", method, err)
	}

	var resp response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}

	if resp.Error != nil {
		return classifyError(resp.Error)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, result); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

func classifyError(rpcErr *rpcError) error {
	switch rpcErr.Code {
	case codeUserRejected:
		return fmt.Errorf("%w: %s", domain.ErrUserRejected, rpcErr.Message)
	case codeUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrNotConnected, rpcErr.Message)
	}
	return rpcErr
}

func (c *Client) dialTimeout() time.Duration {
	if c.DialTimeout > 0 {
		return c.DialTimeout
	}
	return defaultDialTimeout
}
