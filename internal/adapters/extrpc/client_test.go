package extrpc

import (
	"context"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtension serves scripted JSON-RPC responses on a unix socket.
type fakeExtension struct {
	results map[string]any
	errs    map[string]*rpcError
}

func (f *fakeExtension) serve(t *testing.T, socketPath string) {
	t.Helper()

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go f.handle(conn)
		}
	}()
}

func (f *fakeExtension) handle(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	var req request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		return
	}

	resp := response{}
	if rpcErr, ok := f.errs[req.Method]; ok {
		resp.Error = rpcErr
	} else {
		raw, _ := json.Marshal(f.results[req.Method])
		resp.Result = raw
	}
	_ = json.NewEncoder(conn).Encode(resp)
}

func socketPathFor(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "ext.sock")
}

func TestClientAvailableRequiresSocket(t *testing.T) {
	t.Parallel()

	socketPath := socketPathFor(t)
	client := &Client{SocketPath: socketPath}
	assert.False(t, client.Available(context.Background()))

	(&fakeExtension{}).serve(t, socketPath)
	assert.True(t, client.Available(context.Background()))
}

func TestClientGetIdentity(t *testing.T) {
	t.Parallel()

	socketPath := socketPathFor(t)
	identity := "User:" + string(make64('a'))
	(&fakeExtension{results: map[string]any{
		"wallet_getIdentity": identity,
	}}).serve(t, socketPath)

	client := &Client{SocketPath: socketPath}
	got, err := client.GetIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestClientConnectMapsUserRejection(t *testing.T) {
	t.Parallel()

	socketPath := socketPathFor(t)
	(&fakeExtension{errs: map[string]*rpcError{
		"wallet_connect": {Code: 4001, Message: "user declined the prompt"},
	}}).serve(t, socketPath)

	client := &Client{SocketPath: socketPath}
	err := client.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrUserRejected)
}

func TestClientUnauthorizedMapsToNotConnected(t *testing.T) {
	t.Parallel()

	socketPath := socketPathFor(t)
	(&fakeExtension{errs: map[string]*rpcError{
		"wallet_getIdentity": {Code: 4100, Message: "not authorized"},
	}}).serve(t, socketPath)

	client := &Client{SocketPath: socketPath}
	_, err := client.GetIdentity(context.Background())
	require.ErrorIs(t, err, domain.ErrNotConnected)
}

func TestClientSignAndAccountHandles(t *testing.T) {
	t.Parallel()

	socketPath := socketPathFor(t)
	(&fakeExtension{results: map[string]any{
		"wallet_sign":              "sig-0011",
		"wallet_getAccountHandles": []string{"chain-main", "chain-alt"},
	}}).serve(t, socketPath)

	client := &Client{SocketPath: socketPath}

	signature, err := client.Sign(context.Background(), []byte{0x00, 0x11})
	require.NoError(t, err)
	assert.Equal(t, "sig-0011", signature)

	handles, err := client.GetAccountHandles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"chain-main", "chain-alt"}, handles)
}

func TestClientDialFailureIsBackendUnavailable(t *testing.T) {
	t.Parallel()

	client := &Client{SocketPath: socketPathFor(t), DialTimeout: 100 * time.Millisecond}
	err := client.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func make64(c byte) []byte {
	out := make([]byte, 64)
	for i := range out {
		out[i] = c
	}
	return out
}
