package extension

import (
	"context"
	"errors"
	"testing"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtensionRPC struct {
	available  bool
	authorized bool
	identity   string
	handles    []string
	connectErr error
	signatures map[string]string

	connectCalls    int
	disconnectCalls int
}

func (f *fakeExtensionRPC) Available(_ context.Context) bool {
	return f.available
}

func (f *fakeExtensionRPC) Connect(_ context.Context) error {
	f.connectCalls++
	if f.connectErr != nil {
		return f.connectErr
	}
	f.authorized = true
	return nil
}

func (f *fakeExtensionRPC) Disconnect(_ context.Context) error {
	f.disconnectCalls++
	f.authorized = false
	return nil
}

func (f *fakeExtensionRPC) Sign(_ context.Context, message []byte) (string, error) {
	if !f.authorized {
		return "", errors.New("not authorized")
	}
	return f.signatures[string(message)], nil
}

func (f *fakeExtensionRPC) GetIdentity(_ context.Context) (string, error) {
	if !f.authorized {
		return "", errors.New("not authorized")
	}
	return f.identity, nil
}

func (f *fakeExtensionRPC) GetAccountHandles(_ context.Context) ([]string, error) {
	return f.handles, nil
}

func TestBackendConnectFailsWhenBindingAbsent(t *testing.T) {
	t.Parallel()

	backend := NewBackend(&fakeExtensionRPC{available: false})

	_, err := backend.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestBackendConnectSurfacesUserRejection(t *testing.T) {
	t.Parallel()

	rpc := &fakeExtensionRPC{available: true, connectErr: domain.ErrUserRejected}
	backend := NewBackend(rpc)

	_, err := backend.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrUserRejected)
}

func TestBackendConnectReturnsIdentityAndHandles(t *testing.T) {
	t.Parallel()

	rpc := &fakeExtensionRPC{
		available: true,
		identity:  "User:" + hex64("1a"),
		handles:   []string{"chain-main", "chain-alt"},
	}
	backend := NewBackend(rpc)

	session, err := backend.Connect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.BackendNativeExtension, session.Kind)
	assert.Equal(t, rpc.identity, session.Identity)
	assert.Equal(t, []string{"chain-main", "chain-alt"}, session.AccountHandles)
	assert.Equal(t, 1, rpc.connectCalls)
}

func TestBackendProbeExistingNeverPrompts(t *testing.T) {
	t.Parallel()

	rpc := &fakeExtensionRPC{available: true, identity: "User:" + hex64("1a")}
	backend := NewBackend(rpc)

	_, err := backend.ProbeExisting(context.Background())
	require.ErrorIs(t, err, domain.ErrNoExistingSession)
	assert.Zero(t, rpc.connectCalls)
}

func TestBackendProbeExistingReturnsAuthorizedSession(t *testing.T) {
	t.Parallel()

	rpc := &fakeExtensionRPC{
		available:  true,
		authorized: true,
		identity:   "User:" + hex64("1a"),
		handles:    []string{"chain-main"},
	}
	backend := NewBackend(rpc)

	session, err := backend.ProbeExisting(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rpc.identity, session.Identity)
	assert.Zero(t, rpc.connectCalls)
}

func TestBackendDisconnectWithoutBindingIsNoOp(t *testing.T) {
	t.Parallel()

	rpc := &fakeExtensionRPC{available: false}
	backend := NewBackend(rpc)

	require.NoError(t, backend.Disconnect(context.Background()))
	assert.Zero(t, rpc.disconnectCalls)
}

func TestBackendSignDelegatesToExtension(t *testing.T) {
	t.Parallel()

	rpc := &fakeExtensionRPC{
		available:  true,
		authorized: true,
		identity:   "User:" + hex64("1a"),
		signatures: map[string]string{"raid plot 7": "sig-raid-7"},
	}
	backend := NewBackend(rpc)

	signature, err := backend.Sign(context.Background(), []byte("raid plot 7"))
	require.NoError(t, err)
	assert.Equal(t, "sig-raid-7", signature)
}

func hex64(pair string) string {
	out := ""
	for i := 0; i < 32; i++ {
		out += pair
	}
	return out
}
