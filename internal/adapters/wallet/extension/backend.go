// Package extension adapts the natively installed extension wallet to the
// backend port. All authority lives in the extension process; this adapter
// only shuttles capability calls across its RPC surface.
package extension

import (
	"context"
	"fmt"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/ports"
)

type Backend struct {
	rpc ports.ExtensionRPC
}

var _ ports.WalletBackend = (*Backend)(nil)

func NewBackend(rpc ports.ExtensionRPC) *Backend {
	return &Backend{rpc: rpc}
}

func (b *Backend) Kind() domain.BackendKind {
	return domain.BackendNativeExtension
}

// ProbeExisting only succeeds against an already-authorized extension. An
// unauthorized or absent extension is reported as no existing session, never
// as a prompt.
func (b *Backend) ProbeExisting(ctx context.Context) (domain.Session, error) {
	if !b.rpc.Available(ctx) {
		return domain.Session{}, domain.ErrNoExistingSession
	}

	identity, err := b.rpc.GetIdentity(ctx)
	if err != nil || identity == "" {
		return domain.Session{}, domain.ErrNoExistingSession
	}

	return b.sessionForIdentity(ctx, identity)
}

func (b *Backend) Connect(ctx context.Context) (domain.Session, error) {
	if !b.rpc.Available(ctx) {
		return domain.Session{}, fmt.Errorf("%w: extension binding not present", domain.ErrBackendUnavailable)
	}

	if err := b.rpc.Connect(ctx); err != nil {
		return domain.Session{}, fmt.Errorf("extension connect: %w", err)
	}

	identity, err := b.rpc.GetIdentity(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("extension identity: %w", err)
	}
	if identity == "" {
		return domain.Session{}, fmt.Errorf("%w: extension returned empty identity", domain.ErrBackendUnavailable)
	}

	return b.sessionForIdentity(ctx, identity)
}

func (b *Backend) Disconnect(ctx context.Context) error {
	if !b.rpc.Available(ctx) {
		return nil
	}

	if err := b.rpc.Disconnect(ctx); err != nil {
		return fmt.Errorf("extension disconnect: %w", err)
	}

	return nil
}

func (b *Backend) Sign(ctx context.Context, message []byte) (string, error) {
	if !b.rpc.Available(ctx) {
		return "", domain.ErrNotConnected
	}

	signature, err := b.rpc.Sign(ctx, message)
	if err != nil {
		return "", fmt.Errorf("extension sign: %w", err)
	}

	return signature, nil
}

func (b *Backend) WatchDeactivation(_ func()) func() {
	return func() {}
}

func (b *Backend) sessionForIdentity(ctx context.Context, identity string) (domain.Session, error) {
	handles, err := b.rpc.GetAccountHandles(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("extension account handles: %w", err)
	}

	return domain.Session{
		Kind:           domain.BackendNativeExtension,
		Identity:       identity,
		AccountHandles: handles,
	}, nil
}
