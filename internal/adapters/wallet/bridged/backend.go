// Package bridged adapts a generic injected third-party signer to the
// backend port. The bridge has no native notion of game accounts, so the
// identity is derived from the bridged address by reversible formatting and
// the session never carries account handles.
package bridged

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/ports"
)

const (
	methodRequestAccounts = "eth_requestAccounts"
	methodPersonalSign    = "personal_sign"
)

type Backend struct {
	providers []ports.InjectedProvider
	wantTag   string

	mu       sync.Mutex
	provider ports.InjectedProvider
	address  string
}

var _ ports.WalletBackend = (*Backend)(nil)

// NewBackend takes every injected provider that could be present. wantTag is
// the self-identification of the intended provider; competing providers are
// ignored so signatures are never silently misrouted.
func NewBackend(providers []ports.InjectedProvider, wantTag string) *Backend {
	return &Backend{providers: providers, wantTag: wantTag}
}

func (b *Backend) Kind() domain.BackendKind {
	return domain.BackendBridgedProvider
}

// ProbeExisting always reports no session: the bridge has no authorization
// check that can run without prompting, so it is never restored silently.
func (b *Backend) ProbeExisting(_ context.Context) (domain.Session, error) {
	return domain.Session{}, domain.ErrNoExistingSession
}

func (b *Backend) Connect(ctx context.Context) (domain.Session, error) {
	provider, err := b.selectProvider(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	raw, err := provider.Request(ctx, methodRequestAccounts, nil)
	if err != nil {
		return domain.Session{}, fmt.Errorf("request accounts: %w", err)
	}

	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return domain.Session{}, fmt.Errorf("decode accounts response: %w", err)
	}
	if len(accounts) == 0 {
		return domain.Session{}, fmt.Errorf("%w: provider returned no accounts", domain.ErrUserRejected)
	}

	b.mu.Lock()
	b.provider = provider
	b.address = accounts[0]
	b.mu.Unlock()

	return domain.Session{
		Kind:     domain.BackendBridgedProvider,
		Identity: domain.IdentityFromBridgedAddress(accounts[0]),
	}, nil
}

// Disconnect drops the local binding. The provider keeps its own
// authorization; there is nothing remote to revoke from here.
func (b *Backend) Disconnect(_ context.Context) error {
	b.mu.Lock()
	b.provider = nil
	b.address = ""
	b.mu.Unlock()
	return nil
}

func (b *Backend) Sign(ctx context.Context, message []byte) (string, error) {
	b.mu.Lock()
	provider := b.provider
	address := b.address
	b.mu.Unlock()

	if provider == nil || address == "" {
		return "", domain.ErrNotConnected
	}

	params := []string{"0x" + hex.EncodeToString(message), address}
	raw, err := provider.Request(ctx, methodPersonalSign, params)
	if err != nil {
		return "", fmt.Errorf("personal sign: %w", err)
	}

	var signature string
	if err := json.Unmarshal(raw, &signature); err != nil {
		return "", fmt.Errorf("decode signature response: %w", err)
	}

	return signature, nil
}

// WatchDeactivation subscribes to the provider's account changes. An empty
// account set revokes the session: the local binding is dropped and
// onDeactivate fires exactly once.
func (b *Backend) WatchDeactivation(onDeactivate func()) func() {
	b.mu.Lock()
	provider := b.provider
	b.mu.Unlock()

	if provider == nil {
		return func() {}
	}

	var once sync.Once
	return provider.OnAccountsChanged(func(accounts []string) {
		if len(accounts) == 0 {
			b.mu.Lock()
			b.provider = nil
			b.address = ""
			b.mu.Unlock()
			once.Do(onDeactivate)
			return
		}

		b.mu.Lock()
		if b.address != "" {
			b.address = accounts[0]
		}
		b.mu.Unlock()
	})
}

func (b *Backend) selectProvider(ctx context.Context) (ports.InjectedProvider, error) {
	want := strings.ToLower(strings.TrimSpace(b.wantTag))
	for _, provider := range b.providers {
		tag, err := provider.ClientTag(ctx)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(tag), want) {
			return provider, nil
		}
	}

	return nil, fmt.Errorf("%w: no injected provider identifies as %q", domain.ErrBackendUnavailable, b.wantTag)
}
