package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/ports"
)

// SessionManager is the single authority over the active wallet session. It
// mediates between caller intent and the backend adapters, re-binds
// per-identity game state on every identity change, and serializes session
// mutations: a second connect or disconnect while one is in flight fails
// with domain.ErrOperationInProgress instead of interleaving.
type SessionManager struct {
	backends map[domain.BackendKind]ports.WalletBackend
	binder   ports.StateBinder

	// opMu serializes connect/disconnect/restore. TryLock keeps a pending
	// operation from being interleaved rather than queued.
	opMu sync.Mutex

	mu          sync.RWMutex
	session     domain.Session
	cancelWatch func()
	flushErr    error
}

func NewSessionManager(binder ports.StateBinder, backends ...ports.WalletBackend) *SessionManager {
	byKind := make(map[domain.BackendKind]ports.WalletBackend, len(backends))
	for _, backend := range backends {
		byKind[backend.Kind()] = backend
	}

	return &SessionManager{
		backends: byKind,
		binder:   binder,
		session:  domain.EmptySession(),
	}
}

// Session returns a copy of the active session.
func (m *SessionManager) Session() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session := m.session
	if session.AccountHandles != nil {
		session.AccountHandles = append([]string(nil), session.AccountHandles...)
	}
	return session
}

// Restore attempts to resume a prior session without prompting: the local
// simulated backend first (persisted sessions are cheap to confirm), then
// the native extension. The bridged provider is never silently restored; it
// has no authorization check that works without user interaction.
func (m *SessionManager) Restore(ctx context.Context) (domain.Session, bool, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	for _, kind := range []domain.BackendKind{domain.BackendLocalSimulated, domain.BackendNativeExtension} {
		backend, ok := m.backends[kind]
		if !ok {
			continue
		}

		session, err := backend.ProbeExisting(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return domain.Session{}, false, err
			}
			continue
		}

		if err := m.adopt(ctx, session, backend); err != nil {
			return domain.Session{}, false, err
		}
		return session, true, nil
	}

	return domain.EmptySession(), false, nil
}

// Connect establishes a session on the requested backend, replacing the
// current session atomically. Exactly one identity-binding handoff happens
// per call: migrate-out for the outgoing identity strictly before bind-in
// for the incoming one.
func (m *SessionManager) Connect(ctx context.Context, kind domain.BackendKind) (domain.Session, error) {
	backend, ok := m.backends[kind]
	if !ok || !kind.Connectable() {
		return domain.Session{}, fmt.Errorf("%w: %q", domain.ErrInvalidBackend, kind)
	}

	if !m.opMu.TryLock() {
		return domain.Session{}, domain.ErrOperationInProgress
	}
	defer m.opMu.Unlock()

	session, err := backend.Connect(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("connect %s backend: %w", kind, err)
	}

	if err := m.adopt(ctx, session, backend); err != nil {
		return domain.Session{}, err
	}

	return session, nil
}

// Disconnect flushes the current identity's state, tells the adapter to
// disconnect (best-effort), and clears the session to none.
func (m *SessionManager) Disconnect(ctx context.Context) error {
	if !m.opMu.TryLock() {
		return domain.ErrOperationInProgress
	}
	defer m.opMu.Unlock()

	current := m.Session()
	if !current.Active() {
		return domain.ErrNotConnected
	}

	if err := m.binder.MigrateOut(ctx, current.Identity); err != nil {
		return fmt.Errorf("migrate out %s: %w", current.Identity, err)
	}

	backend := m.backends[current.Kind]
	var disconnectErr error
	if backend != nil {
		disconnectErr = backend.Disconnect(ctx)
	}

	m.clearSession()

	if disconnectErr != nil {
		return fmt.Errorf("disconnect %s backend: %w", current.Kind, disconnectErr)
	}
	return nil
}

// Sign delegates to the active backend's signer.
func (m *SessionManager) Sign(ctx context.Context, message []byte) (string, error) {
	current := m.Session()
	if !current.Active() {
		return "", domain.ErrNotConnected
	}

	backend, ok := m.backends[current.Kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidBackend, current.Kind)
	}

	signature, err := backend.Sign(ctx, message)
	if err != nil {
		return "", fmt.Errorf("sign with %s backend: %w", current.Kind, err)
	}
	return signature, nil
}

// adopt replaces the session and performs the two-phase identity handoff.
// Callers hold opMu.
func (m *SessionManager) adopt(ctx context.Context, session domain.Session, backend ports.WalletBackend) error {
	previous := m.Session()

	if previous.Identity != session.Identity {
		if previous.Active() {
			if err := m.binder.MigrateOut(ctx, previous.Identity); err != nil {
				return fmt.Errorf("migrate out %s: %w", previous.Identity, err)
			}
		}

		seed := session.Balance
		if seed == "" {
			seed = domain.StartingBalance
		}
		if err := m.binder.BindIn(ctx, session.Identity, seed); err != nil {
			return fmt.Errorf("bind in %s: %w", session.Identity, err)
		}
	}

	m.mu.Lock()
	if m.cancelWatch != nil {
		m.cancelWatch()
	}
	m.session = session
	m.cancelWatch = backend.WatchDeactivation(m.deactivate)
	m.flushErr = nil
	m.mu.Unlock()

	return nil
}

func (m *SessionManager) clearSession() {
	m.mu.Lock()
	if m.cancelWatch != nil {
		m.cancelWatch()
		m.cancelWatch = nil
	}
	m.session = domain.EmptySession()
	m.mu.Unlock()
}

// deactivate handles a backend-initiated session loss, such as an empty
// accountsChanged event from a bridged provider. It runs the same flush
// contract as Disconnect but skips the adapter call: the backend already
// dropped the session on its side. No caller is waiting for an error here,
// so a failed flush is recorded and exposed through FlushError.
func (m *SessionManager) deactivate() {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	current := m.Session()
	if !current.Active() {
		return
	}

	if err := m.binder.MigrateOut(context.Background(), current.Identity); err != nil {
		m.mu.Lock()
		m.flushErr = fmt.Errorf("migrate out %s: %w", current.Identity, err)
		m.mu.Unlock()
	}
	m.clearSession()
}

// FlushError reports the most recent state flush that failed during a
// backend-initiated deactivation. The next successful session adoption
// resets it.
func (m *SessionManager) FlushError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flushErr
}
