package ports

import (
	"context"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
)

// WalletBackend is the capability set shared by all credential backends.
// Implementations keep their side effects confined to their own external
// surface and never reach into another backend's state.
type WalletBackend interface {
	Kind() domain.BackendKind

	// ProbeExisting is non-interactive: it must not prompt the user. It
	// returns domain.ErrNoExistingSession when nothing is restorable.
	ProbeExisting(ctx context.Context) (domain.Session, error)

	// Connect is interactive. It fails with domain.ErrBackendUnavailable
	// when the backend's prerequisite is absent and domain.ErrUserRejected
	// when the user declines.
	Connect(ctx context.Context) (domain.Session, error)

	// Disconnect is best-effort; backends with no native disconnect concept
	// treat it as a local no-op.
	Disconnect(ctx context.Context) error

	// Sign fails with domain.ErrNotConnected when no session is active for
	// this backend.
	Sign(ctx context.Context, message []byte) (string, error)

	// WatchDeactivation subscribes to backend-initiated session loss (for
	// example an empty accountsChanged event). onDeactivate is invoked at
	// most once; the returned cancel releases the subscription.
	WatchDeactivation(onDeactivate func()) (cancel func())
}
