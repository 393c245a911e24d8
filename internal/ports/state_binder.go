package ports

import "context"

// StateBinder swaps per-identity game state when the active identity
// changes. The session manager guarantees MigrateOut for the outgoing
// identity completes before BindIn for the incoming one begins.
type StateBinder interface {
	// MigrateOut flushes the identity's in-progress state to a
	// cross-identity discovery record.
	MigrateOut(ctx context.Context, identity string) error

	// BindIn loads existing state for the identity or initializes fresh
	// state seeded with seedBalance if the identity has never been seen.
	BindIn(ctx context.Context, identity string, seedBalance string) error
}
