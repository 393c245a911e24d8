package ports

import "context"

// ExtensionRPC is the capability surface of the natively installed extension
// wallet. Available reports whether the well-known binding is present at
// all; when it is absent the backend must not be offered as connectable.
// GetIdentity fails on an unauthorized extension without prompting, which is
// what makes non-interactive probing possible.
type ExtensionRPC interface {
	Available(ctx context.Context) bool
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Sign(ctx context.Context, message []byte) (string, error)
	GetIdentity(ctx context.Context) (string, error)
	GetAccountHandles(ctx context.Context) ([]string, error)
}
