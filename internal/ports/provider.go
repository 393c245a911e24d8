package ports

import (
	"context"
	"encoding/json"
)

// InjectedProvider is the generic surface of a bridged third-party signer.
// Several competing providers may be injected at once; ClientTag is the
// self-identification used to pick the intended one deterministically.
type InjectedProvider interface {
	ClientTag(ctx context.Context) (string, error)
	Request(ctx context.Context, method string, params any) (json.RawMessage, error)

	// OnAccountsChanged subscribes to account-set changes. An empty account
	// list means the provider revoked access. The returned cancel releases
	// the subscription.
	OnAccountsChanged(fn func(accounts []string)) (cancel func())
}
