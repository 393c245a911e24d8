package ports

import (
	"context"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
)

// WalletRepository persists the single local credential record for this
// device profile. Get and Update return domain.ErrWalletRecordNotFound when
// no record exists. Update applies fn to the current record and persists the
// result within one critical section, so concurrent read-modify-writes
// cannot interleave; an error from fn leaves the stored record untouched.
type WalletRepository interface {
	Get(ctx context.Context) (domain.LocalCredentialRecord, error)
	Save(ctx context.Context, record domain.LocalCredentialRecord) error
	Update(ctx context.Context, fn func(domain.LocalCredentialRecord) (domain.LocalCredentialRecord, error)) error
	Clear(ctx context.Context) error
}
