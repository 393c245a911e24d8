// Package local implements the locally simulated wallet backend. Signing
// here is a deterministic digest over the message and the stored secret
// material; it is simulation-only and carries no production cryptographic
// strength.
package local

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/ports"
)

const secretMaterialBytes = 32

type Backend struct {
	repo  ports.WalletRepository
	clock ports.Clock
}

var _ ports.WalletBackend = (*Backend)(nil)

func NewBackend(repo ports.WalletRepository, clock ports.Clock) *Backend {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Backend{repo: repo, clock: clock}
}

func (b *Backend) Kind() domain.BackendKind {
	return domain.BackendLocalSimulated
}

func (b *Backend) ProbeExisting(ctx context.Context) (domain.Session, error) {
	record, err := b.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrWalletRecordNotFound) {
			return domain.Session{}, domain.ErrNoExistingSession
		}
		return domain.Session{}, fmt.Errorf("load wallet record: %w", err)
	}

	return sessionFromRecord(record), nil
}

// Connect creates the credential record on first use. Secret material is
// generated exactly once; reconnecting reuses the existing record untouched.
func (b *Backend) Connect(ctx context.Context) (domain.Session, error) {
	record, err := b.repo.Get(ctx)
	if err == nil {
		return sessionFromRecord(record), nil
	}
	if !errors.Is(err, domain.ErrWalletRecordNotFound) {
		return domain.Session{}, fmt.Errorf("load wallet record: %w", err)
	}

	record, err = b.newRecord()
	if err != nil {
		return domain.Session{}, err
	}

	if err := b.repo.Save(ctx, record); err != nil {
		return domain.Session{}, fmt.Errorf("persist wallet record: %w", err)
	}

	return sessionFromRecord(record), nil
}

// Disconnect is a local no-op: the durable record survives so the session
// can be restored later. Only an explicit clear destroys it.
func (b *Backend) Disconnect(_ context.Context) error {
	return nil
}

func (b *Backend) Sign(ctx context.Context, message []byte) (string, error) {
	record, err := b.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrWalletRecordNotFound) {
			return "", domain.ErrNotConnected
		}
		return "", fmt.Errorf("load wallet record: %w", err)
	}

	digest := sha256.Sum256(append(append([]byte{}, message...), []byte(record.SecretMaterial)...))
	return hex.EncodeToString(digest[:]), nil
}

func (b *Backend) WatchDeactivation(_ func()) func() {
	return func() {}
}

func (b *Backend) newRecord() (domain.LocalCredentialRecord, error) {
	identity, err := domain.NewRandomIdentity()
	if err != nil {
		return domain.LocalCredentialRecord{}, err
	}

	chainID, err := domain.NewLocalChainID()
	if err != nil {
		return domain.LocalCredentialRecord{}, err
	}

	secret := make([]byte, secretMaterialBytes)
	if _, err := rand.Read(secret); err != nil {
		return domain.LocalCredentialRecord{}, fmt.Errorf("generate secret material: %w", err)
	}

	return domain.LocalCredentialRecord{
		Identity:       identity,
		LocalChainID:   chainID,
		SecretMaterial: hex.EncodeToString(secret),
		Balance:        domain.StartingBalance,
		CreatedAt:      b.clock.Now(),
	}, nil
}

func sessionFromRecord(record domain.LocalCredentialRecord) domain.Session {
	return domain.Session{
		Kind:           domain.BackendLocalSimulated,
		Identity:       record.Identity,
		AccountHandles: []string{record.LocalChainID},
		Balance:        record.Balance,
	}
}
