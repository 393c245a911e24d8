package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/domain"
	"github.com/PhuocNG0308/stake-and-steal-sub001/internal/ports"
)

// FundsService mutates the local simulated wallet's advisory balance. Every
// mutation is a read-modify-write of the full record, run inside the
// repository's single Update critical section, so close-together calls never
// lose an update and the in-memory view never diverges from storage.
// Balances on other backends are not authoritative here and are left alone.
type FundsService struct {
	repo ports.WalletRepository
}

func NewFundsService(repo ports.WalletRepository) *FundsService {
	return &FundsService{repo: repo}
}

func (s *FundsService) Balance(ctx context.Context) (string, error) {
	record, err := s.repo.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("load wallet record: %w", err)
	}
	return record.Balance, nil
}

func (s *FundsService) Deposit(ctx context.Context, amount string) (string, error) {
	return s.apply(ctx, amount, domain.AddBalance)
}

func (s *FundsService) Withdraw(ctx context.Context, amount string) (string, error) {
	return s.apply(ctx, amount, domain.SubBalance)
}

func (s *FundsService) apply(ctx context.Context, amount string, op func(balance, amount string) (string, error)) (string, error) {
	var balance string
	err := s.repo.Update(ctx, func(record domain.LocalCredentialRecord) (domain.LocalCredentialRecord, error) {
		updated, err := op(record.Balance, amount)
		if err != nil {
			return domain.LocalCredentialRecord{}, err
		}
		record.Balance = updated
		balance = updated
		return record, nil
	})

	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInsufficientBalance):
		return "", err
	default:
		return "", fmt.Errorf("update wallet record: %w", err)
	}
}
