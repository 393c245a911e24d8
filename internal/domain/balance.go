package domain

import (
	"fmt"
	"math/big"
)

// Balances travel as decimal strings because the remote ledger serializes
// u128 amounts as strings. Arithmetic goes through big.Int so amounts beyond
// int64 stay exact.

func parseAmount(raw string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(raw, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return value, nil
}

func AddBalance(balance, amount string) (string, error) {
	current, err := parseAmount(balance)
	if err != nil {
		return "", err
	}
	delta, err := parseAmount(amount)
	if err != nil {
		return "", err
	}
	return new(big.Int).Add(current, delta).String(), nil
}

func SubBalance(balance, amount string) (string, error) {
	current, err := parseAmount(balance)
	if err != nil {
		return "", err
	}
	delta, err := parseAmount(amount)
	if err != nil {
		return "", err
	}
	if current.Cmp(delta) < 0 {
		return "", fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, balance, amount)
	}
	return new(big.Int).Sub(current, delta).String(), nil
}
