package domain

import "errors"

var (
	ErrBackendUnavailable   = errors.New("wallet backend unavailable")
	ErrUserRejected         = errors.New("user rejected the request")
	ErrNotConnected         = errors.New("no active wallet session")
	ErrOperationInProgress  = errors.New("session operation already in progress")
	ErrInvalidBackend       = errors.New("invalid wallet backend")
	ErrNoExistingSession    = errors.New("no existing session")
	ErrWalletRecordNotFound = errors.New("wallet record not found")
	ErrInvalidAmount        = errors.New("invalid balance amount")
	ErrInsufficientBalance  = errors.New("insufficient balance")
)
