package ledger

import "errors"

var (
	ErrNonPositiveAmount   = errors.New("transaction amount must be greater than zero")
	ErrUnknownAccount      = errors.New("unknown account")
	ErrAccountNameRequired = errors.New("account name is required")
	ErrInvalidAccountKind  = errors.New("account type must be bank, cash or credit_card")
)
