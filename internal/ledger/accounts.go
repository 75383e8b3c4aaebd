package ledger

import (
	"fintrack-backend/internal/domain"
)

// AddAccount validates and appends a new account. The input slice is never
// modified; on a validation error it is returned unchanged.
func AddAccount(accounts []domain.Account, acct domain.Account) ([]domain.Account, error) {
	if acct.Name == "" {
		return accounts, ErrAccountNameRequired
	}
	switch acct.Kind {
	case domain.AccountBank, domain.AccountCash, domain.AccountCreditCard:
	default:
		return accounts, ErrInvalidAccountKind
	}
	out := append([]domain.Account{}, accounts...)
	return append(out, acct), nil
}

// DeleteAccount removes the account with the given id. Transactions that
// reference it are kept: the history survives the account.
func DeleteAccount(accounts []domain.Account, id string) ([]domain.Account, error) {
	out := make([]domain.Account, 0, len(accounts))
	found := false
	for _, a := range accounts {
		if a.ID == id {
			found = true
			continue
		}
		out = append(out, a)
	}
	if !found {
		return accounts, ErrUnknownAccount
	}
	return out, nil
}
