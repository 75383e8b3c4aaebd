// Package ledger is the only writer of account balances. Recording a
// transaction adjusts exactly the referenced account and prepends the entry,
// keeping balance = initial + Σ(income) − Σ(expense) for every account.
package ledger

import (
	"fintrack-backend/internal/domain"
)

// Record applies tx to the ledger and returns the new account and transaction
// slices. The input slices are never modified; on a validation error they are
// returned unchanged so callers can ignore the rejection without repair work.
// Transactions are ordered most-recent-first, so tx is prepended.
func Record(accounts []domain.Account, transactions []domain.Transaction, tx domain.Transaction) ([]domain.Account, []domain.Transaction, error) {
	if !tx.Amount.IsPositive() {
		return accounts, transactions, ErrNonPositiveAmount
	}

	idx := -1
	for i, a := range accounts {
		if a.ID == tx.AccountID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return accounts, transactions, ErrUnknownAccount
	}

	outAccounts := append([]domain.Account{}, accounts...)
	outAccounts[idx].Balance = outAccounts[idx].Balance.Add(tx.SignedAmount())

	outTransactions := make([]domain.Transaction, 0, len(transactions)+1)
	outTransactions = append(outTransactions, tx)
	outTransactions = append(outTransactions, transactions...)

	return outAccounts, outTransactions, nil
}
