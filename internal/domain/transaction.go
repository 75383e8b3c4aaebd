package domain

import "github.com/shopspring/decimal"

// TransactionType carries the sign of a transaction; Amount itself is always
// non-negative.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is a categorized ledger entry. Immutable once recorded; there
// is no edit or delete path, and deleting an account does not cascade here.
type Transaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	AccountID string          `json:"accountId"`
	Date      string          `json:"date"` // YYYY-MM-DD
	Amount    decimal.Decimal `json:"amount"`
	Kind      TransactionType `json:"type"`
	Category  string          `json:"category"`
	Note      string          `json:"note"`
}

// SignedAmount returns the amount with the sign implied by Kind: positive for
// income, negative for expense.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == TransactionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
