package domain

import "github.com/shopspring/decimal"

// AccountKind classifies an account. Credit card balances may be negative.
type AccountKind string

const (
	AccountBank       AccountKind = "bank"
	AccountCash       AccountKind = "cash"
	AccountCreditCard AccountKind = "credit_card"
)

// Account is a bank/cash/credit account. Balance equals the initial balance
// plus the signed sum of all transactions referencing the account; only the
// ledger package writes it.
type Account struct {
	ID       string          `json:"id"`
	UserID   string          `json:"userId"`
	Name     string          `json:"name"`
	Kind     AccountKind     `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}
