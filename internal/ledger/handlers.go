package ledger

import (
	"errors"
	"time"

	"fintrack-backend/internal/domain"
	"fintrack-backend/internal/middleware"
	"fintrack-backend/internal/pkg/response"
	"fintrack-backend/internal/snapshot"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Handlers bundles ledger endpoints.
type Handlers struct {
	Snapshots *snapshot.Service
}

type recordRequest struct {
	AccountID string          `json:"accountId"`
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      string          `json:"type"`
	Category  string          `json:"category"`
	Note      string          `json:"note"`
}

// Record POST /api/v1/transactions/record: append a transaction and adjust
// the owning account's balance in one step. An invalid transaction is
// rejected whole; the ledger is never partially applied.
func (h *Handlers) Record(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	kind := domain.TransactionType(req.Kind)
	if kind != domain.TransactionIncome && kind != domain.TransactionExpense {
		return response.Error(c, "type must be income or expense", fiber.StatusBadRequest, nil)
	}
	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	tx := domain.Transaction{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		AccountID: req.AccountID,
		Date:      date,
		Amount:    req.Amount,
		Kind:      kind,
		Category:  req.Category,
		Note:      req.Note,
	}

	snap, err := h.Snapshots.Mutate(c.Context(), user.ID, func(s *domain.Snapshot) error {
		accounts, transactions, err := Record(s.Accounts, s.Transactions, tx)
		if err != nil {
			return err
		}
		s.Accounts = accounts
		s.Transactions = transactions
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNonPositiveAmount), errors.Is(err, ErrUnknownAccount):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	return response.SuccessCreated(c, "Transaction recorded", fiber.Map{
		"transaction":  tx,
		"accounts":     snap.Accounts,
		"transactions": snap.Transactions,
	})
}

type createAccountRequest struct {
	Name     string          `json:"name"`
	Kind     string          `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// CreateAccount POST /api/v1/accounts: add a user-defined account. Type
// defaults to bank and currency to TWD; the opening balance may be any value
// (credit cards start negative).
func (h *Handlers) CreateAccount(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req createAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if req.Kind == "" {
		req.Kind = string(domain.AccountBank)
	}
	if req.Currency == "" {
		req.Currency = "TWD"
	}

	acct := domain.Account{
		ID:       uuid.New().String(),
		UserID:   user.ID,
		Name:     req.Name,
		Kind:     domain.AccountKind(req.Kind),
		Balance:  req.Balance,
		Currency: req.Currency,
	}

	snap, err := h.Snapshots.Mutate(c.Context(), user.ID, func(s *domain.Snapshot) error {
		accounts, err := AddAccount(s.Accounts, acct)
		if err != nil {
			return err
		}
		s.Accounts = accounts
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountNameRequired), errors.Is(err, ErrInvalidAccountKind):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	return response.SuccessCreated(c, "Account created", fiber.Map{
		"account":  acct,
		"accounts": snap.Accounts,
	})
}

// RemoveAccount DELETE /api/v1/accounts/:id: drop an account. Its recorded
// transactions stay in the ledger.
func (h *Handlers) RemoveAccount(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	id := c.Params("id")

	snap, err := h.Snapshots.Mutate(c.Context(), user.ID, func(s *domain.Snapshot) error {
		accounts, err := DeleteAccount(s.Accounts, id)
		if err != nil {
			return err
		}
		s.Accounts = accounts
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUnknownAccount) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	return response.Success(c, "Account deleted", fiber.Map{
		"accounts":     snap.Accounts,
		"transactions": snap.Transactions,
	})
}
