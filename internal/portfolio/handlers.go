package portfolio

import (
	"errors"
	"time"

	"fintrack-backend/internal/advisory"
	"fintrack-backend/internal/domain"
	"fintrack-backend/internal/middleware"
	"fintrack-backend/internal/pkg/response"
	"fintrack-backend/internal/snapshot"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// quotesUnavailableMessage is shown when the quote provider returned nothing
// usable. Holdings are left at their last known prices.
const quotesUnavailableMessage = "未取得任何報價"

// Handlers bundles investment endpoints.
type Handlers struct {
	Snapshots *snapshot.Service
	Advisor   *advisory.Client
}

// RefreshPrices POST /api/v1/investments/refresh-prices: fetch fresh quotes
// for every held symbol and fold them into the snapshot. A quote failure
// never corrupts holdings: either the new prices apply or nothing changes.
func (h *Handlers) RefreshPrices(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if !h.Advisor.Configured() {
		return response.Error(c, advisory.AdviceUnavailable, fiber.StatusServiceUnavailable, nil)
	}

	snap, err := h.Snapshots.Ensure(c.Context(), user.ID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	symbols := make([]string, 0, len(snap.Investments))
	for _, inv := range snap.Investments {
		symbols = append(symbols, inv.Symbol)
	}
	quotes, err := h.Advisor.GetQuotes(c.Context(), symbols)
	if err != nil {
		return response.Error(c, advisory.AdviceUnavailable, fiber.StatusServiceUnavailable, nil)
	}
	if len(quotes) == 0 {
		return response.Success(c, quotesUnavailableMessage, fiber.Map{
			"investments": snap.Investments,
			"summary":     Summarize(snap.Investments),
		})
	}

	now := time.Now()
	updated, err := h.Snapshots.Mutate(c.Context(), user.ID, func(s *domain.Snapshot) error {
		s.Investments = ApplyQuotes(s.Investments, quotes, now)
		return nil
	})
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	return response.Success(c, "Prices refreshed", fiber.Map{
		"investments": updated.Investments,
		"summary":     Summarize(updated.Investments),
	})
}

type createHoldingRequest struct {
	Symbol      string          `json:"symbol"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"averageCost"`
}

// CreateHolding POST /api/v1/investments: add a holding to the portfolio.
// The new position is valued at cost until the next quote refresh.
func (h *Handlers) CreateHolding(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req createHoldingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	holding := domain.Holding{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Symbol:      req.Symbol,
		Name:        req.Name,
		Quantity:    req.Quantity,
		AverageCost: req.AverageCost,
		LastUpdated: time.Now(),
	}

	var created domain.Holding
	snap, err := h.Snapshots.Mutate(c.Context(), user.ID, func(s *domain.Snapshot) error {
		holdings, err := AddHolding(s.Investments, holding)
		if err != nil {
			return err
		}
		s.Investments = holdings
		created = holdings[len(holdings)-1]
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSymbolRequired), errors.Is(err, ErrNonPositiveQuantity), errors.Is(err, ErrNegativeCost):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	return response.SuccessCreated(c, "Holding created", fiber.Map{
		"holding":     created,
		"investments": snap.Investments,
		"summary":     Summarize(snap.Investments),
	})
}

// RemoveHolding DELETE /api/v1/investments/:id: drop a holding from the
// portfolio.
func (h *Handlers) RemoveHolding(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	id := c.Params("id")

	snap, err := h.Snapshots.Mutate(c.Context(), user.ID, func(s *domain.Snapshot) error {
		holdings, err := DeleteHolding(s.Investments, id)
		if err != nil {
			return err
		}
		s.Investments = holdings
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUnknownHolding) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	return response.Success(c, "Holding deleted", fiber.Map{
		"investments": snap.Investments,
		"summary":     Summarize(snap.Investments),
	})
}

// Summary GET /api/v1/investments/summary: aggregate cost, value and PnL of
// current holdings. Computed on request, never persisted.
func (h *Handlers) Summary(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	snap, err := h.Snapshots.Ensure(c.Context(), user.ID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Portfolio summary", fiber.Map{
		"investments": snap.Investments,
		"summary":     Summarize(snap.Investments),
	})
}
