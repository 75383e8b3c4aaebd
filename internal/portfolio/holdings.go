package portfolio

import (
	"strings"

	"fintrack-backend/internal/domain"
)

// AddHolding validates and appends a new holding. The symbol is uppercased,
// the name defaults to the symbol, and currentPrice starts at averageCost
// until the first quote refresh. The input slice is never modified; on a
// validation error it is returned unchanged.
func AddHolding(holdings []domain.Holding, h domain.Holding) ([]domain.Holding, error) {
	if h.Symbol == "" {
		return holdings, ErrSymbolRequired
	}
	if !h.Quantity.IsPositive() {
		return holdings, ErrNonPositiveQuantity
	}
	if h.AverageCost.IsNegative() {
		return holdings, ErrNegativeCost
	}
	h.Symbol = strings.ToUpper(h.Symbol)
	if h.Name == "" {
		h.Name = h.Symbol
	}
	h.CurrentPrice = h.AverageCost

	out := append([]domain.Holding{}, holdings...)
	return append(out, h), nil
}

// DeleteHolding removes the holding with the given id.
func DeleteHolding(holdings []domain.Holding, id string) ([]domain.Holding, error) {
	out := make([]domain.Holding, 0, len(holdings))
	found := false
	for _, h := range holdings {
		if h.ID == id {
			found = true
			continue
		}
		out = append(out, h)
	}
	if !found {
		return holdings, ErrUnknownHolding
	}
	return out, nil
}
