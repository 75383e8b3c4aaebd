// Package portfolio owns price and valuation updates for stock holdings.
// Quotes come from the advisory client; this package never fetches them.
package portfolio

import (
	"time"

	"fintrack-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// ApplyQuotes replaces currentPrice and lastUpdated for every holding whose
// symbol appears in quotes. Holdings without a matching quote are returned
// unchanged; an empty quote map is a no-op and the caller decides whether
// that is worth a warning. The input slice is not modified.
func ApplyQuotes(holdings []domain.Holding, quotes map[string]decimal.Decimal, now time.Time) []domain.Holding {
	out := append([]domain.Holding{}, holdings...)
	for i := range out {
		price, ok := quotes[out[i].Symbol]
		if !ok {
			continue
		}
		out[i].CurrentPrice = price
		out[i].LastUpdated = now
	}
	return out
}

// Summary aggregates current holdings. Derived on demand, never persisted.
type Summary struct {
	TotalCost       decimal.Decimal `json:"totalCost"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	TotalPnL        decimal.Decimal `json:"totalPnL"`
	TotalPnLPercent decimal.Decimal `json:"totalPnLPercent"`
}

// Summarize recomputes the aggregate values from holdings. TotalPnLPercent is
// zero when TotalCost is zero.
func Summarize(holdings []domain.Holding) Summary {
	s := Summary{
		TotalCost:       decimal.Zero,
		TotalValue:      decimal.Zero,
		TotalPnL:        decimal.Zero,
		TotalPnLPercent: decimal.Zero,
	}
	for _, h := range holdings {
		s.TotalCost = s.TotalCost.Add(h.CostBasis())
		s.TotalValue = s.TotalValue.Add(h.MarketValue())
		s.TotalPnL = s.TotalPnL.Add(h.UnrealizedPnL())
	}
	if !s.TotalCost.IsZero() {
		s.TotalPnLPercent = s.TotalPnL.Div(s.TotalCost).Mul(decimal.NewFromInt(100))
	}
	return s
}
