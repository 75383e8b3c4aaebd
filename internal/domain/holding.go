package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a stock position. CurrentPrice starts equal to AverageCost and
// is updated only by the portfolio valuator from external quotes.
type Holding struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Symbol       string          `json:"symbol"` // e.g. "2330.TW", "AAPL"
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	AverageCost  decimal.Decimal `json:"averageCost"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	LastUpdated  time.Time       `json:"lastUpdated"`
}

// MarketValue is quantity * currentPrice.
func (h Holding) MarketValue() decimal.Decimal {
	return h.Quantity.Mul(h.CurrentPrice)
}

// CostBasis is quantity * averageCost.
func (h Holding) CostBasis() decimal.Decimal {
	return h.Quantity.Mul(h.AverageCost)
}

// UnrealizedPnL is quantity * (currentPrice - averageCost).
func (h Holding) UnrealizedPnL() decimal.Decimal {
	return h.Quantity.Mul(h.CurrentPrice.Sub(h.AverageCost))
}
