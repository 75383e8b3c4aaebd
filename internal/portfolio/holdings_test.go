package portfolio

import (
	"testing"
	"time"

	"fintrack-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddHolding_SeedsPriceAtCost(t *testing.T) {
	seed := domain.SeedSnapshot("u1", time.Now())

	out, err := AddHolding(seed.Investments, domain.Holding{
		ID:          "s9",
		UserID:      "u1",
		Symbol:      "nvda",
		Quantity:    decimal.NewFromInt(5),
		AverageCost: decimal.NewFromInt(900),
	})
	require.NoError(t, err)
	require.Len(t, out, 4)
	added := out[3]
	assert.Equal(t, "NVDA", added.Symbol, "symbol is uppercased")
	assert.Equal(t, "NVDA", added.Name, "name defaults to the symbol")
	assert.True(t, added.CurrentPrice.Equal(decimal.NewFromInt(900)), "valued at cost until the first refresh")
	assert.Len(t, seed.Investments, 3, "input slice untouched")
}

func TestAddHolding_SymbolRequired(t *testing.T) {
	_, err := AddHolding(nil, domain.Holding{Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrSymbolRequired)
}

func TestAddHolding_NonPositiveQuantity(t *testing.T) {
	_, err := AddHolding(nil, domain.Holding{Symbol: "AAPL"})
	assert.ErrorIs(t, err, ErrNonPositiveQuantity)

	_, err = AddHolding(nil, domain.Holding{Symbol: "AAPL", Quantity: decimal.NewFromInt(-3)})
	assert.ErrorIs(t, err, ErrNonPositiveQuantity)
}

func TestAddHolding_NegativeCost(t *testing.T) {
	_, err := AddHolding(nil, domain.Holding{Symbol: "AAPL", Quantity: decimal.NewFromInt(1), AverageCost: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrNegativeCost)
}

func TestDeleteHolding_RemovesOnlyTarget(t *testing.T) {
	seed := domain.SeedSnapshot("u1", time.Now())

	out, err := DeleteHolding(seed.Investments, "s2")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "2330.TW", out[0].Symbol)
	assert.Equal(t, "AAPL", out[1].Symbol)
}

func TestDeleteHolding_Unknown(t *testing.T) {
	seed := domain.SeedSnapshot("u1", time.Now())
	_, err := DeleteHolding(seed.Investments, "nope")
	assert.ErrorIs(t, err, ErrUnknownHolding)
}
