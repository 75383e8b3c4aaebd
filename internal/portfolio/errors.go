package portfolio

import "errors"

var (
	ErrSymbolRequired      = errors.New("holding symbol is required")
	ErrNonPositiveQuantity = errors.New("holding quantity must be greater than zero")
	ErrNegativeCost        = errors.New("average cost must not be negative")
	ErrUnknownHolding      = errors.New("unknown holding")
)
