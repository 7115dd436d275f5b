package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint represents a single market observation for one symbol.
//
// Fields:
//  1. Timestamp: UTC instant of the quote.
//  2. Symbol: coin ticker, never blank.
//  3. Price: exact decimal monetary value, strictly positive after ingestion
//     validation.
//
// A PricePoint is a value type: it is created once when a parsed row is mapped
// and never mutated afterwards.
type PricePoint struct {
	Timestamp time.Time
	Symbol    string
	Price     decimal.Decimal
}
