package models

import "github.com/shopspring/decimal"

// CryptoStats is an immutable aggregate snapshot for exactly one symbol.
//
// Fields:
//   - Symbol: the ticker all points belong to (e.g., "BTC").
//   - OldestPrice: price of the observation with the minimum timestamp.
//   - NewestPrice: price of the observation with the maximum timestamp.
//   - MinPrice / MaxPrice: price extremes across the series.
//   - NormalizedRange: (max - min) / min rounded to 4 fractional digits
//     half-up; a scale-free volatility proxy used for ranking.
//
// Computed on demand by the analysis package and cached by the query service.
//
// swagger:model CryptoStats
type CryptoStats struct {
	Symbol          string          `json:"symbol" example:"BTC"`
	OldestPrice     decimal.Decimal `json:"oldest_price" example:"46813.21"`
	NewestPrice     decimal.Decimal `json:"newest_price" example:"38415.79"`
	MinPrice        decimal.Decimal `json:"min_price" example:"33276.59"`
	MaxPrice        decimal.Decimal `json:"max_price" example:"47722.66"`
	NormalizedRange decimal.Decimal `json:"normalized_range" example:"0.4341"`
}
