package dto

import "github.com/guttosm/cryptopulse/internal/domain/models"

// CryptoStatsResponse represents the JSON structure returned by the
// stats endpoints.
//
// Prices are serialized as decimal strings to preserve exactness; clients
// must not round-trip them through binary floats.
type CryptoStatsResponse struct {
	Symbol          string `json:"symbol" example:"BTC"`                 // Ticker the stats belong to
	OldestPrice     string `json:"oldest_price" example:"46813.21"`      // Price at the earliest timestamp
	NewestPrice     string `json:"newest_price" example:"38415.79"`      // Price at the latest timestamp
	MinPrice        string `json:"min_price" example:"33276.59"`         // Minimum price in the series
	MaxPrice        string `json:"max_price" example:"47722.66"`         // Maximum price in the series
	NormalizedRange string `json:"normalized_range" example:"0.4341"`    // (max-min)/min, scale 4
}

// FromCryptoStats maps the domain aggregate into its API representation.
func FromCryptoStats(s models.CryptoStats) CryptoStatsResponse {
	return CryptoStatsResponse{
		Symbol:          s.Symbol,
		OldestPrice:     s.OldestPrice.String(),
		NewestPrice:     s.NewestPrice.String(),
		MinPrice:        s.MinPrice.String(),
		MaxPrice:        s.MaxPrice.String(),
		NormalizedRange: s.NormalizedRange.String(),
	}
}

// FromCryptoStatsList maps a slice of aggregates, preserving order.
func FromCryptoStatsList(list []models.CryptoStats) []CryptoStatsResponse {
	out := make([]CryptoStatsResponse, 0, len(list))
	for _, s := range list {
		out = append(out, FromCryptoStats(s))
	}
	return out
}
