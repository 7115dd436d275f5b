// Package analysis performs the core domain analytics on price time series.
//
// All arithmetic uses shopspring/decimal rather than binary floating point.
// Market data mixes very large and very small magnitudes; float rounding
// errors would compound in the normalized-range ratio and could change the
// relative ordering of symbols between runs. Fixed scale and half-up rounding
// keep results reproducible across runs and platforms.
package analysis

import (
	"github.com/guttosm/cryptopulse/internal/domain/errs"
	"github.com/guttosm/cryptopulse/internal/domain/models"
)

// normalizedRangeScale is the number of fractional digits kept in the
// normalized range, matching the precision exposed by the API.
const normalizedRangeScale = 4

// ComputeStats calculates summary statistics for a symbol over the provided points.
//
// The normalized range is (max - min) / min, a unit-less volatility proxy that
// allows comparing coins with different absolute prices. Division is performed
// at scale 4 with half-up rounding.
//
// Tie-break rule: when two points share an extremal timestamp, the first one
// seen in the input slice wins for both oldest and newest (strict comparisons
// while scanning). Callers must not rely on any other ordering of ties.
//
// Failure modes (all *errs.InvalidInputError):
//   - points is empty
//   - any point carries a symbol other than the one given
//   - the minimum price is zero, which would make the division undefined
//
// ComputeStats is pure: it performs no I/O and never mutates its input.
func ComputeStats(symbol string, points []models.PricePoint) (models.CryptoStats, error) {
	if len(points) == 0 {
		return models.CryptoStats{}, &errs.InvalidInputError{Msg: "empty point set"}
	}

	oldest := points[0]
	newest := points[0]
	minPrice := points[0].Price
	maxPrice := points[0].Price

	for i, p := range points {
		if p.Symbol != symbol {
			return models.CryptoStats{}, &errs.InvalidInputError{
				Msg: "symbol mismatch: expected " + symbol + " but found " + p.Symbol,
			}
		}
		if i == 0 {
			continue
		}
		if p.Timestamp.Before(oldest.Timestamp) {
			oldest = p
		}
		if p.Timestamp.After(newest.Timestamp) {
			newest = p
		}
		if p.Price.LessThan(minPrice) {
			minPrice = p.Price
		}
		if p.Price.GreaterThan(maxPrice) {
			maxPrice = p.Price
		}
	}

	if minPrice.IsZero() {
		return models.CryptoStats{}, &errs.InvalidInputError{
			Msg: "division by zero: minPrice is zero",
		}
	}

	// (max - min) / min, scale 4, half-up. DivRound rounds half away from
	// zero, which equals half-up for the non-negative ratio computed here.
	normalizedRange := maxPrice.Sub(minPrice).DivRound(minPrice, normalizedRangeScale)

	return models.CryptoStats{
		Symbol:          symbol,
		OldestPrice:     oldest.Price,
		NewestPrice:     newest.Price,
		MinPrice:        minPrice,
		MaxPrice:        maxPrice,
		NormalizedRange: normalizedRange,
	}, nil
}
