package service

import (
	"context"
	"sort"
	"time"

	"github.com/guttosm/cryptopulse/internal/analysis"
	"github.com/guttosm/cryptopulse/internal/cache"
	"github.com/guttosm/cryptopulse/internal/domain/errs"
	"github.com/guttosm/cryptopulse/internal/domain/models"
	"github.com/guttosm/cryptopulse/internal/storage"
	"github.com/guttosm/cryptopulse/internal/symbols"
)

// CryptoService defines the query surface served to the HTTP layer.
type CryptoService interface {
	GetStats(ctx context.Context, symbol string) (models.CryptoStats, error)
	GetAllSortedStats(ctx context.Context) ([]models.CryptoStats, error)
	GetHighestRangeForDate(ctx context.Context, date time.Time) (models.CryptoStats, error)
}

type cryptoService struct {
	repo      storage.PricesRepository
	validator *symbols.Validator
	cache     *cache.StatsCache
}

// NewCryptoService wires the query service. The cache reference is shared
// with the ingestion pipeline, which clears it after every cycle.
func NewCryptoService(repo storage.PricesRepository, validator *symbols.Validator, c *cache.StatsCache) CryptoService {
	return &cryptoService{repo: repo, validator: validator, cache: c}
}

// GetStats returns statistics for a single symbol, read-through cached.
//
// Failure modes: *errs.UnsupportedSymbolError for a ticker outside the
// whitelist, *errs.NotFoundError for a whitelisted ticker with no stored data.
func (s *cryptoService) GetStats(ctx context.Context, symbol string) (models.CryptoStats, error) {
	if !s.validator.IsSupported(symbol) {
		return models.CryptoStats{}, &errs.UnsupportedSymbolError{Symbol: symbol}
	}

	if stats, ok := s.cache.GetStats(symbol); ok {
		return stats, nil
	}

	points, err := s.repo.FindAllForSymbol(ctx, symbol)
	if err != nil {
		return models.CryptoStats{}, err
	}
	if len(points) == 0 {
		return models.CryptoStats{}, errs.NewNotFound("no data found for symbol %s", symbol)
	}

	stats, err := analysis.ComputeStats(symbol, points)
	if err != nil {
		return models.CryptoStats{}, err
	}

	s.cache.SetStats(symbol, stats)
	return stats, nil
}

// GetAllSortedStats returns stats for every symbol present in storage,
// ordered by normalized range descending (most volatile first). The whole
// list is cached as one aggregate entry; ties keep their fetch order via a
// stable sort, and symbols are fetched in the deterministic order storage
// returns them.
func (s *cryptoService) GetAllSortedStats(ctx context.Context) ([]models.CryptoStats, error) {
	if ranking, ok := s.cache.GetRanking(); ok {
		return ranking, nil
	}

	syms, err := s.repo.FindAllSymbols(ctx)
	if err != nil {
		return nil, err
	}

	ranking := make([]models.CryptoStats, 0, len(syms))
	for _, sym := range syms {
		points, err := s.repo.FindAllForSymbol(ctx, sym)
		if err != nil {
			return nil, err
		}
		if len(points) == 0 {
			continue
		}
		stats, err := analysis.ComputeStats(sym, points)
		if err != nil {
			return nil, err
		}
		ranking = append(ranking, stats)
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].NormalizedRange.GreaterThan(ranking[j].NormalizedRange)
	})

	s.cache.SetRanking(ranking)
	return ranking, nil
}

// GetHighestRangeForDate returns the stats of the single most volatile symbol
// within the given UTC calendar day, considering only observations inside
// [start-of-day, end-of-day]. Not cached: the date key space is unbounded and
// correctness must not depend on a cache.
//
// Returns *errs.NotFoundError when no symbol has any data in the window.
func (s *cryptoService) GetHighestRangeForDate(ctx context.Context, date time.Time) (models.CryptoStats, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Nanosecond)

	points, err := s.repo.FindAllInWindow(ctx, start, end)
	if err != nil {
		return models.CryptoStats{}, err
	}
	if len(points) == 0 {
		return models.CryptoStats{}, errs.NewNotFound("no data found for date %s", start.Format("2006-01-02"))
	}

	grouped := make(map[string][]models.PricePoint)
	for _, p := range points {
		grouped[p.Symbol] = append(grouped[p.Symbol], p)
	}

	// Deterministic winner on equal ranges: evaluate symbols alphabetically,
	// keep the first maximum.
	syms := make([]string, 0, len(grouped))
	for sym := range grouped {
		syms = append(syms, sym)
	}
	sort.Strings(syms)

	var best models.CryptoStats
	haveBest := false
	for _, sym := range syms {
		stats, err := analysis.ComputeStats(sym, grouped[sym])
		if err != nil {
			return models.CryptoStats{}, err
		}
		if !haveBest || stats.NormalizedRange.GreaterThan(best.NormalizedRange) {
			best = stats
			haveBest = true
		}
	}

	return best, nil
}
