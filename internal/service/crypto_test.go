package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/cryptopulse/internal/cache"
	"github.com/guttosm/cryptopulse/internal/domain/errs"
	"github.com/guttosm/cryptopulse/internal/domain/models"
	"github.com/guttosm/cryptopulse/internal/symbols"
)

// stubRepo serves canned points and counts calls so read-through caching can
// be asserted.
type stubRepo struct {
	bySymbol    map[string][]models.PricePoint
	windowed    []models.PricePoint
	symbolCalls int
	allSymCalls int
	windowCalls int
	err         error
}

func (s *stubRepo) BatchUpsert(context.Context, []models.PricePoint) (int64, error) {
	return 0, errors.New("not used")
}

func (s *stubRepo) FindAllForSymbol(_ context.Context, symbol string) ([]models.PricePoint, error) {
	s.symbolCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.bySymbol[symbol], nil
}

func (s *stubRepo) FindAllSymbols(context.Context) ([]string, error) {
	s.allSymCalls++
	if s.err != nil {
		return nil, s.err
	}
	var out []string
	for _, sym := range []string{"BTC", "DOGE", "ETH", "XRP"} {
		if _, ok := s.bySymbol[sym]; ok {
			out = append(out, sym)
		}
	}
	return out, nil
}

func (s *stubRepo) FindAllForSymbolInWindow(context.Context, string, time.Time, time.Time) ([]models.PricePoint, error) {
	return nil, errors.New("not used")
}

func (s *stubRepo) FindAllInWindow(context.Context, time.Time, time.Time) ([]models.PricePoint, error) {
	s.windowCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.windowed, nil
}

func point(t *testing.T, symbol, price string, ts time.Time) models.PricePoint {
	t.Helper()
	d, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("bad price %q: %v", price, err)
	}
	return models.PricePoint{Timestamp: ts, Symbol: symbol, Price: d}
}

func series(t *testing.T, symbol string, prices ...string) []models.PricePoint {
	t.Helper()
	base := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.PricePoint, 0, len(prices))
	for i, p := range prices {
		out = append(out, point(t, symbol, p, base.Add(time.Duration(i)*time.Hour)))
	}
	return out
}

func newTestService(t *testing.T, repo *stubRepo) (CryptoService, *cache.StatsCache) {
	t.Helper()
	c := cache.NewStatsCache()
	v := symbols.NewValidator([]string{"BTC", "ETH", "DOGE", "XRP"})
	return NewCryptoService(repo, v, c), c
}

func TestGetStats_UnsupportedSymbol(t *testing.T) {
	svc, _ := newTestService(t, &stubRepo{})

	_, err := svc.GetStats(context.Background(), "SHIB")
	var unsupported *errs.UnsupportedSymbolError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedSymbolError, got %T: %v", err, err)
	}
	if unsupported.Symbol != "SHIB" {
		t.Fatalf("symbol not carried: %+v", unsupported)
	}
}

func TestGetStats_NoData(t *testing.T) {
	svc, _ := newTestService(t, &stubRepo{bySymbol: map[string][]models.PricePoint{}})

	_, err := svc.GetStats(context.Background(), "BTC")
	var notFound *errs.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}

func TestGetStats_ReadThroughCache(t *testing.T) {
	repo := &stubRepo{bySymbol: map[string][]models.PricePoint{
		"BTC": series(t, "BTC", "40000", "42000", "38000"),
	}}
	svc, c := newTestService(t, repo)

	first, err := svc.GetStats(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if repo.symbolCalls != 1 {
		t.Fatalf("first call hit storage %d times", repo.symbolCalls)
	}

	// Second call is served from cache.
	second, err := svc.GetStats(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if repo.symbolCalls != 1 {
		t.Fatalf("cached call hit storage again (%d calls)", repo.symbolCalls)
	}
	if !first.NormalizedRange.Equal(second.NormalizedRange) {
		t.Fatalf("cache returned different stats: %+v vs %+v", first, second)
	}

	// Invalidation forces a recompute on the next call.
	c.InvalidateAll()
	if _, err := svc.GetStats(context.Background(), "BTC"); err != nil {
		t.Fatalf("post-invalidation call: %v", err)
	}
	if repo.symbolCalls != 2 {
		t.Fatalf("invalidation did not force recompute (%d calls)", repo.symbolCalls)
	}
}

func TestGetStats_RepoErrorPropagates(t *testing.T) {
	repo := &stubRepo{err: errors.New("db down")}
	svc, _ := newTestService(t, repo)

	if _, err := svc.GetStats(context.Background(), "BTC"); err == nil {
		t.Fatalf("expected storage error to propagate")
	}
}

func TestGetAllSortedStats_DescendingByRange(t *testing.T) {
	repo := &stubRepo{bySymbol: map[string][]models.PricePoint{
		"BTC":  series(t, "BTC", "100", "110"),  // range 0.1
		"ETH":  series(t, "ETH", "100", "150"),  // range 0.5
		"DOGE": series(t, "DOGE", "100", "102"), // range 0.02
	}}
	svc, _ := newTestService(t, repo)

	ranking, err := svc.GetAllSortedStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"ETH", "BTC", "DOGE"}
	if len(ranking) != len(want) {
		t.Fatalf("ranking: %+v", ranking)
	}
	for i, sym := range want {
		if ranking[i].Symbol != sym {
			t.Fatalf("position %d: got %s want %s (full: %+v)", i, ranking[i].Symbol, sym, ranking)
		}
	}
	for i := 1; i < len(ranking); i++ {
		if ranking[i].NormalizedRange.GreaterThan(ranking[i-1].NormalizedRange) {
			t.Fatalf("ranking not descending at %d", i)
		}
	}
}

func TestGetAllSortedStats_TiesKeepSymbolOrder(t *testing.T) {
	// Identical series produce identical ranges; the stable sort keeps the
	// alphabetical fetch order.
	repo := &stubRepo{bySymbol: map[string][]models.PricePoint{
		"XRP": series(t, "XRP", "10", "11"),
		"BTC": series(t, "BTC", "10", "11"),
	}}
	svc, _ := newTestService(t, repo)

	ranking, err := svc.GetAllSortedStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranking) != 2 || ranking[0].Symbol != "BTC" || ranking[1].Symbol != "XRP" {
		t.Fatalf("tie order changed: %+v", ranking)
	}
}

func TestGetAllSortedStats_CachedAsOneEntry(t *testing.T) {
	repo := &stubRepo{bySymbol: map[string][]models.PricePoint{
		"BTC": series(t, "BTC", "100", "110"),
	}}
	svc, c := newTestService(t, repo)

	if _, err := svc.GetAllSortedStats(context.Background()); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := svc.GetAllSortedStats(context.Background()); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if repo.allSymCalls != 1 {
		t.Fatalf("cached ranking recomputed (%d symbol listings)", repo.allSymCalls)
	}

	c.InvalidateAll()
	if _, err := svc.GetAllSortedStats(context.Background()); err != nil {
		t.Fatalf("post-invalidation call: %v", err)
	}
	if repo.allSymCalls != 2 {
		t.Fatalf("invalidation did not force recompute")
	}
}

func TestGetAllSortedStats_EmptyStorage(t *testing.T) {
	repo := &stubRepo{bySymbol: map[string][]models.PricePoint{}}
	svc, _ := newTestService(t, repo)

	ranking, err := svc.GetAllSortedStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranking) != 0 {
		t.Fatalf("ranking: %+v", ranking)
	}
}

func TestGetHighestRangeForDate(t *testing.T) {
	day := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &stubRepo{windowed: []models.PricePoint{
		point(t, "BTC", "100", day.Add(time.Hour)),
		point(t, "BTC", "110", day.Add(2*time.Hour)),
		point(t, "ETH", "100", day.Add(time.Hour)),
		point(t, "ETH", "150", day.Add(2*time.Hour)),
	}}
	svc, _ := newTestService(t, repo)

	best, err := svc.GetHighestRangeForDate(context.Background(), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.Symbol != "ETH" {
		t.Fatalf("winner: %+v", best)
	}
}

func TestGetHighestRangeForDate_TieGoesToFirstAlphabetically(t *testing.T) {
	day := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &stubRepo{windowed: []models.PricePoint{
		point(t, "XRP", "10", day.Add(time.Hour)),
		point(t, "XRP", "11", day.Add(2*time.Hour)),
		point(t, "BTC", "10", day.Add(time.Hour)),
		point(t, "BTC", "11", day.Add(2*time.Hour)),
	}}
	svc, _ := newTestService(t, repo)

	best, err := svc.GetHighestRangeForDate(context.Background(), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.Symbol != "BTC" {
		t.Fatalf("tie-break changed: %+v", best)
	}
}

func TestGetHighestRangeForDate_EmptyDay(t *testing.T) {
	repo := &stubRepo{}
	svc, _ := newTestService(t, repo)

	_, err := svc.GetHighestRangeForDate(context.Background(), time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
	var notFound *errs.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}

func TestGetHighestRangeForDate_NotCached(t *testing.T) {
	day := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &stubRepo{windowed: []models.PricePoint{
		point(t, "BTC", "100", day.Add(time.Hour)),
	}}
	svc, _ := newTestService(t, repo)

	for i := 0; i < 2; i++ {
		if _, err := svc.GetHighestRangeForDate(context.Background(), day); err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
	}
	if repo.windowCalls != 2 {
		t.Fatalf("date query must hit storage every time, got %d calls", repo.windowCalls)
	}
}
