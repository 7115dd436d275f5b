package analysis

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/cryptopulse/internal/domain/errs"
	"github.com/guttosm/cryptopulse/internal/domain/models"
)

func pt(t *testing.T, symbol, price string, ts time.Time) models.PricePoint {
	t.Helper()
	d, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("bad price %q: %v", price, err)
	}
	return models.PricePoint{Timestamp: ts, Symbol: symbol, Price: d}
}

func TestComputeStats_TableDriven(t *testing.T) {
	t1 := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t1.Add(2 * time.Hour)

	cases := []struct {
		name       string
		symbol     string
		points     func(t *testing.T) []models.PricePoint
		wantErr    bool
		wantOldest string
		wantNewest string
		wantMin    string
		wantMax    string
		wantRange  string
	}{
		{
			name:   "btc three points",
			symbol: "BTC",
			points: func(t *testing.T) []models.PricePoint {
				return []models.PricePoint{
					pt(t, "BTC", "40000", t1),
					pt(t, "BTC", "42000", t2),
					pt(t, "BTC", "38000", t3),
				}
			},
			wantOldest: "40000",
			wantNewest: "38000",
			wantMin:    "38000",
			wantMax:    "42000",
			// (42000-38000)/38000 = 0.105263... rounds half-up to 0.1053
			wantRange: "0.1053",
		},
		{
			name:   "single point has zero range",
			symbol: "ETH",
			points: func(t *testing.T) []models.PricePoint {
				return []models.PricePoint{pt(t, "ETH", "3000.5", t1)}
			},
			wantOldest: "3000.5",
			wantNewest: "3000.5",
			wantMin:    "3000.5",
			wantMax:    "3000.5",
			wantRange:  "0",
		},
		{
			name:   "half up at fifth digit",
			symbol: "XRP",
			points: func(t *testing.T) []models.PricePoint {
				// (max-min)/min = 0.5/8 = 0.0625 exactly; and 1/16000 cases round
				return []models.PricePoint{
					pt(t, "XRP", "8", t1),
					pt(t, "XRP", "8.5", t2),
				}
			},
			wantOldest: "8",
			wantNewest: "8.5",
			wantMin:    "8",
			wantMax:    "8.5",
			wantRange:  "0.0625",
		},
		{
			name:    "empty set",
			symbol:  "BTC",
			points:  func(t *testing.T) []models.PricePoint { return nil },
			wantErr: true,
		},
		{
			name:   "symbol mismatch",
			symbol: "BTC",
			points: func(t *testing.T) []models.PricePoint {
				return []models.PricePoint{
					pt(t, "BTC", "40000", t1),
					pt(t, "ETH", "3000", t2),
				}
			},
			wantErr: true,
		},
		{
			name:   "zero min price",
			symbol: "BTC",
			points: func(t *testing.T) []models.PricePoint {
				return []models.PricePoint{
					pt(t, "BTC", "0", t1),
					pt(t, "BTC", "40000", t2),
				}
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stats, err := ComputeStats(tc.symbol, tc.points(t))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", stats)
				}
				var invalid *errs.InvalidInputError
				if !errors.As(err, &invalid) {
					t.Fatalf("expected InvalidInputError, got %T: %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			check := func(field, got, want string) {
				gd, _ := decimal.NewFromString(got)
				wd, _ := decimal.NewFromString(want)
				if !gd.Equal(wd) {
					t.Fatalf("%s: got %s want %s", field, got, want)
				}
			}
			check("oldest", stats.OldestPrice.String(), tc.wantOldest)
			check("newest", stats.NewestPrice.String(), tc.wantNewest)
			check("min", stats.MinPrice.String(), tc.wantMin)
			check("max", stats.MaxPrice.String(), tc.wantMax)
			check("range", stats.NormalizedRange.String(), tc.wantRange)
		})
	}
}

// TestComputeStats_Invariants checks min <= oldest/newest <= max and the
// normalized-range formula over a handful of generated series.
func TestComputeStats_Invariants(t *testing.T) {
	base := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	series := [][]string{
		{"1", "2", "3", "4", "5"},
		{"100.5", "99.9", "101.2", "100.0"},
		{"0.0001", "0.0003", "0.0002"},
		{"50000", "50000", "50000"},
	}

	for _, prices := range series {
		points := make([]models.PricePoint, 0, len(prices))
		for i, p := range prices {
			points = append(points, pt(t, "BTC", p, base.Add(time.Duration(i)*time.Minute)))
		}

		stats, err := ComputeStats("BTC", points)
		if err != nil {
			t.Fatalf("series %v: %v", prices, err)
		}

		if stats.MinPrice.GreaterThan(stats.OldestPrice) || stats.MinPrice.GreaterThan(stats.NewestPrice) {
			t.Fatalf("series %v: min above oldest/newest: %+v", prices, stats)
		}
		if stats.MaxPrice.LessThan(stats.OldestPrice) || stats.MaxPrice.LessThan(stats.NewestPrice) {
			t.Fatalf("series %v: max below oldest/newest: %+v", prices, stats)
		}

		want := stats.MaxPrice.Sub(stats.MinPrice).DivRound(stats.MinPrice, 4)
		if !stats.NormalizedRange.Equal(want) {
			t.Fatalf("series %v: range got %s want %s", prices, stats.NormalizedRange, want)
		}
	}
}

// TestComputeStats_TimestampTies pins the documented first-seen rule so the
// behavior cannot drift silently.
func TestComputeStats_TimestampTies(t *testing.T) {
	ts := time.Date(2022, 1, 1, 12, 0, 0, 0, time.UTC)
	points := []models.PricePoint{
		pt(t, "BTC", "41000", ts),
		pt(t, "BTC", "42000", ts), // same instant, later in input
	}

	stats, err := ComputeStats("BTC", points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.OldestPrice.String() != "41000" || stats.NewestPrice.String() != "41000" {
		t.Fatalf("tie-break changed: %+v", stats)
	}
}
