package app

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/guttosm/cryptopulse/internal/domain/models"
	"github.com/guttosm/cryptopulse/internal/ingestion"
)

type tickRepo struct{}

func (tickRepo) BatchUpsert(_ context.Context, points []models.PricePoint) (int64, error) {
	return int64(len(points)), nil
}
func (tickRepo) FindAllForSymbol(context.Context, string) ([]models.PricePoint, error) {
	return nil, nil
}
func (tickRepo) FindAllSymbols(context.Context) ([]string, error) { return nil, nil }
func (tickRepo) FindAllForSymbolInWindow(context.Context, string, time.Time, time.Time) ([]models.PricePoint, error) {
	return nil, nil
}
func (tickRepo) FindAllInWindow(context.Context, time.Time, time.Time) ([]models.PricePoint, error) {
	return nil, nil
}

type tickInvalidator struct{ n int64 }

func (t *tickInvalidator) InvalidateAll() { atomic.AddInt64(&t.n, 1) }

func TestStartScheduler_BadSpec(t *testing.T) {
	p := ingestion.NewPipeline(tickRepo{}, &tickInvalidator{}, t.TempDir(), ".csv", 10, 0)
	if _, err := StartScheduler("definitely not cron", p); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
}

func TestStartScheduler_RunsCycles(t *testing.T) {
	dir := t.TempDir()
	content := "timestamp,symbol,price\n1641009600000,BTC,100\n"
	if err := os.WriteFile(filepath.Join(dir, "BTC_values.csv"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	inv := &tickInvalidator{}
	p := ingestion.NewPipeline(tickRepo{}, inv, dir, ".csv", 10, 0)

	c, err := StartScheduler("@every 10ms", p)
	if err != nil {
		t.Fatalf("StartScheduler: %v", err)
	}
	defer c.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt64(&inv.n) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("no import cycle ran within the deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
