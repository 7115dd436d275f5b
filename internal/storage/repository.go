package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/cryptopulse/internal/domain/models"
)

// PricesRepository defines the contract for price persistence.
//
// Uniqueness is enforced on (symbol, price_timestamp); BatchUpsert relies on
// it to make re-ingestion of overlapping files a safe no-op.
type PricesRepository interface {
	BatchUpsert(ctx context.Context, points []models.PricePoint) (int64, error)
	FindAllForSymbol(ctx context.Context, symbol string) ([]models.PricePoint, error)
	FindAllSymbols(ctx context.Context) ([]string, error)
	FindAllForSymbolInWindow(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error)
	FindAllInWindow(ctx context.Context, start, end time.Time) ([]models.PricePoint, error)
}

type pricesRepository struct {
	db *sql.DB
}

func NewPricesRepository(db *sql.DB) PricesRepository {
	return &pricesRepository{db: db}
}

// BatchUpsert inserts the given points in a single multi-row statement with
// ON CONFLICT (symbol, price_timestamp) DO NOTHING, so rows already present
// are silently skipped. Returns the number of newly applied rows.
//
// Partial application under a crash is acceptable: the idempotency key makes
// re-running the same file converge to the same stored set.
func (r *pricesRepository) BatchUpsert(ctx context.Context, points []models.PricePoint) (int64, error) {
	if len(points) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO crypto_prices (symbol, price, price_timestamp) VALUES `)

	args := make([]interface{}, 0, len(points)*3)
	for i, p := range points {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 3
		fmt.Fprintf(&sb, "($%d, $%d, $%d)", base+1, base+2, base+3)
		args = append(args, p.Symbol, p.Price, p.Timestamp.UTC())
	}
	sb.WriteString(` ON CONFLICT (symbol, price_timestamp) DO NOTHING`)

	res, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("batch upsert: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return inserted, nil
}

// FindAllForSymbol returns every stored point for the symbol, oldest first.
func (r *pricesRepository) FindAllForSymbol(ctx context.Context, symbol string) ([]models.PricePoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, price, price_timestamp
		FROM crypto_prices
		WHERE symbol = $1
		ORDER BY price_timestamp ASC
	`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query prices for %s: %w", symbol, err)
	}
	defer func() { _ = rows.Close() }()

	return scanPoints(rows)
}

// FindAllSymbols returns the distinct set of symbols present in storage,
// alphabetically ordered for deterministic downstream iteration.
func (r *pricesRepository) FindAllSymbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT symbol FROM crypto_prices ORDER BY symbol
	`)
	if err != nil {
		return nil, fmt.Errorf("query symbols: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FindAllForSymbolInWindow returns the symbol's points with a timestamp in
// [start, end], inclusive on both ends.
func (r *pricesRepository) FindAllForSymbolInWindow(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, price, price_timestamp
		FROM crypto_prices
		WHERE symbol = $1 AND price_timestamp BETWEEN $2 AND $3
		ORDER BY price_timestamp ASC
	`, symbol, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query window for %s: %w", symbol, err)
	}
	defer func() { _ = rows.Close() }()

	return scanPoints(rows)
}

// FindAllInWindow returns all points across symbols with a timestamp in
// [start, end], inclusive on both ends.
func (r *pricesRepository) FindAllInWindow(ctx context.Context, start, end time.Time) ([]models.PricePoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, price, price_timestamp
		FROM crypto_prices
		WHERE price_timestamp BETWEEN $1 AND $2
		ORDER BY symbol, price_timestamp ASC
	`, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query window: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanPoints(rows)
}

// scanPoints maps a (symbol, price, price_timestamp) result set into points.
// decimal.Decimal implements sql.Scanner, so numeric columns scan losslessly.
func scanPoints(rows *sql.Rows) ([]models.PricePoint, error) {
	var out []models.PricePoint
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Symbol, &p.Price, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		p.Timestamp = p.Timestamp.UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}
