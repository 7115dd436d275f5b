package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/cryptopulse/internal/domain/errs"
	"github.com/guttosm/cryptopulse/internal/domain/models"
	"github.com/guttosm/cryptopulse/internal/logger"
	"github.com/guttosm/cryptopulse/internal/storage"
)

// requiredColumns are the header names every input file must carry.
// Column order is free; indices are resolved from the header row.
var requiredColumns = []string{"timestamp", "symbol", "price"}

// fileReport carries the per-file counters logged on completion.
type fileReport struct {
	Total    int   // rows seen after the header
	Inserted int64 // rows newly applied by the batched upsert
	Skipped  int   // rows dropped by validation
}

// columnIndex maps required column names to their position in the header.
type columnIndex struct {
	timestamp int
	symbol    int
	price     int
}

// processFile opens, parses, and persists one delimited input file in batches.
//
// It fails (returning an error for the whole file) only on:
//   - open/read I/O errors
//   - a missing or unusable header row
//   - a failed storage flush
//
// Row-level problems never abort the file: a row that is structurally
// malformed, carries a non-numeric timestamp or price, a blank symbol, or a
// non-positive price is skipped, counted and logged at warn level.
//
// Valid rows accumulate into batches of batchSize and are flushed through the
// idempotent upsert; the remaining partial batch is flushed at EOF.
func processFile(ctx context.Context, path string, repo storage.PricesRepository, batchSize int) (fileReport, error) {
	var rep fileReport

	f, err := os.Open(path)
	if err != nil {
		return rep, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // row width checked per row so bad rows skip, not abort
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return rep, fmt.Errorf("read header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return rep, fmt.Errorf("header: %w", err)
	}

	buf := make([]models.PricePoint, 0, batchSize)
	line := 1 // header already read

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		n, err := repo.BatchUpsert(ctx, buf)
		if err != nil {
			return err
		}
		rep.Inserted += n
		buf = buf[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return rep, ctx.Err()
		default:
		}

		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return rep, fmt.Errorf("read line after %d: %w", line, err)
		}
		line++
		rep.Total++

		p, err := recordToPricePoint(rec, cols)
		if err != nil {
			rep.Skipped++
			logger.L().Warn().Str("file", path).Int("line", line).Err(err).Msg("skipping damaged row")
			continue
		}

		buf = append(buf, p)
		if len(buf) >= batchSize {
			if err := flush(); err != nil {
				return rep, fmt.Errorf("flush batch ending line %d: %w", line, err)
			}
		}
	}

	// Final partial batch
	if err := flush(); err != nil {
		return rep, fmt.Errorf("final flush: %w", err)
	}

	return rep, nil
}

// resolveColumns locates the required columns in the header row,
// case-insensitively. Extra columns are ignored.
func resolveColumns(header []string) (columnIndex, error) {
	idx := columnIndex{timestamp: -1, symbol: -1, price: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "timestamp":
			idx.timestamp = i
		case "symbol":
			idx.symbol = i
		case "price":
			idx.price = i
		}
	}
	if idx.timestamp < 0 || idx.symbol < 0 || idx.price < 0 {
		return idx, fmt.Errorf("missing required columns %v in %v", requiredColumns, header)
	}
	return idx, nil
}

// recordToPricePoint validates and maps one CSV record into a PricePoint.
//
// Rules:
//   - the record must be wide enough to hold all resolved columns
//   - timestamp: integer epoch milliseconds, UTC
//   - symbol: non-blank, upper-cased
//   - price: decimal string, strictly positive (zero and negative prices are
//     rejected here so the normalized-range division downstream is always
//     well-defined)
func recordToPricePoint(rec []string, cols columnIndex) (models.PricePoint, error) {
	var p models.PricePoint

	width := max(cols.timestamp, max(cols.symbol, cols.price)) + 1
	if len(rec) < width {
		return p, errs.NewValidation("expected at least %d columns, got %d", width, len(rec))
	}

	ms, err := strconv.ParseInt(strings.TrimSpace(rec[cols.timestamp]), 10, 64)
	if err != nil {
		return p, errs.NewValidation("invalid timestamp %q", rec[cols.timestamp])
	}

	symbol := strings.ToUpper(strings.TrimSpace(rec[cols.symbol]))
	if symbol == "" {
		return p, errs.NewValidation("blank symbol")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(rec[cols.price]))
	if err != nil {
		return p, errs.NewValidation("invalid price %q", rec[cols.price])
	}
	if !price.IsPositive() {
		return p, errs.NewValidation("price must be positive, got %s", price)
	}

	p.Timestamp = time.UnixMilli(ms).UTC()
	p.Symbol = symbol
	p.Price = price
	return p, nil
}
