// Package errs defines the typed error taxonomy shared across the service.
//
// The types map one-to-one onto how failures are handled:
//
//   - ValidationError: malformed row/price/timestamp; recoverable, the row is
//     skipped and counted by the ingestion pipeline.
//   - DirectoryError: missing/unreadable input directory; fatal to a cycle,
//     never to the process.
//   - UnsupportedSymbolError: query for a ticker outside the whitelist (4xx).
//   - NotFoundError: query for a whitelisted ticker (or date) with no data (4xx).
//   - InvalidInputError: analysis invariant violation; should not occur given
//     upstream validation.
//   - RateLimitError: client-facing throttling signal (429).
package errs

import "fmt"

// ValidationError marks a malformed input row. Rows failing validation are
// skipped and counted, never propagated to the caller of a cycle.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid row: " + e.Reason
}

// NewValidation builds a ValidationError with a formatted reason.
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// DirectoryError marks an unusable input directory. It aborts the current
// import cycle without touching storage or caches.
type DirectoryError struct {
	Dir string
	Err error
}

func (e *DirectoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import directory %s: %v", e.Dir, e.Err)
	}
	return "import directory " + e.Dir + ": unusable"
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// UnsupportedSymbolError marks a query for a ticker outside the whitelist.
type UnsupportedSymbolError struct {
	Symbol string
}

func (e *UnsupportedSymbolError) Error() string {
	return "symbol " + e.Symbol + " is not supported"
}

// NotFoundError marks a query with no matching data in storage.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// NewNotFound builds a NotFoundError with a formatted message.
func NewNotFound(format string, args ...any) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidInputError marks an analysis precondition violation, such as an
// empty point set or a symbol mismatch.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string { return e.Msg }

// RateLimitError marks a rejected request from a throttled client.
type RateLimitError struct {
	Client string
}

func (e *RateLimitError) Error() string {
	return "rate limit exceeded"
}
