// Package symbols provides the whitelist of tickers the API accepts.
package symbols

import (
	"os"
	"sort"
	"strings"
)

// Validator answers O(1) membership queries against an immutable set of
// supported tickers built once at startup. Immutability makes it safe for
// concurrent use without locking; the set is reloaded only by restarting
// the process.
type Validator struct {
	supported map[string]struct{}
}

// NewValidator builds a Validator from an explicit ticker list.
// Tickers are upper-cased and blanks are dropped.
func NewValidator(tickers []string) *Validator {
	set := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		if s := strings.ToUpper(strings.TrimSpace(t)); s != "" {
			set[s] = struct{}{}
		}
	}
	return &Validator{supported: set}
}

// DiscoverValidator builds a Validator by scanning dir for files named
// "<SYMBOL>_values<suffix>" (e.g., BTC_values.csv) and taking the symbol part
// of each match. When the directory is missing, unreadable, or yields no
// matches, the fallback list is used instead so the API still accepts a
// sensible set.
func DiscoverValidator(dir, suffix string, fallback []string) *Validator {
	marker := "_values" + suffix

	entries, err := os.ReadDir(dir)
	if err != nil {
		return NewValidator(fallback)
	}

	var found []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, marker) {
			found = append(found, strings.TrimSuffix(name, marker))
		}
	}

	if len(found) == 0 {
		return NewValidator(fallback)
	}
	return NewValidator(found)
}

// IsSupported reports whether the given ticker is in the whitelist.
func (v *Validator) IsSupported(symbol string) bool {
	_, ok := v.supported[symbol]
	return ok
}

// Supported returns a sorted copy of the whitelist.
func (v *Validator) Supported() []string {
	out := make([]string, 0, len(v.supported))
	for s := range v.supported {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
