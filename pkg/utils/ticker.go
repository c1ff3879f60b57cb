// Package utils provides small shared helpers: ticker normalization and
// time bucketing used by the cache and the correlation join.
package utils

import (
	"fmt"
	"strings"
)

// ErrInvalidTicker is returned when a ticker argument violates the
// expected symbol format. This is the only hard, caller-visible failure
// in the collection path; data-availability gaps resolve to empty values.
var ErrInvalidTicker = fmt.Errorf("invalid ticker symbol")

// NormalizeTicker uppercases and trims a ticker symbol.
// "aapl " → "AAPL".
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// ValidateTicker checks that a normalized ticker is 1-5 letters,
// optionally followed by a dot-separated class suffix ("BRK.B").
func ValidateTicker(ticker string) error {
	t := NormalizeTicker(ticker)
	if t == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTicker)
	}
	base, suffix, hasSuffix := strings.Cut(t, ".")
	if len(base) < 1 || len(base) > 5 || !isAlpha(base) {
		return fmt.Errorf("%w: %q", ErrInvalidTicker, ticker)
	}
	if hasSuffix && (len(suffix) < 1 || len(suffix) > 2 || !isAlpha(suffix)) {
		return fmt.Errorf("%w: %q", ErrInvalidTicker, ticker)
	}
	return nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
