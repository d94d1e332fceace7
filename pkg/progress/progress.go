// Package progress provides reusable progress-reporting helpers.
package progress

import "fmt"

// Clamp limits processed to [0, total]. It reports false when total is
// non-positive and there is nothing to report.
func Clamp(processed, total int) (int, bool) {
	if total <= 0 {
		return 0, false
	}

	return min(max(processed, 0), total), true
}

// Emit calls cb with clamped processed/total values.
// It is a no-op when cb is nil or total is non-positive.
func Emit(cb func(processed, total int), processed, total int) {
	if cb == nil {
		return
	}

	processed, ok := Clamp(processed, total)
	if !ok {
		return
	}

	cb(processed, total)
}

// Fraction formats a position such as "3/12". It returns an empty string
// when total is non-positive.
func Fraction(processed, total int) string {
	processed, ok := Clamp(processed, total)
	if !ok {
		return ""
	}

	return fmt.Sprintf("%d/%d", processed, total)
}
