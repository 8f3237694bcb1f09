package repository

import "FlowShift/internal/domain/models"

// IsValidTimeframe returns true if tf is a supported chart timeframe.
func IsValidTimeframe(tf string) bool {
	for _, v := range models.Timeframes {
		if v == tf {
			return true
		}
	}
	return false
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() string { return "H1" }

// NormalizeTimeframe converts a raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) string {
	if IsValidTimeframe(s) {
		return s
	}
	return DefaultTimeframe()
}
