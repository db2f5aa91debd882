package utils

import "time"

// FormatTimestamp renders t in ISO8601 (RFC3339) UTC, the format used by every API response.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
