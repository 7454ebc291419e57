package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/slrkit/sjrmatch/internal/matcher"
)

// quartileDisplayOrder fixes the reporting order of the count breakdown.
var quartileDisplayOrder = []string{"Q1", "Q2", "Q3", "Q4", matcher.Unmatched}

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON)
// and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// printQuartileCounts prints the count breakdown in fixed order. The
// unmatched bucket is shown only when the run produced one.
func printQuartileCounts(counts map[string]int) {
	for _, k := range quartileDisplayOrder {
		if k == matcher.Unmatched {
			if _, ok := counts[k]; !ok {
				continue
			}
		}
		fmt.Printf("  %s: %d\n", k, counts[k])
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
