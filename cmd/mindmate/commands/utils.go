// ABOUTME: Shared output helpers for CLI commands
// ABOUTME: JSON vs text selection, truncation and argument validation
package commands

import (
	"encoding/json"
	"fmt"
	"io"
)

// jsonOutput reports whether the user asked for JSON
func jsonOutput() bool {
	return outputFormat == "json"
}

// validateFormat rejects unknown --format values
func validateFormat() error {
	switch outputFormat {
	case "auto", "text", "json":
		return nil
	}
	return fmt.Errorf("--format must be auto, text or json, got %q", outputFormat)
}

// writeJSON pretty-prints v
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
