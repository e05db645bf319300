// ABOUTME: Schedule command lists saved events for a day
// ABOUTME: Accepts the same day words the assistant understands
package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/mindmate/internal/core"
)

// NewScheduleCmd creates the schedule command
func NewScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule [day]",
		Short: "Show events for a day",
		Long: `Show the saved events for one day.

The day may be YYYY-MM-DD, today, tonight, tomorrow, yesterday or a
weekday name ("friday", "next monday"). Defaults to today.`,
		Example: `  mindmate schedule
  mindmate schedule tomorrow
  mindmate schedule 2026-10-24 --format json`,
		RunE: runSchedule,
	}
	return cmd
}

func runSchedule(cmd *cobra.Command, args []string) error {
	if err := validateFormat(); err != nil {
		return err
	}

	day := strings.TrimSpace(strings.Join(args, " "))
	if day == "" {
		day = "today"
	}
	query, ok := core.ResolveScheduleDate(day, time.Now())
	if !ok {
		return fmt.Errorf("unrecognized day %q", day)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.store.FetchScheduleForDate(cmd.Context(), userID, query.ISO())
	if err != nil {
		return fmt.Errorf("reading schedule: %w", err)
	}

	if jsonOutput() {
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
			"date":   query.ISO(),
			"events": entries,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), core.FormatSchedule(query, entries))
	return nil
}
