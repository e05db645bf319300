// ABOUTME: Timeline command lists saved events and memories, summarizes a day and exports
// ABOUTME: Export writes YAML or Markdown; file names default to a unique ID
package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harper/mindmate/internal/core"
)

var (
	timelineLimit int
	exportFormat  string
	exportOutput  string
)

// NewTimelineCmd creates the timeline command and its subcommands
func NewTimelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "List saved events and memories",
		Long: `List everything the assistant has saved for you, newest first.

Events are ordered by when they happen, memories by when they were heard.`,
		Example: `  mindmate timeline
  mindmate timeline --limit 5
  mindmate timeline summary
  mindmate timeline export --format markdown --output notes.md`,
		RunE: runTimeline,
	}

	cmd.Flags().IntVar(&timelineLimit, "limit", 20, "Maximum number of items")

	cmd.AddCommand(newTimelineSummaryCmd(), newTimelineExportCmd())
	return cmd
}

func runTimeline(cmd *cobra.Command, args []string) error {
	if err := validateFormat(); err != nil {
		return err
	}
	if err := validatePositiveInt(timelineLimit, "--limit"); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	items, err := a.store.Timeline(cmd.Context(), userID, timelineLimit)
	if err != nil {
		return fmt.Errorf("reading timeline: %w", err)
	}

	if jsonOutput() {
		return writeJSON(cmd.OutOrStdout(), items)
	}
	if len(items) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing saved yet")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "WHEN\tTYPE\tCATEGORY\tTITLE\n")
	fmt.Fprintf(w, "----\t----\t--------\t-----\n")
	for _, item := range items {
		when := item.StartTime
		if when == "" {
			when = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", when, item.Kind, item.Category, truncate(item.Title, 50))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d item(s)\n", len(items))
	}
	return nil
}

func newTimelineSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [YYYY-MM-DD]",
		Short: "Summarize one day",
		Long:  `Show the event count, busiest category and an hour-by-hour list for one day (default today).`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(); err != nil {
				return err
			}

			day := time.Now()
			if len(args) == 1 {
				parsed, err := time.ParseInLocation(core.ISODate, args[0], time.Local)
				if err != nil {
					return fmt.Errorf("day must be YYYY-MM-DD, got %q", args[0])
				}
				day = parsed
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.store.DailySummary(cmd.Context(), userID, day)
			if err != nil {
				return fmt.Errorf("summarizing day: %w", err)
			}

			if jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), summary)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d event(s), mostly %s\n", summary.Date, summary.EventCount, summary.TopCategory)
			if summary.Message != "" {
				fmt.Fprintln(out, summary.Message)
			}
			for _, line := range summary.Timeline {
				fmt.Fprintf(out, "  %s\n", line)
			}
			return nil
		},
	}
}

func newTimelineExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the timeline and chat history",
		Long:  `Export everything saved for the user to a YAML or Markdown file.`,
		Example: `  mindmate timeline export
  mindmate timeline export --format markdown --output ~/mindmate.md`,
		RunE: runTimelineExport,
	}

	cmd.Flags().StringVar(&exportFormat, "format", "yaml", "Export format: yaml or markdown")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: mindmate-export-<id>.<ext>)")

	return cmd
}

func runTimelineExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(exportFormat)
	var ext string
	switch format {
	case "yaml", "yml":
		ext = "yaml"
	case "markdown", "md":
		ext = "md"
	default:
		return fmt.Errorf("--format must be yaml or markdown, got %q", exportFormat)
	}

	output := exportOutput
	if output == "" {
		output = fmt.Sprintf("mindmate-export-%s.%s", uuid.New().String()[:8], ext)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	export := a.store.ExportToYAML
	if ext == "md" {
		export = a.store.ExportToMarkdown
	}
	if err := export(cmd.Context(), userID, output); err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	if !quiet {
		abs, _ := filepath.Abs(output)
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", abs)
	}
	return nil
}

