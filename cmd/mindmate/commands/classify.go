// ABOUTME: Classify command shows how an utterance would be understood
// ABOUTME: Dry run of the wake-word gate and intent classifier with no side effects
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/mindmate/internal/core"
)

var classifyWakeWord string

// NewClassifyCmd creates the classify command
func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <text>",
		Short: "Show the intent and wake state of an utterance",
		Long: `Classify an utterance without saving or answering anything.

Shows whether the wake word was spoken, the text left after removing it,
and the intent (retrieval, assumption, command or conversation_or_noise)
with the trigger that decided it.`,
		Example: `  mindmate classify "mindmate, what's my schedule tomorrow?"
  mindmate classify --wake-word jarvis "jarvis, suppose it rains"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().StringVar(&classifyWakeWord, "wake-word", "", "Wake word to test against (default: MINDMATE_WAKE_WORD)")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	if err := validateFormat(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lib, err := core.LoadPatternLibrary(cfg.PatternsFile)
	if err != nil {
		return err
	}

	wakeWord := classifyWakeWord
	if wakeWord == "" {
		wakeWord = cfg.WakeWord
	}

	text := strings.Join(args, " ")
	wake := core.ApplyWakeGate(text, wakeWord)
	result := core.NewClassifier(lib).Classify(wake.ProcessedText)

	if jsonOutput() {
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
			"wake":           wake,
			"classification": result,
			"sensitive":      core.IsSensitive(result, wake.ProcessedText),
		})
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Awake:\t%t\n", wake.IsAwake)
	fmt.Fprintf(w, "Text:\t%s\n", wake.ProcessedText)
	fmt.Fprintf(w, "Intent:\t%s\n", result.Intent)
	fmt.Fprintf(w, "Confidence:\t%s\n", result.Confidence)
	fmt.Fprintf(w, "Reason:\t%s\n", result.MatchedReason)
	fmt.Fprintf(w, "Sensitive:\t%t\n", core.IsSensitive(result, wake.ProcessedText))
	return w.Flush()
}
