// ABOUTME: Say command runs one utterance through the full assistant pipeline
// ABOUTME: Prints the reply, or the silent action taken
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewSayCmd creates the say command
func NewSayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "say <text>",
		Short: "Say something to the assistant",
		Long: `Say something as if spoken near the assistant.

The text goes through the wake-word gate, intent classification and
dispatch exactly as a voice utterance would. Events may be saved and
the exchange is added to the chat history when addressed by wake word.`,
		Example: `  mindmate say "mindmate, what's on tomorrow?"
  mindmate say "dentist at 9 on friday"
  mindmate say --user alice --format json "mindmate, remind me to call mom at 5pm"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSay,
	}
	return cmd
}

func runSay(cmd *cobra.Command, args []string) error {
	if err := validateFormat(); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	decision := a.dispatcher.HandleUtterance(cmd.Context(), userID, strings.Join(args, " "))

	if jsonOutput() {
		return writeJSON(cmd.OutOrStdout(), decision)
	}

	if !decision.IsSilent() {
		fmt.Fprintln(cmd.OutOrStdout(), decision.Response())
	} else if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "(no reply: %s)\n", decision.Action)
	}
	if decision.SavedEvent != nil && verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "saved event: %s\n", decision.SavedEvent.Title)
	}
	return nil
}
