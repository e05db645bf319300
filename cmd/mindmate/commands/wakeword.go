// ABOUTME: Wakeword command shows or changes the user's wake word
// ABOUTME: Stored trimmed and lowercased
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWakeWordCmd creates the wakeword command
func NewWakeWordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wakeword [word]",
		Short: "Show or set the wake word",
		Long: `Show the wake word the assistant answers to, or set a new one.

Without an argument prints the current word (falling back to
MINDMATE_WAKE_WORD when none is stored for the user).`,
		Example: `  mindmate wakeword
  mindmate wakeword jarvis
  mindmate wakeword --user alice friday`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWakeWord,
	}
	return cmd
}

func runWakeWord(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	if len(args) == 1 {
		stored, err := a.store.SetWakeWord(ctx, userID, args[0])
		if err != nil {
			return fmt.Errorf("setting wake word: %w", err)
		}
		if jsonOutput() {
			return writeJSON(cmd.OutOrStdout(), map[string]string{"user_id": userID, "wake_word": stored})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wake word updated to '%s'\n", stored)
		return nil
	}

	word, err := a.store.GetWakeWord(ctx, userID)
	if err != nil {
		return fmt.Errorf("reading wake word: %w", err)
	}
	source := "stored"
	if word == "" {
		word = a.cfg.WakeWord
		source = "default"
	}

	if jsonOutput() {
		return writeJSON(cmd.OutOrStdout(), map[string]string{"user_id": userID, "wake_word": word, "source": source})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", word, source)
	return nil
}
