// ABOUTME: Root command and global flags for the MindMate CLI
// ABOUTME: Wires every subcommand and the shared --verbose/--quiet/--format/--db/--user flags
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	dbPath       string
	userID       string
)

const banner = `
███╗   ███╗██╗███╗   ██╗██████╗ ███╗   ███╗ █████╗ ████████╗███████╗
████╗ ████║██║████╗  ██║██╔══██╗████╗ ████║██╔══██╗╚══██╔══╝██╔════╝
██╔████╔██║██║██╔██╗ ██║██║  ██║██╔████╔██║███████║   ██║   █████╗
██║╚██╔╝██║██║██║╚██╗██║██║  ██║██║╚██╔╝██║██╔══██║   ██║   ██╔══╝
██║ ╚═╝ ██║██║██║ ╚████║██████╔╝██║ ╚═╝ ██║██║  ██║   ██║   ███████╗
╚═╝     ╚═╝╚═╝╚═╝  ╚═══╝╚═════╝ ╚═╝     ╚═╝╚═╝  ╚═╝   ╚═╝   ╚══════╝`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mindmate",
		Short: "Always-listening personal assistant",
		Long: banner + `

MindMate listens to what you say or type, quietly notes events it
overhears, and answers when you address it by its wake word.

  "mindmate, what's on tomorrow?"    answered from your schedule
  "dentist at 9 on friday"           saved silently
  "suppose I skip the gym"           hypothetical, ignored

Configuration comes from the environment (or a .env file):
MINDMATE_DB_PATH, MINDMATE_WAKE_WORD, MINDMATE_ASSUMPTION_POLICY,
OPENAI_API_KEY, OPENAI_BASE_URL, TELEGRAM_BOT_TOKEN and friends.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose (debug) logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, text or json")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (overrides MINDMATE_DB_PATH)")
	cmd.PersistentFlags().StringVar(&userID, "user", defaultUserID, "User the command acts for")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewSayCmd(),
		NewClassifyCmd(),
		NewScheduleCmd(),
		NewWakeWordCmd(),
		NewTimelineCmd(),
		NewServeCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
