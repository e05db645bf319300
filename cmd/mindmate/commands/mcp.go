// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to talk to MindMate via stdio
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/mindmate/internal/mcp"
)

// NewMCPCmd creates the mcp command
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve MindMate tools to LLM agents over MCP",
		Long: `Serve MindMate as an MCP (Model Context Protocol) tool server on stdio.

An LLM agent host can then pass utterances through the wake-word gate
and dispatcher, dry-run the classifier, read a day's schedule or the
timeline, and change the wake word. Calls that name no user_id act
for --user.`,
		Example: `  mindmate mcp
  mindmate mcp --user alice --db ~/mindmate/alice.db

  # Agent host config:
  #   {"mcpServers": {"mindmate": {"command": "mindmate", "args": ["mcp"]}}}`,
		Args: cobra.NoArgs,
		RunE: runMCP,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcpserver.NewMCPServer("MindMate", versionInfo.Version, mcpserver.WithToolCapabilities(true))
	mcp.RegisterTools(server, a.store, a.dispatcher, userID)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("serving MCP tools on stdio",
		zap.String("user_id", userID),
		zap.String("db", a.cfg.DBPath),
		zap.Bool("model", a.model != nil))

	done := make(chan error, 1)
	go func() { done <- mcpserver.ServeStdio(server) }()

	select {
	case <-ctx.Done():
		a.logger.Info("MCP server interrupted")
		return nil
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	}
}
