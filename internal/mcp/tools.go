// ABOUTME: MCP tool definitions and registration for the MindMate server
// ABOUTME: Exposes utterance handling, classification, schedule, wake word and timeline tools
package mcp

import (
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/mindmate/internal/core"
	"github.com/harper/mindmate/internal/storage/sqlite"
)

// RegisterTools registers all MCP tools with the server.
// userID is used whenever a call does not name a user.
func RegisterTools(server *mcpserver.MCPServer, store *sqlite.Storage, dispatcher *core.Dispatcher, userID string) *Handlers {
	handlers := &Handlers{
		storage:    store,
		dispatcher: dispatcher,
		userID:     userID,
		now:        time.Now,
	}

	userProp := map[string]interface{}{
		"type":        "string",
		"description": "User the call is for (defaults to the server's user)",
	}

	// 1. handle_utterance - the full gate, classify, dispatch pipeline
	server.AddTool(mcp.Tool{
		Name:        "handle_utterance",
		Description: "Process one thing the user said or typed. Applies the wake word, classifies intent and returns the dispatch decision, saving events when warranted.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Raw utterance text",
				},
				"user_id": userProp,
			},
			Required: []string{"text"},
		},
	}, handlers.HandleUtterance)

	// 2. classify_utterance - dry run with no side effects
	server.AddTool(mcp.Tool{
		Name:        "classify_utterance",
		Description: "Classify an utterance and report whether it wakes the assistant, without saving or answering anything.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Raw utterance text",
				},
				"wake_word": map[string]interface{}{
					"type":        "string",
					"description": "Wake word to test against (default: mindmate)",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.ClassifyUtterance)

	// 3. get_schedule - read events for a day
	server.AddTool(mcp.Tool{
		Name:        "get_schedule",
		Description: "List the user's events for a day. Accepts YYYY-MM-DD, today, tomorrow, yesterday or a weekday name.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Day to list (default: today)",
				},
				"user_id": userProp,
			},
		},
	}, handlers.GetSchedule)

	// 4. set_wake_word - change the phrase that addresses the assistant
	server.AddTool(mcp.Tool{
		Name:        "set_wake_word",
		Description: "Set the wake word the user addresses the assistant with. Stored lowercased.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"wake_word": map[string]interface{}{
					"type":        "string",
					"description": "New wake word",
				},
				"user_id": userProp,
			},
			Required: []string{"wake_word"},
		},
	}, handlers.SetWakeWord)

	// 5. get_timeline - merged events and memories
	server.AddTool(mcp.Tool{
		Name:        "get_timeline",
		Description: "Get the user's saved events and memories, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of items to return (default: 20)",
					"default":     20,
				},
				"user_id": userProp,
			},
		},
	}, handlers.GetTimeline)

	// 6. daily_summary - dashboard view of one day
	server.AddTool(mcp.Tool{
		Name:        "daily_summary",
		Description: "Summarize one day: event count, busiest category and an hour-by-hour list.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Day to summarize as YYYY-MM-DD (default: today)",
				},
				"user_id": userProp,
			},
		},
	}, handlers.DailySummary)

	return handlers
}
