// ABOUTME: MCP tool handler implementations for the MindMate server
// ABOUTME: Tool errors are returned as error results so the agent can read them
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/mindmate/internal/core"
	"github.com/harper/mindmate/internal/models"
	"github.com/harper/mindmate/internal/storage/sqlite"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	storage    *sqlite.Storage
	dispatcher *core.Dispatcher
	userID     string
	now        func() time.Time
}

// HandleUtterance handles the handle_utterance tool
func (h *Handlers) HandleUtterance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	decision := h.dispatcher.HandleUtterance(ctx, h.user(request), text)
	return jsonResult(decision)
}

// ClassifyUtterance handles the classify_utterance tool
func (h *Handlers) ClassifyUtterance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	wakeWord := request.GetString("wake_word", models.DefaultWakeWord)
	wake := core.ApplyWakeGate(text, wakeWord)

	return jsonResult(map[string]interface{}{
		"wake":           wake,
		"classification": h.dispatcher.Classifier().Classify(wake.ProcessedText),
	})
}

// GetSchedule handles the get_schedule tool
func (h *Handlers) GetSchedule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day := strings.TrimSpace(request.GetString("date", "today"))
	if day == "" {
		day = "today"
	}

	query, ok := core.ResolveScheduleDate(day, h.now())
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unrecognized date %q", day)), nil
	}

	entries, err := h.storage.FetchScheduleForDate(ctx, h.user(request), query.ISO())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("schedule lookup failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"date":    query.ISO(),
		"events":  entries,
		"summary": core.FormatSchedule(query, entries),
	})
}

// SetWakeWord handles the set_wake_word tool
func (h *Handlers) SetWakeWord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := request.RequireString("wake_word")
	if err != nil {
		return mcp.NewToolResultError("wake_word argument is required and must be a string"), nil
	}

	stored, err := h.storage.SetWakeWord(ctx, h.user(request), word)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set wake word: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"user_id":   h.user(request),
		"wake_word": stored,
	})
}

// GetTimeline handles the get_timeline tool
func (h *Handlers) GetTimeline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 20)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}

	items, err := h.storage.Timeline(ctx, h.user(request), limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("timeline failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// DailySummary handles the daily_summary tool
func (h *Handlers) DailySummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day := h.now()
	if raw := strings.TrimSpace(request.GetString("date", "")); raw != "" {
		parsed, err := time.ParseInLocation(core.ISODate, raw, day.Location())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("date must be YYYY-MM-DD, got %q", raw)), nil
		}
		day = parsed
	}

	summary, err := h.storage.DailySummary(ctx, h.user(request), day)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(summary)
}

// user returns the requested user or the server default
func (h *Handlers) user(request mcp.CallToolRequest) string {
	if id := strings.TrimSpace(request.GetString("user_id", "")); id != "" {
		return id
	}
	return h.userID
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
