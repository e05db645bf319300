// ABOUTME: Export functionality for a user's timeline
// ABOUTME: Supports YAML and Markdown export formats
package sqlite

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harper/mindmate/internal/models"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version    string                `yaml:"version" json:"version"`
	ExportedAt string                `yaml:"exported_at" json:"exported_at"`
	Tool       string                `yaml:"tool" json:"tool"`
	UserID     string                `yaml:"user_id" json:"user_id"`
	WakeWord   string                `yaml:"wake_word,omitempty" json:"wake_word,omitempty"`
	Timeline   []models.TimelineItem `yaml:"timeline" json:"timeline"`
	Chat       []ExportMessage       `yaml:"chat,omitempty" json:"chat,omitempty"`
}

// ExportMessage represents a chat message for export
type ExportMessage struct {
	Sender    string `yaml:"sender" json:"sender"`
	Text      string `yaml:"text" json:"text"`
	Timestamp string `yaml:"timestamp" json:"timestamp"`
}

// Export gathers everything stored for one user
func (s *Storage) Export(ctx context.Context, userID string) (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "mindmate",
		UserID:     userID,
	}

	wake, err := s.users.GetWakeWord(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wake word: %w", err)
	}
	data.WakeWord = wake

	timeline, err := s.Timeline(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to build timeline: %w", err)
	}
	data.Timeline = timeline

	history, err := s.chat.History(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}
	for _, m := range history {
		data.Chat = append(data.Chat, ExportMessage{
			Sender:    m.Sender,
			Text:      m.Text,
			Timestamp: m.CreatedAt.Format(time.RFC3339),
		})
	}

	return data, nil
}

// WriteYAML encodes export data as YAML
func WriteYAML(w io.Writer, data *ExportData) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// WriteMarkdown renders export data as a Markdown document
func WriteMarkdown(w io.Writer, data *ExportData) error {
	_, _ = fmt.Fprintf(w, "# MindMate Export - %s\n\n", data.UserID)
	_, _ = fmt.Fprintf(w, "Generated: %s\n\n", data.ExportedAt)
	if data.WakeWord != "" {
		_, _ = fmt.Fprintf(w, "- **Wake word:** %s\n\n", data.WakeWord)
	}

	_, _ = fmt.Fprintln(w, "## Timeline")
	_, _ = fmt.Fprintln(w)
	if len(data.Timeline) == 0 {
		_, _ = fmt.Fprintln(w, "_Nothing recorded yet._")
	}
	for _, item := range data.Timeline {
		when := item.StartTime
		if when == "" {
			when = "unscheduled"
		}
		_, _ = fmt.Fprintf(w, "- `%s` **%s** %s", when, item.Kind, item.Title)
		if item.Category != "" {
			_, _ = fmt.Fprintf(w, " (%s)", item.Category)
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(data.Chat) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "## Chat")
		_, _ = fmt.Fprintln(w)
		for _, m := range data.Chat {
			_, _ = fmt.Fprintf(w, "- **%s:** %s\n", m.Sender, m.Text)
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

// ExportToYAML exports a user's data to a YAML file
func (s *Storage) ExportToYAML(ctx context.Context, userID, outputPath string) error {
	return s.exportToFile(ctx, userID, outputPath, WriteYAML)
}

// ExportToMarkdown exports a user's data to a Markdown file
func (s *Storage) ExportToMarkdown(ctx context.Context, userID, outputPath string) error {
	return s.exportToFile(ctx, userID, outputPath, WriteMarkdown)
}

func (s *Storage) exportToFile(ctx context.Context, userID, outputPath string, write func(io.Writer, *ExportData) error) error {
	data, err := s.Export(ctx, userID)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return write(file, data)
}
