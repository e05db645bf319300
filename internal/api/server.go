// ABOUTME: HTTP API for chat, voice uploads, schedule, settings and dashboard
// ABOUTME: Thin JSON layer over the dispatcher and the SQLite store
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harper/mindmate/internal/core"
	"github.com/harper/mindmate/internal/models"
	"github.com/harper/mindmate/internal/storage/sqlite"
)

const (
	maxJSONBody  = 1 << 20  // 1MB
	maxAudioBody = 25 << 20 // speech-to-text upload limit
)

// Transcriber turns recorded speech into text
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Server serves the HTTP API
type Server struct {
	store       *sqlite.Storage
	dispatcher  *core.Dispatcher
	transcriber Transcriber
	logger      *zap.Logger
	now         func() time.Time
	server      *http.Server
}

// Config configures a Server. Transcriber may be nil; voice uploads then fail with 503.
type Config struct {
	Store       *sqlite.Storage
	Dispatcher  *core.Dispatcher
	Transcriber Transcriber
	Logger      *zap.Logger
	Now         func() time.Time
}

// NewServer creates the API server
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Server{
		store:       cfg.Store,
		dispatcher:  cfg.Dispatcher,
		transcriber: cfg.Transcriber,
		logger:      cfg.Logger,
		now:         cfg.Now,
	}
}

// Handler returns the routed API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/send", s.handleChatSend)
	mux.HandleFunc("POST /chat/upload-audio", s.handleUploadAudio)
	mux.HandleFunc("GET /chat/history", s.handleChatHistory)
	mux.HandleFunc("GET /schedule", s.handleSchedule)
	mux.HandleFunc("POST /settings/wake-word", s.handleSetWakeWord)
	mux.HandleFunc("GET /timeline", s.handleTimeline)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second, // replies may wait on the model
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr <- s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("http api listening", zap.String("addr", addr))
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}

type chatRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type chatResponse struct {
	Status     string                  `json:"status"`
	AIResponse *string                 `json:"ai_response"`
	Transcript string                  `json:"transcript,omitempty"`
	Decision   models.DispatchDecision `json:"decision"`
}

func (s *Server) handleChatSend(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	decision := s.dispatcher.HandleUtterance(r.Context(), req.UserID, req.Text)
	writeJSON(w, http.StatusOK, chatResponse{
		Status:     "success",
		AIResponse: decision.ResponseText,
		Decision:   decision,
	})
}

func (s *Server) handleUploadAudio(w http.ResponseWriter, r *http.Request) {
	if s.transcriber == nil {
		writeError(w, http.StatusServiceUnavailable, "speech-to-text is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBody)
	if err := r.ParseMultipartForm(maxAudioBody); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form with user_id and file")
		return
	}
	userID := strings.TrimSpace(r.FormValue("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() { _ = file.Close() }()

	transcript, err := s.transcriber.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		s.logger.Warn("transcription failed", zap.String("user_id", userID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "transcription failed")
		return
	}
	if strings.TrimSpace(transcript) == "" {
		writeError(w, http.StatusUnprocessableEntity, "Silence detected.")
		return
	}

	decision := s.dispatcher.HandleUtterance(r.Context(), userID, transcript)
	writeJSON(w, http.StatusOK, chatResponse{
		Status:     "success",
		AIResponse: decision.ResponseText,
		Transcript: transcript,
		Decision:   decision,
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	limit, ok := intParam(w, r, "limit", 50)
	if !ok {
		return
	}

	messages, err := s.store.ChatHistory(r.Context(), userID, limit)
	if err != nil {
		s.internalError(w, "chat history", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	day := strings.TrimSpace(r.URL.Query().Get("date"))
	if day == "" {
		day = "today"
	}

	query, resolved := core.ResolveScheduleDate(day, s.now())
	if !resolved {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unrecognized date %q", day))
		return
	}

	entries, err := s.store.FetchScheduleForDate(r.Context(), userID, query.ISO())
	if err != nil {
		s.internalError(w, "schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":    query.ISO(),
		"events":  entries,
		"summary": core.FormatSchedule(query, entries),
	})
}

type wakeWordRequest struct {
	UserID   string `json:"user_id"`
	WakeWord string `json:"wake_word"`
}

func (s *Server) handleSetWakeWord(w http.ResponseWriter, r *http.Request) {
	var req wakeWordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	stored, err := s.store.SetWakeWord(r.Context(), req.UserID, req.WakeWord)
	if errors.Is(err, sqlite.ErrInvalidWakeWord) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, "set wake word", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "success",
		"wake_word": stored,
		"message":   fmt.Sprintf("Wake word updated to '%s'", stored),
	})
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	limit, ok := intParam(w, r, "limit", 0)
	if !ok {
		return
	}

	items, err := s.store.Timeline(r.Context(), userID, limit)
	if err != nil {
		s.internalError(w, "timeline", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	day := s.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation(core.ISODate, raw, day.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	summary, err := s.store.DailySummary(r.Context(), userID, day)
	if err != nil {
		s.internalError(w, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DB().Conn().PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) internalError(w http.ResponseWriter, what string, err error) {
	s.logger.Error("request failed", zap.String("op", what), zap.Error(err))
	writeError(w, http.StatusInternalServerError, what+" failed")
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return "", false
	}
	return userID, true
}

func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func decodeJSON(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		return fmt.Errorf("bad request")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"status": "error", "error": msg})
}
