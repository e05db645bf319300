// ABOUTME: Tests for the HTTP API using httptest and an in-memory store
// ABOUTME: Covers chat, voice uploads, schedule, wake word, timeline, dashboard and health
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/mindmate/internal/core"
	"github.com/harper/mindmate/internal/models"
	"github.com/harper/mindmate/internal/storage/sqlite"
)

// Monday
var testNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

type stubExtractor struct{ ext models.Extraction }

func (s stubExtractor) ExtractStructuredMetadata(context.Context, string) (models.Extraction, error) {
	return s.ext, nil
}

type stubReplies struct{}

func (stubReplies) GenerateConversationalReply(context.Context, string, string) (string, error) {
	return "Happy to chat.", nil
}

type stubTranscriber struct {
	text string
	err  error

	mu       sync.Mutex
	gotBytes []byte
	gotName  string
}

func (s *stubTranscriber) Transcribe(_ context.Context, audio io.Reader, filename string) (string, error) {
	data, _ := io.ReadAll(audio)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gotBytes = data
	s.gotName = filename
	return s.text, s.err
}

func (s *stubTranscriber) received() ([]byte, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gotBytes, s.gotName
}

type testEnv struct {
	store  *sqlite.Storage
	server *httptest.Server
}

func newTestEnv(t *testing.T, ext models.Extraction, transcriber Transcriber) *testEnv {
	t.Helper()

	store, err := sqlite.NewStorageInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	dispatcher := core.NewDispatcher(nil, core.Collaborators{
		WakeWords: store,
		Schedule:  store,
		Extractor: stubExtractor{ext: ext},
		Replies:   stubReplies{},
		Events:    store,
		ChatLog:   store,
	}, core.Options{Now: func() time.Time { return testNow }})

	api := NewServer(Config{
		Store:       store,
		Dispatcher:  dispatcher,
		Transcriber: transcriber,
		Now:         func() time.Time { return testNow },
	})
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &testEnv{store: store, server: srv}
}

func (e *testEnv) postJSON(t *testing.T, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(e.server.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(e.server.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func readBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestChatSend(t *testing.T) {
	env := newTestEnv(t, models.Extraction{}, nil)

	resp, body := env.postJSON(t, "/chat/send", chatRequest{UserID: "alice", Text: "Mindmate, how are you?"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Happy to chat.", body["ai_response"])

	decision := body["decision"].(map[string]interface{})
	assert.Equal(t, string(models.ActionAnsweredFromModel), decision["action"])

	history, err := env.store.ChatHistory(context.Background(), "alice", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Happy to chat.", history[1].Text)
}

func TestChatSend_AmbientIsSilent(t *testing.T) {
	env := newTestEnv(t, models.Extraction{}, nil)

	resp, body := env.postJSON(t, "/chat/send", chatRequest{UserID: "alice", Text: "check the oven, honey"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, body["ai_response"])
	decision := body["decision"].(map[string]interface{})
	assert.Equal(t, string(models.ActionBlocked), decision["action"])
}

func TestChatSend_BadRequests(t *testing.T) {
	env := newTestEnv(t, models.Extraction{}, nil)

	resp, body := env.postJSON(t, "/chat/send", map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "user_id is required", body["error"])

	raw, err := http.Post(env.server.URL+"/chat/send", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
	_ = raw.Body.Close()

	wrongMethod, err := http.Get(env.server.URL + "/chat/send")
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, wrongMethod.StatusCode)
	_ = wrongMethod.Body.Close()
}

func uploadAudio(t *testing.T, env *testEnv, userID string, audio []byte) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("user_id", userID))
	part, err := mw.CreateFormFile("file", "note.wav")
	require.NoError(t, err)
	_, err = part.Write(audio)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(env.server.URL+"/chat/upload-audio", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func TestUploadAudio(t *testing.T) {
	transcriber := &stubTranscriber{text: "Mindmate, remind me to call Mom at 5 PM"}
	env := newTestEnv(t, models.Extraction{
		Event: &models.ExtractedEvent{Title: "Call Mom", StartTime: "2026-10-19 17:00"},
	}, transcriber)

	resp, body := uploadAudio(t, env, "alice", []byte("RIFF....WAVE"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Mindmate, remind me to call Mom at 5 PM", body["transcript"])
	gotBytes, gotName := transcriber.received()
	assert.Equal(t, []byte("RIFF....WAVE"), gotBytes)
	assert.Equal(t, "note.wav", gotName)

	decision := body["decision"].(map[string]interface{})
	assert.Equal(t, string(models.ActionSavedWithAck), decision["action"])

	entries, err := env.store.FetchScheduleForDate(context.Background(), "alice", "2026-10-19")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUploadAudio_Failures(t *testing.T) {
	t.Run("no transcriber", func(t *testing.T) {
		env := newTestEnv(t, models.Extraction{}, nil)
		resp, _ := uploadAudio(t, env, "alice", []byte("x"))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("silence", func(t *testing.T) {
		env := newTestEnv(t, models.Extraction{}, &stubTranscriber{text: "  "})
		resp, body := uploadAudio(t, env, "alice", []byte("x"))
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "Silence detected.", body["error"])
	})

	t.Run("transcription error", func(t *testing.T) {
		env := newTestEnv(t, models.Extraction{}, &stubTranscriber{err: errors.New("whisper down")})
		resp, _ := uploadAudio(t, env, "alice", []byte("x"))
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("missing user", func(t *testing.T) {
		env := newTestEnv(t, models.Extraction{}, &stubTranscriber{text: "hi"})
		resp, _ := uploadAudio(t, env, "", []byte("x"))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSchedule(t *testing.T) {
	env := newTestEnv(t, models.Extraction{}, nil)
	_, err := env.store.PersistEvent(context.Background(), "alice", models.Extraction{
		Event: &models.ExtractedEvent{Title: "Standup", StartTime: "2026-10-20 09:00", Category: "Work"},
	})
	require.NoError(t, err)

	resp, data := env.get(t, "/schedule?user_id=alice&date=tomorrow")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Date    string                 `json:"date"`
		Events  []models.ScheduleEntry `json:"events"`
		Summary string                 `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "2026-10-20", out.Date)
	assert.Equal(t, []models.ScheduleEntry{{Title: "Standup", Time: "09:00", Category: "Work"}}, out.Events)
	assert.Equal(t, "Here's your schedule for tomorrow (2026-10-20):\n- 09:00 Standup (Work)", out.Summary)

	resp, _ = env.get(t, "/schedule?user_id=alice&date=someday")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.get(t, "/schedule")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetWakeWord(t *testing.T) {
	env := newTestEnv(t, models.Extraction{}, nil)

	resp, body := env.postJSON(t, "/settings/wake-word", wakeWordRequest{UserID: "alice", WakeWord: "  Jarvis "})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jarvis", body["wake_word"])

	// The old default no longer wakes alice
	_, chat := env.postJSON(t, "/chat/send", chatRequest{UserID: "alice", Text: "Mindmate, check my schedule for today"})
	assert.Equal(t, string(models.ActionBlocked), chat["decision"].(map[string]interface{})["action"])

	resp, _ = env.postJSON(t, "/settings/wake-word", wakeWordRequest{UserID: "alice", WakeWord: " "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTimelineDashboardAndHistory(t *testing.T) {
	env := newTestEnv(t, models.Extraction{}, nil)
	ctx := context.Background()
	for _, e := range []models.ExtractedEvent{
		{Title: "Standup", StartTime: "2026-10-19 09:00", Category: "Work"},
		{Title: "Review", StartTime: "2026-10-19 15:00", Category: "Work"},
	} {
		e := e
		_, err := env.store.PersistEvent(ctx, "alice", models.Extraction{Event: &e})
		require.NoError(t, err)
	}
	require.NoError(t, env.store.AppendChatLog(ctx, "alice", "user", "mindmate, hi"))

	resp, data := env.get(t, "/timeline?user_id=alice&limit=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []models.TimelineItem
	require.NoError(t, json.Unmarshal(data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Review", items[0].Title)

	resp, _ = env.get(t, "/timeline?user_id=alice&limit=-2")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data = env.get(t, "/dashboard?user_id=alice")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary models.DailySummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 2, summary.EventCount)
	assert.Equal(t, "Work", summary.TopCategory)
	assert.Equal(t, []string{"09:00 - Standup", "15:00 - Review"}, summary.Timeline)

	resp, data = env.get(t, "/dashboard?user_id=alice&date=2026-10-25")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "None", summary.TopCategory)

	resp, data = env.get(t, "/chat/history?user_id=alice")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "mindmate, hi")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, models.Extraction{}, nil)

	resp, data := env.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	store, err := sqlite.NewStorageInMemory()
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	srv := NewServer(Config{Store: store, Dispatcher: core.NewDispatcher(nil, core.Collaborators{}, core.Options{})})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
