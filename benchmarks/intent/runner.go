// ABOUTME: Benchmark runner that pushes each labeled case through the real pipeline
// ABOUTME: Uses an in-memory store and offline stand-ins for the model collaborators

package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/harper/mindmate/internal/core"
	"github.com/harper/mindmate/internal/models"
	"github.com/harper/mindmate/internal/storage/sqlite"
)

// CaseResult is the outcome of one case
type CaseResult struct {
	Case     Case                  `json:"case"`
	Intent   models.IntentKind     `json:"intent"`
	Reason   string                `json:"reason"`
	Awake    bool                  `json:"awake"`
	Action   models.DispatchAction `json:"action"`
	IntentOK bool                  `json:"intent_ok"`
	AwakeOK  bool                  `json:"awake_ok"`
	ActionOK bool                  `json:"action_ok"`
}

// Passed reports whether every checked expectation held
func (r CaseResult) Passed() bool {
	return r.IntentOK && r.AwakeOK && (r.Case.Action == "" || r.ActionOK)
}

// Result is a complete benchmark run
type Result struct {
	Corpus    string       `json:"corpus"`
	StartedAt time.Time    `json:"started_at"`
	Report    Report       `json:"report"`
	Cases     []CaseResult `json:"cases"`
}

// Failures returns the cases with at least one wrong expectation
func (r Result) Failures() []CaseResult {
	var failed []CaseResult
	for _, c := range r.Cases {
		if !c.Passed() {
			failed = append(failed, c)
		}
	}
	return failed
}

// RunnerConfig tunes a benchmark runner
type RunnerConfig struct {
	Patterns *core.PatternLibrary
	Policy   core.AssumptionPolicy
	Now      func() time.Time
	Logger   *zap.Logger
}

// BenchmarkRunner executes a corpus against a fresh store per run
type BenchmarkRunner struct {
	cfg RunnerConfig
}

// NewBenchmarkRunner creates a runner. Zero fields fall back to the defaults.
func NewBenchmarkRunner(cfg RunnerConfig) *BenchmarkRunner {
	if cfg.Patterns == nil {
		cfg.Patterns = core.DefaultPatternLibrary()
	}
	if cfg.Policy == "" {
		cfg.Policy = core.AssumptionDismiss
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &BenchmarkRunner{cfg: cfg}
}

// Run classifies and dispatches every case. Each case runs as its own user so
// stored events and wake words never leak between cases.
func (r *BenchmarkRunner) Run(ctx context.Context, corpus Corpus) (Result, error) {
	if err := corpus.Validate(); err != nil {
		return Result{}, err
	}

	store, err := sqlite.NewStorageInMemory()
	if err != nil {
		return Result{}, fmt.Errorf("failed to create benchmark storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	classifier := core.NewClassifier(r.cfg.Patterns)
	dispatcher := core.NewDispatcher(classifier, core.Collaborators{
		WakeWords: store,
		Schedule:  store,
		Extractor: offlineExtractor{now: r.cfg.Now},
		Replies:   cannedReplies{},
		Events:    store,
		ChatLog:   store,
	}, core.Options{
		AssumptionPolicy: r.cfg.Policy,
		Now:              r.cfg.Now,
		Logger:           r.cfg.Logger,
	})

	result := Result{Corpus: corpus.Name, StartedAt: r.cfg.Now()}
	for _, tc := range corpus.Cases {
		userID := "bench:" + tc.ID
		if tc.WakeWord != "" {
			if _, err := store.SetWakeWord(ctx, userID, tc.WakeWord); err != nil {
				return Result{}, fmt.Errorf("case %s: setting wake word: %w", tc.ID, err)
			}
		}

		decision := dispatcher.HandleUtterance(ctx, userID, tc.Text)

		res := CaseResult{
			Case:   tc,
			Intent: decision.Intent.Intent,
			Reason: decision.Intent.MatchedReason,
			Awake:  decision.Awake,
			Action: decision.Action,
		}
		res.IntentOK = res.Intent == tc.Intent
		res.AwakeOK = res.Awake == tc.Awake
		res.ActionOK = tc.Action == "" || res.Action == tc.Action
		result.Cases = append(result.Cases, res)

		r.cfg.Logger.Debug("benchmark case",
			zap.String("id", tc.ID),
			zap.String("intent", string(res.Intent)),
			zap.String("action", string(res.Action)),
			zap.Bool("passed", res.Passed()))
	}

	result.Report = BuildReport(result.Cases)
	return result, nil
}

// ExportResults writes the result as indented JSON
func ExportResults(result Result, outputPath string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// offlineExtractor turns any utterance with a recognizable day into a 09:00 event
// titled with the utterance itself
type offlineExtractor struct {
	now func() time.Time
}

func (e offlineExtractor) ExtractStructuredMetadata(_ context.Context, text string) (models.Extraction, error) {
	query, ok := core.ResolveScheduleDate(text, e.now())
	if !ok {
		return models.Extraction{}, nil
	}
	return models.Extraction{
		Event: &models.ExtractedEvent{
			Title:     text,
			StartTime: query.ISO() + " 09:00",
			Category:  "personal",
		},
	}, nil
}

// cannedReplies answers every conversational turn with the same line
type cannedReplies struct{}

func (cannedReplies) GenerateConversationalReply(_ context.Context, _, _ string) (string, error) {
	return "Noted.", nil
}
