// ABOUTME: Composition root shared by the commands
// ABOUTME: Loads config, opens storage and builds the dispatcher with its collaborators
package commands

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/harper/mindmate/internal/config"
	"github.com/harper/mindmate/internal/core"
	"github.com/harper/mindmate/internal/llm"
	"github.com/harper/mindmate/internal/logging"
	"github.com/harper/mindmate/internal/storage/sqlite"
)

const defaultUserID = "local"

// app holds everything a command needs
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      *sqlite.Storage
	model      *llm.OpenAIClient // nil when no model is configured
	dispatcher *core.Dispatcher
}

// loadConfig reads .env and the environment, applying command-line overrides
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

// newApp wires storage, the optional model client and the dispatcher
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(verbose, quiet)
	if err != nil {
		return nil, err
	}

	lib, err := core.LoadPatternLibrary(cfg.PatternsFile)
	if err != nil {
		return nil, err
	}
	policy, err := core.ParseAssumptionPolicy(cfg.AssumptionPolicy)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	collab := core.Collaborators{
		WakeWords: store,
		Schedule:  store,
		Events:    store,
		ChatLog:   store,
	}

	var model *llm.OpenAIClient
	if cfg.HasLLM() {
		model, err = llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
			APIKey:             cfg.OpenAIKey,
			BaseURL:            cfg.OpenAIBaseURL,
			ChatModel:          cfg.ChatModel,
			TranscriptionModel: cfg.TranscriptionModel,
			MaxRetries:         cfg.MaxRetries,
			RetryDelay:         cfg.RetryDelay,
			Timeout:            cfg.Timeout,
		})
		if err != nil {
			logger.Warn("model client unavailable", zap.Error(err))
			model = nil
		}
	} else {
		logger.Warn("OPENAI_API_KEY not set; extraction and replies fall back to canned answers")
	}
	if model != nil {
		collab.Extractor = model
		collab.Replies = core.NewResponder(core.NewContextHydrator(store, time.Now), model)
	}

	dispatcher := core.NewDispatcher(core.NewClassifier(lib), collab, core.Options{
		AssumptionPolicy: policy,
		CallTimeout:      cfg.CallTimeout,
		DefaultWakeWord:  cfg.WakeWord,
		Logger:           logger,
	})

	return &app{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		model:      model,
		dispatcher: dispatcher,
	}, nil
}

// Close releases storage and flushes the logger
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("error closing storage", zap.Error(err))
	}
	_ = a.logger.Sync()
}
