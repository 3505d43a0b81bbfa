package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/themobileprof/vocalis/internal/catalog"
	"github.com/themobileprof/vocalis/internal/config"
	"github.com/themobileprof/vocalis/internal/db"
	"github.com/themobileprof/vocalis/internal/dispatch"
	"github.com/themobileprof/vocalis/internal/intent"
	"github.com/themobileprof/vocalis/internal/journey"
	"github.com/themobileprof/vocalis/internal/logger"
	"github.com/themobileprof/vocalis/internal/ui"
	"github.com/themobileprof/vocalis/pkg/models"
)

// app holds everything a command needs, built from config and flags
type app struct {
	cfg       *config.Config
	logger    *log.Logger
	catalog   *catalog.Catalog
	processor *intent.Processor
	planner   *dispatch.Planner
	store     *db.DB
	sessionID string
}

func newApp(cmd *cobra.Command, opts *options) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	l := logger.New(logger.Options{Level: cfg.LogLevel, Output: cmd.ErrOrStderr(), Prefix: "vocalis"})

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	normalizer, err := intent.NewDefaultNormalizer()
	if err != nil {
		return nil, fmt.Errorf("failed to load lemmatizer: %w", err)
	}

	procOpts := []intent.Option{intent.WithLogger(l)}
	if cfg.JourneyEnabled {
		procOpts = append(procOpts, intent.WithRecorder(journey.New(cfg.JourneyPath)))
	}
	processor, err := intent.New(cat, normalizer, cfg.Thresholds.Classify, procOpts...)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		logger:    l,
		catalog:   cat,
		processor: processor,
		planner:   dispatch.NewPlanner(cat),
		sessionID: uuid.NewString(),
	}

	if cfg.HistoryEnabled {
		store, err := db.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.store = store
	}

	l.Debug("ready", "intents", len(cat.Intents()), "threshold", cfg.Thresholds.Classify, "history", cfg.HistoryEnabled, "session", a.sessionID)
	return a, nil
}

// loadConfig applies file, then environment, then flags
func loadConfig(opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	envPath := config.GetEnvPath()
	if opts.configPath != "" {
		envPath = filepath.Join(filepath.Dir(path), ".env")
	}
	if err := cfg.ApplyEnv(envPath); err != nil {
		return nil, err
	}

	if opts.catalogPath != "" {
		cfg.CatalogPath = opts.catalogPath
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.noHistory {
		cfg.HistoryEnabled = false
	}
	if cfg.JourneyPath == "" {
		cfg.JourneyPath = journey.DefaultPath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (a *app) repl(cmd *cobra.Command) *ui.REPL {
	rc := ui.Config{
		Processor: a.processor,
		Planner:   a.planner,
		Catalog:   a.catalog,
		Logger:    a.logger,
		SessionID: a.sessionID,
		In:        cmd.InOrStdin(),
		Out:       cmd.OutOrStdout(),
		Color:     a.cfg.ColorOutput,
	}
	if a.store != nil {
		rc.History = a.store
	}
	return ui.NewREPL(rc)
}

// processJSON prints the result and its planned action as one JSON object
func (a *app) processJSON(w io.Writer, utterance string) error {
	res, err := a.processor.Process(utterance)
	if err != nil {
		return err
	}
	action := a.planner.Plan(res)

	if a.store != nil {
		if _, err := a.store.LogResult(a.sessionID, res, action); err != nil {
			a.logger.Warn("failed to record interaction", "err", err)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*models.NLPResult
		Action models.Action `json:"action"`
	}{res, action})
}

func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
