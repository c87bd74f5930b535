package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"tidy/internal/config"
	"tidy/internal/history"
	"tidy/internal/llm"
	"tidy/internal/metadata"
	"tidy/internal/organizer"
	"tidy/internal/renamer"
)

// App holds the wired components every command works against.
type App struct {
	Config   *config.Config
	Registry *metadata.Registry
	Client   llm.Client
	Backends []llm.Backend
	History  *history.Store
	Renamer  *renamer.Renamer
	Out      io.Writer
}

// NewApp wires the pipeline from a validated config. A history database that
// cannot be opened degrades to a warning; an empty extractor registry is
// fatal.
func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	registry := metadata.DefaultRegistry()
	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("extractor registry: %w", err)
	}

	app := &App{
		Config:   cfg,
		Registry: registry,
		Renamer:  renamer.New(),
		Out:      os.Stdout,
	}

	if !cfg.History.Disabled {
		if err := os.MkdirAll(filepath.Dir(cfg.History.Path), 0o755); err != nil {
			log.Warnf("creating history directory: %v", err)
		}
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			log.Warnf("history disabled for this run: %v", err)
		} else {
			app.History = store
		}
	}

	app.Backends = buildBackends(cfg)
	app.Client = llm.NewEngine(app.Backends, app.History)
	return app, nil
}

// buildBackends assembles the chain in configured order. Gemini joins only
// when a key is present; heuristic_only empties the chain so the engine's
// terminal answers everything.
func buildBackends(cfg *config.Config) []llm.Backend {
	if cfg.Backends.HeuristicOnly {
		return nil
	}
	var backends []llm.Backend
	for _, name := range cfg.Backends.Order {
		switch name {
		case "on-device":
			backends = append(backends, llm.NewOnDevice(cfg.Backends.OnDeviceBin))
		case "ollama":
			backends = append(backends, llm.NewOllama(cfg.Backends.OllamaHost, cfg.Backends.OllamaModel))
		case "gemini":
			if cfg.Backends.GeminiAPIKey == "" {
				log.Debug("gemini backend skipped: no API key")
				continue
			}
			g, err := llm.NewGemini(cfg.Backends.GeminiAPIKey, cfg.Backends.GeminiModel)
			if err != nil {
				log.Warnf("gemini backend skipped: %v", err)
				continue
			}
			backends = append(backends, g)
		}
	}
	return backends
}

// Organizer builds the run pipeline for the current config.
func (a *App) Organizer(explain bool) *organizer.Organizer {
	return organizer.New(a.Registry, a.Client, a.History, a.Out, organizer.Options{
		TargetRoot:  a.Config.Organize.TargetRoot,
		UserContext: a.Config.Organize.Context,
		BatchSize:   a.Config.Organize.BatchSize,
		MaxPreview:  a.Config.Organize.MaxPreview,
		OneByOne:    a.Config.Organize.OneByOne,
		Explain:     explain,
	})
}

func (a *App) Close() {
	for _, b := range a.Backends {
		if closer, ok := b.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Warnf("closing %s backend: %v", b.Name(), err)
			}
		}
	}
	if err := a.History.Close(); err != nil {
		log.Warnf("closing history store: %v", err)
	}
}
