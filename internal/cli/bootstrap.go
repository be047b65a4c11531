package cli

import (
	"context"
	"fmt"

	"github.com/harun/vidya/internal/config"
	"github.com/harun/vidya/internal/logger"
	"github.com/harun/vidya/pkg/chat"
	"github.com/harun/vidya/pkg/language"
	"github.com/harun/vidya/pkg/llm"
	"github.com/harun/vidya/pkg/prompt"
	"github.com/harun/vidya/pkg/session"
)

// runtime bundles everything a command needs after startup.
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	engine  *chat.Engine
	store   *session.Store
	sweeper *session.Sweeper
}

// bootstrap loads config, wires the logger, store, provider, and engine.
// Configuration problems (including a missing API key) are fatal here,
// before anything else starts.
func bootstrap(ctx context.Context, console bool) (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	log, err := logger.New(logger.Config{
		Level:     level,
		File:      cfg.Logging.File,
		Console:   console,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	builderOpts := []prompt.Option{}
	if cfg.TemplatePack != "" {
		pack, err := prompt.LoadPack(cfg.TemplatePack)
		if err != nil {
			return nil, err
		}
		builderOpts = append(builderOpts, prompt.WithTemplatePack(pack))
	}

	store := session.NewStore(session.Config{
		MaxTurns:    cfg.Session.MaxTurns,
		MaxSessions: cfg.Session.MaxSessions,
		IdleTimeout: cfg.Session.IdleTimeout(),
	})

	sweeper, err := session.NewSweeper(store, cfg.Session.SweepSchedule)
	if err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(ctx, cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	client, err := llm.NewClient(provider, llm.ClientConfig{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  cfg.Retry.BaseDelay(),
		Logger:     log.GetZerolog(),
	})
	if err != nil {
		return nil, err
	}

	engine, err := chat.New(chat.Options{
		Detector: language.NewDetector(),
		Builder:  prompt.NewBuilder(builderOpts...),
		Store:    store,
		Client:   client,
		Logger:   log.GetZerolog(),
		Generation: chat.Generation{
			Model:       cfg.Generation.Model,
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxTokens,
		},
	})
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:     cfg,
		log:     log,
		engine:  engine,
		store:   store,
		sweeper: sweeper,
	}, nil
}

// close releases runtime resources.
func (rt *runtime) close() {
	if rt.sweeper != nil {
		_ = rt.sweeper.Stop()
	}
	if rt.log != nil {
		_ = rt.log.Close()
	}
}
