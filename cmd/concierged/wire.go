package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/yalla-trip/concierge/config"
	"github.com/yalla-trip/concierge/observability"
	"github.com/yalla-trip/concierge/provider"
	"github.com/yalla-trip/concierge/session"
	"github.com/yalla-trip/concierge/tools"
	"github.com/yalla-trip/concierge/turn"
)

// app bundles the wired subsystems for a command invocation.
type app struct {
	settings *config.Settings
	logger   *slog.Logger
	turns    *turn.Orchestrator
	store    session.Store
}

// wireApp loads settings and constructs the orchestrator with its
// collaborators. Callers must invoke close when done.
func wireApp(ctx context.Context, configPath string) (*app, func(), error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	store, err := session.NewStore(ctx, &settings.Session)
	if err != nil {
		return nil, nil, fmt.Errorf("create session store: %w", err)
	}
	closeStore := func() {
		if c, ok := store.(io.Closer); ok {
			c.Close()
		}
	}

	orchestrator := turn.New(
		provider.NewOpenAI(&settings.Provider),
		store,
		tools.NewOpenMeteo(),
		turn.WithObserver(observability.NewSlogObserver(logger)),
		turn.WithContextWindow(settings.ContextWindow),
	)

	return &app{
		settings: settings,
		logger:   logger,
		turns:    orchestrator,
		store:    store,
	}, closeStore, nil
}
