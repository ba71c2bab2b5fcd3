package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/mmcdole/picks/internal/adapter"
	"github.com/mmcdole/picks/internal/adapter/actor"
	"github.com/mmcdole/picks/internal/adapter/identity"
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/query"
	"github.com/mmcdole/picks/internal/showcase"
	"github.com/mmcdole/picks/internal/store"
	"github.com/mmcdole/picks/internal/tui"
)

// app holds the wired services shared by the TUI and the subcommands
type app struct {
	cfg      *adapter.Config
	logger   *slog.Logger
	svc      *showcase.Service
	auth     *showcase.Auth
	launcher *adapter.Launcher
	restorer tui.Restorer

	closers []io.Closer
}

// newApp loads configuration and wires every service. When the backend is
// not configured and setup is allowed, it runs the first-run prompt and
// returns a nil app.
func newApp(allowSetup bool) (*app, error) {
	cfg, err := adapter.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, logCloser, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting picks", "version", Version, "demo", demoMode)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		launcher: adapter.NewLauncher(cfg.UI.Browser, nil, logger),
	}
	if logCloser != nil {
		a.closers = append(a.closers, logCloser)
	}

	cache := query.NewCache(logger)

	if demoMode {
		mem := actor.NewMemory(demoAdmin)
		seedDemo(mem)
		local := identity.NewLocal(demoUser)
		a.svc = showcase.NewService(actor.NewMemorySource(mem, local), local, cache, logger)
		a.auth = showcase.NewAuth(local, cache, logger)
		return a, nil
	}

	if !cfg.IsConfigured() {
		a.Close()
		if !allowSetup {
			return nil, fmt.Errorf("picks is not configured; run picks once to set it up, or pass --demo")
		}
		return nil, runSetupFlow(cfg, logger)
	}

	sessionPath, err := adapter.ExpandHome(cfg.Identity.SessionPath)
	if err != nil {
		a.Close()
		return nil, err
	}
	sessions, err := store.NewSessionStore(sessionPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	a.closers = append(a.closers, sessions)

	provider := identity.NewProvider(identity.NewClient(cfg.Identity.URL, logger), sessions, cfg.Identity.PollTimeout, logger)
	actors := actor.NewProvider(cfg.Actor.URL, cfg.Actor.Timeout, provider, logger)

	a.svc = showcase.NewService(actors, provider, cache, logger)
	a.auth = showcase.NewAuth(provider, cache, logger)
	a.restorer = provider
	return a, nil
}

// restore loads the persisted session; subcommands call it before using
// the services because they do not run the TUI's startup commands
func (a *app) restore(ctx context.Context) error {
	if a.restorer == nil {
		return nil
	}
	return a.restorer.Restore(ctx)
}

// Close releases the session store and the log file
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
	a.closers = nil
}

// configDir is where the first-run setup writes config.yaml
func configDir() string {
	if configFile == "" {
		return ""
	}
	return filepath.Dir(configFile)
}

// printObserver shows the login code on stdout for the login subcommand
type printObserver struct {
	out io.Writer
}

func (o printObserver) OnLinkCode(code domain.LinkCode) {
	fmt.Fprintf(o.out, "\nTo log in, visit %s\nand enter the code: %s\n\nWaiting for approval...\n", code.URL, code.Code)
}
