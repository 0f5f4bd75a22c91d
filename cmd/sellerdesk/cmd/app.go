package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sellerdesk/sellerdesk/internal/api"
	"github.com/sellerdesk/sellerdesk/internal/audit"
	"github.com/sellerdesk/sellerdesk/internal/client"
	"github.com/sellerdesk/sellerdesk/internal/config"
	"github.com/sellerdesk/sellerdesk/internal/session"
)

// app bundles the wired-up components every command needs.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *session.Store
	api      *api.API
	activity *audit.Log
}

// newApp loads config, restores the persisted session, and wires the
// resilient client, API surface, and activity log.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sessionFile := cfg.Session.File
	if sessionFilePath != "" {
		sessionFile = sessionFilePath
	}
	store := session.NewStore(sessionFile, logger)
	store.Load()

	c := client.New(cfg.API.BaseURL, store,
		client.WithTimeout(cfg.API.Timeout),
		client.WithRetry(cfg.API.RetryAttempts, cfg.API.RetryBackoff),
		client.WithLogger(logger),
		client.WithUserAgent("sellerdesk/"+Version),
		client.WithLogoutHandler(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Run `sellerdesk login` to sign in again.")
		}),
	)

	activity, err := audit.Open(cfg.Audit.Dir, cfg.Audit.RetentionDays, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		api:      api.New(c, store, logger),
		activity: activity,
	}, nil
}

// close releases resources held by the app.
func (a *app) close() {
	if err := a.activity.Close(); err != nil {
		a.logger.Warn("failed to close activity log", "error", err)
	}
}

// requireSession fails fast when no session is held at all. An expired
// session with a refresh token is allowed through; the request layer
// refreshes it on first use.
func (a *app) requireSession() error {
	if a.store.Snapshot().AccessToken == "" {
		return fmt.Errorf("not logged in; run `sellerdesk login` first")
	}
	return nil
}

// actorEmail returns the logged-in user's email for audit attribution.
func (a *app) actorEmail() string {
	if p := a.store.Snapshot().Profile; p != nil {
		return p.Email
	}
	return ""
}

// prompt reads one line from stdin after printing a label.
func prompt(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
