package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nibzard/ptm-go/internal/config"
	"github.com/nibzard/ptm-go/internal/hooks"
	"github.com/nibzard/ptm-go/internal/logging"
	"github.com/nibzard/ptm-go/internal/registry"
)

// session is one registry plus the observers configured for it.
type session struct {
	registry *registry.Registry
	logger   *log.Logger
	journal  *logging.Journal
}

func openSession(ctx context.Context, cfg *config.Config) (*session, error) {
	logger := logging.NewConsoleFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	s := &session{logger: logger}

	opts := []registry.Option{registry.WithLogger(logger)}
	if cfg.Journal {
		j, err := logging.NewJournal(cfg.LogDir)
		if err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		s.journal = j
		opts = append(opts, registry.WithObserver(j))
		logger.Debug("journal opened", "path", j.Path)
	}
	if cfg.HookCommand != "" {
		opts = append(opts, registry.WithObserver(hooks.NewRunner(ctx, hooks.Options{
			Command: cfg.HookCommand,
			WorkDir: cfg.WorkDir,
			Stdout:  stderr,
			Stderr:  stderr,
		})))
		logger.Debug("hook enabled", "command", cfg.HookCommand)
	}

	s.registry = registry.New(opts...)
	return s, nil
}

func (s *session) Close() {
	if err := s.journal.Close(); err != nil {
		s.logger.Warn("closing journal", "err", err)
	}
}
