// Package app wires configuration into the logger, store and renderer
// shared by the binaries.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/config"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/observability"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/report"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/roster"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/storage"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/storage/postgres"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/storage/sqlite"
)

// NewLogger returns a text logger at the configured level.
func NewLogger(cfg config.Config, w io.Writer) observability.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: observability.ParseLevel(cfg.LogLevel)})
	return observability.NewSlogLogger(slog.New(h))
}

// OpenStore opens the configured storage driver.
func OpenStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(cfg.DBDriver)) {
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DatabaseURL)
	default:
		return sqlite.Open(cfg.DBPath)
	}
}

// NewRenderer builds a renderer from the configured assets. The logo bytes
// are returned for serving.
func NewRenderer(cfg config.Config, log observability.Logger) (*report.Renderer, []byte, error) {
	opts, err := cfg.ReportOptions()
	if err != nil {
		return nil, nil, err
	}
	opts.Logger = log
	opts.Tracer = observability.NewLogTracer(log)
	r, err := report.NewRenderer(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("renderer: %w", err)
	}
	return r, opts.Logo, nil
}

// PrepareSession resets the store when configured and imports the roster
// file when one is set.
func PrepareSession(ctx context.Context, cfg config.Config, store storage.Store, log observability.Logger) error {
	if cfg.ResetOnStart {
		if err := store.Reset(ctx); err != nil {
			return err
		}
		log.Info("session reset")
	}
	if strings.TrimSpace(cfg.RosterPath) == "" {
		return nil
	}
	attendees, err := roster.ReadFile(cfg.RosterPath)
	if err != nil {
		return fmt.Errorf("roster %s: %w", cfg.RosterPath, err)
	}
	n, err := store.ImportRoster(ctx, attendees)
	if err != nil {
		return err
	}
	log.Info("roster imported", observability.String("path", cfg.RosterPath), observability.Int("attendees", n))
	return nil
}
