// asistencia serves the attendance capture pages and the final register
// PDF on a local network.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/app"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/config"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/observability"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "asistencia: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := pflag.NewFlagSet("asistencia", pflag.ContinueOnError)
	cfg.AddFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}

	log := app.NewLogger(cfg, os.Stderr)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := app.PrepareSession(ctx, cfg, store, log); err != nil {
		return err
	}
	renderer, logo, err := app.NewRenderer(cfg, log)
	if err != nil {
		return err
	}
	srv, err := web.New(web.Options{Store: store, Renderer: renderer, Logo: logo, Logger: log})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", observability.String("addr", cfg.HTTPAddr), observability.String("driver", cfg.DBDriver))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
