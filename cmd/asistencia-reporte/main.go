// asistencia-reporte renders the current session snapshot to a PDF file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/app"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/config"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/observability"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/report"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/writer"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "asistencia-reporte: %v\n", err)
		if errors.Is(err, report.ErrNoSignedAttendees) || errors.Is(err, report.ErrMissingFacilitator) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	var out string
	flags := pflag.NewFlagSet("asistencia-reporte", pflag.ContinueOnError)
	cfg.AddFlags(flags)
	flags.StringVarP(&out, "out", "o", "reporte_firmas_final.pdf", "output PDF path")
	if err := flags.Parse(args); err != nil {
		return err
	}

	log := app.NewLogger(cfg, os.Stderr)
	ctx := context.Background()
	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := cfg.ReportOptions()
	if err != nil {
		return err
	}
	trace := &writer.LogInterceptor{Log: log}
	opts.Logger = log
	opts.Tracer = observability.NewLogTracer(log)
	opts.Interceptor = trace
	renderer, err := report.NewRenderer(opts)
	if err != nil {
		return err
	}

	snap, err := store.Snapshot(ctx)
	if err != nil {
		return err
	}
	pdf, err := renderer.Render(ctx, snap)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return err
	}
	log.Info("report written",
		observability.String("path", out),
		observability.Int("objects", trace.Objects),
		observability.Int("bytes", len(pdf)))
	return nil
}
