package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":5000" || cfg.DBDriver != DriverSQLite || cfg.DBPath != "firmas.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.RosterPath != "trabajadores.csv" || !cfg.ResetOnStart || !cfg.Compress {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.UTCOffset != -5*time.Hour {
		t.Fatalf("UTCOffset = %v, want -5h", cfg.UTCOffset)
	}
	if cfg.FormCode != "IQH-GRAL-F-010" || cfg.FormRevision != "Revisión No. 5" {
		t.Fatalf("form = %q %q", cfg.FormCode, cfg.FormRevision)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate defaults: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"ASISTENCIA_DB_DRIVER":      "postgres",
		"ASISTENCIA_DATABASE_URL":   "postgres://localhost/asistencia",
		"ASISTENCIA_RESET_ON_START": "false",
		"ASISTENCIA_UTC_OFFSET":     "-4h30m",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBDriver != DriverPostgres || cfg.ResetOnStart {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.UTCOffset != -(4*time.Hour + 30*time.Minute) {
		t.Fatalf("UTCOffset = %v", cfg.UTCOffset)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestBadEnv(t *testing.T) {
	if _, err := LoadFrom(map[string]string{"ASISTENCIA_COMPRESS": "maybe"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"ASISTENCIA_HTTP_ADDR": ":8080"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.AddFlags(fs)
	if err := fs.Parse([]string{"--db", "otra.db", "--reset=false"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.DBPath != "otra.db" || cfg.ResetOnStart {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown driver", Config{DBDriver: "mysql"}},
		{"sqlite without path", Config{DBDriver: DriverSQLite}},
		{"postgres without url", Config{DBDriver: DriverPostgres}},
	}
	for _, tt := range tests {
		if err := tt.cfg.Validate(); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: err = %v, want ErrInvalid", tt.name, err)
		}
	}
}

func TestReportOptions(t *testing.T) {
	dir := t.TempDir()
	legal := filepath.Join(dir, "legal.md")
	if err := os.WriteFile(legal, []byte("# Aviso\n\nEl **firmante** autoriza.\n"), 0o644); err != nil {
		t.Fatalf("write legal: %v", err)
	}
	cfg := Config{FormCode: "X-1", FormRevision: "Rev 2", UTCOffset: -time.Hour, Compress: true, LegalTextPath: legal}
	opts, err := cfg.ReportOptions()
	if err != nil {
		t.Fatalf("report options: %v", err)
	}
	if opts.LegalText != "Aviso\n\nEl firmante autoriza." {
		t.Fatalf("legal text = %q", opts.LegalText)
	}
	if opts.Compress != CompressLevel || opts.FormCode != "X-1" || opts.Revision != "Rev 2" || opts.UTCOffset != -time.Hour {
		t.Fatalf("opts = %+v", opts)
	}

	cfg.LogoPath = filepath.Join(dir, "missing.png")
	if _, err := cfg.ReportOptions(); err == nil {
		t.Fatal("expected missing logo error")
	}
}
