// Package config loads server and report settings from ASISTENCIA_*
// environment variables, with command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/layout"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/report"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// CompressLevel is the zlib level used when Compress is set.
const CompressLevel = 6

var ErrInvalid = errors.New("invalid configuration")

// Config holds every runtime setting.
type Config struct {
	HTTPAddr      string        `env:"ASISTENCIA_HTTP_ADDR"       envDefault:":5000"`
	DBDriver      string        `env:"ASISTENCIA_DB_DRIVER"       envDefault:"sqlite"`
	DBPath        string        `env:"ASISTENCIA_DB_PATH"         envDefault:"firmas.db"`
	DatabaseURL   string        `env:"ASISTENCIA_DATABASE_URL"`
	RosterPath    string        `env:"ASISTENCIA_ROSTER_PATH"     envDefault:"trabajadores.csv"`
	ResetOnStart  bool          `env:"ASISTENCIA_RESET_ON_START"  envDefault:"true"`
	LogoPath      string        `env:"ASISTENCIA_LOGO_PATH"`
	LegalTextPath string        `env:"ASISTENCIA_LEGAL_TEXT_PATH"`
	FormCode      string        `env:"ASISTENCIA_FORM_CODE"       envDefault:"IQH-GRAL-F-010"`
	FormRevision  string        `env:"ASISTENCIA_FORM_REVISION"   envDefault:"Revisión No. 5"`
	UTCOffset     time.Duration `env:"ASISTENCIA_UTC_OFFSET"      envDefault:"-5h"`
	LogLevel      string        `env:"ASISTENCIA_LOG_LEVEL"       envDefault:"info"`
	Compress      bool          `env:"ASISTENCIA_COMPRESS"        envDefault:"true"`
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// AddFlags registers overrides for every setting, defaulting to the
// current values.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.HTTPAddr, "addr", c.HTTPAddr, "HTTP listen address")
	fs.StringVar(&c.DBDriver, "db-driver", c.DBDriver, "storage driver (sqlite or postgres)")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite database path")
	fs.StringVar(&c.DatabaseURL, "database-url", c.DatabaseURL, "Postgres connection URL")
	fs.StringVar(&c.RosterPath, "roster", c.RosterPath, "attendee roster: .xlsx, .xls or CSV (empty to skip import)")
	fs.BoolVar(&c.ResetOnStart, "reset", c.ResetOnStart, "clear the session on start")
	fs.StringVar(&c.LogoPath, "logo", c.LogoPath, "company logo image")
	fs.StringVar(&c.LegalTextPath, "legal-text", c.LegalTextPath, "markdown file replacing the legal text")
	fs.StringVar(&c.FormCode, "form-code", c.FormCode, "form code printed in the header")
	fs.StringVar(&c.FormRevision, "form-revision", c.FormRevision, "form revision printed in the header")
	fs.DurationVar(&c.UTCOffset, "utc-offset", c.UTCOffset, "offset applied to the printed date")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.BoolVar(&c.Compress, "compress", c.Compress, "compress PDF content streams")
}

// Validate checks driver-specific requirements.
func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.DBDriver)) {
	case DriverSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			return fmt.Errorf("%w: sqlite requires a database path", ErrInvalid)
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("%w: postgres requires a database url", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown db driver %q", ErrInvalid, c.DBDriver)
	}
	return nil
}

// ReportOptions reads the logo and legal text files and returns renderer
// options. Unset paths keep the built-in defaults.
func (c Config) ReportOptions() (report.Options, error) {
	opts := report.Options{
		FormCode:  c.FormCode,
		Revision:  c.FormRevision,
		UTCOffset: c.UTCOffset,
	}
	if c.Compress {
		opts.Compress = CompressLevel
	}
	if c.LogoPath != "" {
		logo, err := os.ReadFile(c.LogoPath)
		if err != nil {
			return report.Options{}, fmt.Errorf("read logo: %w", err)
		}
		opts.Logo = logo
	}
	if c.LegalTextPath != "" {
		src, err := os.ReadFile(c.LegalTextPath)
		if err != nil {
			return report.Options{}, fmt.Errorf("read legal text: %w", err)
		}
		opts.LegalText = layout.MarkdownText(string(src))
		if opts.LegalText == "" {
			return report.Options{}, fmt.Errorf("%w: legal text %s is empty", ErrInvalid, c.LegalTextPath)
		}
	}
	return opts, nil
}
