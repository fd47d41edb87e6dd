package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath      string        `env:"DB_PATH" envDefault:"data/courtconnect.db"`
	LogLevel    slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat   string        `env:"LOG_FORMAT" envDefault:"json"`
	JWTSecret   string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	WizardTTL   time.Duration `env:"WIZARD_TTL" envDefault:"2h"`
	MaxWizards  int64         `env:"WIZARD_MAX_SESSIONS" envDefault:"10000"`
	CORSOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	SPADir      string        `env:"SPA_DIR"`
	SeedDemo    bool          `env:"SEED_DEMO" envDefault:"false"`
	// Timezone is the IANA zone booking dates and times are read in.
	Timezone string `env:"TIMEZONE" envDefault:"UTC"`
}

// Load reads the environment, after applying any variables from the given
// dotenv files. Missing files are skipped; variables already set in the
// environment win.
func Load(dotenv ...string) (*Config, error) {
	for _, f := range dotenv {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.TokenTTL <= 0 || cfg.WizardTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL and WIZARD_TTL must be positive")
	}
	if cfg.MaxWizards < 1 {
		return nil, fmt.Errorf("WIZARD_MAX_SESSIONS must be at least 1, got %d", cfg.MaxWizards)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	return loc, nil
}
