package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Libro"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		Driver   string `envconfig:"DB_DRIVER" default:"sqlite"`
		Path     string `envconfig:"DB_PATH" default:"libro.db"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"libro"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	}

	Auth struct {
		// Secret signs company-scoped bearer tokens. Empty disables token checks.
		Secret string `envconfig:"AUTH_SECRET"`
	}

	Import struct {
		MaxUpload  int64         `envconfig:"IMPORT_MAX_UPLOAD" default:"20971520"`
		StagingTTL time.Duration `envconfig:"IMPORT_STAGING_TTL" default:"15m"`
		Strict     bool          `envconfig:"IMPORT_STRICT" default:"true"`
	}

	// Company is the local single-company store used by the TUI and the CLI.
	Company struct {
		RUT  string `envconfig:"COMPANY_RUT"`
		Name string `envconfig:"COMPANY_NAME" default:"Mi Empresa"`
	}

	Ledger struct {
		BankAccountCode string `envconfig:"BANK_ACCOUNT_CODE" default:"1.01.01"`
	}
}

// DataSource returns the driver specific connection string.
func (c *Config) DataSource() string {
	if c.DB.Driver == "postgres" {
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
	}

	return c.DB.Path
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.DB.Driver != "sqlite" && cfg.DB.Driver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return &cfg, nil
}
