package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recur/internal/database"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Recur"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"recur"`

		MaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnLifetime time.Duration `envconfig:"DB_CONN_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	Extraction struct {
		PDFToText string        `envconfig:"PDFTOTEXT_BIN" default:"pdftotext"`
		Timeout   time.Duration `envconfig:"EXTRACTION_TIMEOUT" default:"60s"`
	}

	Engine struct {
		MaxCandidates      int             `envconfig:"MAX_CANDIDATES" default:"25"`
		ReferenceTextLimit int             `envconfig:"REFERENCE_TEXT_LIMIT" default:"120"`
		AnnualThreshold    decimal.Decimal `envconfig:"ANNUAL_THRESHOLD" default:"1000"`
		DefaultConfidence  int             `envconfig:"DEFAULT_CONFIDENCE" default:"85"`
		RulesFile          string          `envconfig:"RULES_FILE"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// DatabaseOptions maps the DB settings onto database.Options.
func (c *Config) DatabaseOptions() database.Options {
	return database.Options{
		DSN:          c.ConnectionString(),
		MaxOpenConns: c.DB.MaxOpenConns,
		MaxIdleConns: c.DB.MaxIdleConns,
		ConnLifetime: c.DB.ConnLifetime,
	}
}

// EngineOptions maps the engine settings onto recurring.Options.
func (c *Config) EngineOptions() recurring.Options {
	return recurring.Options{
		MaxCandidates:     c.Engine.MaxCandidates,
		ReferenceLimit:    c.Engine.ReferenceTextLimit,
		AnnualThreshold:   c.Engine.AnnualThreshold,
		DefaultConfidence: c.Engine.DefaultConfidence,
	}
}

// Rules returns the rules file contents when RULES_FILE is set and the
// built-in rules otherwise.
func (c *Config) Rules() (recurring.Rules, error) {
	if c.Engine.RulesFile == "" {
		return recurring.DefaultRules(), nil
	}

	return recurring.LoadRules(c.Engine.RulesFile)
}

// NewEngine builds the extraction engine from the configuration.
func (c *Config) NewEngine() (*recurring.Engine, error) {
	rules, err := c.Rules()
	if err != nil {
		return nil, err
	}

	return recurring.NewEngine(rules, c.EngineOptions())
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
