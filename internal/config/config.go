package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	appName = "gdfm"
	dbFile  = "gdfm.db"
)

type Config struct {
	GitHub    GitHub
	Database  Database
	Collector Collector
	Server    Server
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

type GitHub struct {
	Token     string        `env:"GITHUB_TOKEN"`
	BaseURL   string        `env:"GITHUB_API_URL" envDefault:"https://api.github.com/"`
	UserAgent string        `env:"GITHUB_USER_AGENT" envDefault:"gdfm"`
	Timeout   time.Duration `env:"GITHUB_TIMEOUT" envDefault:"30s"`
	// RequestsPerSecond caps outgoing requests; zero disables the cap.
	RequestsPerSecond float64 `env:"GITHUB_REQUESTS_PER_SECOND" envDefault:"0"`
}

// Validate checks the values needed before any remote call is made.
func (g GitHub) Validate() error {
	if g.Token == "" {
		return fmt.Errorf("%w: GitHub token not found, set GITHUB_TOKEN", domain.ErrConfiguration)
	}
	if g.BaseURL == "" {
		return fmt.Errorf("%w: GITHUB_API_URL is empty", domain.ErrConfiguration)
	}
	if g.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: GITHUB_REQUESTS_PER_SECOND must not be negative", domain.ErrConfiguration)
	}
	return nil
}

type Database struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"`

	// sqlite
	Path string `env:"DB_PATH"`

	// postgres
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"password"`
	Name     string `env:"DB_NAME" envDefault:"gdfm"`
}

// DSN returns the postgres connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

type Collector struct {
	Concurrency int           `env:"COLLECT_CONCURRENCY" envDefault:"5"`
	PageSize    int           `env:"COLLECT_PAGE_SIZE" envDefault:"100"`
	Strategy    string        `env:"COLLECT_STRATEGY" envDefault:"link"`
	State       string        `env:"COLLECT_STATE" envDefault:"all"`
	Kinds       string        `env:"COLLECT_KINDS" envDefault:"all"`
	SubsetDelay time.Duration `env:"COLLECT_SUBSET_DELAY" envDefault:"1s"`
	FailFast    bool          `env:"COLLECT_FAIL_FAST" envDefault:"false"`
}

// Validate checks collector settings.
func (c Collector) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: COLLECT_CONCURRENCY must be at least 1", domain.ErrConfiguration)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("%w: COLLECT_PAGE_SIZE must be within 1..100", domain.ErrConfiguration)
	}
	if c.SubsetDelay < 0 {
		return fmt.Errorf("%w: COLLECT_SUBSET_DELAY must not be negative", domain.ErrConfiguration)
	}
	switch c.State {
	case "all", "open", "closed":
	default:
		return fmt.Errorf("%w: COLLECT_STATE must be all, open or closed", domain.ErrConfiguration)
	}
	if _, err := domain.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if _, err := domain.ParseCollectKinds(c.Kinds); err != nil {
		return err
	}
	return nil
}

type Server struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	if cfg.Database.Path == "" {
		path, err := defaultDBPath()
		if err != nil {
			return Config{}, err
		}
		cfg.Database.Path = path
	}

	if err := cfg.Collector.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultDBPath places the database under the user's data directory.
func defaultDBPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: cannot locate home directory: %v", domain.ErrConfiguration, err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, appName, dbFile), nil
}
