package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/travishathaway/gdfm/internal/config"
	"github.com/travishathaway/gdfm/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed migrations
var EmbedMigrations embed.FS

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

// Open connects to the configured store and applies migrations.
func Open(ctx context.Context, cfg config.Database, logger *logrus.Logger) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Driver {
	case DriverPostgres:
		db, err = openPostgres(cfg)
	case DriverSQLite:
		db, err = openSQLite(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown database driver %q", domain.ErrConfiguration, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	if err := MigrateDB(ctx, db.DB, cfg.Driver, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func openPostgres(cfg config.Database) (*sqlx.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return sqlx.NewDb(db, "pgx"), nil
}

func openSQLite(cfg config.Database) (*sqlx.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: DB_PATH is empty", domain.ErrConfiguration)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dsn := "file:" + cfg.Path +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// "sqlite3" selects the '?' bind type in sqlx.
	return sqlx.NewDb(db, "sqlite3"), nil
}

// MigrateDB applies the embedded migrations of the driver's dialect.
func MigrateDB(ctx context.Context, db *sql.DB, driver string, logger *logrus.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	dialect, err := setupGoose(driver, logger)
	if err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, migrationsDir(driver)); err != nil {
		return fmt.Errorf("migrate %s: %w", dialect, err)
	}

	return nil
}

// Destroy removes every table and row. For sqlite the database file itself
// is deleted.
func Destroy(ctx context.Context, cfg config.Database, logger *logrus.Logger) error {
	switch cfg.Driver {
	case DriverSQLite:
		for _, suffix := range []string{"", "-wal", "-shm"} {
			if err := os.Remove(cfg.Path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove database file: %w", err)
			}
		}
		logger.WithField("path", cfg.Path).Info("Database file removed")
		return nil
	case DriverPostgres:
		db, err := openPostgres(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		gooseMu.Lock()
		defer gooseMu.Unlock()

		if _, err := setupGoose(cfg.Driver, logger); err != nil {
			return err
		}
		if err := goose.DownToContext(ctx, db.DB, migrationsDir(cfg.Driver), 0); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		logger.WithField("database", cfg.Name).Info("Database tables dropped")
		return nil
	default:
		return fmt.Errorf("%w: unknown database driver %q", domain.ErrConfiguration, cfg.Driver)
	}
}

func setupGoose(driver string, logger *logrus.Logger) (string, error) {
	dialect := "postgres"
	if driver == DriverSQLite {
		dialect = "sqlite3"
	}

	goose.SetBaseFS(EmbedMigrations)
	if logger != nil {
		goose.SetLogger(logger)
	}
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("goose dialect: %w", err)
	}
	return dialect, nil
}

func migrationsDir(driver string) string {
	return "migrations/" + driver
}
