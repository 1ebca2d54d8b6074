package main

import (
	"context"
	"fmt"
	"io"

	"github.com/travishathaway/gdfm/internal/config"
	"github.com/travishathaway/gdfm/internal/database"
	"github.com/travishathaway/gdfm/internal/domain"
	"github.com/travishathaway/gdfm/internal/github"
	"github.com/travishathaway/gdfm/internal/repository"
	"github.com/travishathaway/gdfm/internal/usecase"

	jsoniter "github.com/json-iterator/go"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// app holds what every command shares.
type app struct {
	cfg    config.Config
	logger *logrus.Logger
	db     *sqlx.DB
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Unknown LOG_LEVEL %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// loadApp reads configuration and builds the logger without touching storage.
func loadApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: newLogger(cfg.LogLevel)}, nil
}

// openApp additionally opens and migrates the database.
func openApp(ctx context.Context) (*app, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, a.cfg.Database, a.logger)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.logger.WithField("driver", a.cfg.Database.Driver).Debug("Database connected")
	return a, nil
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *app) projectUseCase() domain.ProjectUseCase {
	return usecase.NewProjectUseCase(
		repository.NewRepoRepository(a.db),
		repository.NewMaintainerRepository(a.db),
	)
}

func (a *app) statsUseCase() domain.StatsUseCase {
	return usecase.NewStatsUseCase(
		repository.NewRepoRepository(a.db),
		repository.NewStatsRepository(a.db),
	)
}

// collectorUseCase validates the GitHub settings, so it fails before any
// remote call when the token is missing.
func (a *app) collectorUseCase() (domain.CollectorUseCase, error) {
	client, err := github.NewClient(a.cfg.GitHub, a.logger)
	if err != nil {
		return nil, err
	}

	stores := usecase.Stores{
		Repos:        repository.NewRepoRepository(a.db),
		PullRequests: repository.NewPRRepository(a.db),
		Reviews:      repository.NewReviewRepository(a.db),
		Events:       repository.NewEventRepository(a.db),
	}
	return usecase.NewCollectorUseCase(client, stores, a.cfg.Collector, usecase.NewLogProgress(a.logger), a.logger)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
