package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/jmoiron/sqlx"
)

// RepoRepository stores tracked repositories.
type RepoRepository struct {
	db *sqlx.DB
}

// NewRepoRepository creates a new RepoRepository.
func NewRepoRepository(db *sqlx.DB) domain.RepoRepository {
	return &RepoRepository{db: db}
}

// Create inserts the repository and returns the stored row.
func (r *RepoRepository) Create(ctx context.Context, owner, name string) (*domain.Repository, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx,
		r.db.Rebind(`INSERT INTO repositories (owner, name) VALUES (?, ?) RETURNING id`),
		owner, name,
	).Scan(&id)
	if err != nil {
		if classify(err) == constraintUnique {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrRepositoryExists, owner, name)
		}
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}

	return r.getByID(ctx, id)
}

// GetByOwnerName returns the repository identified by owner/name.
func (r *RepoRepository) GetByOwnerName(ctx context.Context, owner, name string) (*domain.Repository, error) {
	var repo domain.Repository
	err := r.db.GetContext(ctx, &repo,
		r.db.Rebind(`SELECT id, owner, name FROM repositories WHERE owner = ? AND name = ?`),
		owner, name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrRepositoryNotFound, owner, name)
		}
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return &repo, nil
}

// List returns every tracked repository ordered by owner and name.
func (r *RepoRepository) List(ctx context.Context) ([]*domain.Repository, error) {
	var repos []*domain.Repository
	if err := r.db.SelectContext(ctx, &repos, `SELECT id, owner, name FROM repositories ORDER BY owner, name`); err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	return repos, nil
}

func (r *RepoRepository) getByID(ctx context.Context, id int64) (*domain.Repository, error) {
	var repo domain.Repository
	err := r.db.GetContext(ctx, &repo, r.db.Rebind(`SELECT id, owner, name FROM repositories WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRepositoryNotFound
		}
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return &repo, nil
}

// formatTime renders an optional remote timestamp as stored text.
func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func login(u *domain.RemoteUser) string {
	if u == nil {
		return ""
	}
	return u.Login
}
