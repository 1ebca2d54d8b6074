package repository

import (
	"context"
	"fmt"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/jmoiron/sqlx"
)

// MaintainerRepository stores maintainers and their repositories.
type MaintainerRepository struct {
	db *sqlx.DB
}

// NewMaintainerRepository creates a new MaintainerRepository.
func NewMaintainerRepository(db *sqlx.DB) domain.MaintainerRepository {
	return &MaintainerRepository{db: db}
}

// CreateMany stores the usernames that are not stored yet and returns the
// maintainers for all of them, ordered by username.
func (r *MaintainerRepository) CreateMany(ctx context.Context, usernames []string) ([]*domain.Maintainer, error) {
	if len(usernames) == 0 {
		return []*domain.Maintainer{}, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// 1. Insert missing maintainers
	insert := tx.Rebind(`INSERT INTO maintainers (username) VALUES (?) ON CONFLICT (username) DO NOTHING`)
	for _, username := range usernames {
		if _, err = tx.ExecContext(ctx, insert, username); err != nil {
			return nil, fmt.Errorf("failed to create maintainer %s: %w", username, err)
		}
	}

	// 2. Read back the canonical rows
	query, args, err := sqlx.In(`SELECT id, username FROM maintainers WHERE username IN (?) ORDER BY username`, usernames)
	if err != nil {
		return nil, fmt.Errorf("failed to build maintainers query: %w", err)
	}
	var maintainers []*domain.Maintainer
	if err = tx.SelectContext(ctx, &maintainers, tx.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get maintainers: %w", err)
	}

	// 3. Commit
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return maintainers, nil
}

// AddToRepository links maintainers to a repository. Existing links are kept.
func (r *MaintainerRepository) AddToRepository(ctx context.Context, repoID int64, maintainers []*domain.Maintainer) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	insert := tx.Rebind(`INSERT INTO repository_maintainers (repo_id, maintainer_id) VALUES (?, ?)
		ON CONFLICT (repo_id, maintainer_id) DO NOTHING`)
	for _, m := range maintainers {
		if _, err = tx.ExecContext(ctx, insert, repoID, m.ID); err != nil {
			if classify(err) == constraintForeignKey {
				err = fmt.Errorf("%w: repository %d or maintainer %s", domain.ErrParentNotFound, repoID, m.Username)
				return err
			}
			return fmt.Errorf("failed to add maintainer %s: %w", m.Username, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListByRepository returns the maintainers of a repository ordered by username.
func (r *MaintainerRepository) ListByRepository(ctx context.Context, repoID int64) ([]*domain.Maintainer, error) {
	var maintainers []*domain.Maintainer
	err := r.db.SelectContext(ctx, &maintainers, r.db.Rebind(`
		SELECT m.id, m.username
		FROM maintainers m
		JOIN repository_maintainers rm ON rm.maintainer_id = m.id
		WHERE rm.repo_id = ?
		ORDER BY m.username`), repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list maintainers: %w", err)
	}
	return maintainers, nil
}
