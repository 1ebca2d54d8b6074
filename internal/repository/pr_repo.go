package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/jmoiron/sqlx"
)

const pullColumns = `id, repo_id, number, title, state, created_at, updated_at,
	closed_at, merged_at, author, author_association`

// PRRepository stores pull requests.
type PRRepository struct {
	db *sqlx.DB
}

// NewPRRepository creates a new PRRepository.
func NewPRRepository(db *sqlx.DB) domain.PRRepository {
	return &PRRepository{db: db}
}

// Create inserts pr unless (repoID, number) is already stored.
func (r *PRRepository) Create(ctx context.Context, repoID int64, pr *domain.RemotePullRequest) (*domain.PullRequest, error) {
	if pr == nil || pr.Number <= 0 {
		return nil, domain.ErrInvalidNumber
	}

	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
		INSERT INTO pulls (repo_id, number, title, state, created_at, updated_at,
			closed_at, merged_at, author, author_association)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (repo_id, number) DO NOTHING
		RETURNING id`),
		repoID,
		pr.Number,
		pr.Title,
		domain.StoredPullRequestState(pr.State),
		formatTime(pr.CreatedAt),
		formatTime(pr.UpdatedAt),
		formatTime(pr.ClosedAt),
		formatTime(pr.MergedAt),
		login(pr.User),
		domain.StoredAuthorAssociation(pr.AuthorAssociation),
	).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, fmt.Errorf("%w: #%d", domain.ErrPullRequestExists, pr.Number)
		case classify(err) == constraintForeignKey:
			return nil, fmt.Errorf("%w: repository %d", domain.ErrParentNotFound, repoID)
		case classify(err) == constraintUnique:
			return nil, fmt.Errorf("%w: #%d", domain.ErrPullRequestExists, pr.Number)
		}
		return nil, fmt.Errorf("failed to create pull request #%d: %w", pr.Number, err)
	}

	return r.getByID(ctx, id)
}

// GetByNumber returns the stored pull request with the given number.
func (r *PRRepository) GetByNumber(ctx context.Context, repoID int64, number int) (*domain.PullRequest, error) {
	var pr domain.PullRequest
	err := r.db.GetContext(ctx, &pr,
		r.db.Rebind(`SELECT `+pullColumns+` FROM pulls WHERE repo_id = ? AND number = ?`),
		repoID, number,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: #%d", domain.ErrPullRequestNotFound, number)
		}
		return nil, fmt.Errorf("failed to get pull request: %w", err)
	}
	return &pr, nil
}

// ListByNumbers returns the stored pull requests among numbers, or all of
// the repository's pull requests when numbers is empty.
func (r *PRRepository) ListByNumbers(ctx context.Context, repoID int64, numbers []int) ([]*domain.PullRequest, error) {
	var (
		query = `SELECT ` + pullColumns + ` FROM pulls WHERE repo_id = ? ORDER BY number`
		args  = []any{repoID}
	)

	if len(numbers) > 0 {
		var err error
		query, args, err = sqlx.In(
			`SELECT `+pullColumns+` FROM pulls WHERE repo_id = ? AND number IN (?) ORDER BY number`,
			repoID, numbers,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to build pull requests query: %w", err)
		}
	}

	prs := []*domain.PullRequest{}
	if err := r.db.SelectContext(ctx, &prs, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}
	return prs, nil
}

// CountByRepository returns how many pull requests are stored for a repository.
func (r *PRRepository) CountByRepository(ctx context.Context, repoID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM pulls WHERE repo_id = ?`), repoID); err != nil {
		return 0, fmt.Errorf("failed to count pull requests: %w", err)
	}
	return count, nil
}

func (r *PRRepository) getByID(ctx context.Context, id int64) (*domain.PullRequest, error) {
	var pr domain.PullRequest
	if err := r.db.GetContext(ctx, &pr, r.db.Rebind(`SELECT `+pullColumns+` FROM pulls WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPullRequestNotFound
		}
		return nil, fmt.Errorf("failed to get pull request: %w", err)
	}
	return &pr, nil
}
