package repository

import (
	"context"
	"fmt"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ReviewRepository stores pull request reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new ReviewRepository.
func NewReviewRepository(db *sqlx.DB) domain.ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create always inserts a new row.
func (r *ReviewRepository) Create(ctx context.Context, issuePullID int64, review *domain.RemoteReview) (*domain.PullRequestReview, error) {
	row := &domain.PullRequestReview{
		IssuePullID:       issuePullID,
		Reviewer:          login(review.User),
		State:             domain.StoredReviewState(review.State),
		AuthorAssociation: domain.StoredAuthorAssociation(review.AuthorAssociation),
		SubmittedAt:       formatTime(review.SubmittedAt),
	}

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
		INSERT INTO issue_pull_reviews (issue_pull_id, reviewer, state, author_association, submitted_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`),
		row.IssuePullID, row.Reviewer, row.State, row.AuthorAssociation, row.SubmittedAt,
	).Scan(&row.ID)
	if err != nil {
		if classify(err) == constraintForeignKey {
			return nil, fmt.Errorf("%w: pull %d", domain.ErrParentNotFound, issuePullID)
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return row, nil
}

// CountByPullRequest returns how many reviews are stored for a pull request.
func (r *ReviewRepository) CountByPullRequest(ctx context.Context, issuePullID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		r.db.Rebind(`SELECT COUNT(*) FROM issue_pull_reviews WHERE issue_pull_id = ?`), issuePullID)
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}
