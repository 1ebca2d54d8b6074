package repository

import (
	"context"
	"fmt"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/jmoiron/sqlx"
)

// StatsRepository implements domain.StatsRepository.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(db *sqlx.DB) domain.StatsRepository {
	return &StatsRepository{db: db}
}

// GetRepositoryStats counts stored pull requests, reviews and events.
func (r *StatsRepository) GetRepositoryStats(ctx context.Context, repoID int64) (*domain.RepositoryStats, error) {
	var row struct {
		PullRequests int64 `db:"pull_requests"`
		Reviews      int64 `db:"reviews"`
		Events       int64 `db:"events"`
	}

	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT
			(SELECT COUNT(*) FROM pulls p WHERE p.repo_id = ?) AS pull_requests,
			(SELECT COUNT(*) FROM issue_pull_reviews rv JOIN pulls p ON p.id = rv.issue_pull_id WHERE p.repo_id = ?) AS reviews,
			(SELECT COUNT(*) FROM issue_pull_events ev JOIN pulls p ON p.id = ev.issue_pull_id WHERE p.repo_id = ?) AS events`),
		repoID, repoID, repoID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository stats: %w", err)
	}

	return &domain.RepositoryStats{
		PullRequests: row.PullRequests,
		Reviews:      row.Reviews,
		Events:       row.Events,
	}, nil
}

// GetReviewerStats returns the number of reviews per reviewer, most active first.
func (r *StatsRepository) GetReviewerStats(ctx context.Context, repoID int64) ([]*domain.ReviewerStat, error) {
	stats := []*domain.ReviewerStat{}
	err := r.db.SelectContext(ctx, &stats, r.db.Rebind(`
		SELECT rv.reviewer AS reviewer, COUNT(*) AS review_count
		FROM issue_pull_reviews rv
		JOIN pulls p ON p.id = rv.issue_pull_id
		WHERE p.repo_id = ? AND rv.reviewer <> ''
		GROUP BY rv.reviewer
		ORDER BY review_count DESC, rv.reviewer`), repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviewer stats: %w", err)
	}
	return stats, nil
}
