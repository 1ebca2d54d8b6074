package domain

import "context"

// RepositoryStats counts what is stored for a tracked repository.
type RepositoryStats struct {
	Repository   string `json:"repository"`
	PullRequests int64  `json:"pull_requests"`
	Reviews      int64  `json:"reviews"`
	Events       int64  `json:"events"`
}

// ReviewerStat is the number of stored reviews submitted by one reviewer.
type ReviewerStat struct {
	Reviewer    string `db:"reviewer" json:"reviewer"`
	ReviewCount int64  `db:"review_count" json:"review_count"`
}

// StatsRepository defines read-only aggregates over collected data.
type StatsRepository interface {
	GetRepositoryStats(ctx context.Context, repoID int64) (*RepositoryStats, error)
	GetReviewerStats(ctx context.Context, repoID int64) ([]*ReviewerStat, error)
}
