package domain

import "context"

// CollectorUseCase defines the collection operations.
type CollectorUseCase interface {
	ResolveTotal(ctx context.Context, owner, repo string) (*Total, error)
	CollectAll(ctx context.Context, owner, repo string, concurrency int) (*CollectionSummary, error)
	CollectSubset(ctx context.Context, owner, repo string, numbers []int) (*CollectionSummary, error)
}

// ProjectUseCase defines setup of tracked repositories.
type ProjectUseCase interface {
	InitProject(ctx context.Context, path string, maintainers []string) (*Repository, []*Maintainer, error)
	ListRepositories(ctx context.Context) ([]*Repository, error)
}

// StatsUseCase defines the statistics operations.
type StatsUseCase interface {
	GetRepositoryStats(ctx context.Context, owner, repo string) (*RepositoryStats, error)
	GetReviewerStats(ctx context.Context, owner, repo string) ([]*ReviewerStat, error)
}
