package usecase

import (
	"context"

	"github.com/travishathaway/gdfm/internal/domain"
)

// StatsUseCase implements the statistics operations.
type StatsUseCase struct {
	repoRepo  domain.RepoRepository
	statsRepo domain.StatsRepository
}

// NewStatsUseCase creates a new StatsUseCase.
func NewStatsUseCase(repoRepo domain.RepoRepository, statsRepo domain.StatsRepository) domain.StatsUseCase {
	return &StatsUseCase{
		repoRepo:  repoRepo,
		statsRepo: statsRepo,
	}
}

// GetRepositoryStats counts what has been collected for owner/repo.
func (uc *StatsUseCase) GetRepositoryStats(ctx context.Context, owner, repo string) (*domain.RepositoryStats, error) {
	tracked, err := uc.repoRepo.GetByOwnerName(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	stats, err := uc.statsRepo.GetRepositoryStats(ctx, tracked.ID)
	if err != nil {
		return nil, err
	}
	stats.Repository = tracked.FullName()
	return stats, nil
}

// GetReviewerStats returns review counts per reviewer of owner/repo.
func (uc *StatsUseCase) GetReviewerStats(ctx context.Context, owner, repo string) ([]*domain.ReviewerStat, error) {
	tracked, err := uc.repoRepo.GetByOwnerName(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	return uc.statsRepo.GetReviewerStats(ctx, tracked.ID)
}
