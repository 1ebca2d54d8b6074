package handler_test

import (
	"context"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/stretchr/testify/mock"
)

type ProjectUseCase struct {
	mock.Mock
}

func (m *ProjectUseCase) InitProject(ctx context.Context, path string, maintainers []string) (*domain.Repository, []*domain.Maintainer, error) {
	args := m.Called(ctx, path, maintainers)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Repository), args.Get(1).([]*domain.Maintainer), args.Error(2)
}

func (m *ProjectUseCase) ListRepositories(ctx context.Context) ([]*domain.Repository, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Repository), args.Error(1)
}

type CollectorUseCase struct {
	mock.Mock
}

func (m *CollectorUseCase) ResolveTotal(ctx context.Context, owner, repo string) (*domain.Total, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Total), args.Error(1)
}

func (m *CollectorUseCase) CollectAll(ctx context.Context, owner, repo string, concurrency int) (*domain.CollectionSummary, error) {
	args := m.Called(ctx, owner, repo, concurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CollectionSummary), args.Error(1)
}

func (m *CollectorUseCase) CollectSubset(ctx context.Context, owner, repo string, numbers []int) (*domain.CollectionSummary, error) {
	args := m.Called(ctx, owner, repo, numbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CollectionSummary), args.Error(1)
}

type StatsUseCase struct {
	mock.Mock
}

func (m *StatsUseCase) GetRepositoryStats(ctx context.Context, owner, repo string) (*domain.RepositoryStats, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepositoryStats), args.Error(1)
}

func (m *StatsUseCase) GetReviewerStats(ctx context.Context, owner, repo string) ([]*domain.ReviewerStat, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewerStat), args.Error(1)
}
