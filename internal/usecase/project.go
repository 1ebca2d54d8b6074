package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/samber/lo"
)

// ProjectUseCase sets up tracked repositories.
type ProjectUseCase struct {
	repoRepo       domain.RepoRepository
	maintainerRepo domain.MaintainerRepository
}

// NewProjectUseCase creates a new ProjectUseCase.
func NewProjectUseCase(repoRepo domain.RepoRepository, maintainerRepo domain.MaintainerRepository) domain.ProjectUseCase {
	return &ProjectUseCase{
		repoRepo:       repoRepo,
		maintainerRepo: maintainerRepo,
	}
}

// InitProject starts tracking a repository with at least one maintainer.
func (uc *ProjectUseCase) InitProject(ctx context.Context, path string, maintainers []string) (*domain.Repository, []*domain.Maintainer, error) {
	// 1. Validate input
	owner, name, err := domain.ParseRepositoryPath(path)
	if err != nil {
		return nil, nil, err
	}

	usernames := lo.Uniq(lo.Map(maintainers, func(m string, _ int) string {
		return strings.TrimSpace(m)
	}))
	if len(usernames) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one maintainer is required", domain.ErrInvalidMaintainer)
	}
	for _, u := range usernames {
		if u == "" || strings.ContainsAny(u, " \t/") {
			return nil, nil, fmt.Errorf("%w: %q", domain.ErrInvalidMaintainer, u)
		}
	}

	// 2. Create maintainers
	stored, err := uc.maintainerRepo.CreateMany(ctx, usernames)
	if err != nil {
		return nil, nil, err
	}

	// 3. Create repository
	repo, err := uc.repoRepo.Create(ctx, owner, name)
	if err != nil {
		return nil, nil, err
	}

	// 4. Link them
	if err := uc.maintainerRepo.AddToRepository(ctx, repo.ID, stored); err != nil {
		return nil, nil, err
	}

	return repo, stored, nil
}

// ListRepositories returns every tracked repository.
func (uc *ProjectUseCase) ListRepositories(ctx context.Context) ([]*domain.Repository, error) {
	return uc.repoRepo.List(ctx)
}
