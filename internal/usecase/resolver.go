package usecase

import (
	"context"
	"fmt"

	"github.com/travishathaway/gdfm/internal/domain"
	"github.com/travishathaway/gdfm/internal/github"
)

// Resolver discovers how many listing pages a repository has.
type Resolver struct {
	client   domain.RemoteClient
	strategy domain.Strategy
	state    string
	pageSize int
}

// NewResolver creates a Resolver using the given strategy.
func NewResolver(client domain.RemoteClient, strategy domain.Strategy, state string, pageSize int) *Resolver {
	return &Resolver{
		client:   client,
		strategy: strategy,
		state:    state,
		pageSize: pageSize,
	}
}

// Resolve returns the total amount of work for owner/repo.
func (r *Resolver) Resolve(ctx context.Context, owner, repo string) (*domain.Total, error) {
	switch r.strategy {
	case domain.StrategyLinkHeader:
		return r.resolveLinkHeader(ctx, owner, repo)
	case domain.StrategySearchCount:
		return r.resolveSearchCount(ctx, owner, repo)
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", domain.ErrConfiguration, r.strategy)
	}
}

// resolveLinkHeader reads the last relation of the first listing page.
// Without it there is a single page, or none when that page is empty.
func (r *Resolver) resolveLinkHeader(ctx context.Context, owner, repo string) (*domain.Total, error) {
	first, err := r.client.ListPullRequests(ctx, owner, repo, domain.PullRequestListOptions{
		State:   r.state,
		Page:    1,
		PerPage: r.pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve total: %w", err)
	}

	links, err := github.ParseLinkHeader(first.Link)
	if err != nil {
		return nil, fmt.Errorf("resolve total: %w", err)
	}

	total := &domain.Total{
		Strategy: domain.StrategyLinkHeader,
		Items:    -1,
		PageSize: r.pageSize,
	}

	if last, ok := links.Last(); ok {
		total.Pages = last
		return total, nil
	}

	total.Items = len(first.Items)
	if total.Items > 0 {
		total.Pages = 1
	}
	return total, nil
}

func (r *Resolver) resolveSearchCount(ctx context.Context, owner, repo string) (*domain.Total, error) {
	count, err := r.client.CountPullRequests(ctx, owner, repo, r.state)
	if err != nil {
		return nil, fmt.Errorf("resolve total: %w", err)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative total %d", domain.ErrParse, count)
	}

	return &domain.Total{
		Strategy: domain.StrategySearchCount,
		Pages:    PagesFor(count, r.pageSize),
		Items:    count,
		PageSize: r.pageSize,
	}, nil
}

// PagesFor returns ceil(items / pageSize).
func PagesFor(items, pageSize int) int {
	if items <= 0 || pageSize <= 0 {
		return 0
	}
	return (items + pageSize - 1) / pageSize
}
