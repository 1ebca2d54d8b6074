package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/travishathaway/gdfm/internal/config"
	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// CollectorUseCase implements the collection operations.
type CollectorUseCase struct {
	client   domain.RemoteClient
	repoRepo domain.RepoRepository
	prRepo   domain.PRRepository
	resolver *Resolver
	sub      *subCollector
	progress domain.ProgressReporter
	logger   *logrus.Logger

	concurrency int
	pageSize    int
	state       string
	subsetDelay time.Duration
	failFast    bool
}

// Stores groups the repositories the collector writes to.
type Stores struct {
	Repos        domain.RepoRepository
	PullRequests domain.PRRepository
	Reviews      domain.ReviewRepository
	Events       domain.EventRepository
}

// NewCollectorUseCase creates a new CollectorUseCase. A nil progress
// reporter discards progress signals.
func NewCollectorUseCase(
	client domain.RemoteClient,
	stores Stores,
	cfg config.Collector,
	progress domain.ProgressReporter,
	logger *logrus.Logger,
) (domain.CollectorUseCase, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	strategy, err := domain.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	kinds, err := domain.ParseCollectKinds(cfg.Kinds)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = NopProgress{}
	}

	return &CollectorUseCase{
		client:   client,
		repoRepo: stores.Repos,
		prRepo:   stores.PullRequests,
		resolver: NewResolver(client, strategy, cfg.State, cfg.PageSize),
		sub: &subCollector{
			client:     client,
			reviewRepo: stores.Reviews,
			eventRepo:  stores.Events,
			pageSize:   cfg.PageSize,
			kinds:      kinds,
		},
		progress:    progress,
		logger:      logger,
		concurrency: cfg.Concurrency,
		pageSize:    cfg.PageSize,
		state:       cfg.State,
		subsetDelay: cfg.SubsetDelay,
		failFast:    cfg.FailFast,
	}, nil
}

// ResolveTotal returns the amount of remote work for owner/repo.
func (uc *CollectorUseCase) ResolveTotal(ctx context.Context, owner, repo string) (*domain.Total, error) {
	if err := validateRepository(owner, repo); err != nil {
		return nil, err
	}
	return uc.resolver.Resolve(ctx, owner, repo)
}

// CollectAll collects every listing page of a tracked repository, running at
// most concurrency remote calls at a time. A concurrency below one uses the
// configured default.
func (uc *CollectorUseCase) CollectAll(ctx context.Context, owner, repo string, concurrency int) (*domain.CollectionSummary, error) {
	if concurrency < 1 {
		concurrency = uc.concurrency
	}

	// 1. Tracked repository
	if err := validateRepository(owner, repo); err != nil {
		return nil, err
	}
	tracked, err := uc.repoRepo.GetByOwnerName(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	// 2. Amount of work
	total, err := uc.resolver.Resolve(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	summary := newSummary(tracked)
	summary.Pages = total.Pages

	logger := uc.logger.WithFields(logrus.Fields{
		"run_id":     summary.RunID,
		"repository": summary.Repository,
	})
	logger.WithFields(logrus.Fields{
		"pages":       total.Pages,
		"strategy":    total.Strategy,
		"concurrency": concurrency,
	}).Info("Collection started")

	// 3. Run the page tasks
	err = uc.runPages(ctx, &collectJob{
		repo:   tracked,
		pages:  total.Pages,
		sem:    semaphore.NewWeighted(int64(concurrency)),
		logger: logger,
	}, &aggregator{summary: summary, progress: uc.progress})

	entry := logger.WithFields(summaryFields(summary))
	if err != nil {
		entry.WithError(err).Error("Collection stopped")
		return summary, err
	}
	entry.Info("Collection finished")
	return summary, nil
}

// collectJob is the state shared by the tasks of one CollectAll call.
type collectJob struct {
	repo     *domain.Repository
	pages    int
	sem      *semaphore.Weighted
	outcomes chan<- outcome
	logger   *logrus.Entry
}

func (uc *CollectorUseCase) runPages(ctx context.Context, job *collectJob, agg *aggregator) error {
	g, gctx := errgroup.WithContext(ctx)

	outcomes := make(chan outcome, uc.concurrency)
	job.outcomes = outcomes

	done := make(chan struct{})
	go func() {
		defer close(done)
		for o := range outcomes {
			o.apply(agg)
		}
	}()

	for page := 1; page <= job.pages; page++ {
		if err := job.sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			return uc.collectPage(gctx, g, job, page)
		})
	}

	err := g.Wait()
	close(outcomes)
	<-done

	if err == nil {
		err = ctx.Err()
	}
	return err
}

// collectPage fetches one page while holding the permit acquired for it,
// stores its pull requests and launches their sub-collections on g.
func (uc *CollectorUseCase) collectPage(ctx context.Context, g *errgroup.Group, job *collectJob, page int) error {
	list, err := func() (*domain.ListPage[domain.RemotePullRequest], error) {
		defer job.sem.Release(1)
		return uc.client.ListPullRequests(ctx, job.repo.Owner, job.repo.Name, domain.PullRequestListOptions{
			State:   uc.state,
			Page:    page,
			PerPage: uc.pageSize,
		})
	}()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		err = fmt.Errorf("page %d: %w", page, err)
		job.outcomes <- pageOutcome{page: page, err: err}
		if uc.failFast {
			return err
		}
		return nil
	}

	for _, remote := range list.Items {
		pr, err := uc.prRepo.Create(ctx, job.repo.ID, remote)
		switch {
		case errors.Is(err, domain.ErrPullRequestExists):
			job.outcomes <- pullRequestOutcome{page: page, number: remote.Number, skipped: true}
			continue
		case errors.Is(err, domain.ErrParentNotFound):
			job.outcomes <- pullRequestOutcome{page: page, number: remote.Number, err: err}
			return err
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			job.outcomes <- pullRequestOutcome{page: page, number: remote.Number, err: err}
			continue
		}

		job.outcomes <- pullRequestOutcome{page: page, number: pr.Number}
		g.Go(func() error {
			res := uc.sub.collect(ctx, job.sem, job.repo.Owner, job.repo.Name, pr, job.logger)
			job.outcomes <- itemOutcome{res: res}
			return res.Fatal
		})
	}

	job.outcomes <- pageOutcome{page: page}
	return nil
}

func newSummary(repo *domain.Repository) *domain.CollectionSummary {
	return &domain.CollectionSummary{
		RunID:      xid.New().String(),
		Repository: repo.FullName(),
		Failures:   []domain.UnitFailure{},
	}
}

func summaryFields(s *domain.CollectionSummary) logrus.Fields {
	return logrus.Fields{
		"pages_fetched":         s.PagesFetched,
		"pull_requests":         s.PullRequests,
		"pull_requests_skipped": s.PullRequestsSkipped,
		"reviews":               s.Reviews,
		"events":                s.Events,
		"events_ignored":        s.EventsIgnored,
		"failures":              len(s.Failures),
	}
}

func validateRepository(owner, repo string) error {
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(repo) == "" {
		return fmt.Errorf("%w: %q/%q", domain.ErrInvalidRepositoryPath, owner, repo)
	}
	return nil
}
