package usecase_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/travishathaway/gdfm/internal/config"
	"github.com/travishathaway/gdfm/internal/database"
	"github.com/travishathaway/gdfm/internal/domain"
	"github.com/travishathaway/gdfm/internal/repository"
	"github.com/travishathaway/gdfm/internal/usecase"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	stores usecase.Stores
	repo   *domain.Repository
	logger *logrus.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := database.Open(context.Background(), config.Database{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "gdfm.db"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stores := usecase.Stores{
		Repos:        repository.NewRepoRepository(db),
		PullRequests: repository.NewPRRepository(db),
		Reviews:      repository.NewReviewRepository(db),
		Events:       repository.NewEventRepository(db),
	}

	repo, err := stores.Repos.Create(context.Background(), "octo", "hello")
	require.NoError(t, err)

	return &fixture{stores: stores, repo: repo, logger: logger}
}

func collectorConfig() config.Collector {
	return config.Collector{
		Concurrency: 5,
		PageSize:    100,
		Strategy:    "link",
		State:       "all",
		Kinds:       "all",
	}
}

func (f *fixture) collector(t *testing.T, client domain.RemoteClient, cfg config.Collector, progress domain.ProgressReporter) domain.CollectorUseCase {
	t.Helper()
	uc, err := usecase.NewCollectorUseCase(client, f.stores, cfg, progress, f.logger)
	require.NoError(t, err)
	return uc
}

func TestCollectAll_EmptyRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	remote := &stubRemote{}
	uc := f.collector(t, remote, collectorConfig(), nil)

	total, err := uc.ResolveTotal(ctx, "octo", "hello")
	require.NoError(t, err)
	assert.Equal(t, 0, total.Pages)
	assert.Equal(t, 0, total.Items)

	summary, err := uc.CollectAll(ctx, "octo", "hello", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Pages)
	assert.Equal(t, 0, summary.PullRequests)
	assert.Empty(t, summary.Failures)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, "octo/hello", summary.Repository)
}

func TestCollectAll_FivePagesOfHundred(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	remote := &stubRemote{pages: 5, itemsPerPage: 100, reviews: 1, events: 1}
	progress := &recordingProgress{}
	uc := f.collector(t, remote, collectorConfig(), progress)

	summary, err := uc.CollectAll(ctx, "octo", "hello", 5)

	require.NoError(t, err)
	assert.Equal(t, 5, summary.Pages)
	assert.Equal(t, 5, summary.PagesFetched)
	assert.Equal(t, 500, summary.PullRequests)
	assert.Equal(t, 500, summary.ItemsAttempted)
	assert.Equal(t, 500, summary.Reviews)
	assert.Equal(t, 500, summary.Events)
	assert.Empty(t, summary.Failures)

	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5}, progress.pages)
	assert.Equal(t, 500, progress.items)
	assert.Zero(t, progress.itemErrors)

	stored, err := f.stores.PullRequests.CountByRepository(ctx, f.repo.ID)
	require.NoError(t, err)
	assert.Equal(t, 500, stored)
}

func TestCollectAll_FailedPageIsSkipped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	remote := &stubRemote{pages: 5, itemsPerPage: 100, failPages: map[int]bool{3: true}}
	progress := &recordingProgress{}
	uc := f.collector(t, remote, collectorConfig(), progress)

	summary, err := uc.CollectAll(ctx, "octo", "hello", 5)

	require.NoError(t, err)
	assert.Equal(t, 400, summary.PullRequests)
	assert.Equal(t, 4, summary.PagesFetched)

	failures := summary.FailuresOf(domain.UnitPage)
	require.Len(t, failures, 1)
	assert.Equal(t, 3, failures[0].Page)
	assert.ErrorIs(t, failures[0].Err, domain.ErrTransientFetch)
	assert.Equal(t, 1, progress.pageErrors)

	_, err = f.stores.PullRequests.GetByNumber(ctx, f.repo.ID, 201)
	assert.ErrorIs(t, err, domain.ErrPullRequestNotFound)
	_, err = f.stores.PullRequests.GetByNumber(ctx, f.repo.ID, 301)
	assert.NoError(t, err)
}

func TestCollectAll_FailFast(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	remote := &stubRemote{pages: 5, itemsPerPage: 100, failPages: map[int]bool{2: true}}
	cfg := collectorConfig()
	cfg.FailFast = true
	uc := f.collector(t, remote, cfg, nil)

	summary, err := uc.CollectAll(ctx, "octo", "hello", 1)

	assert.ErrorIs(t, err, domain.ErrTransientFetch)
	require.NotNil(t, summary)
	assert.Len(t, summary.FailuresOf(domain.UnitPage), 1)
	assert.Less(t, summary.PullRequests, 500)
}

func TestCollectAll_ConcurrencyCeiling(t *testing.T) {
	for _, ceiling := range []int{1, 3, 5} {
		ctx := context.Background()
		f := newFixture(t)
		remote := &stubRemote{pages: 10, itemsPerPage: 5, reviews: 1, events: 1, latency: 3 * time.Millisecond}
		uc := f.collector(t, remote, collectorConfig(), nil)

		summary, err := uc.CollectAll(ctx, "octo", "hello", ceiling)

		require.NoError(t, err)
		assert.Equal(t, 50, summary.PullRequests)
		assert.LessOrEqual(t, remote.maxInFlight.Load(), int64(ceiling))
		assert.Zero(t, remote.inFlight.Load())
		if ceiling > 1 {
			assert.GreaterOrEqual(t, remote.maxInFlight.Load(), int64(2))
		}
	}
}

func TestCollectAll_RerunSkipsStoredPullRequests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	remote := &stubRemote{pages: 2, itemsPerPage: 3, reviews: 2, events: 1}
	uc := f.collector(t, remote, collectorConfig(), nil)

	first, err := uc.CollectAll(ctx, "octo", "hello", 2)
	require.NoError(t, err)
	assert.Equal(t, 6, first.PullRequests)
	assert.Equal(t, 12, first.Reviews)

	second, err := uc.CollectAll(ctx, "octo", "hello", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, second.PullRequests)
	assert.Equal(t, 6, second.PullRequestsSkipped)
	assert.Equal(t, 0, second.ItemsAttempted)
	assert.Empty(t, second.Failures)
	assert.NotEqual(t, first.RunID, second.RunID)

	pr, err := f.stores.PullRequests.GetByNumber(ctx, f.repo.ID, 1)
	require.NoError(t, err)
	reviews, err := f.stores.Reviews.CountByPullRequest(ctx, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reviews)
}

func TestCollectAll_FailedListKeepsOtherList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	remote := &stubRemote{pages: 1, itemsPerPage: 3, reviews: 1, events: 2, failReviews: map[int]bool{2: true}}
	progress := &recordingProgress{}
	uc := f.collector(t, remote, collectorConfig(), progress)

	summary, err := uc.CollectAll(ctx, "octo", "hello", 5)

	require.NoError(t, err)
	assert.Equal(t, 3, summary.PullRequests)
	assert.Equal(t, 2, summary.Reviews)
	assert.Equal(t, 6, summary.Events)

	failures := summary.FailuresOf(domain.UnitReviews)
	require.Len(t, failures, 1)
	assert.Equal(t, 2, failures[0].Number)
	assert.Equal(t, 1, progress.itemErrors)

	pr, err := f.stores.PullRequests.GetByNumber(ctx, f.repo.ID, 2)
	require.NoError(t, err)
	events, err := f.stores.Events.CountByPullRequest(ctx, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, events)
}

func TestCollectAll_IntegrityErrorStopsJob(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.stores.Events = parentlessEvents{}
	remote := &stubRemote{pages: 2, itemsPerPage: 2, events: 1}
	uc := f.collector(t, remote, collectorConfig(), nil)

	summary, err := uc.CollectAll(ctx, "octo", "hello", 2)

	assert.ErrorIs(t, err, domain.ErrParentNotFound)
	assert.NotNil(t, summary)
}

func TestCollectAll_UntrackedRepository(t *testing.T) {
	f := newFixture(t)
	remote := &stubRemote{pages: 1, itemsPerPage: 1}
	uc := f.collector(t, remote, collectorConfig(), nil)

	summary, err := uc.CollectAll(context.Background(), "octo", "unknown", 5)

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, domain.ErrRepositoryNotFound)
	assert.Zero(t, remote.calls.Load())
}

func TestCollectAll_SearchCountStrategy(t *testing.T) {
	f := newFixture(t)
	remote := &stubRemote{pages: 3, itemsPerPage: 10}
	cfg := collectorConfig()
	cfg.Strategy = "count"
	cfg.Kinds = "reviews"
	cfg.PageSize = 10
	uc := f.collector(t, remote, cfg, nil)

	total, err := uc.ResolveTotal(context.Background(), "octo", "hello")
	require.NoError(t, err)
	// 30 items over pages of 10
	assert.Equal(t, 3, total.Pages)
	assert.Equal(t, 30, total.Items)

	summary, err := uc.CollectAll(context.Background(), "octo", "hello", 5)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Pages)
	assert.Equal(t, 30, summary.PullRequests)
	assert.Zero(t, remote.timelineCalls)
}

func TestNewCollectorUseCase_InvalidConfig(t *testing.T) {
	f := newFixture(t)
	cfg := collectorConfig()
	cfg.Strategy = "guess"

	uc, err := usecase.NewCollectorUseCase(&stubRemote{}, f.stores, cfg, nil, f.logger)

	assert.Nil(t, uc)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
