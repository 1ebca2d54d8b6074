package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/travishathaway/gdfm/internal/domain"
	"github.com/travishathaway/gdfm/internal/github"

	"github.com/stretchr/testify/mock"
)

// RemoteClient is a testify mock of domain.RemoteClient.
type RemoteClient struct {
	mock.Mock
}

func (m *RemoteClient) ListPullRequests(ctx context.Context, owner, repo string, opts domain.PullRequestListOptions) (*domain.ListPage[domain.RemotePullRequest], error) {
	args := m.Called(ctx, owner, repo, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ListPage[domain.RemotePullRequest]), args.Error(1)
}

func (m *RemoteClient) CountPullRequests(ctx context.Context, owner, repo, state string) (int, error) {
	args := m.Called(ctx, owner, repo, state)
	return args.Int(0), args.Error(1)
}

func (m *RemoteClient) ListReviews(ctx context.Context, owner, repo string, number, page, perPage int) (*domain.ListPage[domain.RemoteReview], error) {
	args := m.Called(ctx, owner, repo, number, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ListPage[domain.RemoteReview]), args.Error(1)
}

func (m *RemoteClient) ListTimeline(ctx context.Context, owner, repo string, number, page, perPage int) (*domain.ListPage[domain.RemoteTimelineEvent], error) {
	args := m.Called(ctx, owner, repo, number, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ListPage[domain.RemoteTimelineEvent]), args.Error(1)
}

// stubRemote serves a synthetic repository and records how many calls are
// in flight at once.
type stubRemote struct {
	pages        int
	itemsPerPage int
	reviews      int
	events       int
	latency      time.Duration

	failPages   map[int]bool
	failReviews map[int]bool

	// reviewPages chains each reviews list over that many pages.
	reviewPages    int
	failReviewPage int
	// reviewsLoopBack makes every reviews page point back to page 1.
	reviewsLoopBack bool
	timelineLink    string

	inFlight    atomic.Int64
	maxInFlight atomic.Int64
	calls       atomic.Int64

	mu            sync.Mutex
	reviewCalls   int
	timelineCalls int
	spans         map[int]*span
}

// span is the first start and last end of the calls made for one pull request.
type span struct {
	start, end time.Time
}

func (s *stubRemote) track(number int, start time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spans == nil {
		s.spans = map[int]*span{}
	}
	sp, ok := s.spans[number]
	if !ok {
		sp = &span{start: start}
		s.spans[number] = sp
	}
	sp.end = time.Now()
}

func (s *stubRemote) span(number int) span {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.spans[number]
}

func (s *stubRemote) enter() func() {
	s.calls.Add(1)
	n := s.inFlight.Add(1)
	for {
		m := s.maxInFlight.Load()
		if n <= m || s.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
	return func() { s.inFlight.Add(-1) }
}

func (s *stubRemote) ListPullRequests(_ context.Context, owner, repo string, opts domain.PullRequestListOptions) (*domain.ListPage[domain.RemotePullRequest], error) {
	defer s.enter()()

	if s.failPages[opts.Page] {
		return nil, &github.FetchError{
			Op:         "list pulls",
			URL:        fmt.Sprintf("stub://%s/%s?page=%d", owner, repo, opts.Page),
			StatusCode: http.StatusBadGateway,
			Err:        errors.New("bad gateway"),
		}
	}

	page := &domain.ListPage[domain.RemotePullRequest]{Link: s.link(opts.Page)}
	if opts.Page < 1 || opts.Page > s.pages {
		return page, nil
	}

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= s.itemsPerPage; i++ {
		number := (opts.Page-1)*s.itemsPerPage + i
		page.Items = append(page.Items, &domain.RemotePullRequest{
			ID:                int64(number),
			Number:            number,
			Title:             fmt.Sprintf("PR %d", number),
			State:             "open",
			CreatedAt:         &created,
			User:              &domain.RemoteUser{Login: "alice"},
			AuthorAssociation: "MEMBER",
		})
	}
	return page, nil
}

func (s *stubRemote) link(page int) string {
	if s.pages <= 1 {
		return ""
	}
	const base = "https://api.test/repos/o/r/pulls?per_page=100&page="
	if page < s.pages {
		return fmt.Sprintf(`<%s%d>; rel="next", <%s%d>; rel="last"`, base, page+1, base, s.pages)
	}
	return fmt.Sprintf(`<%s%d>; rel="prev", <%s1>; rel="first"`, base, page-1, base)
}

func (s *stubRemote) CountPullRequests(context.Context, string, string, string) (int, error) {
	defer s.enter()()
	return s.pages * s.itemsPerPage, nil
}

func (s *stubRemote) ListReviews(_ context.Context, _, _ string, number, page, _ int) (*domain.ListPage[domain.RemoteReview], error) {
	start := time.Now()
	defer s.enter()()
	defer s.track(number, start)

	s.mu.Lock()
	s.reviewCalls++
	s.mu.Unlock()

	if s.failReviews[number] || (s.failReviewPage > 0 && s.failReviewPage == page) {
		return nil, &github.FetchError{Op: "list reviews", StatusCode: http.StatusInternalServerError, Err: errors.New("boom")}
	}

	res := &domain.ListPage[domain.RemoteReview]{}
	base := fmt.Sprintf("https://api.test/repos/o/r/pulls/%d/reviews?page=", number)
	switch {
	case s.reviewsLoopBack:
		res.Link = fmt.Sprintf(`<%s1>; rel="next"`, base)
	case page < s.reviewPages:
		res.Link = fmt.Sprintf(`<%s%d>; rel="next", <%s%d>; rel="last"`, base, page+1, base, s.reviewPages)
	}

	for i := 0; i < s.reviews; i++ {
		res.Items = append(res.Items, &domain.RemoteReview{
			ID:    int64(number*1000 + page*100 + i),
			User:  &domain.RemoteUser{Login: fmt.Sprintf("reviewer-%d", i)},
			State: "APPROVED",
		})
	}
	return res, nil
}

func (s *stubRemote) ListTimeline(_ context.Context, _, _ string, number, _, _ int) (*domain.ListPage[domain.RemoteTimelineEvent], error) {
	start := time.Now()
	defer s.enter()()
	defer s.track(number, start)

	s.mu.Lock()
	s.timelineCalls++
	s.mu.Unlock()

	res := &domain.ListPage[domain.RemoteTimelineEvent]{Link: s.timelineLink}
	for i := 0; i < s.events; i++ {
		id := domain.RemoteID(fmt.Sprintf("%d", number*100+i+1))
		res.Items = append(res.Items, &domain.RemoteTimelineEvent{
			ID:    &id,
			Event: "labeled",
			Actor: &domain.RemoteUser{Login: "bot"},
		})
	}
	return res, nil
}

// parentlessEvents fails every insert with a missing parent.
type parentlessEvents struct{}

func (parentlessEvents) Create(context.Context, int64, *domain.RemoteTimelineEvent) (*domain.PullRequestEvent, bool, error) {
	return nil, false, fmt.Errorf("%w: pull 0", domain.ErrParentNotFound)
}

func (parentlessEvents) CountByPullRequest(context.Context, int64) (int, error) {
	return 0, nil
}

// recordingProgress counts progress signals. Calls are never concurrent.
type recordingProgress struct {
	pages      []int
	pageErrors int
	items      int
	itemErrors int
}

func (p *recordingProgress) PageDone(page int, err error) {
	p.pages = append(p.pages, page)
	if err != nil {
		p.pageErrors++
	}
}

func (p *recordingProgress) ItemDone(_ int, err error) {
	p.items++
	if err != nil {
		p.itemErrors++
	}
}
