package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/travishathaway/gdfm/internal/domain"
	"github.com/travishathaway/gdfm/internal/github"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// itemResult is the outcome of one pull request's sub-collection.
type itemResult struct {
	Number        int
	Reviews       int
	Events        int
	EventsIgnored int
	Failures      []domain.UnitFailure

	// Err is the first list failure; the item is reported as failed.
	Err error
	// Fatal is an integrity error that must stop the job.
	Fatal error
}

// subCollector fetches and stores the reviews and timeline events of a pull request.
type subCollector struct {
	client     domain.RemoteClient
	reviewRepo domain.ReviewRepository
	eventRepo  domain.EventRepository
	pageSize   int
	kinds      domain.CollectKinds
}

// collect fetches both lists concurrently and persists each in listing
// order. Every remote call holds a permit of sem when sem is not nil.
func (s *subCollector) collect(ctx context.Context, sem *semaphore.Weighted, owner, repo string, pr *domain.PullRequest, logger *logrus.Entry) *itemResult {
	res := &itemResult{Number: pr.Number}

	var (
		reviews    []*domain.RemoteReview
		events     []*domain.RemoteTimelineEvent
		reviewsErr error
		eventsErr  error
		g          errgroup.Group
	)

	// 1. Fetch both lists
	if s.kinds.Reviews {
		g.Go(func() error {
			reviews, reviewsErr = fetchAll(ctx, sem, func(ctx context.Context, page int) (*domain.ListPage[domain.RemoteReview], error) {
				return s.client.ListReviews(ctx, owner, repo, pr.Number, page, s.pageSize)
			})
			return nil
		})
	}
	if s.kinds.Events {
		g.Go(func() error {
			events, eventsErr = fetchAll(ctx, sem, func(ctx context.Context, page int) (*domain.ListPage[domain.RemoteTimelineEvent], error) {
				return s.client.ListTimeline(ctx, owner, repo, pr.Number, page, s.pageSize)
			})
			return nil
		})
	}
	_ = g.Wait()

	if reviewsErr != nil {
		res.fail(domain.UnitReviews, fmt.Errorf("list reviews of #%d: %w", pr.Number, reviewsErr))
	}
	if eventsErr != nil {
		res.fail(domain.UnitEvents, fmt.Errorf("list timeline of #%d: %w", pr.Number, eventsErr))
	}

	// 2. Persist reviews
	for _, review := range reviews {
		if _, err := s.reviewRepo.Create(ctx, pr.ID, review); err != nil {
			if errors.Is(err, domain.ErrParentNotFound) {
				res.Fatal = err
				return res
			}
			res.record(domain.UnitReview, err)
			logger.WithError(err).WithField("number", pr.Number).Warn("Failed to store review")
			continue
		}
		res.Reviews++
	}

	// 3. Persist events
	for _, ev := range events {
		_, created, err := s.eventRepo.Create(ctx, pr.ID, ev)
		if err != nil {
			if errors.Is(err, domain.ErrParentNotFound) {
				res.Fatal = err
				return res
			}
			res.record(domain.UnitEvent, err)
			logger.WithError(err).WithField("number", pr.Number).Warn("Failed to store event")
			continue
		}
		if created {
			res.Events++
		} else {
			res.EventsIgnored++
		}
	}

	return res
}

func (r *itemResult) record(unit domain.Unit, err error) {
	r.Failures = append(r.Failures, domain.NewUnitFailure(unit, 0, r.Number, err))
}

func (r *itemResult) fail(unit domain.Unit, err error) {
	r.record(unit, err)
	if r.Err == nil {
		r.Err = err
	}
}

// fetchAll follows the next relation until the list is exhausted. A list
// that fails part way is discarded.
func fetchAll[T any](ctx context.Context, sem *semaphore.Weighted, list func(ctx context.Context, page int) (*domain.ListPage[T], error)) ([]*T, error) {
	var items []*T
	for page := 1; ; {
		res, err := withPermit(ctx, sem, func() (*domain.ListPage[T], error) {
			return list(ctx, page)
		})
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		items = append(items, res.Items...)

		links, err := github.ParseLinkHeader(res.Link)
		if err != nil {
			return nil, err
		}
		next, ok := links.Next()
		if !ok || next <= page {
			return items, nil
		}
		page = next
	}
}

// withPermit runs call while holding one permit of sem.
func withPermit[T any](ctx context.Context, sem *semaphore.Weighted, call func() (T, error)) (T, error) {
	if sem == nil {
		return call()
	}
	if err := sem.Acquire(ctx, 1); err != nil {
		var zero T
		return zero, err
	}
	defer sem.Release(1)
	return call()
}
