package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// CollectSubset re-collects the secondary lists of stored pull requests one
// at a time. The configured delay runs from the end of one item to the start
// of the next. An empty numbers list selects every stored pull request of the
// repository.
func (uc *CollectorUseCase) CollectSubset(ctx context.Context, owner, repo string, numbers []int) (*domain.CollectionSummary, error) {
	// 1. Validate input
	if err := validateRepository(owner, repo); err != nil {
		return nil, err
	}
	for _, n := range numbers {
		if n <= 0 {
			return nil, fmt.Errorf("%w: %d", domain.ErrInvalidNumber, n)
		}
	}

	tracked, err := uc.repoRepo.GetByOwnerName(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	// 2. Every requested pull request must be stored
	wanted := lo.Uniq(numbers)
	prs, err := uc.prRepo.ListByNumbers(ctx, tracked.ID, wanted)
	if err != nil {
		return nil, err
	}
	if len(wanted) > 0 && len(prs) != len(wanted) {
		stored := lo.Map(prs, func(pr *domain.PullRequest, _ int) int { return pr.Number })
		missing := lo.Without(wanted, stored...)
		return nil, fmt.Errorf("%w: requested %d, stored %d, missing %v",
			domain.ErrCountMismatch, len(wanted), len(prs), missing)
	}

	summary := newSummary(tracked)
	agg := &aggregator{summary: summary, progress: uc.progress}

	logger := uc.logger.WithFields(logrus.Fields{
		"run_id":     summary.RunID,
		"repository": summary.Repository,
	})
	logger.WithFields(logrus.Fields{
		"pull_requests": len(prs),
		"delay":         uc.subsetDelay.String(),
	}).Info("Subset collection started")

	// 3. One item at a time, one remote call at a time
	sem := semaphore.NewWeighted(1)
	for i, pr := range prs {
		if i > 0 {
			if err := pause(ctx, uc.subsetDelay); err != nil {
				logger.WithFields(summaryFields(summary)).WithError(err).Warn("Subset collection interrupted")
				return summary, err
			}
		}

		res := uc.sub.collect(ctx, sem, tracked.Owner, tracked.Name, pr, logger)
		itemOutcome{res: res}.apply(agg)
		if res.Fatal != nil {
			logger.WithFields(summaryFields(summary)).WithError(res.Fatal).Error("Subset collection stopped")
			return summary, res.Fatal
		}
	}

	logger.WithFields(summaryFields(summary)).Info("Subset collection finished")
	return summary, nil
}

// pause waits d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
