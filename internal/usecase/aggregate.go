package usecase

import "github.com/travishathaway/gdfm/internal/domain"

// aggregator owns the summary of a run. It is only used from one goroutine.
type aggregator struct {
	summary  *domain.CollectionSummary
	progress domain.ProgressReporter
}

// outcome is a completion message sent by a task to the aggregator.
type outcome interface {
	apply(a *aggregator)
}

type pageOutcome struct {
	page int
	err  error
}

func (o pageOutcome) apply(a *aggregator) {
	if o.err != nil {
		a.summary.Failures = append(a.summary.Failures, domain.NewUnitFailure(domain.UnitPage, o.page, 0, o.err))
	} else {
		a.summary.PagesFetched++
	}
	a.progress.PageDone(o.page, o.err)
}

type pullRequestOutcome struct {
	page    int
	number  int
	skipped bool
	err     error
}

func (o pullRequestOutcome) apply(a *aggregator) {
	switch {
	case o.err != nil:
		a.summary.Failures = append(a.summary.Failures, domain.NewUnitFailure(domain.UnitPullRequest, o.page, o.number, o.err))
	case o.skipped:
		a.summary.PullRequestsSkipped++
	default:
		a.summary.PullRequests++
	}
}

type itemOutcome struct {
	res *itemResult
}

func (o itemOutcome) apply(a *aggregator) {
	a.summary.ItemsAttempted++
	a.summary.Reviews += o.res.Reviews
	a.summary.Events += o.res.Events
	a.summary.EventsIgnored += o.res.EventsIgnored
	a.summary.Failures = append(a.summary.Failures, o.res.Failures...)

	err := o.res.Err
	if o.res.Fatal != nil {
		err = o.res.Fatal
	}
	a.progress.ItemDone(o.res.Number, err)
}
