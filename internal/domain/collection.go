package domain

import (
	"fmt"
	"strings"
)

// Strategy selects how the amount of remote work is discovered.
type Strategy string

const (
	StrategyLinkHeader  Strategy = "link"
	StrategySearchCount Strategy = "count"
)

// ParseStrategy validates a configured strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyLinkHeader:
		return StrategyLinkHeader, nil
	case StrategySearchCount:
		return StrategySearchCount, nil
	default:
		return "", fmt.Errorf("%w: unknown strategy %q", ErrConfiguration, s)
	}
}

// Total is the resolved amount of remote work.
type Total struct {
	Strategy Strategy `json:"strategy"`
	Pages    int      `json:"pages"`
	// Items is -1 when the strategy cannot know the item count.
	Items    int `json:"items"`
	PageSize int `json:"page_size"`
}

// CollectKinds selects the secondary lists fetched for each pull request.
type CollectKinds struct {
	Reviews bool
	Events  bool
}

// AllKinds fetches reviews and timeline events.
var AllKinds = CollectKinds{Reviews: true, Events: true}

// ParseCollectKinds accepts "reviews", "events", or "all" (also "").
func ParseCollectKinds(s string) (CollectKinds, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return AllKinds, nil
	case "reviews":
		return CollectKinds{Reviews: true}, nil
	case "events":
		return CollectKinds{Events: true}, nil
	default:
		return CollectKinds{}, fmt.Errorf("%w: unknown kinds %q", ErrConfiguration, s)
	}
}

// Unit names the piece of work a failure belongs to.
type Unit string

const (
	UnitPage        Unit = "page"
	UnitPullRequest Unit = "pull_request"
	UnitReviews     Unit = "reviews"
	UnitEvents      Unit = "events"
	UnitReview      Unit = "review"
	UnitEvent       Unit = "event"
)

// UnitFailure is an isolated failure recorded in a summary.
type UnitFailure struct {
	Unit    Unit   `json:"unit"`
	Page    int    `json:"page,omitempty"`
	Number  int    `json:"number,omitempty"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func NewUnitFailure(unit Unit, page, number int, err error) UnitFailure {
	return UnitFailure{
		Unit:    unit,
		Page:    page,
		Number:  number,
		Message: err.Error(),
		Err:     err,
	}
}

// CollectionSummary reports what a collection run persisted. A summary with
// no failures does not by itself mean the resolved total was covered.
type CollectionSummary struct {
	RunID      string `json:"run_id"`
	Repository string `json:"repository"`
	// Pages is the resolved page count; zero for subset runs.
	Pages        int `json:"pages"`
	PagesFetched int `json:"pages_fetched"`

	PullRequests        int `json:"pull_requests"`
	PullRequestsSkipped int `json:"pull_requests_skipped"`
	ItemsAttempted      int `json:"items_attempted"`
	Reviews             int `json:"reviews"`
	Events              int `json:"events"`
	EventsIgnored       int `json:"events_ignored"`

	Failures []UnitFailure `json:"failures"`
}

// FailuresOf returns the failures recorded for unit.
func (s *CollectionSummary) FailuresOf(unit Unit) []UnitFailure {
	var res []UnitFailure
	for _, f := range s.Failures {
		if f.Unit == unit {
			res = append(res, f)
		}
	}
	return res
}

// ProgressReporter receives completion signals. Calls are never concurrent.
type ProgressReporter interface {
	PageDone(page int, err error)
	ItemDone(number int, err error)
}
