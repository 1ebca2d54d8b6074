package domain

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// PullRequestEvent is a stored timeline event row.
type PullRequestEvent struct {
	ID                int64  `db:"id" json:"id"`
	RemoteID          *int64 `db:"remote_id" json:"remote_id,omitempty"`
	IssuePullID       int64  `db:"issue_pull_id" json:"issue_pull_id"`
	EventType         string `db:"event_type" json:"event_type"`
	Actor             string `db:"actor" json:"actor"`
	AuthorAssociation string `db:"author_association" json:"author_association"`
	CreatedAt         string `db:"created_at" json:"created_at"`
}

// EventRepository defines storage of timeline events.
type EventRepository interface {
	// Create stores ev. When ev carries a numeric remote id the insert is
	// keyed on it and created reports false if the row already existed.
	Create(ctx context.Context, issuePullID int64, ev *RemoteTimelineEvent) (event *PullRequestEvent, created bool, err error)
	CountByPullRequest(ctx context.Context, issuePullID int64) (int, error)
}

// ParseRemoteKey reports whether a remote identifier can key an event row:
// a positive base-10 integer that fits a signed 64-bit column.
func ParseRemoteKey(remote string) (int64, bool) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(remote, 10, 64)
	if err != nil || v == 0 || v > math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}
