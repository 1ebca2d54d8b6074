package domain

import (
	"bytes"
	"context"
	"time"
)

// RemoteUser is the GitHub account attached to a record.
type RemoteUser struct {
	Login string `json:"login"`
}

// RemotePullRequest is a pull request as returned by the listing endpoint.
type RemotePullRequest struct {
	ID                int64       `json:"id"`
	Number            int         `json:"number"`
	Title             string      `json:"title"`
	State             string      `json:"state"`
	CreatedAt         *time.Time  `json:"created_at"`
	UpdatedAt         *time.Time  `json:"updated_at"`
	ClosedAt          *time.Time  `json:"closed_at"`
	MergedAt          *time.Time  `json:"merged_at"`
	User              *RemoteUser `json:"user"`
	AuthorAssociation string      `json:"author_association"`
}

// RemoteReview is a pull request review.
type RemoteReview struct {
	ID                int64       `json:"id"`
	User              *RemoteUser `json:"user"`
	State             string      `json:"state"`
	AuthorAssociation string      `json:"author_association"`
	SubmittedAt       *time.Time  `json:"submitted_at"`
}

// RemoteTimelineEvent is one entry of an issue timeline. Depending on the
// event kind GitHub fills actor or user, created_at or submitted_at.
type RemoteTimelineEvent struct {
	ID                *RemoteID   `json:"id"`
	Event             string      `json:"event"`
	Actor             *RemoteUser `json:"actor"`
	User              *RemoteUser `json:"user"`
	AuthorAssociation string      `json:"author_association"`
	CreatedAt         *time.Time  `json:"created_at"`
	SubmittedAt       *time.Time  `json:"submitted_at"`
}

// ActorLogin returns the login of whoever caused the event.
func (e *RemoteTimelineEvent) ActorLogin() string {
	switch {
	case e.Actor != nil:
		return e.Actor.Login
	case e.User != nil:
		return e.User.Login
	default:
		return ""
	}
}

// Timestamp returns when the event happened.
func (e *RemoteTimelineEvent) Timestamp() *time.Time {
	if e.CreatedAt != nil {
		return e.CreatedAt
	}
	return e.SubmittedAt
}

// RemoteID keeps a remote identifier verbatim whether it was encoded as a
// JSON number or a string.
type RemoteID string

func (id *RemoteID) UnmarshalJSON(b []byte) error {
	*id = RemoteID(bytes.Trim(b, `"`))
	return nil
}

// ListPage is one page of a listing together with its Link header.
type ListPage[T any] struct {
	Items []*T
	Link  string
}

// PullRequestListOptions parameterizes the pull request listing.
type PullRequestListOptions struct {
	State   string
	Page    int
	PerPage int
}

// RemoteClient defines the calls made against the code-hosting API.
type RemoteClient interface {
	ListPullRequests(ctx context.Context, owner, repo string, opts PullRequestListOptions) (*ListPage[RemotePullRequest], error)
	CountPullRequests(ctx context.Context, owner, repo, state string) (int, error)
	ListReviews(ctx context.Context, owner, repo string, number, page, perPage int) (*ListPage[RemoteReview], error)
	ListTimeline(ctx context.Context, owner, repo string, number, page, perPage int) (*ListPage[RemoteTimelineEvent], error)
}
