package domain

import "context"

// PullRequestReview is a stored review row.
type PullRequestReview struct {
	ID                int64  `db:"id" json:"id"`
	IssuePullID       int64  `db:"issue_pull_id" json:"issue_pull_id"`
	Reviewer          string `db:"reviewer" json:"reviewer"`
	State             string `db:"state" json:"state"`
	AuthorAssociation string `db:"author_association" json:"author_association"`
	SubmittedAt       string `db:"submitted_at" json:"submitted_at"`
}

// ReviewRepository defines storage of reviews. Reviews have no dedup key:
// storing the same review twice produces two rows.
type ReviewRepository interface {
	Create(ctx context.Context, issuePullID int64, review *RemoteReview) (*PullRequestReview, error)
	CountByPullRequest(ctx context.Context, issuePullID int64) (int, error)
}
