package domain

import "context"

// PullRequest is a stored pull request row. Optional values are empty strings.
type PullRequest struct {
	ID                int64  `db:"id" json:"id"`
	RepoID            int64  `db:"repo_id" json:"repo_id"`
	Number            int    `db:"number" json:"number"`
	Title             string `db:"title" json:"title"`
	State             string `db:"state" json:"state"`
	CreatedAt         string `db:"created_at" json:"created_at"`
	UpdatedAt         string `db:"updated_at" json:"updated_at"`
	ClosedAt          string `db:"closed_at" json:"closed_at"`
	MergedAt          string `db:"merged_at" json:"merged_at"`
	Author            string `db:"author" json:"author"`
	AuthorAssociation string `db:"author_association" json:"author_association"`
}

// PRRepository defines storage of pull requests.
type PRRepository interface {
	// Create stores pr for the repository. It returns ErrPullRequestExists
	// when (repoID, number) is already stored; the stored row is not modified.
	Create(ctx context.Context, repoID int64, pr *RemotePullRequest) (*PullRequest, error)
	GetByNumber(ctx context.Context, repoID int64, number int) (*PullRequest, error)
	// ListByNumbers returns the stored pull requests among numbers, or every
	// pull request of the repository when numbers is empty. Ordered by number.
	ListByNumbers(ctx context.Context, repoID int64, numbers []int) ([]*PullRequest, error)
	CountByRepository(ctx context.Context, repoID int64) (int, error)
}
