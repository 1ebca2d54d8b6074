package domain

import (
	"context"
	"fmt"
	"strings"
)

// Repository is a tracked GitHub repository.
type Repository struct {
	ID    int64  `db:"id" json:"id"`
	Owner string `db:"owner" json:"owner"`
	Name  string `db:"name" json:"name"`
}

// FullName returns owner/name.
func (r *Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Maintainer is a person responsible for one or more tracked repositories.
type Maintainer struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
}

// ParseRepositoryPath splits "owner/name" into its parts.
func ParseRepositoryPath(path string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(path), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepositoryPath, path)
	}
	return owner, name, nil
}

// RepoRepository defines storage of tracked repositories.
type RepoRepository interface {
	Create(ctx context.Context, owner, name string) (*Repository, error)
	GetByOwnerName(ctx context.Context, owner, name string) (*Repository, error)
	List(ctx context.Context) ([]*Repository, error)
}

// MaintainerRepository defines storage of maintainers.
type MaintainerRepository interface {
	CreateMany(ctx context.Context, usernames []string) ([]*Maintainer, error)
	AddToRepository(ctx context.Context, repoID int64, maintainers []*Maintainer) error
	ListByRepository(ctx context.Context, repoID int64) ([]*Maintainer, error)
}
