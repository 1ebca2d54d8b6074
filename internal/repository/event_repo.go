package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/jmoiron/sqlx"
)

// EventRepository stores timeline events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *sqlx.DB) domain.EventRepository {
	return &EventRepository{db: db}
}

// Create inserts ev. Events with a numeric remote id are keyed on the
// remote_id column and ignored when already stored; others are always
// inserted. Local ids are always assigned by the database.
func (r *EventRepository) Create(ctx context.Context, issuePullID int64, ev *domain.RemoteTimelineEvent) (*domain.PullRequestEvent, bool, error) {
	row := &domain.PullRequestEvent{
		IssuePullID:       issuePullID,
		EventType:         ev.Event,
		Actor:             ev.ActorLogin(),
		AuthorAssociation: domain.StoredAuthorAssociation(ev.AuthorAssociation),
		CreatedAt:         formatTime(ev.Timestamp()),
	}

	var (
		remoteID int64
		keyed    bool
	)
	if ev.ID != nil {
		remoteID, keyed = domain.ParseRemoteKey(string(*ev.ID))
	}

	var err error
	if keyed {
		row.RemoteID = &remoteID
		err = r.db.QueryRowxContext(ctx, r.db.Rebind(`
			INSERT INTO issue_pull_events (remote_id, issue_pull_id, event_type, actor, author_association, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (remote_id) DO NOTHING
			RETURNING id`),
			remoteID, row.IssuePullID, row.EventType, row.Actor, row.AuthorAssociation, row.CreatedAt,
		).Scan(&row.ID)
	} else {
		err = r.db.QueryRowxContext(ctx, r.db.Rebind(`
			INSERT INTO issue_pull_events (issue_pull_id, event_type, actor, author_association, created_at)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id`),
			row.IssuePullID, row.EventType, row.Actor, row.AuthorAssociation, row.CreatedAt,
		).Scan(&row.ID)
	}

	if err != nil {
		switch {
		case keyed && errors.Is(err, sql.ErrNoRows):
			return r.getByRemoteID(ctx, remoteID)
		case classify(err) == constraintForeignKey:
			return nil, false, fmt.Errorf("%w: pull %d", domain.ErrParentNotFound, issuePullID)
		}
		return nil, false, fmt.Errorf("failed to create event: %w", err)
	}

	return row, true, nil
}

// CountByPullRequest returns how many events are stored for a pull request.
func (r *EventRepository) CountByPullRequest(ctx context.Context, issuePullID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		r.db.Rebind(`SELECT COUNT(*) FROM issue_pull_events WHERE issue_pull_id = ?`), issuePullID)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

func (r *EventRepository) getByRemoteID(ctx context.Context, remoteID int64) (*domain.PullRequestEvent, bool, error) {
	var ev domain.PullRequestEvent
	err := r.db.GetContext(ctx, &ev, r.db.Rebind(`
		SELECT id, remote_id, issue_pull_id, event_type, actor, author_association, created_at
		FROM issue_pull_events WHERE remote_id = ?`), remoteID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get event with remote id %d: %w", remoteID, err)
	}
	return &ev, false, nil
}
