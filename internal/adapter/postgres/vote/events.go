package vote

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/openballot/elections-backend/internal/adapter/postgres"
	"github.com/openballot/elections-backend/internal/domain"
)

const eventColumns = `id, vote_id, type, actor_id, method, note, occurred_at`

const appendEventSQL = `
INSERT INTO vote_events (id, vote_id, type, actor_id, method, note, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
RETURNING ` + eventColumns

const listEventsSQL = `
SELECT ` + eventColumns + `
FROM vote_events
WHERE vote_id = $1
ORDER BY occurred_at ASC, id ASC`

// AppendEvent writes one audit-trail entry for a vote. Events are never
// updated or deleted.
func (r *Repo) AppendEvent(ctx context.Context, e *domain.VoteEvent) (*domain.VoteEvent, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var method *string
	if e.Method != nil {
		s := e.Method.String()
		method = &s
	}

	row := querier.QueryRow(ctx, appendEventSQL,
		e.ID, e.VoteID, e.Type, e.ActorID, method, e.Note,
	)

	created, err := scanEvent(row)
	if err != nil {
		return nil, mapError(err, "vote_event", e.ID)
	}

	return created, nil
}

// ListEvents returns a vote's audit trail in occurrence order.
func (r *Repo) ListEvents(ctx context.Context, voteID uuid.UUID) ([]*domain.VoteEvent, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listEventsSQL, voteID)
	if err != nil {
		return nil, mapError(err, "vote_event", voteID)
	}
	defer rows.Close()

	var events []*domain.VoteEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, mapError(err, "vote_event", voteID)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "vote_event", voteID)
	}

	return events, nil
}

func scanEvent(row pgx.Row) (*domain.VoteEvent, error) {
	var (
		e      domain.VoteEvent
		method *string
	)
	err := row.Scan(&e.ID, &e.VoteID, &e.Type, &e.ActorID, &method, &e.Note, &e.OccurredAt)
	if err != nil {
		return nil, fmt.Errorf("scan vote_event: %w", err)
	}
	if method != nil {
		m := domain.VerificationMethod(*method)
		e.Method = &m
	}
	return &e, nil
}
