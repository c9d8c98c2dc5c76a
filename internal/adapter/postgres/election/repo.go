// Package election implements the Election repository using PostgreSQL.
package election

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/openballot/elections-backend/internal/adapter/postgres"
	"github.com/openballot/elections-backend/internal/domain"
)

// Repo provides election persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new election repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const electionColumns = `id, title, scope, group_id, status, phase, starts_at, ends_at,
eligible_voters, owner_id, created_at, updated_at`

const createSQL = `
INSERT INTO elections (id, title, scope, group_id, status, phase, starts_at, ends_at,
	eligible_voters, owner_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
RETURNING ` + electionColumns

const getByIDSQL = `
SELECT ` + electionColumns + `
FROM elections
WHERE id = $1`

// Transitions are compare-and-set on the current status+phase so two
// concurrent administrative calls cannot both win.
const transitionSQL = `
UPDATE elections
SET status = $4, phase = $5, updated_at = now()
WHERE id = $1 AND status = $2 AND phase = $3
RETURNING ` + electionColumns

const adjustEligibleSQL = `
UPDATE elections
SET eligible_voters = eligible_voters + $2, updated_at = now()
WHERE id = $1
RETURNING ` + electionColumns

const listByStatusSQL = `
SELECT ` + electionColumns + `
FROM elections
WHERE status = $1
ORDER BY starts_at ASC`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new election.
func (r *Repo) Create(ctx context.Context, e *domain.Election) (*domain.Election, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		e.ID, e.Title, e.Scope, e.GroupID, e.Status, e.Phase,
		e.StartsAt, e.EndsAt, e.EligibleVoters, e.OwnerID,
	)

	created, err := scanElection(row)
	if err != nil {
		return nil, mapError(err, "election", e.ID)
	}

	return created, nil
}

// Transition atomically moves the election from (fromStatus, fromPhase) to
// (toStatus, toPhase). Returns domain.ErrConflict if the election is no
// longer in the expected state.
func (r *Repo) Transition(ctx context.Context, id uuid.UUID, fromStatus domain.ElectionStatus, fromPhase domain.ElectionPhase, toStatus domain.ElectionStatus, toPhase domain.ElectionPhase) (*domain.Election, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, transitionSQL, id, fromStatus, fromPhase, toStatus, toPhase)

	updated, err := scanElection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Row exists but is not in the expected state, or is gone; tell
			// them apart so callers report the right failure.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("election %s: concurrent state change: %w", id, domain.ErrConflict)
		}
		return nil, mapError(err, "election", id)
	}

	return updated, nil
}

// AdjustEligibleVoters adds delta (may be negative) to the eligible-voter
// count, keeping it in sync with access grants and revocations.
func (r *Repo) AdjustEligibleVoters(ctx context.Context, id uuid.UUID, delta int) (*domain.Election, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, adjustEligibleSQL, id, delta)

	updated, err := scanElection(row)
	if err != nil {
		return nil, mapError(err, "election", id)
	}

	return updated, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an election by primary key.
// Returns domain.ErrNotFound if the election does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, id)

	election, err := scanElection(row)
	if err != nil {
		return nil, mapError(err, "election", id)
	}

	return election, nil
}

// ListByStatus returns elections in the given status ordered by start time.
func (r *Repo) ListByStatus(ctx context.Context, status domain.ElectionStatus) ([]*domain.Election, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByStatusSQL, status)
	if err != nil {
		return nil, fmt.Errorf("list elections by status: %w", err)
	}
	defer rows.Close()

	var elections []*domain.Election
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan election: %w", err)
		}
		elections = append(elections, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate elections: %w", err)
	}

	return elections, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func scanElection(row pgx.Row) (*domain.Election, error) {
	var e domain.Election
	err := row.Scan(
		&e.ID, &e.Title, &e.Scope, &e.GroupID, &e.Status, &e.Phase,
		&e.StartsAt, &e.EndsAt, &e.EligibleVoters, &e.OwnerID,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan election: %w", err)
	}
	return &e, nil
}

func mapError(err error, entity string, id uuid.UUID) error {
	return postgres.MapError(err, entity, id)
}
