// Package result implements the ElectionResult cache using PostgreSQL.
// The cache is derived state: losing it costs a recomputation, nothing more.
package result

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/openballot/elections-backend/internal/adapter/postgres"
	"github.com/openballot/elections-backend/internal/domain"
)

// Repo provides result-cache persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new result repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const upsertSQL = `
INSERT INTO election_results (election_id, payload, vote_count, computed_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (election_id)
DO UPDATE SET payload = EXCLUDED.payload, vote_count = EXCLUDED.vote_count,
	computed_at = EXCLUDED.computed_at`

const getSQL = `
SELECT payload, vote_count, computed_at
FROM election_results
WHERE election_id = $1`

const invalidateSQL = `
DELETE FROM election_results WHERE election_id = $1`

// Upsert stores the computed result together with the vote count it was
// computed from, which later decides staleness.
func (r *Repo) Upsert(ctx context.Context, res *domain.ElectionResult, voteCount int) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal election result: %w", err)
	}

	if _, err := querier.Exec(ctx, upsertSQL, res.ElectionID, payload, voteCount, res.ComputedAt); err != nil {
		return mapError(err, "election_result", res.ElectionID)
	}
	return nil
}

// Get returns the cached result and the vote count it was computed from.
// Returns domain.ErrNotFound when nothing is cached.
func (r *Repo) Get(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResult, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		payload    []byte
		voteCount  int
		computedAt time.Time
	)
	err := querier.QueryRow(ctx, getSQL, electionID).Scan(&payload, &voteCount, &computedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, fmt.Errorf("election_result %s: %w", electionID, domain.ErrNotFound)
		}
		return nil, 0, mapError(err, "election_result", electionID)
	}

	var res domain.ElectionResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, 0, fmt.Errorf("unmarshal election result: %w", err)
	}
	res.ComputedAt = computedAt

	return &res, voteCount, nil
}

// Invalidate drops the cached result, forcing the next read to recompute.
func (r *Repo) Invalidate(ctx context.Context, electionID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, invalidateSQL, electionID); err != nil {
		return mapError(err, "election_result", electionID)
	}
	return nil
}

func mapError(err error, entity string, id uuid.UUID) error {
	return postgres.MapError(err, entity, id)
}
