// Package voteraccess implements the voter-access ledger using PostgreSQL.
// The ledger is the fast-path duplicate check; the votes table's unique
// constraint remains the backstop. RecordVote runs inside the same
// transaction as the vote insert so neither fact is observable without the
// other.
package voteraccess

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

// Repo provides voter-access ledger persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new voter-access repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

// The uuid[] columns travel as text[] so the google/uuid values round-trip
// without a custom pgx codec.
const accessColumns = `voter_id, election_id, status, eligible_positions::text[], voted_positions::text[], granted_at, updated_at`

const grantSQL = `
INSERT INTO voter_access (voter_id, election_id, status, eligible_positions, voted_positions, granted_at, updated_at)
VALUES ($1, $2, 'ACTIVE', $3::uuid[], '{}', now(), now())
RETURNING ` + accessColumns

const getSQL = `
SELECT ` + accessColumns + `
FROM voter_access
WHERE voter_id = $1 AND election_id = $2`

const setStatusSQL = `
UPDATE voter_access
SET status = $3, updated_at = now()
WHERE voter_id = $1 AND election_id = $2
RETURNING ` + accessColumns

// recordVoteSQL appends the position to voted_positions only when the ledger
// still allows it; zero rows affected means the fast path rejected the vote.
const recordVoteSQL = `
UPDATE voter_access
SET voted_positions = voted_positions || $3::uuid, updated_at = now()
WHERE voter_id = $1 AND election_id = $2
  AND status = 'ACTIVE'
  AND eligible_positions @> ARRAY[$3::uuid]
  AND NOT voted_positions @> ARRAY[$3::uuid]
RETURNING ` + accessColumns

const countActiveSQL = `
SELECT count(*) FROM voter_access WHERE election_id = $1 AND status = 'ACTIVE'`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Grant creates an ACTIVE access record with the eligible position set.
// Returns domain.ErrAlreadyExists if the voter already has access.
func (r *Repo) Grant(ctx context.Context, voterID, electionID uuid.UUID, eligible []uuid.UUID) (*domain.VoterAccess, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, grantSQL, voterID, electionID, uuidStrings(eligible))

	access, err := scanAccess(row)
	if err != nil {
		return nil, mapError(err, "voter_access", voterID)
	}

	return access, nil
}

// SetStatus flips the record between ACTIVE and REVOKED.
func (r *Repo) SetStatus(ctx context.Context, voterID, electionID uuid.UUID, status domain.AccessStatus) (*domain.VoterAccess, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, setStatusSQL, voterID, electionID, status)

	access, err := scanAccess(row)
	if err != nil {
		return nil, mapError(err, "voter_access", voterID)
	}

	return access, nil
}

// RecordVote marks the position as voted. It must be called inside the same
// transaction as the vote insert. The update is conditional: when it matches
// no row the method loads the record to return the precise rejection —
// domain.ErrNotFound, domain.ErrAccessRevoked, domain.ErrNotEligible, or
// domain.ErrAlreadyVoted.
func (r *Repo) RecordVote(ctx context.Context, voterID, electionID, positionID uuid.UUID) (*domain.VoterAccess, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, recordVoteSQL, voterID, electionID, positionID.String())

	access, err := scanAccess(row)
	if err == nil {
		return access, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, mapError(err, "voter_access", voterID)
	}

	current, getErr := r.Get(ctx, voterID, electionID)
	if getErr != nil {
		return nil, getErr
	}
	switch {
	case current.Status == domain.AccessStatusRevoked:
		return nil, fmt.Errorf("voter %s election %s: %w", voterID, electionID, domain.ErrAccessRevoked)
	case !current.IsEligibleFor(positionID):
		return nil, fmt.Errorf("voter %s position %s: %w", voterID, positionID, domain.ErrNotEligible)
	case current.HasVotedFor(positionID):
		return nil, fmt.Errorf("voter %s position %s: %w", voterID, positionID, domain.ErrAlreadyVoted)
	}
	return nil, fmt.Errorf("voter %s position %s: ledger update matched no row: %w", voterID, positionID, domain.ErrConflict)
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns the access record for (voter, election).
// Returns domain.ErrNotFound if no record exists.
func (r *Repo) Get(ctx context.Context, voterID, electionID uuid.UUID) (*domain.VoterAccess, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getSQL, voterID, electionID)

	access, err := scanAccess(row)
	if err != nil {
		return nil, mapError(err, "voter_access", voterID)
	}

	return access, nil
}

// CountActive returns the number of ACTIVE access records for an election.
func (r *Repo) CountActive(ctx context.Context, electionID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := querier.QueryRow(ctx, countActiveSQL, electionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active access: %w", err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func scanAccess(row pgx.Row) (*domain.VoterAccess, error) {
	var (
		a        domain.VoterAccess
		eligible []string
		voted    []string
	)
	err := row.Scan(
		&a.VoterID, &a.ElectionID, &a.Status, &eligible, &voted,
		&a.GrantedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan voter_access: %w", err)
	}

	if a.EligiblePositions, err = parseUUIDs(eligible); err != nil {
		return nil, fmt.Errorf("parse eligible_positions: %w", err)
	}
	if a.VotedPositions, err = parseUUIDs(voted); err != nil {
		return nil, fmt.Errorf("parse voted_positions: %w", err)
	}

	return &a, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func mapError(err error, entity string, id uuid.UUID) error {
	return postgres.MapError(err, entity, id)
}
