// Package vote implements the Vote repository using PostgreSQL.
// Vote rows are immutable except for status changes driven by the append-only
// event trail. The unique constraint on (election_id, voter_id, position_id)
// is the final arbiter of the at-most-one-vote guarantee; Create remaps its
// violation to domain.ErrAlreadyVoted.
package vote

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/openballot/elections-backend/internal/adapter/postgres"
	"github.com/openballot/elections-backend/internal/domain"
)

// TripleConstraint is the unique constraint backing the one-vote-per-position
// guarantee.
const TripleConstraint = "votes_election_voter_position_key"

// Repo provides vote persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new vote repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Filter narrows List queries. Zero-value fields are ignored.
type Filter struct {
	PositionID *uuid.UUID
	VoterID    *uuid.UUID
	Statuses   []domain.VoteStatus
	Limit      int
	Offset     int
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const voteColumns = `id, election_id, position_id, voter_id, candidate_id,
secret_code_id, session_id, status, receipt_hash, receipt_number, fingerprint, cast_at`

const createSQL = `
INSERT INTO votes (id, election_id, position_id, voter_id, candidate_id,
	secret_code_id, session_id, status, receipt_hash, receipt_number, fingerprint, cast_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + voteColumns

const getByIDSQL = `
SELECT ` + voteColumns + `
FROM votes
WHERE id = $1`

const existsTripleSQL = `
SELECT EXISTS(
	SELECT 1 FROM votes
	WHERE election_id = $1 AND voter_id = $2 AND position_id = $3
)`

const updateStatusSQL = `
UPDATE votes
SET status = $2
WHERE id = $1
RETURNING ` + voteColumns

const countDistinctVotersSQL = `
SELECT count(DISTINCT voter_id)
FROM votes
WHERE election_id = $1 AND status IN ('CAST', 'VERIFIED', 'COUNTED')`

const countByElectionSQL = `
SELECT count(*) FROM votes WHERE election_id = $1`

// Duplicate triples can only appear if the unique constraint was dropped or
// bypassed; tabulation still checks so a violated database is reported, not
// silently counted.
const duplicateTriplesSQL = `
SELECT voter_id, position_id, count(*)
FROM votes
WHERE election_id = $1 AND status IN ('CAST', 'VERIFIED', 'COUNTED')
GROUP BY voter_id, position_id
HAVING count(*) > 1`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new vote row. A unique violation on the
// (election, voter, position) triple is returned as domain.ErrAlreadyVoted,
// never as a generic conflict.
func (r *Repo) Create(ctx context.Context, v *domain.Vote) (*domain.Vote, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		v.ID, v.ElectionID, v.PositionID, v.VoterID, v.CandidateID,
		v.SecretCodeID, v.SessionID, v.Status, v.ReceiptHash, v.ReceiptNumber,
		v.Fingerprint, v.CastAt,
	)

	created, err := scanVote(row)
	if err != nil {
		if postgres.IsUniqueViolation(err, TripleConstraint) {
			return nil, fmt.Errorf("vote %s: %w", v.ID, domain.ErrAlreadyVoted)
		}
		return nil, mapError(err, "vote", v.ID)
	}

	return created, nil
}

// UpdateStatus sets the vote's verification status.
// Returns domain.ErrNotFound if the vote does not exist.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.VoteStatus) (*domain.Vote, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, updateStatusSQL, id, status)

	vote, err := scanVote(row)
	if err != nil {
		return nil, mapError(err, "vote", id)
	}

	return vote, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a vote by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vote, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, id)

	vote, err := scanVote(row)
	if err != nil {
		return nil, mapError(err, "vote", id)
	}

	return vote, nil
}

// ExistsTriple reports whether a vote already exists for the triple. This is
// the defensive re-check before insert; the unique constraint remains the
// backstop under concurrency.
func (r *Repo) ExistsTriple(ctx context.Context, electionID, voterID, positionID uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := querier.QueryRow(ctx, existsTripleSQL, electionID, voterID, positionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("vote exists check: %w", err)
	}
	return exists, nil
}

// List returns votes for an election matching the filter, ordered by cast_at.
func (r *Repo) List(ctx context.Context, electionID uuid.UUID, filter Filter) ([]*domain.Vote, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	builder := sq.Select(voteColumns).
		From("votes").
		Where(sq.Eq{"election_id": electionID}).
		OrderBy("cast_at ASC, id ASC").
		PlaceholderFormat(sq.Dollar)

	if filter.PositionID != nil {
		builder = builder.Where(sq.Eq{"position_id": *filter.PositionID})
	}
	if filter.VoterID != nil {
		builder = builder.Where(sq.Eq{"voter_id": *filter.VoterID})
	}
	if len(filter.Statuses) > 0 {
		builder = builder.Where(sq.Eq{"status": filter.Statuses})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build vote list query: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	var votes []*domain.Vote
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}

	return votes, nil
}

// CountedByPosition returns the counted votes (CAST/VERIFIED/COUNTED) for a
// single position, ordered deterministically for tabulation.
func (r *Repo) CountedByPosition(ctx context.Context, electionID, positionID uuid.UUID) ([]*domain.Vote, error) {
	statuses := []domain.VoteStatus{domain.VoteStatusCast, domain.VoteStatusVerified, domain.VoteStatusCounted}
	return r.List(ctx, electionID, Filter{PositionID: &positionID, Statuses: statuses})
}

// CountDistinctVoters returns the number of distinct voters with at least one
// counted vote in the election (the turnout numerator).
func (r *Repo) CountDistinctVoters(ctx context.Context, electionID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := querier.QueryRow(ctx, countDistinctVotersSQL, electionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count distinct voters: %w", err)
	}
	return n, nil
}

// CountByElection returns the total number of vote rows for an election,
// used to decide whether the cached result is stale.
func (r *Repo) CountByElection(ctx context.Context, electionID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := querier.QueryRow(ctx, countByElectionSQL, electionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return n, nil
}

// DuplicateTriple describes a voter/position pair that, against the unique
// constraint, appears more than once among counted votes.
type DuplicateTriple struct {
	VoterID    uuid.UUID
	PositionID uuid.UUID
	Count      int
}

// FindDuplicateTriples returns integrity violations among counted votes.
func (r *Repo) FindDuplicateTriples(ctx context.Context, electionID uuid.UUID) ([]DuplicateTriple, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, duplicateTriplesSQL, electionID)
	if err != nil {
		return nil, fmt.Errorf("find duplicate votes: %w", err)
	}
	defer rows.Close()

	var dups []DuplicateTriple
	for rows.Next() {
		var d DuplicateTriple
		if err := rows.Scan(&d.VoterID, &d.PositionID, &d.Count); err != nil {
			return nil, fmt.Errorf("scan duplicate row: %w", err)
		}
		dups = append(dups, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate duplicates: %w", err)
	}

	return dups, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// scanVote scans a single vote row from either pgx.Row or pgx.Rows.
func scanVote(row pgx.Row) (*domain.Vote, error) {
	var v domain.Vote
	err := row.Scan(
		&v.ID, &v.ElectionID, &v.PositionID, &v.VoterID, &v.CandidateID,
		&v.SecretCodeID, &v.SessionID, &v.Status, &v.ReceiptHash,
		&v.ReceiptNumber, &v.Fingerprint, &v.CastAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan vote: %w", err)
	}
	return &v, nil
}

func mapError(err error, entity string, id uuid.UUID) error {
	return postgres.MapError(err, entity, id)
}
