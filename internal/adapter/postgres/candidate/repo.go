// Package candidate implements the Candidate repository using PostgreSQL.
package candidate

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

// Repo provides candidate persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new candidate repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const candidateColumns = `id, position_id, election_id, full_name, status, created_at`

const createSQL = `
INSERT INTO candidates (id, position_id, election_id, full_name, status, created_at)
VALUES ($1, $2, $3, $4, $5, now())
RETURNING ` + candidateColumns

const getByIDSQL = `
SELECT ` + candidateColumns + `
FROM candidates
WHERE id = $1`

const setStatusSQL = `
UPDATE candidates
SET status = $2
WHERE id = $1
RETURNING ` + candidateColumns

const listApprovedByPositionSQL = `
SELECT ` + candidateColumns + `
FROM candidates
WHERE position_id = $1 AND status = 'APPROVED'
ORDER BY full_name ASC, id ASC`

// Create inserts a new candidate.
func (r *Repo) Create(ctx context.Context, c *domain.Candidate) (*domain.Candidate, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		c.ID, c.PositionID, c.ElectionID, c.FullName, c.Status,
	)

	created, err := scanCandidate(row)
	if err != nil {
		return nil, mapError(err, "candidate", c.ID)
	}

	return created, nil
}

// GetByID returns a candidate by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, id)

	candidate, err := scanCandidate(row)
	if err != nil {
		return nil, mapError(err, "candidate", id)
	}

	return candidate, nil
}

// SetStatus updates the candidate's approval status.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status domain.CandidateStatus) (*domain.Candidate, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, setStatusSQL, id, status)

	candidate, err := scanCandidate(row)
	if err != nil {
		return nil, mapError(err, "candidate", id)
	}

	return candidate, nil
}

// ListApprovedByPosition returns the approved candidates of a position in a
// stable order.
func (r *Repo) ListApprovedByPosition(ctx context.Context, positionID uuid.UUID) ([]*domain.Candidate, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listApprovedByPositionSQL, positionID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return candidates, nil
}

func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var c domain.Candidate
	err := row.Scan(&c.ID, &c.PositionID, &c.ElectionID, &c.FullName, &c.Status, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan candidate: %w", err)
	}
	return &c, nil
}

func mapError(err error, entity string, id uuid.UUID) error {
	return postgres.MapError(err, entity, id)
}
