// Package position implements the Position repository using PostgreSQL.
// Positions are immutable once their election leaves DRAFT/SCHEDULED; the
// service layer enforces that, the repository only persists.
package position

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

// Repo provides position persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new position repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const positionColumns = `id, election_id, title, order_index, max_winners, allow_abstention, method, created_at`

const createSQL = `
INSERT INTO positions (id, election_id, title, order_index, max_winners, allow_abstention, method, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
RETURNING ` + positionColumns

const getByIDSQL = `
SELECT ` + positionColumns + `
FROM positions
WHERE id = $1`

const listByElectionSQL = `
SELECT ` + positionColumns + `
FROM positions
WHERE election_id = $1
ORDER BY order_index ASC, created_at ASC`

// Positions that would make the VOTING transition unsound: no approved
// candidate and abstention disallowed.
const listUnfillableSQL = `
SELECT ` + positionColumns + `
FROM positions p
WHERE p.election_id = $1
  AND p.allow_abstention = false
  AND NOT EXISTS (
	SELECT 1 FROM candidates c
	WHERE c.position_id = p.id AND c.status = 'APPROVED'
  )`

// Create inserts a new position.
func (r *Repo) Create(ctx context.Context, p *domain.Position) (*domain.Position, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		p.ID, p.ElectionID, p.Title, p.OrderIndex, p.MaxWinners, p.AllowAbstention, p.Method,
	)

	created, err := scanPosition(row)
	if err != nil {
		return nil, mapError(err, "position", p.ID)
	}

	return created, nil
}

// GetByID returns a position by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Position, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, id)

	position, err := scanPosition(row)
	if err != nil {
		return nil, mapError(err, "position", id)
	}

	return position, nil
}

// ListByElection returns the election's positions in ballot order.
func (r *Repo) ListByElection(ctx context.Context, electionID uuid.UUID) ([]*domain.Position, error) {
	return r.list(ctx, listByElectionSQL, electionID)
}

// ListUnfillable returns positions with zero approved candidates and
// abstention disallowed. A non-empty result blocks the VOTING transition.
func (r *Repo) ListUnfillable(ctx context.Context, electionID uuid.UUID) ([]*domain.Position, error) {
	return r.list(ctx, listUnfillableSQL, electionID)
}

func (r *Repo) list(ctx context.Context, query string, electionID uuid.UUID) ([]*domain.Position, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var positions []*domain.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate positions: %w", err)
	}

	return positions, nil
}

func scanPosition(row pgx.Row) (*domain.Position, error) {
	var p domain.Position
	err := row.Scan(
		&p.ID, &p.ElectionID, &p.Title, &p.OrderIndex,
		&p.MaxWinners, &p.AllowAbstention, &p.Method, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan position: %w", err)
	}
	return &p, nil
}

func mapError(err error, entity string, id uuid.UUID) error {
	return postgres.MapError(err, entity, id)
}
