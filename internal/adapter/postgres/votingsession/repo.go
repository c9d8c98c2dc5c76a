// Package votingsession implements the VotingSession repository using
// PostgreSQL. Sessions store only the SHA-256 hash of the issued token.
package votingsession

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

// Repo provides voting-session persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new voting-session repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const sessionColumns = `id, voter_id, election_id, position_id, token_hash, fingerprint,
issued_at, expires_at, used_at`

const createSQL = `
INSERT INTO voting_sessions (id, voter_id, election_id, position_id, token_hash, fingerprint, issued_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), $7)
RETURNING ` + sessionColumns

const getByTokenHashSQL = `
SELECT ` + sessionColumns + `
FROM voting_sessions
WHERE token_hash = $1`

// Consumption is conditional so a session authorizes at most one ballot even
// under concurrent submissions with the same token.
const markUsedSQL = `
UPDATE voting_sessions
SET used_at = now()
WHERE id = $1 AND used_at IS NULL
RETURNING ` + sessionColumns

const deleteExpiredSQL = `
DELETE FROM voting_sessions
WHERE expires_at < now() OR used_at IS NOT NULL`

// Create inserts a new session.
func (r *Repo) Create(ctx context.Context, s *domain.VotingSession) (*domain.VotingSession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		s.ID, s.VoterID, s.ElectionID, s.PositionID, s.TokenHash, s.Fingerprint, s.ExpiresAt,
	)

	created, err := scanSession(row)
	if err != nil {
		return nil, mapError(err, "voting_session", s.ID)
	}

	return created, nil
}

// GetByTokenHash returns the session for a token hash.
// Returns domain.ErrNotFound if no such session exists.
func (r *Repo) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.VotingSession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByTokenHashSQL, tokenHash)

	session, err := scanSession(row)
	if err != nil {
		return nil, mapError(err, "voting_session", uuid.Nil)
	}

	return session, nil
}

// MarkUsed consumes the session. Returns domain.ErrConflict if it was
// already consumed.
func (r *Repo) MarkUsed(ctx context.Context, id uuid.UUID) (*domain.VotingSession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, markUsedSQL, id)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("voting_session %s: already consumed: %w", id, domain.ErrConflict)
		}
		return nil, mapError(err, "voting_session", id)
	}

	return session, nil
}

// DeleteExpired removes expired and consumed sessions; returns the number
// deleted. Used by cmd/cleanup-sessions.
func (r *Repo) DeleteExpired(ctx context.Context) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteExpiredSQL)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanSession(row pgx.Row) (*domain.VotingSession, error) {
	var s domain.VotingSession
	err := row.Scan(
		&s.ID, &s.VoterID, &s.ElectionID, &s.PositionID, &s.TokenHash,
		&s.Fingerprint, &s.IssuedAt, &s.ExpiresAt, &s.UsedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan voting_session: %w", err)
	}
	return &s, nil
}

func mapError(err error, entity string, id uuid.UUID) error {
	return postgres.MapError(err, entity, id)
}
