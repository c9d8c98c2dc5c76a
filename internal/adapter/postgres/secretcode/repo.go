// Package secretcode implements the SecretCode repository using PostgreSQL.
// Only bcrypt hashes are stored; the plaintext code never reaches this layer
// after issuance and is never logged.
package secretcode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/openballot/elections-backend/internal/adapter/postgres"
	"github.com/openballot/elections-backend/internal/domain"
)

// Repo provides secret-code persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new secret-code repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const codeColumns = `id, voter_id, election_id, code_hash, issued_at, expires_at,
use_count, failed_count, window_start_at`

const createSQL = `
INSERT INTO secret_codes (id, voter_id, election_id, code_hash, issued_at, expires_at)
VALUES ($1, $2, $3, $4, now(), $5)
RETURNING ` + codeColumns

const reissueSQL = `
UPDATE secret_codes
SET code_hash = $3, issued_at = now(), expires_at = $4,
    use_count = 0, failed_count = 0, window_start_at = NULL
WHERE voter_id = $1 AND election_id = $2
RETURNING ` + codeColumns

const getByVoterElectionSQL = `
SELECT ` + codeColumns + `
FROM secret_codes
WHERE voter_id = $1 AND election_id = $2`

// A failure outside the window starts a new window of one failure; inside it
// the counter just grows.
const recordFailureSQL = `
UPDATE secret_codes
SET failed_count = CASE
		WHEN window_start_at IS NULL OR window_start_at < $2 THEN 1
		ELSE failed_count + 1
	END,
    window_start_at = CASE
		WHEN window_start_at IS NULL OR window_start_at < $2 THEN now()
		ELSE window_start_at
	END
WHERE id = $1
RETURNING ` + codeColumns

const resetFailuresSQL = `
UPDATE secret_codes
SET failed_count = 0, window_start_at = NULL
WHERE id = $1`

const incrementUseSQL = `
UPDATE secret_codes
SET use_count = use_count + 1
WHERE id = $1
RETURNING ` + codeColumns

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new secret-code record.
// Returns domain.ErrAlreadyExists if the (voter, election) pair already has one.
func (r *Repo) Create(ctx context.Context, c *domain.SecretCode) (*domain.SecretCode, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		c.ID, c.VoterID, c.ElectionID, c.CodeHash, c.ExpiresAt,
	)

	created, err := scanCode(row)
	if err != nil {
		return nil, mapError(err, "secret_code", c.ID)
	}

	return created, nil
}

// Reissue replaces the stored hash and resets every counter. The service
// layer only permits this before the election enters VOTING.
func (r *Repo) Reissue(ctx context.Context, voterID, electionID uuid.UUID, codeHash string, expiresAt time.Time) (*domain.SecretCode, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, reissueSQL, voterID, electionID, codeHash, expiresAt)

	code, err := scanCode(row)
	if err != nil {
		return nil, mapError(err, "secret_code", voterID)
	}

	return code, nil
}

// RecordFailure bumps the sliding-window failure counter. windowCutoff is
// now minus the configured window; a window that started before it is stale
// and restarts at one.
func (r *Repo) RecordFailure(ctx context.Context, id uuid.UUID, windowCutoff time.Time) (*domain.SecretCode, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, recordFailureSQL, id, windowCutoff)

	code, err := scanCode(row)
	if err != nil {
		return nil, mapError(err, "secret_code", id)
	}

	return code, nil
}

// ResetFailures clears the failure window after a successful validation.
func (r *Repo) ResetFailures(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, resetFailuresSQL, id); err != nil {
		return mapError(err, "secret_code", id)
	}
	return nil
}

// IncrementUse counts one more position voted with this code.
func (r *Repo) IncrementUse(ctx context.Context, id uuid.UUID) (*domain.SecretCode, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, incrementUseSQL, id)

	code, err := scanCode(row)
	if err != nil {
		return nil, mapError(err, "secret_code", id)
	}

	return code, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByVoterElection returns the code record for (voter, election).
// Returns domain.ErrNotFound if none was issued.
func (r *Repo) GetByVoterElection(ctx context.Context, voterID, electionID uuid.UUID) (*domain.SecretCode, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByVoterElectionSQL, voterID, electionID)

	code, err := scanCode(row)
	if err != nil {
		return nil, mapError(err, "secret_code", voterID)
	}

	return code, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func scanCode(row pgx.Row) (*domain.SecretCode, error) {
	var c domain.SecretCode
	err := row.Scan(
		&c.ID, &c.VoterID, &c.ElectionID, &c.CodeHash, &c.IssuedAt,
		&c.ExpiresAt, &c.UseCount, &c.FailedCount, &c.WindowStartAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan secret_code: %w", err)
	}
	return &c, nil
}

func mapError(err error, entity string, id uuid.UUID) error {
	return postgres.MapError(err, entity, id)
}
