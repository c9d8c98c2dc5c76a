package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/openballot/elections-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedElection creates an election in the given status and phase with a
// voting window spanning [now-1h, now+1h]. Returns a filled domain.Election.
func SeedElection(t *testing.T, pool *pgxpool.Pool, status domain.ElectionStatus, phase domain.ElectionPhase) domain.Election {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	e := domain.Election{
		ID:        uuid.New(),
		Title:     "Test Election " + uniqueSuffix(),
		Scope:     domain.ScopeInstitution,
		Status:    status,
		Phase:     phase,
		StartsAt:  now.Add(-time.Hour),
		EndsAt:    now.Add(time.Hour),
		OwnerID:   uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO elections (id, title, scope, group_id, status, phase, starts_at, ends_at, eligible_voters, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.Title, string(e.Scope), e.GroupID, string(e.Status), string(e.Phase),
		e.StartsAt, e.EndsAt, e.EligibleVoters, e.OwnerID, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedElection insert: %v", err)
	}

	return e
}

// SeedPosition creates a position for the election. maxWinners controls how
// many seats the position fills; abstention is allowed.
func SeedPosition(t *testing.T, pool *pgxpool.Pool, electionID uuid.UUID, maxWinners int) domain.Position {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := domain.Position{
		ID:              uuid.New(),
		ElectionID:      electionID,
		Title:           "Position " + uniqueSuffix(),
		MaxWinners:      maxWinners,
		AllowAbstention: true,
		Method:          domain.VotingMethodSingleChoice,
		CreatedAt:       now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO positions (id, election_id, title, order_index, max_winners, allow_abstention, method, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.ElectionID, p.Title, p.OrderIndex, p.MaxWinners, p.AllowAbstention, string(p.Method), p.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPosition insert: %v", err)
	}

	return p
}

// SeedCandidate creates an approved candidate for the position.
func SeedCandidate(t *testing.T, pool *pgxpool.Pool, electionID, positionID uuid.UUID) domain.Candidate {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	c := domain.Candidate{
		ID:         uuid.New(),
		PositionID: positionID,
		ElectionID: electionID,
		FullName:   "Candidate " + uniqueSuffix(),
		Status:     domain.CandidateStatusApproved,
		CreatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO candidates (id, position_id, election_id, full_name, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.PositionID, c.ElectionID, c.FullName, string(c.Status), c.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCandidate insert: %v", err)
	}

	return c
}

// SeedSecretCode creates a secret code row for (voter, election) hashing the
// given plaintext with the minimum bcrypt cost. Returns the stored record.
func SeedSecretCode(t *testing.T, pool *pgxpool.Pool, voterID, electionID uuid.UUID, plaintext string) domain.SecretCode {
	t.Helper()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("testhelper: SeedSecretCode bcrypt: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	c := domain.SecretCode{
		ID:         uuid.New(),
		VoterID:    voterID,
		ElectionID: electionID,
		CodeHash:   string(hash),
		IssuedAt:   now,
		ExpiresAt:  now.Add(30 * 24 * time.Hour),
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO secret_codes (id, voter_id, election_id, code_hash, issued_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.VoterID, c.ElectionID, c.CodeHash, c.IssuedAt, c.ExpiresAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSecretCode insert: %v", err)
	}

	return c
}

// SeedVoterAccess grants the voter active access to the election with the
// given eligible positions and an empty voted set.
func SeedVoterAccess(t *testing.T, pool *pgxpool.Pool, voterID, electionID uuid.UUID, eligible []uuid.UUID) domain.VoterAccess {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	a := domain.VoterAccess{
		VoterID:           voterID,
		ElectionID:        electionID,
		Status:            domain.AccessStatusActive,
		EligiblePositions: eligible,
		GrantedAt:         now,
		UpdatedAt:         now,
	}

	ids := make([]string, len(eligible))
	for i, id := range eligible {
		ids[i] = id.String()
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO voter_access (voter_id, election_id, status, eligible_positions, granted_at, updated_at)
		 VALUES ($1, $2, $3, $4::uuid[], $5, $6)`,
		a.VoterID, a.ElectionID, string(a.Status), ids, a.GrantedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedVoterAccess insert: %v", err)
	}

	return a
}

// SeedSession creates an unused voting session for the triple.
func SeedSession(t *testing.T, pool *pgxpool.Pool, voterID, electionID, positionID uuid.UUID) domain.VotingSession {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := domain.VotingSession{
		ID:         uuid.New(),
		VoterID:    voterID,
		ElectionID: electionID,
		PositionID: positionID,
		TokenHash:  "hash-" + uniqueSuffix(),
		IssuedAt:   now,
		ExpiresAt:  now.Add(20 * time.Minute),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO voting_sessions (id, voter_id, election_id, position_id, token_hash, issued_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.VoterID, s.ElectionID, s.PositionID, s.TokenHash, s.IssuedAt, s.ExpiresAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSession insert: %v", err)
	}

	return s
}

// SeedVote casts a ballot for the triple, creating the secret code and
// session rows it references. candidateID may be nil for an abstention.
func SeedVote(t *testing.T, pool *pgxpool.Pool, voterID, electionID, positionID uuid.UUID, candidateID *uuid.UUID) domain.Vote {
	t.Helper()
	ctx := context.Background()

	code := SeedSecretCode(t, pool, voterID, electionID, "seed-code")
	session := SeedSession(t, pool, voterID, electionID, positionID)

	now := time.Now().UTC().Truncate(time.Microsecond)
	suffix := uniqueSuffix()
	v := domain.Vote{
		ID:            uuid.New(),
		ElectionID:    electionID,
		PositionID:    positionID,
		VoterID:       voterID,
		CandidateID:   candidateID,
		SecretCodeID:  code.ID,
		SessionID:     session.ID,
		Status:        domain.VoteStatusCast,
		ReceiptHash:   "receipt-hash-" + suffix,
		ReceiptNumber: "VR-" + suffix,
		CastAt:        now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO votes (id, election_id, position_id, voter_id, candidate_id, secret_code_id, session_id, status, receipt_hash, receipt_number, cast_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		v.ID, v.ElectionID, v.PositionID, v.VoterID, v.CandidateID, v.SecretCodeID, v.SessionID,
		string(v.Status), v.ReceiptHash, v.ReceiptNumber, v.CastAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedVote insert: %v", err)
	}

	return v
}
