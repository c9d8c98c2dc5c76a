//go:build e2e

package e2e_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openballot/elections-backend/internal/adapter/postgres"
	"github.com/openballot/elections-backend/internal/adapter/postgres/candidate"
	electionrepo "github.com/openballot/elections-backend/internal/adapter/postgres/election"
	"github.com/openballot/elections-backend/internal/adapter/postgres/position"
	"github.com/openballot/elections-backend/internal/adapter/postgres/result"
	"github.com/openballot/elections-backend/internal/adapter/postgres/secretcode"
	"github.com/openballot/elections-backend/internal/adapter/postgres/testhelper"
	"github.com/openballot/elections-backend/internal/adapter/postgres/vote"
	"github.com/openballot/elections-backend/internal/adapter/postgres/voteraccess"
	"github.com/openballot/elections-backend/internal/adapter/postgres/votingsession"
	"github.com/openballot/elections-backend/internal/auth"
	"github.com/openballot/elections-backend/internal/config"
	"github.com/openballot/elections-backend/internal/notify"
	"github.com/openballot/elections-backend/internal/service/ballot"
	"github.com/openballot/elections-backend/internal/service/credential"
	electionsvc "github.com/openballot/elections-backend/internal/service/election"
	"github.com/openballot/elections-backend/internal/service/tabulation"
)

// env wires the full service stack against a live database, the way the
// binaries do.
type env struct {
	pool *pgxpool.Pool

	elections  *electionsvc.Service
	credential *credential.Service
	ballot     *ballot.Service
	tabulation *tabulation.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authCfg := config.AuthConfig{
		SessionSecret:   "e2e-session-secret",
		SessionIssuer:   "openballot-e2e",
		SessionTTL:      20 * time.Minute,
		FingerprintSalt: "e2e-salt",
		CodeBcryptCost:  4, // minimum cost keeps the suite fast
		CodeTTL:         720 * time.Hour,
	}
	votingCfg := config.VotingConfig{
		RateLimitWindow:      15 * time.Minute,
		RateLimitMaxFailures: 5,
		ReceiptPrefix:        "VR",
		NotifyTimeout:        time.Second,
	}

	elections := electionrepo.New(pool)
	positions := position.New(pool)
	candidates := candidate.New(pool)
	codes := secretcode.New(pool)
	access := voteraccess.New(pool)
	sessions := votingsession.New(pool)
	votes := vote.New(pool)
	results := result.New(pool)

	txm := postgres.NewTxManager(pool)
	tokens := auth.NewSessionManager(authCfg.SessionSecret, authCfg.SessionIssuer, authCfg.SessionTTL)
	sender := notify.NewLogSender(logger, config.NotifyConfig{})

	return &env{
		pool:       pool,
		elections:  electionsvc.NewService(logger, elections, positions, votes, results),
		credential: credential.NewService(logger, codes, access, elections, sessions, tokens, txm, authCfg, votingCfg),
		ballot: ballot.NewService(logger, elections, positions, candidates, sessions,
			access, votes, codes, tokens, txm, sender, votingCfg),
		tabulation: tabulation.NewService(logger, elections, positions, candidates, votes, results),
	}
}
