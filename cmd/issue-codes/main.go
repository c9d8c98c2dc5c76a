// Command issue-codes batch-issues secret codes for every voter who has been
// granted access to an election but has no code yet. The plaintext codes are
// printed to stdout for out-of-band delivery and exist nowhere else; the
// database keeps only bcrypt hashes.
//
// Usage:
//
//	issue-codes --election=<uuid>
//
// Requires DATABASE_DSN environment variable to be set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/openballot/elections-backend/internal/adapter/postgres"
	"github.com/openballot/elections-backend/internal/adapter/postgres/election"
	"github.com/openballot/elections-backend/internal/adapter/postgres/secretcode"
	"github.com/openballot/elections-backend/internal/adapter/postgres/voteraccess"
	"github.com/openballot/elections-backend/internal/adapter/postgres/votingsession"
	"github.com/openballot/elections-backend/internal/app"
	"github.com/openballot/elections-backend/internal/auth"
	"github.com/openballot/elections-backend/internal/config"
	"github.com/openballot/elections-backend/internal/service/credential"
)

const pendingVotersQuery = `
SELECT va.voter_id
FROM voter_access va
WHERE va.election_id = $1
  AND va.status = 'ACTIVE'
  AND NOT EXISTS (
      SELECT 1 FROM secret_codes sc
      WHERE sc.voter_id = va.voter_id AND sc.election_id = va.election_id
  )
ORDER BY va.granted_at`

func main() {
	electionFlag := flag.String("election", "", "election ID to issue codes for")
	flag.Parse()

	electionID, err := uuid.Parse(*electionFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: issue-codes --election=<uuid>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)
	logger.Info("starting issue-codes", slog.String("version", app.BuildVersion()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, pendingVotersQuery, electionID)
	if err != nil {
		logger.Error("list pending voters", slog.String("error", err.Error()))
		os.Exit(1)
	}
	var voters []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			logger.Error("scan voter", slog.String("error", err.Error()))
			os.Exit(1)
		}
		voters = append(voters, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		logger.Error("list pending voters", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if len(voters) == 0 {
		fmt.Println("No voters awaiting codes.")
		return
	}

	sessions := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionIssuer, cfg.Auth.SessionTTL)
	svc := credential.NewService(logger,
		secretcode.New(pool), voteraccess.New(pool), election.New(pool),
		votingsession.New(pool), sessions, postgres.NewTxManager(pool),
		cfg.Auth, cfg.Voting)

	issued := 0
	for _, voterID := range voters {
		code, err := svc.IssueCode(ctx, voterID, electionID)
		if err != nil {
			logger.Error("issue code failed",
				slog.String("voter_id", voterID.String()),
				slog.String("error", err.Error()))
			continue
		}
		fmt.Printf("%s\t%s\n", voterID, code)
		issued++
	}

	fmt.Fprintf(os.Stderr, "Issued %d of %d codes.\n", issued, len(voters))
}
