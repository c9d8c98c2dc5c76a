// Command tabulate recomputes and caches the results of one election.
//
// Usage:
//
//	tabulate --election=<uuid>
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
	"github.com/openballot/elections-backend/internal/adapter/postgres/candidate"
	"github.com/openballot/elections-backend/internal/adapter/postgres/election"
	"github.com/openballot/elections-backend/internal/adapter/postgres/position"
	"github.com/openballot/elections-backend/internal/adapter/postgres/result"
	"github.com/openballot/elections-backend/internal/adapter/postgres/vote"
	"github.com/openballot/elections-backend/internal/app"
	"github.com/openballot/elections-backend/internal/config"
	"github.com/openballot/elections-backend/internal/service/tabulation"
)

func main() {
	electionFlag := flag.String("election", "", "election ID to tabulate")
	flag.Parse()

	electionID, err := uuid.Parse(*electionFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: tabulate --election=<uuid>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)
	logger.Info("starting tabulate", slog.String("version", app.BuildVersion()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := tabulation.NewService(logger,
		election.New(pool), position.New(pool), candidate.New(pool),
		vote.New(pool), result.New(pool))

	res, err := svc.Recompute(ctx, electionID)
	if err != nil {
		logger.Error("tabulation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Election %s: %d positions, %d/%d voters (%.2f%% turnout), %d integrity violations.\n",
		res.ElectionID, len(res.Positions), res.CountedVoters, res.EligibleVoters,
		res.TurnoutPercentage, len(res.IntegrityViolations))
	for _, pr := range res.Positions {
		if pr.Failed {
			fmt.Printf("  %s: FAILED (%s)\n", pr.Title, pr.FailureCause)
			continue
		}
		fmt.Printf("  %s: %d votes, %d abstentions, winners %v (tie=%v)\n",
			pr.Title, pr.TotalVotes, pr.Abstentions, pr.Winners, pr.IsTie)
	}
}
