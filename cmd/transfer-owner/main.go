// Command transfer-owner reassigns an indicator's single update
// responsible to another user. The previous responsible keeps plain
// access; the new one is granted access if missing.
//
// Usage:
//
//	transfer-owner --indicator=42 --user=7 --acting-user=1
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/datapolis/indicators-backend/internal/adapter/postgres"
	assignmentrepo "github.com/datapolis/indicators-backend/internal/adapter/postgres/assignment"
	"github.com/datapolis/indicators-backend/internal/app"
	"github.com/datapolis/indicators-backend/internal/config"
	"github.com/datapolis/indicators-backend/internal/service/assignment"
)

func main() {
	indicatorID := flag.Int64("indicator", 0, "indicator id")
	userID := flag.Int64("user", 0, "id of the new update responsible")
	actingUserID := flag.Int64("acting-user", 0, "id of the administrator performing the change")
	flag.Parse()

	if *indicatorID == 0 || *userID == 0 || *actingUserID == 0 {
		fmt.Fprintln(os.Stderr, "Usage: transfer-owner --indicator=42 --user=7 --acting-user=1")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := assignment.NewService(logger, assignmentrepo.New(pool), postgres.NewTxManager(pool))

	err = svc.TransferOwnership(ctx, assignment.TransferOwnershipInput{
		NewOwnerUserID: *userID,
		IndicatorID:    *indicatorID,
		ActingUserID:   *actingUserID,
	})
	if err != nil {
		logger.Error("transfer ownership failed",
			slog.String("error", err.Error()),
			slog.Int64("indicator_id", *indicatorID),
			slog.Int64("user_id", *userID),
		)
		os.Exit(1)
	}

	fmt.Printf("Indicator %d is now the responsibility of user %d.\n", *indicatorID, *userID)
}
