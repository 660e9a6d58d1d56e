// Command feature toggles an indicator's highlighted slot in one or more
// goals. Each goal holds a limited number of highlighted indicators; when
// a requested goal is full the whole batch is refused and the current
// occupants are printed so an operator can pick one to displace.
//
// Usage:
//
//	feature --indicator=42 --add=3,5 --remove=9
//
// Exit codes: 0 = applied, 1 = error, 2 = refused because a goal is full.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/datapolis/indicators-backend/internal/adapter/postgres"
	goalrepo "github.com/datapolis/indicators-backend/internal/adapter/postgres/goal"
	"github.com/datapolis/indicators-backend/internal/app"
	"github.com/datapolis/indicators-backend/internal/config"
	"github.com/datapolis/indicators-backend/internal/domain"
	"github.com/datapolis/indicators-backend/internal/service/featured"
)

func main() {
	indicatorID := flag.Int64("indicator", 0, "indicator id")
	add := flag.String("add", "", "comma-separated goal ids to highlight the indicator in")
	remove := flag.String("remove", "", "comma-separated goal ids to clear the highlight in")
	flag.Parse()

	updates, err := parseUpdates(*add, *remove)
	if *indicatorID == 0 || err != nil || len(updates) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: feature --indicator=42 --add=3,5 --remove=9")
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

	svc := featured.NewService(logger, goalrepo.New(pool), postgres.NewTxManager(pool))

	result, err := svc.SetFeaturedStatus(ctx, featured.SetFeaturedStatusInput{
		IndicatorID: *indicatorID,
		Updates:     updates,
	})
	if err != nil {
		logger.Error("set featured status failed",
			slog.String("error", err.Error()),
			slog.Int64("indicator_id", *indicatorID),
		)
		os.Exit(1)
	}

	if !result.Applied {
		fmt.Println("Refused: the following goals already hold the maximum of highlighted indicators.")
		for _, g := range result.GoalsAtCapacity {
			fmt.Printf("  goal %d %q:\n", g.GoalID, g.Title)
			for _, ind := range g.Indicators {
				fmt.Printf("    %d %s\n", ind.ID, ind.Name)
			}
		}
		os.Exit(2)
	}

	fmt.Printf("Applied %d goal update(s) for indicator %d.\n", len(updates), *indicatorID)
}

func parseUpdates(add, remove string) ([]domain.FeaturedUpdate, error) {
	var updates []domain.FeaturedUpdate
	for _, set := range []struct {
		list     string
		featured bool
	}{{add, true}, {remove, false}} {
		if set.list == "" {
			continue
		}
		for _, raw := range strings.Split(set.list, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parse goal id %q: %w", raw, err)
			}
			updates = append(updates, domain.FeaturedUpdate{GoalID: id, Featured: set.featured})
		}
	}
	return updates, nil
}
