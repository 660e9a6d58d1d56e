// Command seeder populates the reference tables (ODS goals, coverages,
// measurement units, topics) and, with -demo, a small demo dataset of users
// and indicators. It is intended to be run offline against a fresh database,
// not as part of the main service.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datapolis/indicators-backend/internal/adapter/postgres"
	"github.com/datapolis/indicators-backend/internal/app"
	"github.com/datapolis/indicators-backend/internal/config"
)

var odsGoals = []string{
	"No Poverty",
	"Zero Hunger",
	"Good Health and Well-being",
	"Quality Education",
	"Gender Equality",
	"Clean Water and Sanitation",
	"Affordable and Clean Energy",
	"Decent Work and Economic Growth",
	"Industry, Innovation and Infrastructure",
	"Reduced Inequalities",
	"Sustainable Cities and Communities",
	"Responsible Consumption and Production",
	"Climate Action",
	"Life Below Water",
	"Life on Land",
	"Peace, Justice and Strong Institutions",
	"Partnerships for the Goals",
}

var coverages = []string{"city", "district", "neighborhood", "metropolitan area"}

var measurementUnits = []string{
	"percentage", "per 1,000 inhabitants", "per 100,000 inhabitants",
	"tonnes per year", "micrograms per cubic metre", "euros", "count",
}

func main() {
	demo := flag.Bool("demo", false, "also seed demo users and indicators")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := seedReference(ctx, pool); err != nil {
		logger.Error("seed reference data", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("reference data seeded",
		slog.Int("goals", len(odsGoals)),
		slog.Int("coverages", len(coverages)),
		slog.Int("measurement_units", len(measurementUnits)),
	)

	if !*demo {
		return
	}
	if err := seedDemo(ctx, pool); err != nil {
		logger.Error("seed demo data", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("demo data seeded")
}

func seedReference(ctx context.Context, pool *pgxpool.Pool) error {
	for i, title := range odsGoals {
		if _, err := pool.Exec(ctx,
			`INSERT INTO ods (position, title) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			i+1, title,
		); err != nil {
			return err
		}
		if _, err := pool.Exec(ctx,
			`INSERT INTO goals (title) SELECT $1 WHERE NOT EXISTS (SELECT 1 FROM goals WHERE title = $1)`,
			title,
		); err != nil {
			return err
		}
	}

	for _, c := range coverages {
		if _, err := pool.Exec(ctx,
			`INSERT INTO coverages (type) SELECT $1 WHERE NOT EXISTS (SELECT 1 FROM coverages WHERE type = $1)`,
			c,
		); err != nil {
			return err
		}
	}

	for _, mu := range measurementUnits {
		if _, err := pool.Exec(ctx,
			`INSERT INTO measurement_units (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
			mu,
		); err != nil {
			return err
		}
	}

	topics := []string{"Environment", "Mobility", "Economy", "Health", "Education", "Housing"}
	for _, tp := range topics {
		if _, err := pool.Exec(ctx,
			`INSERT INTO topics (name) SELECT $1 WHERE NOT EXISTS (SELECT 1 FROM topics WHERE name = $1)`,
			tp,
		); err != nil {
			return err
		}
	}

	return nil
}

func seedDemo(ctx context.Context, pool *pgxpool.Pool) error {
	var userID int64
	err := pool.QueryRow(ctx,
		`INSERT INTO users (names, first_surname, email)
		 VALUES ('Ana', 'Demo', 'ana.demo@example.com')
		 ON CONFLICT (email) DO UPDATE SET updated_at = now()
		 RETURNING id`,
	).Scan(&userID)
	if err != nil {
		return err
	}

	var indicatorID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO indicators (name, trend, periodicity_months, updated_at)
		 VALUES ('Air Quality', 'descending', 1, now() - interval '2 months')
		 RETURNING id`,
	).Scan(&indicatorID)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO user_indicators (user_id, indicator_id, is_owner, created_by)
		 VALUES ($1, $2, true, $1)
		 ON CONFLICT (user_id, indicator_id) DO NOTHING`,
		userID, indicatorID,
	)
	return err
}
