// Command catalog lists indicators from the administrative catalog with
// the shared filter set, one row per line. Useful for checking what a
// given filter combination returns without going through the API.
//
// Usage:
//
//	catalog --search=air --goal=3 --page=1 --per-page=20
//	catalog --user=7 --public
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
	indicatorrepo "github.com/datapolis/indicators-backend/internal/adapter/postgres/indicator"
	"github.com/datapolis/indicators-backend/internal/app"
	"github.com/datapolis/indicators-backend/internal/config"
	"github.com/datapolis/indicators-backend/internal/domain"
	"github.com/datapolis/indicators-backend/internal/service/catalog"
)

func main() {
	search := flag.String("search", "", "substring match on name, unit label or id")
	goalID := flag.Int64("goal", 0, "restrict to a goal")
	topicID := flag.Int64("topic", 0, "restrict to a topic")
	userID := flag.Int64("user", 0, "restrict to indicators assigned to a user")
	public := flag.Bool("public", false, "apply the public catalog view")
	page := flag.Int("page", 1, "page number")
	perPage := flag.Int("per-page", 20, "page size")
	flag.Parse()

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

	svc := catalog.NewService(logger, indicatorrepo.New(pool))

	filter := domain.IndicatorFilter{
		Search:  *search,
		Page:    *page,
		PerPage: *perPage,
	}
	if *goalID != 0 {
		filter.GoalID = goalID
	}
	if *topicID != 0 {
		filter.TopicID = topicID
	}
	if *userID != 0 {
		filter.UserID = userID
	}

	var result *catalog.Page
	if *public {
		result, err = svc.ListPublic(ctx, filter)
	} else {
		result, err = svc.List(ctx, filter)
	}
	if err != nil {
		logger.Error("list catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, ind := range result.Items {
		fmt.Printf("%d\t%s\n", ind.ID, ind.Name)
	}
	fmt.Printf("page %d/%d, %d indicator(s) total\n",
		result.Page, (result.Total+result.PerPage-1)/result.PerPage, result.Total)
}
