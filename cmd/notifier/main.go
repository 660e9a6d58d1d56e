// Command notifier runs the staleness pipeline: it scans assignments for
// indicators whose data outlived its declared update cadence and emails each
// affected user a digest, at most once per staleness episode.
//
// By default it runs as a long-lived process scanning on the configured
// interval. With -once it performs a single scan and exits, for cron-style
// deployments.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/datapolis/indicators-backend/internal/app"
)

func main() {
	once := flag.Bool("once", false, "run a single scan and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunNotifier(ctx, *once); err != nil {
		log.Fatalf("notifier: %v", err)
	}
}
