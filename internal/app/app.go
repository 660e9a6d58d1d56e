package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/datapolis/indicators-backend/internal/adapter/mail"
	"github.com/datapolis/indicators-backend/internal/adapter/postgres"
	assignmentrepo "github.com/datapolis/indicators-backend/internal/adapter/postgres/assignment"
	"github.com/datapolis/indicators-backend/internal/config"
	"github.com/datapolis/indicators-backend/internal/domain"
	"github.com/datapolis/indicators-backend/internal/service/notifier"
	"github.com/datapolis/indicators-backend/pkg/ctxutil"
)

// RunNotifier wires the staleness pipeline and drives it on the configured
// interval until ctx is canceled. With runOnce set it performs a single scan
// and returns, which is the mode used by cron-style deployments.
func RunNotifier(ctx context.Context, runOnce bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting notifier",
		slog.Duration("interval", cfg.Notifier.Interval),
		slog.Bool("mail_enabled", cfg.Mail.Enabled),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	var sender mail.Sender
	if cfg.Mail.Enabled {
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
	} else {
		sender = mail.NewLogSender(logger)
	}

	svc := notifier.NewService(
		logger,
		assignmentrepo.New(pool),
		mail.NewMailer(sender),
		cfg.Notifier.SendDelay,
	)

	if runOnce {
		_, err := svc.Run(ctx)
		return err
	}

	if cfg.Notifier.RunOnStart {
		runScan(ctx, logger, svc)
	}

	ticker := time.NewTicker(cfg.Notifier.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("notifier stopping")
			return nil
		case <-ticker.C:
			runScan(ctx, logger, svc)
		}
	}
}

func runScan(ctx context.Context, logger *slog.Logger, svc *notifier.Service) {
	ctx = ctxutil.WithRunID(ctx, "")
	if _, err := svc.Run(ctx); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			// shutdown in progress
		case errors.Is(err, domain.ErrScanInProgress):
			logger.Warn("skipping scan, previous run still dispatching")
		default:
			logger.Error("staleness scan failed", slog.Any("error", err))
		}
	}
}
