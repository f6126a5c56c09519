package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm_followup_backend/internal/email"
	"crm_followup_backend/internal/events"
	"crm_followup_backend/internal/followup/catalog"
	"crm_followup_backend/internal/followup/compose"
	followuprepo "crm_followup_backend/internal/followup/repository"
	followupservice "crm_followup_backend/internal/followup/service"
	"crm_followup_backend/internal/leads"
	"crm_followup_backend/internal/scheduler"
	"crm_followup_backend/internal/whatsapp"
	"crm_followup_backend/platform/config"
	"crm_followup_backend/platform/db"
	"crm_followup_backend/platform/logger"
	"crm_followup_backend/platform/phone"
	"crm_followup_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	normalizer := phone.NewNormalizer(cfg.GetPhoneDefaultRegion())
	sender := email.NewSMTPSender(cfg)
	whatsappClient := whatsapp.NewClient(cfg, normalizer, log)

	leadsModule := leads.NewModule(pool, val, log)

	reg := catalog.Default()
	repo := followuprepo.New(pool)
	resolver := followupservice.NewResolver(repo, eventBus, log)
	composer := compose.New(reg, resolver, log)

	client, err := scheduler.NewClient(cfg, cfg.ReminderLeadTime)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	worker, err := scheduler.NewWorker(cfg, cfg, pool, leadsModule.Service(), composer, sender, whatsappClient, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	sweeper := scheduler.NewDueSweeper(pool, client, 5*time.Minute, 24*time.Hour, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		worker.Run(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		return sweeper.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("scheduler stopped", "error", err)
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
