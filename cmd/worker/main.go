package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/treinasus/admin-api/internal/config"
	"github.com/treinasus/admin-api/internal/repository/postgres"
	auditService "github.com/treinasus/admin-api/internal/service/audit"
	"github.com/treinasus/admin-api/pkg/logger"
	messagingredis "github.com/treinasus/admin-api/pkg/messaging/redis"
	"github.com/treinasus/admin-api/pkg/metrics"
	"github.com/treinasus/admin-api/pkg/worker"
)

func main() {
	_ = godotenv.Load()

	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := messagingredis.NewRedisBroker(messagingredis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     5,
		MinIdleConns: 1,
	}, &log.ZL)
	if err != nil {
		log.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	auditSvc := auditService.NewService(auditRepo, &log.ZL)

	m := metrics.New("treinasus_worker")

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval(),
		RetryAttempts: cfg.Outbox.MaxRetries,
		RetryDelay:    time.Second,
	}, log, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)

	// Scheduled housekeeping: audit retention and processed-outbox GC.
	c := cron.New()
	_, err = c.AddFunc(cfg.Retention.CleanupSchedule, func() {
		cutoff := time.Now().AddDate(0, 0, -cfg.Retention.AuditDays)
		deleted, err := auditSvc.Cleanup(ctx, cutoff)
		if err != nil {
			log.Error(err, "audit cleanup failed")
			return
		}
		log.Info("audit cleanup completed", "deleted", deleted)

		purged, err := outboxRepo.DeleteProcessedBefore(ctx, time.Now().AddDate(0, 0, -7))
		if err != nil {
			log.Error(err, "outbox cleanup failed")
			return
		}
		log.Info("outbox cleanup completed", "deleted", purged)

		released, err := outboxRepo.ReleaseStale(ctx, time.Now().Add(-10*time.Minute))
		if err != nil {
			log.Error(err, "outbox stale-claim release failed")
			return
		}
		if released > 0 {
			log.Info("requeued stale outbox claims", "released", released)
		}
	})
	if err != nil {
		log.Fatal(err, "invalid cleanup schedule")
	}
	c.Start()
	defer c.Stop()

	log.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()
	time.Sleep(time.Second)
	log.Info("worker exited properly")
}
