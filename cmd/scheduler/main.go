package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/config"
	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/repository"
	"github.com/zhanghongming044-cell/debt-settlement-ddd/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := initDB(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Fatal("invalid scheduler timezone",
			zap.String("timezone", cfg.Scheduler.Timezone),
			zap.Error(err),
		)
	}

	contractRepo := repository.NewDebtContractRepository(db)
	outbox := repository.NewEventOutbox(db)

	dispatcher := service.NewOutboxDispatcher(outbox, redisClient, cfg.Outbox.Channel, cfg.Outbox.BatchSize, logger)
	summaryJob := service.NewSummaryJob(contractRepo, outbox, location, logger)

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))
	if err := setupCronJobs(c, cfg, dispatcher, summaryJob, logger); err != nil {
		logger.Fatal("failed to schedule jobs", zap.Error(err))
	}

	c.Start()
	logger.Info("scheduler started",
		zap.String("outbox_spec", cfg.Outbox.CronSpec),
		zap.String("summary_spec", cfg.Scheduler.SummaryCronSpec),
		zap.String("timezone", cfg.Scheduler.Timezone),
	)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down scheduler")
	stopCtx := c.Stop()
	<-stopCtx.Done()
	logger.Info("scheduler stopped")
}

func setupCronJobs(
	c *cron.Cron,
	cfg *config.Config,
	dispatcher *service.OutboxDispatcher,
	summaryJob *service.SummaryJob,
	logger *zap.Logger,
) error {
	_, err := c.AddFunc(cfg.Outbox.CronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := dispatcher.Dispatch(ctx); err != nil {
			logger.Error("outbox dispatch failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	_, err = c.AddFunc(cfg.Scheduler.SummaryCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		// errors are logged inside the job
		_ = summaryJob.Run(ctx, time.Now())
	})
	return err
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Encoding = cfg.Logging.Format

	return zapCfg.Build()
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
