package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bidmarket/config"
	"bidmarket/internal/mailer"
	"bidmarket/internal/notify"
	"bidmarket/pkg/logger"
	"bidmarket/pkg/mq"
)

const dedupTTL = 24 * time.Hour

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting bidmarket notifier",
		zap.String("mq_url", cfg.MQ.URL),
		zap.String("smtp_host", cfg.SMTP.Host),
	)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	deduper := notify.NewDeduper(rdb, dedupTTL, log)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP)
	requestedHandler := notify.NewRequestedHandler(smtpMailer, deduper, log)

	consumer, err := mq.NewConsumer(cfg.MQ.URL, "notification.requested.q", notify.RoutingKeyRequested, log)
	if err != nil {
		log.Fatal("Failed to init consumer", zap.Error(err))
	}
	defer consumer.Close()

	consumer.SetHandler(requestedHandler.Handle)

	go func() {
		if err := consumer.StartConsuming(); err != nil {
			log.Fatal("Notification consumer failed", zap.Error(err))
		}
	}()
	log.Info("notification.requested consumer started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down notifier")
}
