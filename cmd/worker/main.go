package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightcart/config"
	"github.com/Domenick1991/flightcart/internal/email"
	"github.com/Domenick1991/flightcart/internal/kafka"
	"github.com/Domenick1991/flightcart/internal/logger"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log.WithField("component", "kafka"))
	defer consumer.Close()

	emailSender := email.NewSender(log.WithField("component", "email"))

	log.WithField("topic", cfg.Kafka.NotificationsTopic).Info("worker started")
	err = consumer.ConsumeCheckouts(ctx, emailSender.Send)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("consumer stopped: %v", err)
		return
	}
	log.Info("worker stopped")
}
