package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightcart/api"
	"github.com/Domenick1991/flightcart/config"
	"github.com/Domenick1991/flightcart/internal/bootstrap"
	"github.com/Domenick1991/flightcart/internal/cache"
	"github.com/Domenick1991/flightcart/internal/kafka"
	"github.com/Domenick1991/flightcart/internal/logger"
	"github.com/Domenick1991/flightcart/internal/purchase"
	"github.com/Domenick1991/flightcart/internal/repository"
	"github.com/Domenick1991/flightcart/internal/service/cart"
	"github.com/Domenick1991/flightcart/internal/service/compare"
	"github.com/Domenick1991/flightcart/internal/service/flights"
	"github.com/Domenick1991/flightcart/internal/service/reference"
	"github.com/Domenick1991/flightcart/internal/travelpayouts"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
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

	store, closeStore, err := openReferenceStore(ctx, cfg, log)
	if err != nil {
		log.Fatalf("open reference store: %v", err)
	}
	defer closeStore()

	tp := travelpayouts.New(cfg.Travelpayouts)
	refService := reference.NewReferenceService(store, tp, log.WithField("component", "reference"),
		reference.WithRetry(cfg.ReferenceCache.RetryAttempts, cfg.ReferenceCache.RetryBackoff()),
	)
	go refService.Hydrate(ctx)

	state := flights.NewState()
	flightService := flights.NewFlightService(tp, refService, state, log.WithField("component", "flights"))

	cartOpts := []cart.CartServiceOption{cart.WithNotificationsTopic(cfg.Kafka.NotificationsTopic)}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log.WithField("component", "kafka"))
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			log.WithError(err).Warn("kafka unavailable, checkout events will fail until it is reachable")
		}
		cartOpts = append(cartOpts, cart.WithEvents(producer, cfg.Kafka.CheckoutTopic))
	}
	navigator := cart.NavigatorFunc(func(ctx context.Context, view string) {
		log.WithField("view", view).Debug("navigate")
	})
	cartService := cart.NewCartService(state, purchase.New(cfg.Purchase), navigator, log.WithField("component", "cart"), cartOpts...)
	compareService := compare.NewCompareService(state)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(log,
		api.NewFlightHandler(flightService, refService),
		api.NewCartHandler(cartService, flightService),
		api.NewCompareHandler(compareService, flightService),
		api.NewReferenceHandler(refService),
	)

	if err := bootstrap.Run(ctx, cfg, log, router, refService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func openReferenceStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (reference.Store, func(), error) {
	switch cfg.ReferenceCache.Backend {
	case "redis":
		rs := cache.NewRedisStore(cfg.Redis)
		return rs, func() { _ = rs.Close() }, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, err
		}
		pg := repository.NewReferenceStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil
	default:
		log.Warn("reference_cache.backend is memory: reference data is refetched on every start")
		return cache.NewMemoryStore(), func() {}, nil
	}
}

