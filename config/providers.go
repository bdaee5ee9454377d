package config

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"goflare.io/display"
	"goflare.io/display/analytics"
	"goflare.io/display/customer"
	"goflare.io/display/driver"
	"goflare.io/display/promotion"
	"goflare.io/display/session"
)

func ProvidePostgresConn(appConfig *Config) (driver.PostgresPool, func(), error) {

	conn, err := driver.ConnectSQL(appConfig.Postgres.URL)
	if err != nil {
		return nil, nil, err
	}

	return conn.Pool, conn.Pool.Close, nil
}

func ProvideRedis(appConfig *Config, logger *zap.Logger) (redis.UniversalClient, func(), error) {

	client, err := driver.ConnectRedis(appConfig.Redis.Addr, appConfig.Redis.Password, appConfig.Redis.DB)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	return client, cleanup, nil
}

func ProvideCache(client redis.UniversalClient) driver.Cache {
	return driver.NewRedisCache(client)
}

func ProvideSessionStore(appConfig *Config, client redis.UniversalClient) session.Store {
	return session.NewRedisStore(client, appConfig.Session.TTL)
}

// ProvidePublisher connects to NATS when nats.url is set. Without it
// analytics events are only written to postgres.
func ProvidePublisher(appConfig *Config, logger *zap.Logger) (analytics.Publisher, func(), error) {

	if appConfig.NATS.URL == "" {
		logger.Info("nats.url not set, analytics fan-out disabled")
		return nil, func() {}, nil
	}

	conn, err := nats.Connect(appConfig.NATS.URL, nats.Name("promotion-display"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	cleanup := func() {
		if err := conn.Drain(); err != nil {
			logger.Warn("Failed to drain nats connection", zap.Error(err))
		}
	}
	return analytics.NewNATSPublisher(conn), cleanup, nil
}

func ProvideTracker(appConfig *Config, repo analytics.Repository, publisher analytics.Publisher, logger *zap.Logger) (*analytics.Tracker, func()) {

	tracker := analytics.NewTracker(repo, publisher, analytics.Options{
		Workers:      appConfig.Analytics.Workers,
		QueueSize:    appConfig.Analytics.QueueSize,
		RateLimit:    appConfig.Analytics.RateLimit,
		Burst:        appConfig.Analytics.Burst,
		WriteTimeout: appConfig.Analytics.WriteTimeout,
	}, logger)
	tracker.Start()

	return tracker, tracker.Stop
}

func ProvideCustomerService(appConfig *Config, repo customer.Repository, tm *driver.TransactionManager, logger *zap.Logger) customer.Service {
	return customer.NewService(repo, tm, appConfig.Targeting.NewCustomerWindow, logger)
}

func ProvidePromotionService(appConfig *Config, repo promotion.Repository, tm *driver.TransactionManager, cache driver.Cache, logger *zap.Logger) promotion.Service {
	return promotion.NewService(repo, tm, cache, appConfig.Display.CacheTTL, logger)
}

func ProvideEngineOptions(appConfig *Config) display.Options {
	return display.Options{
		MaxCarouselItems: appConfig.Display.MaxCarouselItems,
	}
}

// ProvideDisplay builds the engine for the HTTP surface, which has no
// notification environment of its own.
func ProvideDisplay(
	promotions promotion.Service,
	store session.Store,
	customers customer.Service,
	tracker *analytics.Tracker,
	opts display.Options,
	logger *zap.Logger,
) display.Display {
	return display.NewEngine(promotions, store, customers, tracker, nil, opts, logger)
}
