//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"goflare.io/display/analytics"
	"goflare.io/display/config"
	"goflare.io/display/customer"
	"goflare.io/display/driver"
	"goflare.io/display/handlers"
	"goflare.io/display/promotion"
	"goflare.io/display/server"
)

func initializeApplication() (*application, func(), error) {

	wire.Build(
		config.ProvideApplicationConfig,
		config.NewLogger,
		config.ProvidePostgresConn,
		config.ProvideRedis,
		config.ProvideCache,
		config.ProvideSessionStore,
		config.ProvidePublisher,
		driver.NewTransactionManager,
		customer.NewRepository,
		config.ProvideCustomerService,
		promotion.NewRepository,
		config.ProvidePromotionService,
		analytics.NewRepository,
		config.ProvideTracker,
		config.ProvideEngineOptions,
		config.ProvideDisplay,
		handlers.NewPromotionHandler,
		handlers.NewAnalyticsHandler,
		handlers.NewAdminHandler,
		server.NewServer,
		newApplication,
	)

	return nil, nil, nil
}
