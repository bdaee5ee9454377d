package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"goflare.io/display/config"
	"goflare.io/display/handlers"
)

type Server struct {
	echo            *echo.Echo
	Promotion       handlers.PromotionHandler
	Analytics       handlers.AnalyticsHandler
	Admin           handlers.AdminHandler
	logger          *zap.Logger
	shutdownTimeout time.Duration
}

func NewServer(
	Promotion handlers.PromotionHandler,
	Analytics handlers.AnalyticsHandler,
	Admin handlers.AdminHandler,
	appConfig *config.Config,
	logger *zap.Logger,
) *Server {
	shutdownTimeout := appConfig.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}

	s := &Server{
		echo:            echo.New(),
		Promotion:       Promotion,
		Analytics:       Analytics,
		Admin:           Admin,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
	s.echo.HideBanner = true
	s.registerMiddlewares()
	s.registerRoutes()
	return s
}

// Start listens on address until the server is shut down.
func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// Run starts the server in a goroutine and blocks until SIGINT or SIGTERM,
// then shuts down within the configured timeout.
func (s *Server) Run(address string) error {

	go func() {
		if err := s.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("server stopped unexpectedly", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) registerMiddlewares() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			}
			if v.Error != nil {
				s.logger.Error("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			s.logger.Debug("request", fields...)
			return nil
		},
	}))
}

func (s *Server) registerRoutes() {

	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.GET("/promotions/display", s.Promotion.GetDisplay)
	s.echo.POST("/promotions/:id/shown", s.Promotion.MarkShown)
	s.echo.POST("/promotions/:id/dismiss", s.Promotion.Dismiss)

	s.echo.POST("/promotions/:id/events", s.Analytics.TrackEvent)
	s.echo.POST("/promotions/:id/usage", s.Analytics.TrackUsage)

	admin := s.echo.Group("/admin")
	admin.GET("/promotions/:id", s.Admin.GetPromotion)
	admin.DELETE("/promotions/cache", s.Admin.InvalidateCache)
}
