package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"market/cmd"
	"market/internal/adapters/out/postgres/catalogrepo"
	"market/internal/adapters/out/postgres/directoryrepo"
	"market/internal/adapters/out/postgres/orderrepo"
	"market/internal/adapters/out/postgres/outboxrepo"

	"github.com/go-faster/errors"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)

	gormDB, err := openDB(cfg.DB)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(cfg, gormDB, logger)
	if err != nil {
		log.Fatalf("composition root: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, app, cfg, logger); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func openDB(cfg cmd.DBConfig) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}

	if cfg.AutoMigrate {
		if err := gormDB.AutoMigrate(
			&orderrepo.OrderDTO{},
			&catalogrepo.ProductDTO{},
			&directoryrepo.UserDTO{},
			&outboxrepo.NotificationDTO{},
		); err != nil {
			return nil, errors.Wrap(err, "migrate")
		}
	}

	return gormDB, nil
}

func run(ctx context.Context, app *cmd.CompositionRoot, cfg cmd.Config, logger *slog.Logger) error {
	e := newEcho(logger)
	app.CreateHTTPServer().Register(e)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTP.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		jobManager.StopAll()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				logger.ErrorContext(c.Request().Context(), "request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	}))

	return e
}
