package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/EyalPoly/attendance-manager/config"
	"github.com/EyalPoly/attendance-manager/database"
	"github.com/EyalPoly/attendance-manager/handlers"
	"github.com/EyalPoly/attendance-manager/logger"
	"github.com/EyalPoly/attendance-manager/middlewares"
	"github.com/EyalPoly/attendance-manager/repos"
	"github.com/EyalPoly/attendance-manager/routes"
	"github.com/EyalPoly/attendance-manager/services"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	lg, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer lg.Sync()

	ctx := context.Background()
	client, err := database.Connect(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer database.Disconnect(client, lg)

	repo := repos.NewMongoAttendanceRepo(client.Database(cfg.MongoDatabase))
	if err := repo.EnsureIndexes(ctx); err != nil {
		lg.Fatal("failed to create attendance indexes", zap.Error(err))
	}

	svc := services.NewAttendanceService(repo, lg)
	att := handlers.NewAttendanceHandler(svc, lg)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler(lg)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogRequestID: true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			lg.Info("request",
				zap.String("id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	routes.Register(e, att, middlewares.Identity(cfg.JWTSecret, cfg.DefaultUserID))

	go func() {
		addr := ":" + cfg.AppPort
		lg.Info("server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			lg.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("server shutdown failed", zap.Error(err))
	}
}
