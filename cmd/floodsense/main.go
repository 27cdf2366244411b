package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ajay0072005/floodsense-ai/internal/api"
	"github.com/Ajay0072005/floodsense-ai/internal/auth"
	"github.com/Ajay0072005/floodsense-ai/internal/config"
	"github.com/Ajay0072005/floodsense-ai/internal/inference"
	"github.com/Ajay0072005/floodsense-ai/internal/journal"
	"github.com/Ajay0072005/floodsense-ai/internal/logging"
	"github.com/Ajay0072005/floodsense-ai/internal/observability"
	"github.com/Ajay0072005/floodsense-ai/internal/otp"
	"github.com/Ajay0072005/floodsense-ai/internal/realtime"
	"github.com/Ajay0072005/floodsense-ai/internal/repository"
	"github.com/Ajay0072005/floodsense-ai/internal/risk"
	"github.com/Ajay0072005/floodsense-ai/internal/sms"
	"github.com/Ajay0072005/floodsense-ai/internal/weather"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "cortex", cfg.Cortex.URL)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// Hub for real-time fan-out to dashboards
	hub := realtime.NewHub(metrics.EventsDropped.Inc, func(delta int) {
		metrics.Subscribers.Add(float64(delta))
	})

	// Async prediction-log persistence
	predictionJournal := journal.New(db, cfg.Journal.Workers, cfg.Journal.BufferSize, metrics.JournalDropped.Inc)

	weatherClient := weather.NewClient(cfg.Weather, slog.Default())
	cortexClient := inference.NewClient(cfg.Cortex)
	pipeline := risk.NewPipeline(cortexClient, weatherClient, predictionJournal, hub, cfg.Risk, metrics, slog.Default())

	otpStore := otp.NewStore(cfg.OTP.TTL, cfg.OTP.MaxAttempts, clockwork.NewRealClock())
	smsClient := sms.NewClient(cfg.SMS, slog.Default())
	tokenService := auth.NewTokenService(cfg.Auth)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.API.RateLimitRPS))

	handler := api.NewHandler(pipeline, weatherClient, db, hub, metrics, slog.Default(), cfg.Cortex.URL)
	handler.RegisterRoutes(router)

	authHandler := api.NewAuthHandler(otpStore, smsClient, tokenService, metrics, slog.Default())
	authHandler.RegisterRoutes(router)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	hub.Close() // Close all subscriber streams gracefully
	predictionJournal.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
