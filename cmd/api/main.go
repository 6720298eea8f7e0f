package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/config"
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/redis"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title           Portfolio Contact API
// @version         1.0
// @description     Contact form mail dispatch for the portfolio site.
// @host            localhost:8080
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Logger
	zlog, err := logger.Init(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zlog.Info("Starting portfolio backend", zap.String("port", cfg.Port))
	if missing := cfg.Validate(); len(missing) > 0 {
		zlog.Warn("Mail settings missing, contact form will fail to send", zap.Strings("missing", missing))
	}
	if cfg.ContactRateLimit > 0 && cfg.UpstashRedisURL == "" {
		zlog.Warn("UPSTASH_REDIS_URL not configured, rate limiting uses in-memory store")
	}

	// 3. Setup Email Service (built once, shared read-only by all requests)
	emailService, err := email.NewEmailServiceFromConfig(cfg)
	if err != nil {
		zlog.Fatal("Failed to set up mail transport", zap.Error(err))
	}
	if !emailService.IsConfigured() {
		zlog.Warn("Email service not fully configured - contact form will fail to send",
			zap.String("provider", cfg.MailProvider))
	}

	// 4. Optional Redis for the contact rate limiter
	var redisClient *goredis.Client
	if cfg.ContactRateLimit > 0 && cfg.UpstashRedisURL != "" {
		redisClient, err = redis.Connect(context.Background(), redis.Config{
			URL:      cfg.UpstashRedisURL,
			Password: cfg.UpstashRedisPassword,
		})
		if err != nil {
			zlog.Warn("Redis unavailable, rate limiting uses in-memory store", zap.Error(err))
		} else {
			defer redisClient.Close()
		}
	}

	// 5. Setup UseCases
	contactUC := usecase.NewContactUsecase(emailService, validation.New(), zlog)
	healthUC := usecase.NewHealthUsecase(emailService)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		HealthUC:  healthUC,
		Redis:     redisClient,
		Log:       zlog,
		Config:    cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("Listen failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}

	zlog.Info("Server exiting")
}
