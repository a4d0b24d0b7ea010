package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"labattend/internal/attendance"
	"labattend/internal/config"
	"labattend/internal/handler"
	"labattend/internal/httpmiddleware"
	"labattend/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("startup failed: %v", err)
	}
}

func run(cfg config.App) error {
	db, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	var redisHealth handler.RedisHealth
	if redisClient != nil {
		redisHealth = redisClient
		log.Printf("Redis: %s", cfg.RedisAddr)
	}

	svc := attendance.NewService(attendance.NewRepository(db.Client))
	h := handler.New(svc, db, redisHealth)

	middleware := []gin.HandlerFunc{
		httpmiddleware.SecurityHeaders(),
		httpmiddleware.NewMetrics(prometheus.DefaultRegisterer).Handler(),
	}
	if limiter := newLimiter(cfg, redisClient); limiter != nil {
		middleware = append(middleware, httpmiddleware.RateLimit(limiter))
	}

	r := handler.NewRouter(h, handler.RouterOptions{
		FrontendDir: cfg.FrontendDir,
		CORSOrigins: cfg.CORSOrigins,
		Middleware:  middleware,
		Metrics:     promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on http://localhost:%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// openStore opens and migrates the database at path.
func openStore(path string) (*store.DB, error) {
	db, err := store.NewDB(path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database %s: %w", path, err)
	}
	log.Printf("Database: %s", path)
	return db, nil
}

// newLimiter picks the rate-limit backend; nil disables limiting.
func newLimiter(cfg config.App, redisClient *store.Redis) httpmiddleware.Limiter {
	if cfg.RateLimitPerMin <= 0 {
		return nil
	}
	if cfg.RateLimitBackend == "redis" {
		if redisClient != nil {
			return httpmiddleware.NewRedisWindow(redisClient.Client, cfg.RateLimitPerMin)
		}
		log.Println("WARNING: RATE_LIMIT_BACKEND=redis but REDIS_ADDR not set, using in-memory limiter")
	}
	return httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
}
