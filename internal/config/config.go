package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env              string
	HTTPPort         string
	DBPath           string
	FrontendDir      string
	RedisAddr        string
	RateLimitBackend string
	RateLimitPerMin  int
	CORSOrigins      []string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ShutdownTimeout  time.Duration
}

// Load returns application config populated from environment variables with sensible defaults.
func Load() App {
	return App{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPPort:         getEnv("PORT", "3000"),
		DBPath:           getEnv("DB_PATH", "./database/lab_management.db"),
		FrontendDir:      getEnv("FRONTEND_DIR", "./web"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),
		RateLimitPerMin:  intEnv("RATE_LIMIT_PER_MIN", 300),
		CORSOrigins:      listEnv("CORS_ORIGINS", []string{"*"}),
		ReadTimeout:      durationEnv("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:     durationEnv("HTTP_WRITE_TIMEOUT", 15*time.Second),
		ShutdownTimeout:  durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Production reports whether gin should run in release mode.
func (a App) Production() bool {
	return a.Env == "production" || a.Env == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}

func listEnv(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
