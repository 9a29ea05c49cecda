package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr         string
	Port               string
	DatabaseDriver     string
	DatabasePath       string
	DatabaseURL        string
	DatabaseLogLevel   string
	JWTSecret          string
	SessionSecret      string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	GinMode            string
	UploadDir          string
	UploadURLPath      string
	MaxUploadBytes     int64
	PublishInterval    time.Duration
	CORSAllowedOrigins []string
	SuperUserEmail     string
	SuperUserPassword  string
}

// LoadEnv 读取可选的 .env 文件，文件缺失时静默跳过。
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[CONFIG] failed to load .env: %v", err)
	}
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := envOrDefault("PORT", "8080")

	listenAddr := envOrDefault("LISTEN_ADDR", fmt.Sprintf(":%s", port))

	driver := strings.ToLower(envOrDefault("DB_DRIVER", "sqlite"))

	return AppConfig{
		ListenAddr:         listenAddr,
		Port:               port,
		DatabaseDriver:     driver,
		DatabasePath:       envOrDefault("DATABASE_PATH", "socialnet.db"),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DatabaseLogLevel:   strings.ToLower(envOrDefault("DB_LOG_LEVEL", "warn")),
		JWTSecret:          envOrDefault("JWT_SECRET", "socialnet-dev-jwt-secret"),
		SessionSecret:      envOrDefault("SESSION_SECRET", "socialnet-dev-secret"),
		AccessTokenTTL:     durationOrDefault("ACCESS_TOKEN_TTL", 5*time.Minute),
		RefreshTokenTTL:    durationOrDefault("REFRESH_TOKEN_TTL", 24*time.Hour),
		GinMode:            envOrDefault("GIN_MODE", "release"),
		UploadDir:          envOrDefault("UPLOAD_DIR", "media"),
		UploadURLPath:      strings.TrimRight(envOrDefault("UPLOAD_URL_PATH", "/uploads"), "/"),
		MaxUploadBytes:     int64OrDefault("MAX_UPLOAD_BYTES", 10<<20),
		PublishInterval:    durationOrDefault("PUBLISH_INTERVAL", time.Minute),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		SuperUserEmail:     strings.TrimSpace(os.Getenv("SUPERUSER_EMAIL")),
		SuperUserPassword:  strings.TrimSpace(os.Getenv("SUPERUSER_PASSWORD")),
	}
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		log.Printf("[CONFIG] invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return parsed
}

func int64OrDefault(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		log.Printf("[CONFIG] invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return parsed
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, trimmed)
	}
	return values
}
