package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string
	AppURL  string

	DBDSN      string
	DBUser     string
	DBPassword string
	DBHost     string
	DBName     string

	JWTSecret string

	MidtransServerKey string
	MidtransEnv       string
	GatewayTimeout    time.Duration

	CORSAllowedOrigins []string

	RedisURL       string
	IdempotencyTTL time.Duration
}

// LoadEnv reads .env (when present) and then the process environment.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: gagal membaca .env: %v", err)
	}

	return Env{
		AppAddr: getEnv("APP_ADDR", ":8080"),
		GinMode: getEnv("GIN_MODE", ""),
		AppURL:  strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),

		DBDSN:      getEnv("DB_DSN", ""),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "127.0.0.1:3306"),
		DBName:     getEnv("DB_NAME", "rentago"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		MidtransServerKey: getEnv("MIDTRANS_SERVER_KEY", ""),
		MidtransEnv:       strings.ToLower(getEnv("MIDTRANS_ENV", "sandbox")),
		GatewayTimeout:    getEnvAsDuration("GATEWAY_TIMEOUT", 15*time.Second),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		}),

		RedisURL:       getEnv("REDIS_URL", ""),
		IdempotencyTTL: getEnvAsDuration("IDEMPOTENCY_TTL", 24*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
