package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port              int
	Env               string
	JWTSecret         string
	DatabaseURL       string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	CORSOrigins       []string
	RenewalPeriodDays int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "4010"))
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("PORT must be a valid TCP port")
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	renewalDays, err := strconv.Atoi(getEnv("RENEWAL_PERIOD_DAYS", "30"))
	if err != nil || renewalDays < 1 {
		return nil, fmt.Errorf("RENEWAL_PERIOD_DAYS must be a positive integer")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	origins := strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return &Config{
		Port:              port,
		Env:               getEnv("ENV", "development"),
		JWTSecret:         jwtSecret,
		DatabaseURL:       dbURL,
		RedisAddr:         getEnv("REDIS_ADDR", ""), // empty disables caching
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           redisDB,
		CORSOrigins:       origins,
		RenewalPeriodDays: renewalDays,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
