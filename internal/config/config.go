package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env     string
	Service string

	CartAddr    string
	CatalogAddr string

	RedisAddr      string
	PostgresDSN    string
	CatalogURL     string
	CartTTLSeconds int

	MetricsEnabled bool
	MetricsToken   string

	RateLimit       int
	RateLimitWindow int
}

func Load(service string) Config {
	_ = godotenv.Load()

	return Config{
		Env:     getenv("APP_ENV", "production"),
		Service: service,

		CartAddr:    getenv("CART_ADDR", ":8084"),
		CatalogAddr: getenv("CATALOG_ADDR", ":8082"),

		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		PostgresDSN:    getenv("POSTGRES_DSN", ""),
		CatalogURL:     getenv("CATALOG_URL", "http://localhost:8082"),
		CartTTLSeconds: getint("CART_TTL_SECONDS", 1800),

		MetricsEnabled: getenv("METRICS_ENABLED", "") == "true",
		MetricsToken:   getenv("METRICS_TOKEN", ""),

		RateLimit:       getint("RATE_LIMIT", 120),
		RateLimitWindow: getint("RATE_LIMIT_WINDOW_SECONDS", 60),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
