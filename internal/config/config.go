package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string
	StoragePath string

	RedisURL string
	UseRedis bool

	ModelID string

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8001"),
		DatabaseURL:          getenv("DATABASE_URL", "jobs.db"),
		StoragePath:          getenv("STORAGE_PATH", "./storage"),
		RedisURL:             getenv("REDIS_URL", "redis://localhost:6379/0"),
		UseRedis:             getenv("USE_REDIS", "false") == "true",
		ModelID:              getenv("EMBEDDING_MODEL_ID", "hash-768-v1"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
