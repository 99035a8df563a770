package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	LogLevel      string
	HTTPAddr      string
	MetricsAddr   string
	CatalogSource string // builtin|file|mysql
	CatalogFile   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	CacheTTL      time.Duration
	IntakeURL     string
	IntakeKey     string
	IntakeRPS     int
	SeedWorkers   int
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Real environment variables win over .env.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env present but unreadable")
	}
	return FromEnv()
}

// FromEnv reads the process environment only.
func FromEnv() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		CatalogSource: strings.ToLower(env("CATALOG_SOURCE", "builtin")),
		CatalogFile:   env("CATALOG_FILE", "catalog.yaml"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/dari?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		IntakeURL:     env("INTAKE_URL", ""),
		IntakeKey:     env("INTAKE_API_KEY", ""),
		IntakeRPS:     atoi("INTAKE_RPS", 5),
		SeedWorkers:   atoi("SEED_WORKERS", 4),
	}
	if c.IntakeURL == "" {
		log.Info().Msg("INTAKE_URL is empty; submissions are acknowledged only")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
