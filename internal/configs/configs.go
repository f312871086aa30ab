package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	CacheStoreRedis  = "redis"
	CacheStoreMemory = "memory"

	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"

	NotifyDriverRedis  = "redis"
	NotifyDriverMemory = "memory"
	NotifyDriverLog    = "log"
)

type Config struct {
	AppURL                 string
	AppBaseURL             string
	DatabaseDSN            string
	RateLimit              int
	RedisAddr              string
	CacheStore             string
	CachePrefix            string
	CacheTTL               time.Duration
	StorageDriver          string
	StorageRoot            string
	S3Bucket               string
	S3Region               string
	S3Endpoint             string
	S3AccessKeyID          string
	S3SecretAccessKey      string
	NotifyDriver           string
	NotifyQueueKey         string
	NotifyWorkers          int
	JWTSecret              string
	TokenTTL               time.Duration
	LogLevel               string
	LogFormat              string
	ShutdownTimeoutSeconds int
}

// Load reads the configuration from the environment, falling back to
// development defaults.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		AppURL:                 net.JoinHostPort(v.GetString("APP_HOST"), v.GetString("APP_PORT")),
		AppBaseURL:             strings.TrimRight(v.GetString("APP_BASE_URL"), "/"),
		DatabaseDSN:            v.GetString("DATABASE_DSN"),
		RateLimit:              v.GetInt("RATE_LIMIT_PER_MINUTE"),
		RedisAddr:              net.JoinHostPort(v.GetString("REDIS_HOST"), v.GetString("REDIS_PORT")),
		CacheStore:             strings.ToLower(v.GetString("CACHE_STORE")),
		CachePrefix:            v.GetString("CACHE_PREFIX"),
		CacheTTL:               time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		StorageDriver:          strings.ToLower(v.GetString("STORAGE_DRIVER")),
		StorageRoot:            v.GetString("STORAGE_ROOT"),
		S3Bucket:               v.GetString("S3_BUCKET"),
		S3Region:               v.GetString("S3_REGION"),
		S3Endpoint:             v.GetString("S3_ENDPOINT"),
		S3AccessKeyID:          v.GetString("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey:      v.GetString("S3_SECRET_ACCESS_KEY"),
		NotifyDriver:           strings.ToLower(v.GetString("NOTIFY_DRIVER")),
		NotifyQueueKey:         v.GetString("NOTIFY_QUEUE_KEY"),
		NotifyWorkers:          v.GetInt("NOTIFY_WORKERS"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		TokenTTL:               time.Duration(v.GetInt("TOKEN_TTL_HOURS")) * time.Hour,
		LogLevel:               v.GetString("LOG_LEVEL"),
		LogFormat:              strings.ToLower(v.GetString("LOG_FORMAT")),
		ShutdownTimeoutSeconds: v.GetInt("SHUTDOWN_TIMEOUT_SECONDS"),
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_HOST", "127.0.0.1")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_BASE_URL", "http://localhost:8080")
	v.SetDefault("DATABASE_DSN", "tasks.db")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("CACHE_STORE", CacheStoreRedis)
	v.SetDefault("CACHE_PREFIX", "task_manager_")
	v.SetDefault("CACHE_TTL_SECONDS", 3600)
	v.SetDefault("STORAGE_DRIVER", StorageDriverLocal)
	v.SetDefault("STORAGE_ROOT", "storage/app")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("NOTIFY_DRIVER", NotifyDriverRedis)
	v.SetDefault("NOTIFY_QUEUE_KEY", "notifications")
	v.SetDefault("NOTIFY_WORKERS", 2)
	v.SetDefault("TOKEN_TTL_HOURS", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 20)
}

func validate(cfg Config) error {
	var errs []error

	if cfg.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN must not be empty"))
	}
	if cfg.RateLimit <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0"))
	}
	if cfg.CacheTTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL_SECONDS must be greater than 0"))
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if cfg.TokenTTL < 0 {
		errs = append(errs, errors.New("TOKEN_TTL_HOURS must not be negative"))
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0"))
	}

	switch cfg.CacheStore {
	case CacheStoreRedis, CacheStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("CACHE_STORE must be %q or %q, got %q", CacheStoreRedis, CacheStoreMemory, cfg.CacheStore))
	}

	switch cfg.StorageDriver {
	case StorageDriverLocal:
		if cfg.StorageRoot == "" {
			errs = append(errs, errors.New("STORAGE_ROOT must not be empty for the local storage driver"))
		}
	case StorageDriverS3:
		if cfg.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET must not be empty for the s3 storage driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverLocal, StorageDriverS3, cfg.StorageDriver))
	}

	switch cfg.NotifyDriver {
	case NotifyDriverRedis, NotifyDriverMemory:
		if cfg.NotifyWorkers <= 0 {
			errs = append(errs, errors.New("NOTIFY_WORKERS must be greater than 0"))
		}
		if cfg.NotifyDriver == NotifyDriverRedis && cfg.NotifyQueueKey == "" {
			errs = append(errs, errors.New("NOTIFY_QUEUE_KEY must not be empty"))
		}
	case NotifyDriverLog:
	default:
		errs = append(errs, fmt.Errorf("NOTIFY_DRIVER must be one of redis, memory, log, got %q", cfg.NotifyDriver))
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be \"json\" or \"text\", got %q", cfg.LogFormat))
	}

	return errors.Join(errs...)
}

// UsesRedis reports whether any configured component talks to Redis.
func (c Config) UsesRedis() bool {
	return c.CacheStore == CacheStoreRedis || c.NotifyDriver == NotifyDriverRedis
}
