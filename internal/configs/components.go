package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/rueidis"

	"task-manager.com/task-manager/internal/cache"
	"task-manager.com/task-manager/internal/notify"
	"task-manager.com/task-manager/internal/queue"
	"task-manager.com/task-manager/internal/storage"
)

const memoryQueueCapacity = 1024

// NewBlobStore returns the attachment store selected by STORAGE_DRIVER.
func NewBlobStore(ctx context.Context, cfg Config) (storage.BlobStore, error) {
	switch cfg.StorageDriver {
	case StorageDriverS3:
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	case StorageDriverLocal:
		return storage.NewLocalStore(cfg.StorageRoot)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// NewCacheStore returns the listing cache backend selected by CACHE_STORE.
func NewCacheStore(cfg Config, redisClient rueidis.Client) cache.Store {
	if cfg.CacheStore == CacheStoreRedis {
		return cache.NewRedisStore(redisClient)
	}
	return cache.NewMemoryStore()
}

// NewNotificationQueue returns the queue selected by NOTIFY_DRIVER, or nil
// when notifications are delivered directly.
func NewNotificationQueue(cfg Config, redisClient rueidis.Client) queue.Queue {
	switch cfg.NotifyDriver {
	case NotifyDriverRedis:
		return queue.NewRedisQueue(redisClient, cfg.CachePrefix+cfg.NotifyQueueKey)
	case NotifyDriverMemory:
		return queue.NewMemoryQueue(memoryQueueCapacity)
	default:
		return nil
	}
}

// NewNotifier pairs the notification queue with its producer side. Without a
// queue the mailer is called inline.
func NewNotifier(q queue.Queue, mailer notify.Mailer) notify.Notifier {
	if q == nil {
		return notify.NewMailerNotifier(mailer)
	}
	return notify.NewQueueNotifier(q)
}

func NewMailer(logger *slog.Logger) notify.Mailer {
	return notify.NewLogMailer(logger.With("component", "mailer"))
}
