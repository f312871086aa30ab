package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/rueidis"
	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/auth"
	"task-manager.com/task-manager/internal/cache"
	config "task-manager.com/task-manager/internal/configs"
	"task-manager.com/task-manager/internal/notify"
	"task-manager.com/task-manager/internal/queue"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/services"
	"task-manager.com/task-manager/internal/storage"
)

const tokenIssuer = "task-manager"

// loadConfig reads an optional .env file and then the environment.
func loadConfig() (config.Config, *slog.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}

	logger := config.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		if errors.Is(envErr, fs.ErrNotExist) {
			logger.Debug(".env file not found, using environment variables")
		} else {
			logger.Warn("failed to load .env file", "error", envErr)
		}
	}

	return cfg, logger, nil
}

// app holds the long-lived collaborators shared by the commands.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	db     *gorm.DB
	redis  rueidis.Client

	notifications queue.Queue
	mailer        notify.Mailer

	identity *services.IdentityService
	tasks    *services.TaskService
	comments *services.CommentService
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	db, err := config.NewDatabase(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	a.db = db

	if cfg.UsesRedis() {
		a.redis, err = config.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	blobs, err := config.NewBlobStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	listCache, err := cache.New(config.NewCacheStore(cfg, a.redis), cfg.CachePrefix, logger.With("component", "cache"))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.mailer = config.NewMailer(logger)
	a.notifications = config.NewNotificationQueue(cfg, a.redis)

	users := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	a.identity = services.NewIdentityService(
		users,
		repository.NewTokenRepository(db),
		auth.NewPasswordHasher(0),
		auth.NewTokenManager(cfg.JWTSecret, tokenIssuer, cfg.TokenTTL),
		logger,
	)
	a.tasks = services.NewTaskService(taskRepo, storage.NewAttachments(blobs), listCache, cfg.CacheTTL, logger)
	a.comments = services.NewCommentService(
		repository.NewCommentRepository(db),
		taskRepo,
		users,
		config.NewNotifier(a.notifications, a.mailer),
		cfg.AppBaseURL,
		logger,
	)

	return a, nil
}

func (a *app) newDispatcher() *services.DispatchService {
	return services.NewDispatchService(a.notifications, a.mailer, a.cfg.NotifyWorkers, a.logger.With("component", "dispatcher"))
}

func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
