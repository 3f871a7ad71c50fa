package app

import (
	"context"
	"database/sql"
	"errors"

	"go-vacation/internal/config"
	"go-vacation/internal/migrations"
	"go-vacation/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// infra holds the shared connections of a process.
type infra struct {
	gormDB *gorm.DB
	sqlDB  *sql.DB
	rdb    *redis.Client
}

func connect(cfg config.Config, withRedis bool) (*infra, error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		logger.Info("migrations applied")
	}

	in := &infra{gormDB: gormDB, sqlDB: sqlDB}

	if withRedis {
		if cfg.RedisAddr == "" {
			logger.Warn("REDIS_ADDR not set, caching disabled")
			return in, nil
		}
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.Database.MaxRetries)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		in.rdb = rdb
		logger.Info("redis connection established")
	}

	return in, nil
}

func (in *infra) Close(context.Context) error {
	var errs []error
	if in.rdb != nil {
		errs = append(errs, in.rdb.Close())
	}
	errs = append(errs, in.sqlDB.Close())
	return errors.Join(errs...)
}
