package datasource

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/logger"
)

type mysqlHandle struct {
	key string
	cfg ConnConfig

	mu     sync.Mutex
	db     *gorm.DB
	closed bool
}

// DialMySQL opens a relational store handle and verifies it with a ping.
// An empty key falls back to the default kind:host:port:database key.
func DialMySQL(ctx context.Context, key string, cfg ConnConfig) (Handle, error) {
	if key == "" {
		key = cfg.Key(domain.SourceKindRelational)
	}
	db, err := openMySQL(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &mysqlHandle{
		key: key,
		cfg: cfg,
		db:  db,
	}, nil
}

func openMySQL(ctx context.Context, cfg ConnConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql connection: %w", err)
	}

	if err := ConfigureConnectionPool(db, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	return db, nil
}

func (h *mysqlHandle) Kind() domain.SourceKind {
	return domain.SourceKindRelational
}

func (h *mysqlHandle) Key() string {
	return h.key
}

func (h *mysqlHandle) Ping(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return domain.ErrHandleClosed
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (h *mysqlHandle) Reconnect(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return domain.ErrHandleClosed
	}

	if sqlDB, err := h.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.WarnCtx(ctx, "Failed to close stale mysql connection", zap.String("key", h.key), zap.Error(err))
		}
	}

	db, err := openMySQL(ctx, h.cfg)
	if err != nil {
		return err
	}
	h.db = db

	return nil
}

func (h *mysqlHandle) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (h *mysqlHandle) Exec(ctx context.Context, fn func(db *gorm.DB) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return domain.ErrHandleClosed
	}
	return fn(h.db.WithContext(ctx))
}

// NewSQLHandle wraps an already opened gorm connection, used when the caller owns the connection setup
func NewSQLHandle(key string, db *gorm.DB) SQLHandle {
	return &mysqlHandle{key: key, db: db}
}
