package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/feral-file/ff-project-intel/internal/datasource"
	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/logger"
)

// Reviver probes a handle and rebuilds it in place when the probe fails
type Reviver interface {
	Revive(ctx context.Context, h datasource.Handle) error
}

// Executor runs statements against a handle with one ping-then-rebuild retry per call
type Executor struct {
	reviver Reviver
}

// NewExecutor creates a new executor. The registry that owns the handles is the usual reviver.
func NewExecutor(reviver Reviver) *Executor {
	return &Executor{reviver: reviver}
}

var readCommitted = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

// Query runs a read statement and returns every selected column of every row
func (e *Executor) Query(ctx context.Context, h datasource.SQLHandle, stmt string, args ...any) ([]Row, error) {
	var raw []map[string]any
	err := e.runSQL(ctx, h, func(db *gorm.DB) error {
		raw = nil
		return db.WithContext(ctx).Raw(stmt, args...).Scan(&raw).Error
	})
	if err != nil {
		logStatementFailure(ctx, err, stmt, args)
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return toRows(raw), nil
}

// Update runs a write statement in a READ COMMITTED transaction and returns the affected row count
func (e *Executor) Update(ctx context.Context, h datasource.SQLHandle, stmt string, args ...any) (int64, error) {
	var affected int64
	err := e.runSQL(ctx, h, func(db *gorm.DB) error {
		affected = 0
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Exec(stmt, args...)
			if res.Error != nil {
				return res.Error
			}
			affected = res.RowsAffected
			return nil
		}, readCommitted)
	})
	if err != nil {
		logStatementFailure(ctx, err, stmt, args)
		return 0, fmt.Errorf("failed to update: %w", err)
	}

	return affected, nil
}

// BatchUpdate runs stmt once per argument list in a single transaction.
// Any failure rolls back the whole batch.
func (e *Executor) BatchUpdate(ctx context.Context, h datasource.SQLHandle, stmt string, argsList [][]any) (int64, error) {
	if len(argsList) == 0 {
		return 0, nil
	}

	var affected int64
	err := e.runSQL(ctx, h, func(db *gorm.DB) error {
		affected = 0
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, args := range argsList {
				res := tx.Exec(stmt, args...)
				if res.Error != nil {
					return res.Error
				}
				affected += res.RowsAffected
			}
			return nil
		}, readCommitted)
	})
	if err != nil {
		logStatementFailure(ctx, err, stmt, zap.Int("batch_size", len(argsList)))
		return 0, fmt.Errorf("failed to batch update: %w", err)
	}

	return affected, nil
}

// Do runs fn with typed gorm access under the same liveness guarantees
func (e *Executor) Do(ctx context.Context, h datasource.SQLHandle, fn func(db *gorm.DB) error) error {
	return e.runSQL(ctx, h, func(db *gorm.DB) error {
		return fn(db.WithContext(ctx))
	})
}

// Find runs a document query and decodes every match
func (e *Executor) Find(ctx context.Context, h datasource.DocumentHandle, database, collection string, filter any, opts ...*options.FindOptions) ([]bson.M, error) {
	var docs []bson.M
	err := e.runDocument(ctx, h, database, func(db *mongo.Database) error {
		cur, err := db.Collection(collection).Find(ctx, filter, opts...)
		if err != nil {
			return err
		}
		docs = nil
		return cur.All(ctx, &docs)
	})
	if err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("database", database),
			zap.String("collection", collection),
			zap.Any("filter", filter),
		)
		return nil, fmt.Errorf("failed to find documents in %s.%s: %w", database, collection, err)
	}

	return docs, nil
}

func (e *Executor) runSQL(ctx context.Context, h datasource.SQLHandle, fn func(db *gorm.DB) error) error {
	return e.withRevive(ctx, h, func() error {
		return h.Exec(ctx, fn)
	})
}

func (e *Executor) runDocument(ctx context.Context, h datasource.DocumentHandle, database string, fn func(db *mongo.Database) error) error {
	return e.withRevive(ctx, h, func() error {
		return h.Exec(ctx, database, fn)
	})
}

// withRevive probes the handle before the operation. When the operation itself
// loses the connection the handle is rebuilt and the operation runs once more.
func (e *Executor) withRevive(ctx context.Context, h datasource.Handle, op func() error) error {
	if err := e.reviver.Revive(ctx, h); err != nil {
		return rebuildError(h, err)
	}

	err := op()
	if err == nil || !IsConnectionLost(err) {
		return err
	}

	logger.WarnCtx(ctx, "Connection lost during operation, rebuilding", zap.String("key", h.Key()), zap.Error(err))
	if rerr := e.reviver.Revive(ctx, h); rerr != nil {
		return errors.Join(err, rebuildError(h, rerr))
	}

	return op()
}

// rebuildError marks a failed rebuild as connection-lost so the outer policy may retry it.
// A handle closed by its owner stays terminal.
func rebuildError(h datasource.Handle, err error) error {
	if errors.Is(err, domain.ErrHandleClosed) {
		return fmt.Errorf("connection %s: %w", h.Key(), err)
	}
	return fmt.Errorf("failed to rebuild connection %s: %w", h.Key(), errors.Join(domain.ErrConnectionLost, err))
}

func logStatementFailure(ctx context.Context, err error, stmt string, params any) {
	if IsConnectionLost(err) {
		return
	}
	logger.ErrorCtx(ctx, err, zap.String("statement", stmt), zap.Any("params", params))
}
