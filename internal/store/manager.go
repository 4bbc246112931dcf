package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"

	"github.com/feral-file/ff-project-intel/internal/datasource"
	"github.com/feral-file/ff-project-intel/internal/domain"
)

// ErrDocumentStoreNotConfigured is returned by document operations when no document store was given
var ErrDocumentStoreNotConfigured = errors.New("document store not configured")

// Manager is the entry point higher layers use to reach the stores.
// It owns the outer connection-lost retry loop around the executor.
type Manager struct {
	registry *datasource.Registry
	executor *Executor
	policy   RetryPolicy

	sqlConn datasource.ConnConfig
	docConn *datasource.ConnConfig

	mu        sync.Mutex
	sqlHandle datasource.SQLHandle
	docHandle datasource.DocumentHandle
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithDocumentStore enables document operations against conn
func WithDocumentStore(conn datasource.ConnConfig) ManagerOption {
	return func(m *Manager) {
		m.docConn = &conn
	}
}

// NewManager creates a manager over the relational store reachable through sqlConn
func NewManager(registry *datasource.Registry, policy RetryPolicy, sqlConn datasource.ConnConfig, opts ...ManagerOption) *Manager {
	m := &Manager{
		registry: registry,
		executor: NewExecutor(registry),
		policy:   policy,
		sqlConn:  sqlConn,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Policy returns the retry policy applied by the manager
func (m *Manager) Policy() RetryPolicy {
	return m.policy
}

// Query runs a read statement
func (m *Manager) Query(ctx context.Context, stmt string, args ...any) ([]Row, error) {
	var rows []Row
	err := m.policy.Do(ctx, "query", func(ctx context.Context) error {
		return m.withSQL(ctx, func(h datasource.SQLHandle) error {
			var err error
			rows, err = m.executor.Query(ctx, h, stmt, args...)
			return err
		})
	})
	return rows, err
}

// Update runs a write statement and returns the affected row count
func (m *Manager) Update(ctx context.Context, stmt string, args ...any) (int64, error) {
	var affected int64
	err := m.policy.Do(ctx, "update", func(ctx context.Context) error {
		return m.withSQL(ctx, func(h datasource.SQLHandle) error {
			var err error
			affected, err = m.executor.Update(ctx, h, stmt, args...)
			return err
		})
	})
	return affected, err
}

// BatchUpdate runs stmt once per argument list inside one transaction
func (m *Manager) BatchUpdate(ctx context.Context, stmt string, argsList [][]any) (int64, error) {
	var affected int64
	err := m.policy.Do(ctx, "batch_update", func(ctx context.Context) error {
		return m.withSQL(ctx, func(h datasource.SQLHandle) error {
			var err error
			affected, err = m.executor.BatchUpdate(ctx, h, stmt, argsList)
			return err
		})
	})
	return affected, err
}

// Do runs fn with typed gorm access. fn may run more than once when the connection drops.
func (m *Manager) Do(ctx context.Context, fn func(db *gorm.DB) error) error {
	return m.policy.Do(ctx, "gorm", func(ctx context.Context) error {
		return m.withSQL(ctx, func(h datasource.SQLHandle) error {
			return m.executor.Do(ctx, h, fn)
		})
	})
}

// Find runs a document query against database.collection
func (m *Manager) Find(ctx context.Context, database, collection string, filter any, opts ...*options.FindOptions) ([]bson.M, error) {
	if m.docConn == nil {
		return nil, ErrDocumentStoreNotConfigured
	}

	var docs []bson.M
	err := m.policy.Do(ctx, "find", func(ctx context.Context) error {
		return m.withDocument(ctx, func(h datasource.DocumentHandle) error {
			var err error
			docs, err = m.executor.Find(ctx, h, database, collection, filter, opts...)
			return err
		})
	})
	return docs, err
}

// withSQL runs fn with the cached relational handle. A handle closed by the
// registry is dropped and acquired again once.
func (m *Manager) withSQL(ctx context.Context, fn func(h datasource.SQLHandle) error) error {
	h, err := m.acquireSQL(ctx)
	if err != nil {
		return err
	}

	err = fn(h)
	if !errors.Is(err, domain.ErrHandleClosed) {
		return err
	}

	m.mu.Lock()
	m.sqlHandle = nil
	m.mu.Unlock()

	if h, err = m.acquireSQL(ctx); err != nil {
		return err
	}
	return fn(h)
}

func (m *Manager) acquireSQL(ctx context.Context) (datasource.SQLHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sqlHandle != nil {
		return m.sqlHandle, nil
	}

	h, err := m.registry.AcquireSQL(ctx, m.sqlConn)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire relational store: %w", err)
	}
	m.sqlHandle = h
	return h, nil
}

func (m *Manager) withDocument(ctx context.Context, fn func(h datasource.DocumentHandle) error) error {
	h, err := m.acquireDocument(ctx)
	if err != nil {
		return err
	}

	err = fn(h)
	if !errors.Is(err, domain.ErrHandleClosed) {
		return err
	}

	m.mu.Lock()
	m.docHandle = nil
	m.mu.Unlock()

	if h, err = m.acquireDocument(ctx); err != nil {
		return err
	}
	return fn(h)
}

func (m *Manager) acquireDocument(ctx context.Context) (datasource.DocumentHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.docHandle != nil {
		return m.docHandle, nil
	}

	h, err := m.registry.AcquireDocument(ctx, *m.docConn)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire document store: %w", err)
	}
	m.docHandle = h
	return h, nil
}
