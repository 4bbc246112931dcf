package datasource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/logger"
)

const defaultMongoConnectTimeout = 10 * time.Second

type mongoHandle struct {
	key string
	cfg ConnConfig

	mu     sync.Mutex
	client *mongo.Client
	closed bool
}

// DialMongoDB connects a document store handle and verifies it with a ping.
// An empty key falls back to the default kind:host:port:database key.
func DialMongoDB(ctx context.Context, key string, cfg ConnConfig) (Handle, error) {
	if key == "" {
		key = cfg.Key(domain.SourceKindDocument)
	}
	client, err := connectMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &mongoHandle{
		key:    key,
		cfg:    cfg,
		client: client,
	}, nil
}

func connectMongo(ctx context.Context, cfg ConnConfig) (*mongo.Client, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultMongoConnectTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.DSN).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}

func (h *mongoHandle) Kind() domain.SourceKind {
	return domain.SourceKindDocument
}

func (h *mongoHandle) Key() string {
	return h.key
}

func (h *mongoHandle) Ping(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return domain.ErrHandleClosed
	}
	return h.client.Ping(ctx, readpref.Primary())
}

func (h *mongoHandle) Reconnect(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return domain.ErrHandleClosed
	}

	if err := h.client.Disconnect(ctx); err != nil {
		logger.WarnCtx(ctx, "Failed to disconnect stale mongodb client", zap.String("key", h.key), zap.Error(err))
	}

	client, err := connectMongo(ctx, h.cfg)
	if err != nil {
		return err
	}
	h.client = client

	return nil
}

func (h *mongoHandle) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	return h.client.Disconnect(ctx)
}

func (h *mongoHandle) Exec(ctx context.Context, database string, fn func(db *mongo.Database) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return domain.ErrHandleClosed
	}
	if database == "" {
		database = h.cfg.Database
	}
	return fn(h.client.Database(database))
}
