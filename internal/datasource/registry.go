package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/logger"
)

// Dialer constructs a new handle for a connection config, registered under key
type Dialer func(ctx context.Context, key string, cfg ConnConfig) (Handle, error)

// Registry owns keyed, shared connection handles.
// One registry is built at process start and passed to every component that needs a handle.
type Registry struct {
	handles *xsync.Map[string, Handle]
	dialers map[domain.SourceKind]Dialer

	// dialMu serializes handle construction so concurrent acquires of a new key dial once
	dialMu sync.Mutex
}

// Option configures a registry
type Option func(*Registry)

// WithDialer replaces the dialer used for a store kind
func WithDialer(kind domain.SourceKind, dialer Dialer) Option {
	return func(r *Registry) {
		r.dialers[kind] = dialer
	}
}

// NewRegistry creates a registry dialing MySQL and MongoDB by default
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		handles: xsync.NewMap[string, Handle](),
		dialers: map[domain.SourceKind]Dialer{
			domain.SourceKindRelational: DialMySQL,
			domain.SourceKindDocument:   DialMongoDB,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire returns the live handle registered under key, building it when missing.
// The key defaults to kind:host:port:database. An existing handle is probed first
// and rebuilt in place when the probe fails. Construction errors are returned as is
// and never retried here.
func (r *Registry) Acquire(ctx context.Context, kind domain.SourceKind, cfg ConnConfig, key ...string) (Handle, error) {
	k := cfg.Key(kind)
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}

	if h, ok := r.handles.Load(k); ok {
		if err := r.Revive(ctx, h); err != nil {
			return nil, err
		}
		return h, nil
	}

	r.dialMu.Lock()
	defer r.dialMu.Unlock()

	// another caller may have built it while we waited
	if h, ok := r.handles.Load(k); ok {
		return h, nil
	}

	dial, ok := r.dialers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSourceKind, kind)
	}

	h, err := dial(ctx, k, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s: %w", k, err)
	}
	r.handles.Store(k, h)

	logger.InfoCtx(ctx, "Registered connection handle", zap.String("key", k))

	return h, nil
}

// AcquireSQL acquires a relational store handle
func (r *Registry) AcquireSQL(ctx context.Context, cfg ConnConfig, key ...string) (SQLHandle, error) {
	h, err := r.Acquire(ctx, domain.SourceKindRelational, cfg, key...)
	if err != nil {
		return nil, err
	}
	sqlHandle, ok := h.(SQLHandle)
	if !ok {
		return nil, fmt.Errorf("handle %s is not a relational handle", h.Key())
	}
	return sqlHandle, nil
}

// AcquireDocument acquires a document store handle
func (r *Registry) AcquireDocument(ctx context.Context, cfg ConnConfig, key ...string) (DocumentHandle, error) {
	h, err := r.Acquire(ctx, domain.SourceKindDocument, cfg, key...)
	if err != nil {
		return nil, err
	}
	docHandle, ok := h.(DocumentHandle)
	if !ok {
		return nil, fmt.Errorf("handle %s is not a document handle", h.Key())
	}
	return docHandle, nil
}

// Revive probes a handle and rebuilds it in place when the probe fails
func (r *Registry) Revive(ctx context.Context, h Handle) error {
	err := h.Ping(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrHandleClosed) {
		return err
	}

	logger.WarnCtx(ctx, "Connection handle failed liveness probe, rebuilding",
		zap.String("key", h.Key()),
		zap.Error(err),
	)

	if err := h.Reconnect(ctx); err != nil {
		return fmt.Errorf("failed to rebuild %s: %w", h.Key(), err)
	}

	logger.InfoCtx(ctx, "Connection handle rebuilt", zap.String("key", h.Key()))
	return nil
}

// Release closes and deregisters the handle under key; unknown keys are ignored
func (r *Registry) Release(ctx context.Context, key string) error {
	h, ok := r.handles.LoadAndDelete(key)
	if !ok {
		return nil
	}
	if err := h.Close(ctx); err != nil {
		return fmt.Errorf("failed to close %s: %w", key, err)
	}
	return nil
}

// CloseAll closes and deregisters every handle, returning the joined close errors
func (r *Registry) CloseAll(ctx context.Context) error {
	var keys []string
	r.handles.Range(func(key string, _ Handle) bool {
		keys = append(keys, key)
		return true
	})

	var errs []error
	for _, key := range keys {
		if err := r.Release(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of registered handles
func (r *Registry) Len() int {
	return r.handles.Size()
}
