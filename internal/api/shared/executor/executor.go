package executor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/feral-file/ff-project-intel/internal/adapter"
	"github.com/feral-file/ff-project-intel/internal/aggregator"
	apierrors "github.com/feral-file/ff-project-intel/internal/api/shared/errors"
	"github.com/feral-file/ff-project-intel/internal/logger"
)

const (
	// CACHE_KEY_PREFIX namespaces every cached profile response
	CACHE_KEY_PREFIX = "ff-project-intel:profiles:"
)

// Resolver is the part of the aggregation engine the API exposes
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/mock_api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor,Resolver=MockResolver
type Resolver interface {
	ResolveProject(ctx context.Context, names []string, tokenNames []string) ([]aggregator.ProjectProfile, error)
	ResolvePeople(ctx context.Context, names []string) (map[string]aggregator.PersonProfile, error)
	ResolvePeopleByTwitter(ctx context.Context, usernames []string) (map[string]aggregator.PersonProfile, error)
}

// Executor is the interface for the API executor
type Executor interface {
	// GetProjects resolves project profiles by project and token names
	GetProjects(ctx context.Context, names []string, tokens []string) ([]aggregator.ProjectProfile, error)

	// GetPeople resolves person profiles by name
	GetPeople(ctx context.Context, names []string) (map[string]aggregator.PersonProfile, error)

	// GetPeopleByTwitter resolves person profiles by Twitter username
	GetPeopleByTwitter(ctx context.Context, usernames []string) (map[string]aggregator.PersonProfile, error)
}

type executor struct {
	resolver Resolver
	cache    adapter.RedisClient
	json     adapter.JSON
	cacheTTL time.Duration
}

// NewExecutor creates an executor. A nil cache or a non-positive ttl disables caching.
func NewExecutor(resolver Resolver, cache adapter.RedisClient, jsonAdapter adapter.JSON, cacheTTL time.Duration) Executor {
	return &executor{
		resolver: resolver,
		cache:    cache,
		json:     jsonAdapter,
		cacheTTL: cacheTTL,
	}
}

func (e *executor) GetProjects(ctx context.Context, names []string, tokens []string) ([]aggregator.ProjectProfile, error) {
	profiles, err := cached(ctx, e, "projects", map[string][]string{"names": names, "tokens": tokens}, func() ([]aggregator.ProjectProfile, error) {
		return e.resolver.ResolveProject(ctx, names, tokens)
	})
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []aggregator.ProjectProfile{}
	}
	return profiles, nil
}

func (e *executor) GetPeople(ctx context.Context, names []string) (map[string]aggregator.PersonProfile, error) {
	people, err := cached(ctx, e, "people", map[string][]string{"names": names}, func() (map[string]aggregator.PersonProfile, error) {
		return e.resolver.ResolvePeople(ctx, names)
	})
	if err != nil {
		return nil, err
	}
	if people == nil {
		people = map[string]aggregator.PersonProfile{}
	}
	return people, nil
}

func (e *executor) GetPeopleByTwitter(ctx context.Context, usernames []string) (map[string]aggregator.PersonProfile, error) {
	people, err := cached(ctx, e, "people-twitter", map[string][]string{"usernames": usernames}, func() (map[string]aggregator.PersonProfile, error) {
		return e.resolver.ResolvePeopleByTwitter(ctx, usernames)
	})
	if err != nil {
		return nil, err
	}
	if people == nil {
		people = map[string]aggregator.PersonProfile{}
	}
	return people, nil
}

// cached serves the response from the cache when possible, otherwise calls resolve and stores its result.
// Cache failures are logged and bypassed.
func cached[T any](ctx context.Context, e *executor, kind string, request map[string][]string, resolve func() (T, error)) (T, error) {
	var zero T

	key, err := e.cacheKey(kind, request)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to build cache key", zap.Error(err))
	}

	if key != "" {
		data, err := e.cache.Get(ctx, key)
		switch {
		case err == nil:
			var hit T
			if err := e.json.Unmarshal(data, &hit); err == nil {
				logger.DebugCtx(ctx, "Cache hit", zap.String("key", key))
				return hit, nil
			}
			logger.WarnCtx(ctx, "Discarding unreadable cache entry", zap.String("key", key))
		case errors.Is(err, redis.Nil):
		default:
			logger.WarnCtx(ctx, "Cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	result, err := resolve()
	if err != nil {
		return zero, apierrors.NewDatabaseError("Failed to resolve profiles", err.Error())
	}

	if key != "" {
		data, err := e.json.Marshal(result)
		if err != nil {
			logger.WarnCtx(ctx, "Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		} else if err := e.cache.Set(ctx, key, data, e.cacheTTL); err != nil {
			logger.WarnCtx(ctx, "Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return result, nil
}

// cacheKey derives a key from the canonical form of the request; the order of names does not matter
func (e *executor) cacheKey(kind string, request map[string][]string) (string, error) {
	if e.cache == nil || e.cacheTTL <= 0 {
		return "", nil
	}

	normalized := make(map[string][]string, len(request))
	for k, values := range request {
		v := make([]string, 0, len(values))
		for _, value := range values {
			v = append(v, strings.TrimSpace(value))
		}
		sort.Strings(v)
		normalized[k] = v
	}

	canonical, err := e.json.Canonicalize(normalized)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize request: %w", err)
	}
	sum := sha256.Sum256(canonical)

	return CACHE_KEY_PREFIX + kind + ":" + hex.EncodeToString(sum[:]), nil
}
