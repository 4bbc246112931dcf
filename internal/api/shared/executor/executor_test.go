package executor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-project-intel/internal/adapter"
	"github.com/feral-file/ff-project-intel/internal/aggregator"
	apierrors "github.com/feral-file/ff-project-intel/internal/api/shared/errors"
	"github.com/feral-file/ff-project-intel/internal/api/shared/executor"
	"github.com/feral-file/ff-project-intel/internal/mocks"
	"github.com/feral-file/ff-project-intel/internal/store"
)

// testExecutorMocks contains all the mocks needed for testing the executor
type testExecutorMocks struct {
	ctrl     *gomock.Controller
	resolver *mocks.MockResolver
	cache    *mocks.MockRedisClient
	executor executor.Executor
}

func setupTestExecutor(t *testing.T, ttl time.Duration) *testExecutorMocks {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockResolver(ctrl)
	cache := mocks.NewMockRedisClient(ctrl)

	return &testExecutorMocks{
		ctrl:     ctrl,
		resolver: resolver,
		cache:    cache,
		executor: executor.NewExecutor(resolver, cache, adapter.NewJSON(), ttl),
	}
}

func TestGetProjects_MissStoresResult(t *testing.T) {
	m := setupTestExecutor(t, time.Minute)
	ctx := context.Background()

	profiles := []aggregator.ProjectProfile{{BasicInfo: store.Row{"name": "Foo"}}}

	var key string
	m.cache.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, k string) ([]byte, error) {
		key = k
		return nil, redis.Nil
	})
	m.resolver.EXPECT().ResolveProject(gomock.Any(), []string{"Foo"}, []string{"FOO"}).Return(profiles, nil)
	m.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), time.Minute).DoAndReturn(
		func(_ context.Context, k string, value []byte, _ time.Duration) error {
			assert.Equal(t, key, k)
			assert.Contains(t, string(value), `"name":"Foo"`)
			return nil
		})

	result, err := m.executor.GetProjects(ctx, []string{"Foo"}, []string{"FOO"})
	require.NoError(t, err)
	assert.Equal(t, profiles, result)
	assert.Contains(t, key, executor.CACHE_KEY_PREFIX+"projects:")
}

func TestGetProjects_HitSkipsResolver(t *testing.T) {
	m := setupTestExecutor(t, time.Minute)

	m.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return([]byte(`[{"basic_info":{"name":"Foo"}}]`), nil)

	result, err := m.executor.GetProjects(context.Background(), []string{"Foo"}, nil)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Foo", result[0].BasicInfo.String("name"))
}

func TestGetProjects_KeyIgnoresNameOrder(t *testing.T) {
	m := setupTestExecutor(t, time.Minute)

	var keys []string
	m.cache.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, k string) ([]byte, error) {
		keys = append(keys, k)
		return []byte(`[]`), nil
	}).Times(3)

	_, err := m.executor.GetProjects(context.Background(), []string{"Foo", "Bar"}, nil)
	require.NoError(t, err)
	_, err = m.executor.GetProjects(context.Background(), []string{"Bar", "Foo"}, nil)
	require.NoError(t, err)
	_, err = m.executor.GetProjects(context.Background(), nil, []string{"Bar", "Foo"})
	require.NoError(t, err)

	require.Len(t, keys, 3)
	assert.Equal(t, keys[0], keys[1])
	assert.NotEqual(t, keys[0], keys[2])
}

func TestGetProjects_CacheFailuresAreBypassed(t *testing.T) {
	m := setupTestExecutor(t, time.Minute)

	m.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
	m.resolver.EXPECT().ResolveProject(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	m.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	result, err := m.executor.GetProjects(context.Background(), []string{"Nothing"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestGetProjects_UnreadableEntryIsRefreshed(t *testing.T) {
	m := setupTestExecutor(t, time.Minute)

	m.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return([]byte(`{broken`), nil)
	m.resolver.EXPECT().ResolveProject(gomock.Any(), gomock.Any(), gomock.Any()).Return([]aggregator.ProjectProfile{}, nil)
	m.cache.EXPECT().Set(gomock.Any(), gomock.Any(), []byte(`[]`), time.Minute).Return(nil)

	_, err := m.executor.GetProjects(context.Background(), []string{"Foo"}, nil)
	require.NoError(t, err)
}

func TestGetProjects_ResolverFailure(t *testing.T) {
	m := setupTestExecutor(t, 0)

	m.resolver.EXPECT().ResolveProject(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("lost connection"))

	_, err := m.executor.GetProjects(context.Background(), []string{"Foo"}, nil)
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierrors.ErrCodeDatabaseError, apiErr.Code)
}

func TestGetPeople_CacheDisabled(t *testing.T) {
	m := setupTestExecutor(t, 0)

	people := map[string]aggregator.PersonProfile{"Alice": {BasicInfo: store.Row{"name": "Alice"}}}
	m.resolver.EXPECT().ResolvePeople(gomock.Any(), []string{"Alice"}).Return(people, nil)

	result, err := m.executor.GetPeople(context.Background(), []string{"Alice"})
	require.NoError(t, err)
	assert.Equal(t, people, result)
}

func TestGetPeopleByTwitter_NothingFound(t *testing.T) {
	m := setupTestExecutor(t, 0)

	m.resolver.EXPECT().ResolvePeopleByTwitter(gomock.Any(), []string{"nobody"}).Return(nil, nil)

	result, err := m.executor.GetPeopleByTwitter(context.Background(), []string{"nobody"})
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
