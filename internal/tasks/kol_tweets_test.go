package tasks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-project-intel/internal/aggregator"
	"github.com/feral-file/ff-project-intel/internal/config"
	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/enrichment"
	"github.com/feral-file/ff-project-intel/internal/ingest"
	"github.com/feral-file/ff-project-intel/internal/mocks"
	"github.com/feral-file/ff-project-intel/internal/store"
	"github.com/feral-file/ff-project-intel/internal/store/schema"
	"github.com/feral-file/ff-project-intel/internal/tasks"
)

var fixedNow = time.Date(2024, 5, 1, 10, 17, 0, 0, time.UTC)

// testTaskMocks contains all the mocks needed for testing tasks
type testTaskMocks struct {
	ctrl        *gomock.Controller
	source      *mocks.MockSource
	checkpoints *mocks.MockCheckpointStore
	analyzer    *mocks.MockAnalyzer
	lookup      *mocks.MockProjectLookup
	structured  *mocks.MockStructuredStore
	transport   *mocks.MockTransport
	clock       *mocks.MockClock
	pool        *enrichment.Pool
}

func setupTestTask(t *testing.T) *testTaskMocks {
	ctrl := gomock.NewController(t)
	analyzer := mocks.NewMockAnalyzer(ctrl)
	pool := enrichment.NewPool(analyzer, config.PoolConfig{PoolSize: 2})
	t.Cleanup(pool.Stop)

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(fixedNow).AnyTimes()

	return &testTaskMocks{
		ctrl:        ctrl,
		source:      mocks.NewMockSource(ctrl),
		checkpoints: mocks.NewMockCheckpointStore(ctrl),
		analyzer:    analyzer,
		lookup:      mocks.NewMockProjectLookup(ctrl),
		structured:  mocks.NewMockStructuredStore(ctrl),
		transport:   mocks.NewMockTransport(ctrl),
		clock:       clock,
		pool:        pool,
	}
}

func (m *testTaskMocks) expectSource(kind domain.SourceKind, name string) {
	m.source.EXPECT().Kind().Return(kind).AnyTimes()
	m.source.EXPECT().Name().Return(name).AnyTimes()
}

func newKOLTweetTask(t *testing.T, m *testTaskMocks) tasks.Task {
	task, err := tasks.NewKOLTweetTask(m.source, m.checkpoints, 50, m.pool, m.lookup, m.structured, m.clock)
	require.NoError(t, err)
	return task
}

func TestKOLTweetTask_StoresTaggedTweets(t *testing.T) {
	m := setupTestTask(t)
	m.expectSource(domain.SourceKindRelational, "kol_tweets")
	task := newKOLTweetTask(t, m)
	assert.Equal(t, "kol-tweets", task.Name())

	ctx := context.Background()
	m.checkpoints.EXPECT().GetCheckpoint(gomock.Any(), domain.SourceKindRelational, "kol_tweets").Return("10", true, nil)
	m.source.EXPECT().FetchSince(gomock.Any(), "10", 50).Return([]ingest.Record{
		{ID: "11", Fields: store.Row{"id": int64(11), "twitter_id": "t11", "text": "Loving\n$FOO"}},
		{ID: "12", Fields: store.Row{"id": int64(12), "twitter_id": "t12", "text": "gm"}},
	}, nil)

	m.analyzer.EXPECT().
		Analyze(gomock.Any(), tasks.KOL_TWEET_TEMPLATE, map[string]any{"text": "Loving $FOO"}).
		Return(map[string]any{"project": []any{"Foo"}, "token": []any{"FOO"}})
	m.analyzer.EXPECT().
		Analyze(gomock.Any(), tasks.KOL_TWEET_TEMPLATE, map[string]any{"text": "gm"}).
		Return(map[string]any{})

	m.lookup.EXPECT().
		ProjectTags(gomock.Any(), []string{"Foo"}, []string{"FOO"}).
		Return([]aggregator.ProjectTags{{ProjectName: "Foo", TokenName: "FOO", Tags: []string{"DeFi"}}}, nil)

	var stored *schema.StructuredKOLTweet
	m.structured.EXPECT().
		UpsertStructuredKOLTweet(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tweet *schema.StructuredKOLTweet) error {
			stored = tweet
			return nil
		})

	// the empty analysis still counts as processed
	m.checkpoints.EXPECT().AdvanceCheckpoint(gomock.Any(), domain.SourceKindRelational, "kol_tweets", "12").Return(nil)

	require.NoError(t, task.Run(ctx))

	require.NotNil(t, stored)
	assert.Equal(t, "t11", stored.SourceID)
	assert.Equal(t, "Loving\n$FOO", stored.Content)
	assert.JSONEq(t, `["Foo"]`, string(stored.Project))
	assert.JSONEq(t, `["FOO"]`, string(stored.Token))
	assert.JSONEq(t, `[{"project_name":"Foo","token_name":"FOO","tags":["DeFi"]}]`, string(stored.Tags))
	assert.Equal(t, fixedNow.Unix(), stored.CreatedAt)
}

func TestKOLTweetTask_NoProjectsSkipsLookup(t *testing.T) {
	m := setupTestTask(t)
	m.expectSource(domain.SourceKindRelational, "kol_tweets")
	task := newKOLTweetTask(t, m)

	m.checkpoints.EXPECT().GetCheckpoint(gomock.Any(), gomock.Any(), gomock.Any()).Return("", false, nil)
	m.source.EXPECT().FetchSince(gomock.Any(), "", 50).Return([]ingest.Record{
		{ID: "1", Fields: store.Row{"text": "market is calm"}},
	}, nil)
	m.analyzer.EXPECT().Analyze(gomock.Any(), gomock.Any(), gomock.Any()).Return(map[string]any{"project": []any{}})

	var stored *schema.StructuredKOLTweet
	m.structured.EXPECT().
		UpsertStructuredKOLTweet(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tweet *schema.StructuredKOLTweet) error {
			stored = tweet
			return nil
		})
	m.checkpoints.EXPECT().AdvanceCheckpoint(gomock.Any(), gomock.Any(), gomock.Any(), "1").Return(nil)

	require.NoError(t, task.Run(context.Background()))

	require.NotNil(t, stored)
	// record id stands in for a missing tweet id
	assert.Equal(t, "1", stored.SourceID)
	assert.JSONEq(t, `[]`, string(stored.Tags))
	assert.JSONEq(t, `[]`, string(stored.Project))
}

func TestKOLTweetTask_StoreFailureKeepsCheckpoint(t *testing.T) {
	m := setupTestTask(t)
	m.expectSource(domain.SourceKindRelational, "kol_tweets")
	task := newKOLTweetTask(t, m)

	m.checkpoints.EXPECT().GetCheckpoint(gomock.Any(), gomock.Any(), gomock.Any()).Return("4", true, nil)
	m.source.EXPECT().FetchSince(gomock.Any(), "4", 50).Return([]ingest.Record{
		{ID: "5", Fields: store.Row{"twitter_id": "t5", "text": "Foo"}},
	}, nil)
	m.analyzer.EXPECT().Analyze(gomock.Any(), gomock.Any(), gomock.Any()).Return(map[string]any{"project": "Foo"})
	m.lookup.EXPECT().ProjectTags(gomock.Any(), []string{"Foo"}, []string{}).Return(nil, nil)
	m.structured.EXPECT().UpsertStructuredKOLTweet(gomock.Any(), gomock.Any()).Return(errors.New("deadlock"))

	// no AdvanceCheckpoint: the batch is delivered again next tick
	require.NoError(t, task.Run(context.Background()))
}

func TestKOLTweetTask_LookupFailureKeepsCheckpoint(t *testing.T) {
	m := setupTestTask(t)
	m.expectSource(domain.SourceKindRelational, "kol_tweets")
	task := newKOLTweetTask(t, m)

	m.checkpoints.EXPECT().GetCheckpoint(gomock.Any(), gomock.Any(), gomock.Any()).Return("4", true, nil)
	m.source.EXPECT().FetchSince(gomock.Any(), "4", 50).Return([]ingest.Record{
		{ID: "5", Fields: store.Row{"twitter_id": "t5", "text": "Foo"}},
	}, nil)
	m.analyzer.EXPECT().Analyze(gomock.Any(), gomock.Any(), gomock.Any()).Return(map[string]any{"project": []any{"Foo"}})
	m.lookup.EXPECT().ProjectTags(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	require.NoError(t, task.Run(context.Background()))
}

func TestKOLTweetTask_FetchFailureIsReturned(t *testing.T) {
	m := setupTestTask(t)
	m.expectSource(domain.SourceKindRelational, "kol_tweets")
	task := newKOLTweetTask(t, m)

	fetchErr := errors.New("table missing")
	m.checkpoints.EXPECT().GetCheckpoint(gomock.Any(), gomock.Any(), gomock.Any()).Return("", false, nil)
	m.source.EXPECT().FetchSince(gomock.Any(), "", 50).Return(nil, fetchErr)

	err := task.Run(context.Background())
	assert.ErrorIs(t, err, fetchErr)
}
