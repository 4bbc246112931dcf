package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-project-intel/internal/domain"
	"github.com/feral-file/ff-project-intel/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func seed(t *testing.T, stmt string, args ...any) {
	t.Helper()
	_, err := testManager.Update(context.Background(), stmt, args...)
	require.NoError(t, err)
}

func seedProject(t *testing.T, id int64, name, token string) {
	t.Helper()
	seed(t, "INSERT INTO projects (project_id, project_name, token_name, url) VALUES (?, ?, ?, ?)",
		id, name, token, "https://kb.example/Projects/detail/"+name)
}

func countRows(t *testing.T, table string) int64 {
	t.Helper()
	rows, err := testManager.Query(context.Background(), "SELECT COUNT(*) AS n FROM "+table)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	n, ok := rows[0].Int64("n")
	require.True(t, ok)
	return n
}

// =============================================================================
// Executor
// =============================================================================

func testExecutor(t *testing.T, _ *Stores) {
	ctx := context.Background()

	t.Run("query returns every column", func(t *testing.T) {
		seedProject(t, 1, "Alpha", "ALP")

		rows, err := testManager.Query(ctx, "SELECT * FROM projects WHERE project_id = ?", 1)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		id, ok := rows[0].Int64("project_id")
		require.True(t, ok)
		assert.Equal(t, int64(1), id)
		assert.Equal(t, "Alpha", rows[0].String("project_name"))
		assert.Equal(t, "ALP", rows[0].String("token_name"))
		assert.Contains(t, rows[0], "introduction")
		assert.Nil(t, rows[0]["introduction"])
	})

	t.Run("query with no match returns empty", func(t *testing.T) {
		rows, err := testManager.Query(ctx, "SELECT * FROM projects WHERE project_id = ?", 999)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("update returns affected rows", func(t *testing.T) {
		seedProject(t, 2, "Beta", "BET")

		affected, err := testManager.Update(ctx, "UPDATE projects SET introduction = ? WHERE project_id = ?", "intro", 2)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	})

	t.Run("batch update commits all rows", func(t *testing.T) {
		affected, err := testManager.BatchUpdate(ctx,
			"INSERT INTO investors_list (name) VALUES (?)",
			[][]any{{"Seed Fund"}, {"Paradigm"}, {"a16z"}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), affected)
		assert.Equal(t, int64(3), countRows(t, "investors_list"))
	})

	t.Run("batch update rolls back on failure", func(t *testing.T) {
		before := countRows(t, "extracted_record")

		_, err := testManager.BatchUpdate(ctx,
			"INSERT INTO extracted_record (source_type, source_name, last_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			[][]any{
				{"mysql", "dup", "1", 1, 1},
				{"mysql", "dup", "2", 1, 1},
			})
		require.Error(t, err)
		assert.False(t, IsConnectionLost(err))
		assert.Equal(t, before, countRows(t, "extracted_record"))
	})

	t.Run("syntax error is not retried", func(t *testing.T) {
		_, err := testManager.Query(ctx, "SELEC nothing")
		require.Error(t, err)
		assert.False(t, IsConnectionLost(err))
	})
}

// =============================================================================
// Checkpoints
// =============================================================================

func testCheckpoints(t *testing.T, stores *Stores) {
	ctx := context.Background()

	t.Run("missing checkpoint", func(t *testing.T) {
		value, found, err := stores.Checkpoints.GetCheckpoint(ctx, domain.SourceKindRelational, "kol_tweets")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, value)
	})

	t.Run("advance then get", func(t *testing.T) {
		require.NoError(t, stores.Checkpoints.AdvanceCheckpoint(ctx, domain.SourceKindRelational, "news", "42"))

		value, found, err := stores.Checkpoints.GetCheckpoint(ctx, domain.SourceKindRelational, "news")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "42", value)
	})

	t.Run("advance updates existing row", func(t *testing.T) {
		require.NoError(t, stores.Checkpoints.AdvanceCheckpoint(ctx, domain.SourceKindRelational, "feed", "10"))
		require.NoError(t, stores.Checkpoints.AdvanceCheckpoint(ctx, domain.SourceKindRelational, "feed", "20"))

		value, found, err := stores.Checkpoints.GetCheckpoint(ctx, domain.SourceKindRelational, "feed")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "20", value)

		rows, err := testManager.Query(ctx,
			"SELECT * FROM extracted_record WHERE source_type = ? AND source_name = ?", "mysql", "feed")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		created, _ := rows[0].Int64("created_at")
		updated, _ := rows[0].Int64("updated_at")
		assert.LessOrEqual(t, created, updated)
	})

	t.Run("advancing twice with the same value keeps one row", func(t *testing.T) {
		hexID := "65a1b2c3d4e5f60718293a4b"
		require.NoError(t, stores.Checkpoints.AdvanceCheckpoint(ctx, domain.SourceKindDocument, "proposal", hexID))
		require.NoError(t, stores.Checkpoints.AdvanceCheckpoint(ctx, domain.SourceKindDocument, "proposal", hexID))

		rows, err := testManager.Query(ctx,
			"SELECT * FROM extracted_record WHERE source_type = ? AND source_name = ?", "mongodb", "proposal")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, hexID, rows[0].String("last_id"))
	})

	t.Run("kinds are tracked separately", func(t *testing.T) {
		require.NoError(t, stores.Checkpoints.AdvanceCheckpoint(ctx, domain.SourceKindRelational, "shared", "5"))

		_, found, err := stores.Checkpoints.GetCheckpoint(ctx, domain.SourceKindDocument, "shared")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("empty value is rejected", func(t *testing.T) {
		err := stores.Checkpoints.AdvanceCheckpoint(ctx, domain.SourceKindRelational, "bad", "")
		require.ErrorIs(t, err, domain.ErrInvalidCheckpoint)
	})
}

// =============================================================================
// Projects
// =============================================================================

func testProjects(t *testing.T, stores *Stores) {
	ctx := context.Background()

	seedProject(t, 1, "Alpha", "ALP")
	seedProject(t, 2, "Beta", "BET")
	seedProject(t, 3, "Gamma", "ALPHA")

	t.Run("find by name or token dedupes by id", func(t *testing.T) {
		rows, err := stores.Projects.FindProjectsByNameOrToken(ctx, []string{"Alpha", "ALP", "ALPHA"})
		require.NoError(t, err)
		require.Len(t, rows, 2)

		var ids []int64
		for _, row := range rows {
			id, _ := row.Int64("project_id")
			ids = append(ids, id)
		}
		assert.ElementsMatch(t, []int64{1, 3}, ids)
	})

	t.Run("empty seeds skip the store", func(t *testing.T) {
		rows, err := stores.Projects.FindProjectsByNameOrToken(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("relations are grouped and absent ids are missing", func(t *testing.T) {
		seed(t, "INSERT INTO projects_tags (project_id, text) VALUES (?, ?), (?, ?), (?, ?)",
			1, "DeFi", 1, "L2", 3, "Gaming")

		grouped, err := stores.Projects.GetRelation(ctx, RelationProjectTags, []int64{1, 2, 3})
		require.NoError(t, err)
		assert.Len(t, grouped[1], 2)
		assert.Len(t, grouped[3], 1)
		_, ok := grouped[2]
		assert.False(t, ok)
	})

	t.Run("unknown relation is rejected", func(t *testing.T) {
		_, err := stores.Projects.GetRelation(ctx, Relation("sessions"), []int64{1})
		require.Error(t, err)
	})

	t.Run("active team members exclude former members", func(t *testing.T) {
		seed(t, "INSERT INTO projects_team_members (project_id, name, is_former) VALUES (?, ?, ?), (?, ?, ?), (?, ?, NULL)",
			1, "Ann", 0, 1, "Bob", 1, 1, "Cat")

		grouped, err := stores.Projects.GetActiveTeamMembers(ctx, []int64{1})
		require.NoError(t, err)

		var names []string
		for _, row := range grouped[1] {
			names = append(names, row.String("name"))
		}
		assert.ElementsMatch(t, []string{"Ann", "Cat"}, names)
	})

	t.Run("recent commits are newest first and limited", func(t *testing.T) {
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 7; i++ {
			seed(t, "INSERT INTO github_commits (project_id, commit_msg, commit_date) VALUES (?, ?, ?)",
				1, "commit", base.Add(time.Duration(i)*time.Hour))
		}

		grouped, err := stores.Projects.GetRecentCommits(ctx, []int64{1}, domain.RECENT_COMMITS_LIMIT)
		require.NoError(t, err)
		require.Len(t, grouped[1], domain.RECENT_COMMITS_LIMIT)

		first, ok := grouped[1][0].Time("commit_date")
		require.True(t, ok)
		assert.True(t, first.Equal(base.Add(6*time.Hour)))
	})

	t.Run("investor list matches case-insensitive substrings", func(t *testing.T) {
		seed(t, "INSERT INTO investors_list (name) VALUES (?), (?), (?)",
			"Alpha Ventures", "BETA Capital", "Unrelated")

		rows, err := stores.Projects.FindInvestorList(ctx, []string{"alpha", "beta"})
		require.NoError(t, err)

		var names []string
		for _, row := range rows {
			names = append(names, row.String("name"))
		}
		assert.ElementsMatch(t, []string{"Alpha Ventures", "BETA Capital"}, names)
	})

	t.Run("investor list treats wildcards literally", func(t *testing.T) {
		rows, err := stores.Projects.FindInvestorList(ctx, []string{"%"})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("entities by url keep the first match", func(t *testing.T) {
		url := "https://kb.example/member/ann"
		seed(t, "INSERT INTO people (people_id, name, url) VALUES (?, ?, ?), (?, ?, ?)",
			10, "Ann", url, 11, "Ann Clone", url)

		found, err := stores.Projects.FindEntitiesByURLs(ctx, domain.EntityPerson, []string{url, "https://kb.example/member/none"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		id, _ := found[url].Int64("people_id")
		assert.Equal(t, int64(10), id)
	})

	t.Run("recent tweets are capped per user and windowed", func(t *testing.T) {
		now := time.Now().UTC()
		for i := 0; i < 7; i++ {
			seed(t, "INSERT INTO tweets (twitter_username, text, tweet_date) VALUES (?, ?, ?)",
				"alpha_xyz", "gm", now.Add(-time.Duration(i)*time.Hour))
		}
		seed(t, "INSERT INTO tweets (twitter_username, text, tweet_date) VALUES (?, ?, ?)",
			"beta_xyz", "old", now.Add(-10*24*time.Hour))

		grouped, err := stores.Projects.GetRecentTweets(ctx, []string{"alpha_xyz", "beta_xyz"},
			domain.RECENT_TWEETS_WINDOW, domain.TWEETS_PER_USER_LIMIT)
		require.NoError(t, err)
		assert.Len(t, grouped["alpha_xyz"], domain.TWEETS_PER_USER_LIMIT)
		_, ok := grouped["beta_xyz"]
		assert.False(t, ok)
	})

	t.Run("people by twitter link", func(t *testing.T) {
		seed(t, "INSERT INTO people (people_id, name) VALUES (?, ?)", 20, "Dan")
		seed(t, "INSERT INTO people_social_links (people_id, text, link) VALUES (?, ?, ?)",
			20, "X", "https://x.com/dan")

		rows, err := stores.Projects.FindPeopleByTwitterLinks(ctx, []string{"https://x.com/dan"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Dan", rows[0].String("name"))
		assert.Equal(t, "https://x.com/dan", rows[0].String("link"))
	})

	t.Run("projects by twitter link", func(t *testing.T) {
		seed(t, "INSERT INTO projects_social_links (project_id, text, link) VALUES (?, ?, ?)",
			2, "X", "https://x.com/beta")

		rows, err := stores.Projects.FindProjectsByTwitterLinks(ctx, []string{"https://x.com/beta"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Beta", rows[0].String("project_name"))
	})

	t.Run("project tags by name or token", func(t *testing.T) {
		rows, err := stores.Projects.GetProjectTags(ctx, []string{"Alpha"}, []string{"BET"})
		require.NoError(t, err)

		tags := map[string][]string{}
		for _, row := range rows {
			name := row.String("project_name")
			if tag := row.String("tag"); tag != "" {
				tags[name] = append(tags[name], tag)
			} else if _, ok := tags[name]; !ok {
				tags[name] = nil
			}
		}
		assert.ElementsMatch(t, []string{"DeFi", "L2"}, tags["Alpha"])
		assert.Contains(t, tags, "Beta")
		assert.Empty(t, tags["Beta"])
	})
}

// =============================================================================
// Structured output
// =============================================================================

func testStructured(t *testing.T, stores *Stores) {
	ctx := context.Background()

	t.Run("upsert structured kol tweet overwrites on source id", func(t *testing.T) {
		tweet := &schema.StructuredKOLTweet{
			SourceID:  "1001",
			Content:   "first",
			Project:   datatypes.JSON(`["Alpha"]`),
			Token:     datatypes.JSON(`["ALP"]`),
			Tags:      datatypes.JSON(`[]`),
			CreatedAt: 100,
		}
		require.NoError(t, stores.Structured.UpsertStructuredKOLTweet(ctx, tweet))

		again := &schema.StructuredKOLTweet{
			SourceID:  "1001",
			Content:   "second",
			Project:   datatypes.JSON(`["Beta"]`),
			Token:     datatypes.JSON(`[]`),
			Tags:      datatypes.JSON(`[{"project_name":"Beta","tags":["L1"]}]`),
			CreatedAt: 200,
		}
		require.NoError(t, stores.Structured.UpsertStructuredKOLTweet(ctx, again))

		rows, err := testManager.Query(ctx, "SELECT * FROM structured_kol_tweets WHERE source_id = ?", "1001")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "second", rows[0].String("content"))
		assert.JSONEq(t, `["Beta"]`, rows[0].String("project"))
	})

	t.Run("upsert structured message overwrites on source key", func(t *testing.T) {
		msg := &schema.StructuredMsg{
			SourceType: "mysql",
			SourceDB:   "news_db",
			SourceName: "articles",
			SourceID:   "7",
			Content:    "draft",
			Attitude:   "neutral",
			CreatedAt:  1,
		}
		require.NoError(t, stores.Structured.UpsertStructuredMsg(ctx, msg))

		msg2 := *msg
		msg2.ID = 0
		msg2.Content = "final"
		msg2.Attitude = "positive"
		require.NoError(t, stores.Structured.UpsertStructuredMsg(ctx, &msg2))

		assert.Equal(t, int64(1), countRows(t, "structured_msg"))
		rows, err := testManager.Query(ctx, "SELECT content, attitude FROM structured_msg")
		require.NoError(t, err)
		assert.Equal(t, "final", rows[0].String("content"))
		assert.Equal(t, "positive", rows[0].String("attitude"))
	})

	t.Run("kol tweets between bounds", func(t *testing.T) {
		start := time.Unix(1_700_000_000, 0)
		seed(t, "INSERT INTO kol_tweets (uid, twitter_id, twitter_username, text, tweet_date) VALUES (?, ?, ?, ?, ?), (?, ?, ?, ?, ?), (?, ?, ?, ?, ?)",
			"u1", "t1", "kol1", "before", start.Unix()-1,
			"u2", "t2", "kol2", "inside", start.Unix(),
			"u3", "t3", "kol3", "after", start.Add(time.Hour).Unix())

		tweets, err := stores.Structured.GetKOLTweetsBetween(ctx, start, start.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, tweets, 1)
		assert.Equal(t, "t2", tweets[0].TwitterID)
	})

	t.Run("summary and tags", func(t *testing.T) {
		require.NoError(t, stores.Structured.CreateKOLTweetSummary(ctx, &schema.KOLTweetSummary{
			Events:    datatypes.JSON(`[]`),
			Projects:  datatypes.JSON(`[]`),
			SourceIDs: datatypes.JSON(`["t2"]`),
			CreatedAt: 300,
		}))
		assert.Equal(t, int64(1), countRows(t, "kol_tweets_summary"))

		tags, err := stores.Structured.GetStructuredKOLTweetTags(ctx, time.Unix(150, 0), time.Unix(250, 0))
		require.NoError(t, err)
		require.Len(t, tags, 1)

		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(tags[0], &decoded))
		assert.Equal(t, "Beta", decoded[0]["project_name"])
	})
}

// RunStoreTests runs every store test with a fresh database per test
func RunStoreTests(t *testing.T, initDB func(t *testing.T) *Stores, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, *Stores)
	}{
		{"Executor", testExecutor},
		{"Checkpoints", testCheckpoints},
		{"Projects", testProjects},
		{"Structured", testStructured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, stores)
		})
	}
}
