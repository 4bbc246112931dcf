package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-project-intel/internal/adapter"
	"github.com/feral-file/ff-project-intel/internal/ingest"
	"github.com/feral-file/ff-project-intel/internal/logger"
	"github.com/feral-file/ff-project-intel/internal/store"
	"github.com/feral-file/ff-project-intel/internal/store/schema"
)

// BatchAnalyzer analyzes many inputs with one template, results in input order
type BatchAnalyzer interface {
	AnalyzeAll(ctx context.Context, template string, kwargsList []map[string]any) []map[string]any
}

// kolTweetTask extracts the projects KOL tweets mention and stores them with their tags
type kolTweetTask struct {
	cursor     *ingest.Cursor
	analyzer   BatchAnalyzer
	lookup     ProjectLookup
	structured store.StructuredStore
	clock      adapter.Clock
}

// NewKOLTweetTask creates the task polling source, usually the kol_tweets table
func NewKOLTweetTask(
	source ingest.Source,
	checkpoints store.CheckpointStore,
	batchLimit int,
	analyzer BatchAnalyzer,
	lookup ProjectLookup,
	structured store.StructuredStore,
	clock adapter.Clock,
) (Task, error) {
	t := &kolTweetTask{
		analyzer:   analyzer,
		lookup:     lookup,
		structured: structured,
		clock:      clock,
	}

	cursor, err := ingest.NewCursor(source, checkpoints, batchLimit, t.handle)
	if err != nil {
		return nil, err
	}
	t.cursor = cursor

	return t, nil
}

func (t *kolTweetTask) Name() string {
	return "kol-tweets"
}

func (t *kolTweetTask) Run(ctx context.Context) error {
	_, err := t.cursor.Poll(ctx)
	return err
}

// handle enriches a batch of tweets. Tweets the analyzer returns nothing for are skipped
// but still count as processed; store failures fail the batch so it is delivered again.
func (t *kolTweetTask) handle(ctx context.Context, records []ingest.Record) error {
	kwargsList := make([]map[string]any, len(records))
	for i, record := range records {
		kwargsList[i] = map[string]any{"text": collapseNewlines(record.Fields.String("text"))}
	}

	results := t.analyzer.AnalyzeAll(ctx, KOL_TWEET_TEMPLATE, kwargsList)

	for i, record := range records {
		tweetID := record.Fields.String("twitter_id")
		if tweetID == "" {
			tweetID = record.ID
		}

		result := results[i]
		if len(result) == 0 {
			logger.WarnCtx(ctx, "Analysis returned nothing, skipping tweet", zap.String("twitter_id", tweetID))
			continue
		}

		projects := stringList(result["project"])
		tokens := stringList(result["token"])

		tags := []byte("[]")
		if len(projects) > 0 {
			matched, err := t.lookup.ProjectTags(ctx, projects, tokens)
			if err != nil {
				return fmt.Errorf("failed to look up tags for tweet %s: %w", tweetID, err)
			}
			if tags, err = json.Marshal(matched); err != nil {
				return fmt.Errorf("failed to marshal tags: %w", err)
			}
		}

		tweet := &schema.StructuredKOLTweet{
			SourceID:  tweetID,
			Content:   record.Fields.String("text"),
			Project:   mustJSON(projects),
			Token:     mustJSON(tokens),
			Tags:      datatypes.JSON(tags),
			CreatedAt: t.clock.Now().Unix(),
		}
		if err := t.structured.UpsertStructuredKOLTweet(ctx, tweet); err != nil {
			return err
		}

		logger.DebugCtx(ctx, "Stored structured tweet",
			zap.String("twitter_id", tweetID),
			zap.Strings("projects", projects),
		)
	}

	return nil
}

func collapseNewlines(text string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(text)
}

// stringList reads a list of strings out of a decoded JSON value; a single string becomes a one item list
func stringList(v any) []string {
	out := []string{}
	switch val := v.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	}
	return out
}

// mustJSON marshals values that always encode
func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}
