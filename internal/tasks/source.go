package tasks

import (
	"context"
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

// DEFAULT_CONTENT_FIELD is the record field analyzed when a source does not name one
const DEFAULT_CONTENT_FIELD = "content"

// sourceTask structures the messages of one extra polled source into structured_msg
type sourceTask struct {
	cursor       *ingest.Cursor
	sourceDB     string
	contentField string
	analyzer     BatchAnalyzer
	lookup       ProjectLookup
	structured   store.StructuredStore
	clock        adapter.Clock
}

// NewSourceTask creates the task polling one configured source.
// sourceDB is the database name recorded with every structured message.
func NewSourceTask(
	source ingest.Source,
	sourceDB string,
	contentField string,
	checkpoints store.CheckpointStore,
	batchLimit int,
	analyzer BatchAnalyzer,
	lookup ProjectLookup,
	structured store.StructuredStore,
	clock adapter.Clock,
) (Task, error) {
	if contentField == "" {
		contentField = DEFAULT_CONTENT_FIELD
	}

	t := &sourceTask{
		sourceDB:     sourceDB,
		contentField: contentField,
		analyzer:     analyzer,
		lookup:       lookup,
		structured:   structured,
		clock:        clock,
	}

	cursor, err := ingest.NewCursor(source, checkpoints, batchLimit, t.handle)
	if err != nil {
		return nil, err
	}
	t.cursor = cursor

	return t, nil
}

func (t *sourceTask) Name() string {
	source := t.cursor.Source()
	return fmt.Sprintf("source-%s-%s", source.Kind(), source.Name())
}

func (t *sourceTask) Run(ctx context.Context) error {
	_, err := t.cursor.Poll(ctx)
	return err
}

func (t *sourceTask) handle(ctx context.Context, records []ingest.Record) error {
	source := t.cursor.Source()

	// records without content are skipped without an analysis
	var (
		pending    []ingest.Record
		kwargsList []map[string]any
	)
	for _, record := range records {
		content := strings.TrimSpace(record.Fields.String(t.contentField))
		if content == "" {
			continue
		}
		pending = append(pending, record)
		kwargsList = append(kwargsList, map[string]any{"content": collapseNewlines(content)})
	}

	results := t.analyzer.AnalyzeAll(ctx, SOURCE_MESSAGE_TEMPLATE, kwargsList)

	for i, record := range pending {
		result := results[i]
		if len(result) == 0 {
			logger.WarnCtx(ctx, "Analysis returned nothing, skipping message", zap.String("source_id", record.ID))
			continue
		}

		projects := stringList(result["project"])
		tokens := stringList(result["token"])

		related := []byte("[]")
		if len(projects) > 0 || len(tokens) > 0 {
			matched, err := t.lookup.ProjectTags(ctx, projects, tokens)
			if err != nil {
				return fmt.Errorf("failed to look up projects for message %s: %w", record.ID, err)
			}
			related = mustJSON(matched)
		}

		msg := &schema.StructuredMsg{
			SourceType:      source.Kind().String(),
			SourceDB:        t.sourceDB,
			SourceName:      source.Name(),
			SourceID:        record.ID,
			Project:         mustJSON(projects),
			Token:           mustJSON(tokens),
			Content:         record.Fields.String(t.contentField),
			Attitude:        stringField(result, "attitude"),
			Date:            stringField(result, "date"),
			TokenHolder:     stringField(result, "token_holder"),
			Address:         stringField(result, "address"),
			RelatedProjects: datatypes.JSON(related),
			OriginalEN:      optionalString(result, "original_en"),
			OriginalZH:      optionalString(result, "original_zh"),
			Actions:         jsonField(result, "actions"),
			NewsEvents:      jsonField(result, "news_events"),
			PredictActions:  jsonField(result, "predict_actions"),
			CreatedAt:       t.clock.Now().Unix(),
		}
		if err := t.structured.UpsertStructuredMsg(ctx, msg); err != nil {
			return err
		}
	}

	return nil
}

func stringField(result map[string]any, key string) string {
	s, _ := result[key].(string)
	return strings.TrimSpace(s)
}

func optionalString(result map[string]any, key string) *string {
	s := stringField(result, key)
	if s == "" {
		return nil
	}
	return &s
}

// jsonField re-encodes a decoded value; missing keys become an empty list
func jsonField(result map[string]any, key string) datatypes.JSON {
	v, ok := result[key]
	if !ok || v == nil {
		return datatypes.JSON("[]")
	}
	return mustJSON(v)
}
