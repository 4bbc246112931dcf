package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-project-intel/internal/adapter"
	"github.com/feral-file/ff-project-intel/internal/aggregator"
	"github.com/feral-file/ff-project-intel/internal/enrichment"
	"github.com/feral-file/ff-project-intel/internal/logger"
	"github.com/feral-file/ff-project-intel/internal/notifier"
	"github.com/feral-file/ff-project-intel/internal/store"
	"github.com/feral-file/ff-project-intel/internal/store/schema"
)

// hourlySummaryTask summarizes the previous full hour of KOL tweets into events
type hourlySummaryTask struct {
	structured store.StructuredStore
	analyzer   enrichment.Analyzer
	lookup     ProjectLookup
	transport  notifier.Transport
	channelID  string
	clock      adapter.Clock
	location   *time.Location

	mu sync.Mutex
	// lastWindowEnd is the end of the last summarized window; a window is summarized once
	lastWindowEnd time.Time
}

// NewHourlySummaryTask creates the hourly summary task. Windows are aligned to hours in location.
func NewHourlySummaryTask(
	structured store.StructuredStore,
	analyzer enrichment.Analyzer,
	lookup ProjectLookup,
	transport notifier.Transport,
	channelID string,
	clock adapter.Clock,
	location *time.Location,
) Task {
	if location == nil {
		location = time.UTC
	}
	return &hourlySummaryTask{
		structured: structured,
		analyzer:   analyzer,
		lookup:     lookup,
		transport:  transport,
		channelID:  channelID,
		clock:      clock,
		location:   location,
	}
}

func (t *hourlySummaryTask) Name() string {
	return "hourly-summary"
}

// rawEvent is an event as the analyzer returns it
type rawEvent struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Projects []string `json:"projects"`
}

func (t *hourlySummaryTask) Run(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now().In(t.location)
	end := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, t.location)
	start := end.Add(-time.Hour)
	if !end.After(t.lastWindowEnd) {
		logger.DebugCtx(ctx, "Window already summarized", zap.Time("end", end))
		return nil
	}

	tweets, err := t.structured.GetKOLTweetsBetween(ctx, start, end)
	if err != nil {
		return err
	}
	if len(tweets) == 0 {
		logger.WarnCtx(ctx, "No tweets found during the past hour", zap.Time("start", start))
		t.lastWindowEnd = end
		return nil
	}

	result := t.analyzer.Analyze(ctx, KOL_SUMMARY_TEMPLATE, map[string]any{"all_tweets": FormatTweets(tweets)})
	raw, err := decodeEvents(result["events"])
	if err != nil {
		logger.WarnCtx(ctx, "Discarding malformed summary events", zap.Error(err))
	}
	if len(raw) == 0 {
		logger.InfoCtx(ctx, "No hot events during the past hour", zap.Time("start", start))
		t.lastWindowEnd = end
		return nil
	}

	events := make([]SummaryEvent, 0, len(raw))
	allProjects := []any{}
	for _, e := range raw {
		names := make([]string, 0, len(e.Projects))
		for _, p := range e.Projects {
			if name := strings.Trim(strings.TrimSpace(p), "$"); name != "" {
				names = append(names, name)
			}
		}

		matched := []aggregator.ProjectTags{}
		if len(names) > 0 {
			found, err := t.lookup.ProjectTags(ctx, names, names)
			if err != nil {
				return fmt.Errorf("failed to look up event projects: %w", err)
			}
			if found != nil {
				matched = found
			}
		}
		for _, m := range matched {
			allProjects = append(allProjects, m)
		}

		events = append(events, SummaryEvent{Title: e.Title, Summary: e.Summary, Projects: matched})
	}

	sourceIDs := make([]string, 0, len(tweets))
	for _, tweet := range tweets {
		if tweet.TwitterID != "" {
			sourceIDs = append(sourceIDs, tweet.TwitterID)
		}
	}

	summary := &schema.KOLTweetSummary{
		Events:    mustJSON(events),
		Projects:  mustJSON(allProjects),
		SourceIDs: mustJSON(sourceIDs),
		CreatedAt: t.clock.Now().Unix(),
	}
	if err := t.structured.CreateKOLTweetSummary(ctx, summary); err != nil {
		return err
	}
	t.lastWindowEnd = end

	if !t.transport.Send(ctx, t.channelID, FormatHourlySummary(start, end, events)) {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to send hourly summary"), zap.String("channel", t.channelID))
	}

	return nil
}

// FormatTweets renders tweets for the summary prompt, one paragraph per non-empty tweet
func FormatTweets(tweets []schema.KOLTweet) string {
	lines := make([]string, 0, len(tweets))
	for _, tweet := range tweets {
		text := strings.Join(strings.Fields(tweet.Text), " ")
		if text == "" {
			continue
		}
		author := tweet.UID
		if author == "" {
			author = tweet.TwitterUsername
		}
		lines = append(lines, fmt.Sprintf("Tweet %d (author: %s): %s", len(lines)+1, author, text))
	}
	return strings.Join(lines, "\n\n")
}

// decodeEvents converts the decoded events value into typed events
func decodeEvents(v any) ([]rawEvent, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var events []rawEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}
