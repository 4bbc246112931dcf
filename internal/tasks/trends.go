package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-project-intel/internal/adapter"
	"github.com/feral-file/ff-project-intel/internal/aggregator"
	"github.com/feral-file/ff-project-intel/internal/logger"
	"github.com/feral-file/ff-project-intel/internal/notifier"
	"github.com/feral-file/ff-project-intel/internal/store"
)

// dailyTrendsTask ranks projects by how often the previous day's KOL tweets mentioned them
type dailyTrendsTask struct {
	structured store.StructuredStore
	transport  notifier.Transport
	channelID  string
	clock      adapter.Clock
	location   *time.Location
}

// NewDailyTrendsTask creates the daily trends task. Days are calendar days in location.
func NewDailyTrendsTask(
	structured store.StructuredStore,
	transport notifier.Transport,
	channelID string,
	clock adapter.Clock,
	location *time.Location,
) Task {
	if location == nil {
		location = time.UTC
	}
	return &dailyTrendsTask{
		structured: structured,
		transport:  transport,
		channelID:  channelID,
		clock:      clock,
		location:   location,
	}
}

func (t *dailyTrendsTask) Name() string {
	return "daily-trends"
}

func (t *dailyTrendsTask) Run(ctx context.Context) error {
	now := t.clock.Now().In(t.location)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, t.location)
	start := end.AddDate(0, 0, -1)

	rows, err := t.structured.GetStructuredKOLTweetTags(ctx, start, end)
	if err != nil {
		return err
	}

	trends := CountProjectTrends(ctx, rows)
	if len(trends) == 0 {
		logger.InfoCtx(ctx, "No project mentions yesterday", zap.Time("start", start))
		return nil
	}

	if !t.transport.Send(ctx, t.channelID, FormatProjectTrends(start, trends)) {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to send daily trends"), zap.String("channel", t.channelID))
	}

	return nil
}

// CountProjectTrends counts mentions per project name across the tag lists of many tweets.
// Tags of the same project are merged in first-seen order. Unparsable rows are skipped.
// The result is sorted by count descending, then by name.
func CountProjectTrends(ctx context.Context, rows []datatypes.JSON) []ProjectTrend {
	index := map[string]int{}
	trends := []ProjectTrend{}

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		var tags []aggregator.ProjectTags
		if err := json.Unmarshal(row, &tags); err != nil {
			logger.WarnCtx(ctx, "Skipping unparsable tags", zap.Error(err))
			continue
		}

		for _, tag := range tags {
			if tag.ProjectName == "" {
				continue
			}
			i, ok := index[tag.ProjectName]
			if !ok {
				i = len(trends)
				index[tag.ProjectName] = i
				trends = append(trends, ProjectTrend{Name: tag.ProjectName, Tags: []string{}})
			}
			trends[i].Count++
			trends[i].Tags = mergeTags(trends[i].Tags, tag.Tags)
		}
	}

	sort.SliceStable(trends, func(a, b int) bool {
		if trends[a].Count != trends[b].Count {
			return trends[a].Count > trends[b].Count
		}
		return trends[a].Name < trends[b].Name
	})

	return trends
}

func mergeTags(existing, more []string) []string {
	for _, tag := range more {
		found := false
		for _, e := range existing {
			if e == tag {
				found = true
				break
			}
		}
		if !found && tag != "" {
			existing = append(existing, tag)
		}
	}
	return existing
}
