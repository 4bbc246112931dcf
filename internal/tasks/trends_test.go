package tasks_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-project-intel/internal/tasks"
)

func tagRows() []datatypes.JSON {
	return []datatypes.JSON{
		datatypes.JSON(`[{"project_name":"Foo","tags":["DeFi"]}]`),
		datatypes.JSON(`[{"project_name":"Bar","tags":["L2"]},{"project_name":"Foo","tags":["AI","DeFi"]}]`),
		datatypes.JSON(`not json`),
		nil,
		datatypes.JSON(`[{"project_name":"Baz","tags":[]},{"project_name":"","tags":["x"]}]`),
	}
}

func TestCountProjectTrends(t *testing.T) {
	trends := tasks.CountProjectTrends(context.Background(), tagRows())

	assert.Equal(t, []tasks.ProjectTrend{
		{Name: "Foo", Tags: []string{"DeFi", "AI"}, Count: 2},
		{Name: "Bar", Tags: []string{"L2"}, Count: 1},
		{Name: "Baz", Tags: []string{}, Count: 1},
	}, trends)
}

func TestCountProjectTrends_Empty(t *testing.T) {
	assert.Empty(t, tasks.CountProjectTrends(context.Background(), nil))
}

func TestDailyTrendsTask_RanksYesterday(t *testing.T) {
	m := setupTestTask(t)
	zone := time.FixedZone("UTC+8", 8*3600)
	task := tasks.NewDailyTrendsTask(m.structured, m.transport, testChannel, m.clock, zone)
	assert.Equal(t, "daily-trends", task.Name())

	// fixedNow is 18:17 on May 1st in UTC+8
	start := time.Date(2024, 4, 30, 0, 0, 0, 0, zone)
	end := time.Date(2024, 5, 1, 0, 0, 0, 0, zone)
	m.structured.EXPECT().GetStructuredKOLTweetTags(gomock.Any(), start, end).Return(tagRows(), nil)

	var sent string
	m.transport.EXPECT().
		Send(gomock.Any(), testChannel, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, text string) bool {
			sent = text
			return true
		})

	require.NoError(t, task.Run(context.Background()))

	assert.Contains(t, sent, "2024-04-30")
	foo := strings.Index(sent, "<b>Foo</b>")
	bar := strings.Index(sent, "<b>Bar</b>")
	baz := strings.Index(sent, "<b>Baz</b>")
	require.True(t, foo >= 0 && bar >= 0 && baz >= 0, sent)
	assert.Less(t, foo, bar)
	assert.Less(t, bar, baz)
}

func TestDailyTrendsTask_EmptyDaySendsNothing(t *testing.T) {
	m := setupTestTask(t)
	task := tasks.NewDailyTrendsTask(m.structured, m.transport, testChannel, m.clock, nil)

	m.structured.EXPECT().GetStructuredKOLTweetTags(gomock.Any(), gomock.Any(), gomock.Any()).Return([]datatypes.JSON{}, nil)

	require.NoError(t, task.Run(context.Background()))
}
