package tasks

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/feral-file/ff-project-intel/internal/aggregator"
)

// SummaryEvent is one event of an hourly summary with the projects it matched
type SummaryEvent struct {
	Title    string                   `json:"title"`
	Summary  string                   `json:"summary"`
	Projects []aggregator.ProjectTags `json:"projects"`
}

// ProjectTrend is how often a project was mentioned over a day
type ProjectTrend struct {
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
	Count int      `json:"count"`
}

// FormatHourlySummary renders the events of one summary window as HTML
func FormatHourlySummary(start, end time.Time, events []SummaryEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🕐 <b>KOL Hot Events %s - %s</b>\n", start.Format("01-02 15:04"), end.Format("15:04"))

	for i, event := range events {
		b.WriteString("\n")
		title := strings.TrimSpace(event.Title)
		if title == "" {
			title = fmt.Sprintf("Event %d", i+1)
		}
		fmt.Fprintf(&b, "%d. <b>%s</b>\n", i+1, html.EscapeString(title))
		if summary := strings.TrimSpace(event.Summary); summary != "" {
			fmt.Fprintf(&b, "%s\n", html.EscapeString(summary))
		}

		var projects []string
		for _, p := range event.Projects {
			line := "<b>" + html.EscapeString(p.ProjectName) + "</b>"
			if p.TokenName != "" {
				line += " $" + html.EscapeString(p.TokenName)
			}
			if len(p.Tags) > 0 {
				line += " (" + escapeJoin(p.Tags) + ")"
			}
			projects = append(projects, line)
		}
		if len(projects) > 0 {
			fmt.Fprintf(&b, "📌 %s\n", strings.Join(projects, " | "))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatProjectTrends renders the ranked project mentions of one day as HTML
func FormatProjectTrends(day time.Time, trends []ProjectTrend) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Project Mentions %s</b>\n\n", day.Format("2006-01-02"))

	for i, trend := range trends {
		fmt.Fprintf(&b, "%d. <b>%s</b> %s %d", i+1, html.EscapeString(trend.Name), countSymbol(trend.Count), trend.Count)
		if len(trend.Tags) > 0 {
			fmt.Fprintf(&b, " (%s)", escapeJoin(trend.Tags))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n💡 Ranked by number of mentions")
	return b.String()
}

func countSymbol(count int) string {
	switch {
	case count >= 5:
		return "🔥"
	case count >= 3:
		return "✨"
	default:
		return "🔹"
	}
}

func escapeJoin(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = html.EscapeString(v)
	}
	return strings.Join(escaped, ", ")
}
