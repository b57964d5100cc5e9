package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/chronosync/chronosync/internal/models"
)

// CategoryTotal is a per-category total for a single day's activities.
type CategoryTotal struct {
	Category string `json:"category"`
	Duration int    `json:"duration"`
	Count    int    `json:"count"`
}

// DaySummary aggregates one day's activities for the dashboard.
type DaySummary struct {
	TotalMinutes      int             `json:"totalMinutes"`
	TotalActivities   int             `json:"totalActivities"`
	TotalHours        string          `json:"totalHours"`
	CategoryBreakdown []CategoryTotal `json:"categoryBreakdown"`
	ProductiveMinutes int             `json:"productiveMinutes"`
	ProductivityScore int             `json:"productivityScore"`
}

// Summarize computes the day summary for a set of activities. Productive is
// the set of category names counted toward the productivity score.
func Summarize(activities []*models.Activity, productive map[string]bool) *DaySummary {
	summary := &DaySummary{TotalActivities: len(activities)}

	totals := make(map[string]*CategoryTotal)
	order := make([]string, 0)
	for _, activity := range activities {
		summary.TotalMinutes += activity.Duration
		if productive[activity.Category] {
			summary.ProductiveMinutes += activity.Duration
		}
		t, ok := totals[activity.Category]
		if !ok {
			t = &CategoryTotal{Category: activity.Category}
			totals[activity.Category] = t
			order = append(order, activity.Category)
		}
		t.Duration += activity.Duration
		t.Count++
	}

	summary.CategoryBreakdown = make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		summary.CategoryBreakdown = append(summary.CategoryBreakdown, *totals[name])
	}
	sort.SliceStable(summary.CategoryBreakdown, func(i, j int) bool {
		return summary.CategoryBreakdown[i].Duration > summary.CategoryBreakdown[j].Duration
	})

	if summary.TotalMinutes > 0 {
		summary.ProductivityScore = int(math.Round(100 * float64(summary.ProductiveMinutes) / float64(summary.TotalMinutes)))
	}
	summary.TotalHours = fmt.Sprintf("%.1f", float64(summary.TotalMinutes)/60)

	return summary
}
