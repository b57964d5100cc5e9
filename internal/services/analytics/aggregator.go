package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/chronosync/chronosync/internal/models"
)

// NoActivitySentinel is returned as MostProductiveDay when the range holds no
// activity at all.
const NoActivitySentinel = "No activities"

// DailyEntry is one calendar day of a rollup. Days with no activity are
// present with zero values so charts always get a contiguous series.
type DailyEntry struct {
	Date       string `json:"date"`
	Minutes    int    `json:"minutes"`
	Activities int    `json:"activities"`
}

// CategoryEntry is one category's share of a rollup.
type CategoryEntry struct {
	Category   string  `json:"category"`
	Minutes    int     `json:"minutes"`
	Percentage float64 `json:"percentage"`
}

// Rollup is a derived aggregate over a date range. It is computed on demand
// and never persisted.
type Rollup struct {
	TotalMinutes      int             `json:"totalMinutes"`
	TotalActivities   int             `json:"totalActivities"`
	DailyData         []DailyEntry    `json:"dailyData"`
	CategoryData      []CategoryEntry `json:"categoryData"`
	ProductivityScore int             `json:"productivityScore"`
	AverageDailyTime  int             `json:"averageDailyTime"`
	MostProductiveDay string          `json:"mostProductiveDay"`
}

// Aggregate computes the rollup for all activities in the inclusive range
// [startDate, endDate]. Productive is the set of category names counted
// toward the productivity score. Activities dated outside the range are
// ignored.
func Aggregate(activities []*models.Activity, productive map[string]bool, startDate, endDate string) (*Rollup, error) {
	days, err := enumerateDays(startDate, endDate)
	if err != nil {
		return nil, err
	}

	dailyIndex := make(map[string]int, len(days))
	daily := make([]DailyEntry, len(days))
	for i, day := range days {
		daily[i] = DailyEntry{Date: day}
		dailyIndex[day] = i
	}

	categoryMinutes := make(map[string]int)
	totalMinutes := 0
	totalActivities := 0
	productiveMinutes := 0

	for _, activity := range activities {
		i, ok := dailyIndex[activity.Date]
		if !ok {
			continue
		}
		daily[i].Minutes += activity.Duration
		daily[i].Activities++
		categoryMinutes[activity.Category] += activity.Duration
		totalMinutes += activity.Duration
		totalActivities++
		if productive[activity.Category] {
			productiveMinutes += activity.Duration
		}
	}

	categoryData := make([]CategoryEntry, 0, len(categoryMinutes))
	for category, minutes := range categoryMinutes {
		entry := CategoryEntry{Category: category, Minutes: minutes}
		if totalMinutes > 0 {
			entry.Percentage = 100 * float64(minutes) / float64(totalMinutes)
		}
		categoryData = append(categoryData, entry)
	}
	sort.Slice(categoryData, func(i, j int) bool {
		if categoryData[i].Minutes != categoryData[j].Minutes {
			return categoryData[i].Minutes > categoryData[j].Minutes
		}
		return categoryData[i].Category < categoryData[j].Category
	})

	productivityScore := 0
	if totalMinutes > 0 {
		productivityScore = int(math.Round(100 * float64(productiveMinutes) / float64(totalMinutes)))
	}

	averageDailyTime := 0
	if len(daily) > 0 {
		averageDailyTime = int(math.Round(float64(totalMinutes) / float64(len(daily))))
	}

	// Strict > over the ascending series, so the earliest date wins ties.
	mostProductiveDay := NoActivitySentinel
	maxMinutes := 0
	for _, day := range daily {
		if day.Minutes > maxMinutes {
			maxMinutes = day.Minutes
			mostProductiveDay = day.Date
		}
	}

	return &Rollup{
		TotalMinutes:      totalMinutes,
		TotalActivities:   totalActivities,
		DailyData:         daily,
		CategoryData:      categoryData,
		ProductivityScore: productivityScore,
		AverageDailyTime:  averageDailyTime,
		MostProductiveDay: mostProductiveDay,
	}, nil
}

// enumerateDays returns every calendar day from startDate through endDate
// inclusive, independent of which days hold data.
func enumerateDays(startDate, endDate string) ([]string, error) {
	start, err := time.Parse(models.DateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(models.DateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(models.DateLayout))
	}
	return days, nil
}
