package analytics

import (
	"math"
	"testing"

	"github.com/chronosync/chronosync/internal/models"
	"github.com/google/uuid"
)

func activity(category string, duration int, date string) *models.Activity {
	return &models.Activity{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Category: category,
		Duration: duration,
		Date:     date,
	}
}

func defaultProductive() map[string]bool {
	return models.ProductiveCategoryNames(nil)
}

func TestAggregate_WorkedExample(t *testing.T) {
	t.Parallel()

	activities := []*models.Activity{
		activity("coding", 60, "2024-01-01"),
		activity("studying", 30, "2024-01-01"),
		activity("gf_time", 90, "2024-01-02"),
	}

	rollup, err := Aggregate(activities, defaultProductive(), "2024-01-01", "2024-01-02")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if rollup.TotalMinutes != 180 {
		t.Errorf("TotalMinutes = %d, want 180", rollup.TotalMinutes)
	}
	if rollup.TotalActivities != 3 {
		t.Errorf("TotalActivities = %d, want 3", rollup.TotalActivities)
	}

	wantDaily := []DailyEntry{
		{Date: "2024-01-01", Minutes: 90, Activities: 2},
		{Date: "2024-01-02", Minutes: 90, Activities: 1},
	}
	if len(rollup.DailyData) != len(wantDaily) {
		t.Fatalf("len(DailyData) = %d, want %d", len(rollup.DailyData), len(wantDaily))
	}
	for i, want := range wantDaily {
		if rollup.DailyData[i] != want {
			t.Errorf("DailyData[%d] = %+v, want %+v", i, rollup.DailyData[i], want)
		}
	}

	// 90 productive minutes of 180 total
	if rollup.ProductivityScore != 50 {
		t.Errorf("ProductivityScore = %d, want 50", rollup.ProductivityScore)
	}
	if rollup.AverageDailyTime != 90 {
		t.Errorf("AverageDailyTime = %d, want 90", rollup.AverageDailyTime)
	}
	// Both days hold 90 minutes; strict > keeps the first encountered day.
	if rollup.MostProductiveDay != "2024-01-01" {
		t.Errorf("MostProductiveDay = %q, want %q", rollup.MostProductiveDay, "2024-01-01")
	}
}

func TestAggregate_EmptyRange(t *testing.T) {
	t.Parallel()

	rollup, err := Aggregate(nil, defaultProductive(), "2024-03-01", "2024-03-03")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if len(rollup.DailyData) != 3 {
		t.Fatalf("len(DailyData) = %d, want 3", len(rollup.DailyData))
	}
	for i, day := range rollup.DailyData {
		if day.Minutes != 0 || day.Activities != 0 {
			t.Errorf("DailyData[%d] = %+v, want zero entry", i, day)
		}
	}
	if rollup.TotalMinutes != 0 {
		t.Errorf("TotalMinutes = %d, want 0", rollup.TotalMinutes)
	}
	if rollup.ProductivityScore != 0 {
		t.Errorf("ProductivityScore = %d, want 0", rollup.ProductivityScore)
	}
	if len(rollup.CategoryData) != 0 {
		t.Errorf("CategoryData = %v, want empty", rollup.CategoryData)
	}
	if rollup.MostProductiveDay != NoActivitySentinel {
		t.Errorf("MostProductiveDay = %q, want sentinel %q", rollup.MostProductiveDay, NoActivitySentinel)
	}
}

func TestAggregate_Properties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		activities []*models.Activity
		startDate  string
		endDate    string
		wantDays   int
	}{
		{
			name:      "no activities over a week",
			startDate: "2024-05-06",
			endDate:   "2024-05-12",
			wantDays:  7,
		},
		{
			name: "sparse activity",
			activities: []*models.Activity{
				activity("coding", 25, "2024-05-06"),
				activity("reading", 45, "2024-05-09"),
				activity("speaking", 10, "2024-05-09"),
			},
			startDate: "2024-05-06",
			endDate:   "2024-05-12",
			wantDays:  7,
		},
		{
			name: "single day range",
			activities: []*models.Activity{
				activity("studying", 120, "2024-05-06"),
			},
			startDate: "2024-05-06",
			endDate:   "2024-05-06",
			wantDays:  1,
		},
		{
			name: "activities outside range ignored",
			activities: []*models.Activity{
				activity("coding", 60, "2024-05-05"),
				activity("coding", 60, "2024-05-07"),
				activity("coding", 60, "2024-05-13"),
			},
			startDate: "2024-05-06",
			endDate:   "2024-05-12",
			wantDays:  7,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rollup, err := Aggregate(tt.activities, defaultProductive(), tt.startDate, tt.endDate)
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}

			if len(rollup.DailyData) != tt.wantDays {
				t.Errorf("len(DailyData) = %d, want %d", len(rollup.DailyData), tt.wantDays)
			}

			// sum(dailyData.minutes) == totalMinutes
			sum := 0
			for _, day := range rollup.DailyData {
				sum += day.Minutes
			}
			if sum != rollup.TotalMinutes {
				t.Errorf("sum(DailyData.Minutes) = %d, TotalMinutes = %d", sum, rollup.TotalMinutes)
			}

			// percentages sum to ~100 when there is any activity
			if rollup.TotalMinutes > 0 {
				var pct float64
				for _, c := range rollup.CategoryData {
					pct += c.Percentage
				}
				if math.Abs(pct-100) > 0.0001 {
					t.Errorf("sum(Percentage) = %f, want ~100", pct)
				}
			} else if len(rollup.CategoryData) != 0 {
				t.Errorf("CategoryData = %v, want empty when no activity", rollup.CategoryData)
			}

			// score bounded
			if rollup.ProductivityScore < 0 || rollup.ProductivityScore > 100 {
				t.Errorf("ProductivityScore = %d, want within [0,100]", rollup.ProductivityScore)
			}

			// daily series is ascending and contiguous
			for i := 1; i < len(rollup.DailyData); i++ {
				if rollup.DailyData[i].Date <= rollup.DailyData[i-1].Date {
					t.Errorf("DailyData not ascending at %d: %s <= %s", i, rollup.DailyData[i].Date, rollup.DailyData[i-1].Date)
				}
			}
		})
	}
}

func TestAggregate_CategoryOrdering(t *testing.T) {
	t.Parallel()

	activities := []*models.Activity{
		activity("coding", 30, "2024-01-01"),
		activity("reading", 90, "2024-01-01"),
		activity("speaking", 60, "2024-01-02"),
	}

	rollup, err := Aggregate(activities, defaultProductive(), "2024-01-01", "2024-01-02")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	want := []string{"reading", "speaking", "coding"}
	if len(rollup.CategoryData) != len(want) {
		t.Fatalf("len(CategoryData) = %d, want %d", len(rollup.CategoryData), len(want))
	}
	for i, name := range want {
		if rollup.CategoryData[i].Category != name {
			t.Errorf("CategoryData[%d].Category = %q, want %q", i, rollup.CategoryData[i].Category, name)
		}
	}
}

func TestAggregate_CustomProductiveCategories(t *testing.T) {
	t.Parallel()

	custom := []*models.Category{
		{Name: "writing", IsProductive: true},
		{Name: "gaming", IsProductive: false},
	}
	productive := models.ProductiveCategoryNames(custom)

	activities := []*models.Activity{
		activity("writing", 60, "2024-01-01"),
		activity("gaming", 60, "2024-01-01"),
	}

	rollup, err := Aggregate(activities, productive, "2024-01-01", "2024-01-01")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if rollup.ProductivityScore != 50 {
		t.Errorf("ProductivityScore = %d, want 50", rollup.ProductivityScore)
	}
}

func TestAggregate_Rounding(t *testing.T) {
	t.Parallel()

	// 1 of 3 minutes productive: score rounds 33.33 -> 33.
	activities := []*models.Activity{
		activity("coding", 1, "2024-01-01"),
		activity("gf_time", 2, "2024-01-01"),
	}
	rollup, err := Aggregate(activities, defaultProductive(), "2024-01-01", "2024-01-02")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if rollup.ProductivityScore != 33 {
		t.Errorf("ProductivityScore = %d, want 33", rollup.ProductivityScore)
	}
	// 3 minutes over 2 days rounds 1.5 -> 2 (round half away from zero).
	if rollup.AverageDailyTime != 2 {
		t.Errorf("AverageDailyTime = %d, want 2", rollup.AverageDailyTime)
	}
}

func TestAggregate_InvalidRanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		startDate string
		endDate   string
	}{
		{name: "malformed start", startDate: "01-01-2024", endDate: "2024-01-02"},
		{name: "malformed end", startDate: "2024-01-01", endDate: "tomorrow"},
		{name: "end before start", startDate: "2024-01-05", endDate: "2024-01-01"},
		{name: "empty bounds", startDate: "", endDate: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Aggregate(nil, defaultProductive(), tt.startDate, tt.endDate); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
