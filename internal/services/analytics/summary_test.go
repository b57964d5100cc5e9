package analytics

import (
	"testing"

	"github.com/chronosync/chronosync/internal/models"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	activities := []*models.Activity{
		activity("coding", 50, "2024-01-01"),
		activity("coding", 40, "2024-01-01"),
		activity("speaking", 30, "2024-01-01"),
	}

	summary := Summarize(activities, models.ProductiveCategoryNames(nil))

	if summary.TotalMinutes != 120 {
		t.Errorf("TotalMinutes = %d, want 120", summary.TotalMinutes)
	}
	if summary.TotalActivities != 3 {
		t.Errorf("TotalActivities = %d, want 3", summary.TotalActivities)
	}
	if summary.TotalHours != "2.0" {
		t.Errorf("TotalHours = %q, want %q", summary.TotalHours, "2.0")
	}
	if summary.ProductiveMinutes != 90 {
		t.Errorf("ProductiveMinutes = %d, want 90", summary.ProductiveMinutes)
	}
	if summary.ProductivityScore != 75 {
		t.Errorf("ProductivityScore = %d, want 75", summary.ProductivityScore)
	}

	if len(summary.CategoryBreakdown) != 2 {
		t.Fatalf("len(CategoryBreakdown) = %d, want 2", len(summary.CategoryBreakdown))
	}
	if summary.CategoryBreakdown[0].Category != "coding" || summary.CategoryBreakdown[0].Duration != 90 || summary.CategoryBreakdown[0].Count != 2 {
		t.Errorf("CategoryBreakdown[0] = %+v, want coding/90/2", summary.CategoryBreakdown[0])
	}
	if summary.CategoryBreakdown[1].Category != "speaking" {
		t.Errorf("CategoryBreakdown[1] = %+v, want speaking second", summary.CategoryBreakdown[1])
	}
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	summary := Summarize(nil, models.ProductiveCategoryNames(nil))
	if summary.TotalMinutes != 0 || summary.TotalActivities != 0 {
		t.Errorf("Expected zero totals, got %+v", summary)
	}
	if summary.ProductivityScore != 0 {
		t.Errorf("ProductivityScore = %d, want 0", summary.ProductivityScore)
	}
	if summary.TotalHours != "0.0" {
		t.Errorf("TotalHours = %q, want %q", summary.TotalHours, "0.0")
	}
	if len(summary.CategoryBreakdown) != 0 {
		t.Errorf("CategoryBreakdown = %v, want empty", summary.CategoryBreakdown)
	}
}
