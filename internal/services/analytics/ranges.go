package analytics

import (
	"time"

	"github.com/chronosync/chronosync/internal/models"
)

// WeekRange returns the ISO week containing now: Monday through Sunday.
// When now is a Sunday the week still ends that Sunday.
func WeekRange(now time.Time) (startDate, endDate string) {
	// time.Weekday has Sunday = 0; shift so Monday = 0.
	offset := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(models.DateLayout), sunday.Format(models.DateLayout)
}

// MonthRange returns the first through last calendar day of the month
// containing now.
func MonthRange(now time.Time) (startDate, endDate string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format(models.DateLayout), last.Format(models.DateLayout)
}
