package reminder

import (
	"sort"
	"time"

	"github.com/pg-management/pg-server/internal/models"
)

// calendarDay drops the clock and zone of t, keeping its calendar date
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysUntil returns the whole calendar days from today to day. Both must
// come from calendarDay.
func daysUntil(today, day time.Time) int {
	return int(day.Sub(today).Hours() / 24)
}

// histogram counts calendar dates
type histogram map[string]int

func (h histogram) add(day time.Time) {
	h[day.Format(models.DateLayout)]++
}

// buckets returns the counts sorted by date ascending and their sum
func (h histogram) buckets() ([]models.DateCount, int) {
	out := make([]models.DateCount, 0, len(h))
	total := 0
	for date, count := range h {
		out = append(out, models.DateCount{Date: date, Count: count})
		total += count
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, total
}
