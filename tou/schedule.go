package tou

import (
	"fmt"
	"time"
)

// ScheduleEntry is a weekly local-time window. Days run 0 (Monday) to 6 (Sunday).
type ScheduleEntry struct {
	FromDayOfWeek int `json:"fromDayOfWeek"`
	ToDayOfWeek   int `json:"toDayOfWeek"`
	FromHour      int `json:"fromHour"`
	FromMinute    int `json:"fromMinute"`
	ToHour        int `json:"toHour"`
	ToMinute      int `json:"toMinute"`
}

func (e ScheduleEntry) String() string {
	return fmt.Sprintf("%d, %d, %d, %d, %d, %d",
		e.FromDayOfWeek, e.ToDayOfWeek, e.FromHour, e.FromMinute, e.ToHour, e.ToMinute)
}

// RateTable maps band keys to prices in pounds.
type RateTable map[string]float64

// BuildSchedule converts ranges into every-day entries in the wall clock of loc.
func BuildSchedule(ranges []Interval, loc *time.Location) []ScheduleEntry {
	entries := make([]ScheduleEntry, 0, len(ranges))
	for _, r := range ranges {
		from := r.ValidFrom.In(loc)
		to := r.ValidTo.In(loc)
		entries = append(entries, ScheduleEntry{
			FromDayOfWeek: 0,
			ToDayOfWeek:   6,
			FromHour:      from.Hour(),
			FromMinute:    from.Minute(),
			ToHour:        to.Hour(),
			ToMinute:      to.Minute(),
		})
	}
	return entries
}

// BuildRateTable converts per-band averages from pence to pounds.
func BuildRateTable(superOffPeak, offPeak, midPeak, peak float64) RateTable {
	return RateTable{
		SuperOffPeak.Key(): round(superOffPeak/100, 2),
		OffPeak.Key():      round(offPeak/100, 2),
		MidPeak.Key():      round(midPeak/100, 2),
		Peak.Key():         round(peak/100, 2),
	}
}

// AverageRate is the mean tax-inclusive price rounded to 3dp.
func AverageRate(intervals []Interval) (float64, error) {
	if len(intervals) == 0 {
		return 0, ErrEmptyInput
	}
	var total float64
	for _, iv := range intervals {
		total += iv.PriceIncTax
	}
	return round(total/float64(len(intervals)), 3), nil
}
