package tou

// Merge collapses runs of adjacent intervals into single ranges. A merged range carries
// the mean of its constituents' prices rounded to 3dp; lone intervals are copied as is.
// The input must be sorted by start time.
func Merge(intervals []Interval) []Interval {
	merged := make([]Interval, 0, len(intervals))

	for start := 0; start < len(intervals); {
		end := start
		for end+1 < len(intervals) && intervals[end].Adjacent(intervals[end+1]) {
			end++
		}

		if start == end {
			merged = append(merged, intervals[start])
			start++
			continue
		}

		var totalInc, totalExc float64
		for _, iv := range intervals[start : end+1] {
			totalInc += iv.PriceIncTax
			totalExc += iv.PriceExcTax
		}
		n := float64(end - start + 1)

		merged = append(merged, Interval{
			ValidFrom:   intervals[start].ValidFrom,
			ValidTo:     intervals[end].ValidTo,
			PriceExcTax: round(totalExc/n, 3),
			PriceIncTax: round(totalInc/n, 3),
			Band:        intervals[start].Band,
		})
		start = end + 1
	}

	return merged
}
