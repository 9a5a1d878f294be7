package tou

// Matches reports whether price satisfies the band's predicate. Adjacent bands share
// their boundary, so a price equal to a limit matches two bands.
// With combine set, Peak starts above the off-peak limit and MidPeak matches nothing.
func (t Thresholds) Matches(b Band, price float64, combine bool) bool {
	switch b {
	case SuperOffPeak:
		return price < t.SuperOffPeakLimit
	case OffPeak:
		return price >= t.SuperOffPeakLimit && price <= t.OffPeakLimit
	case MidPeak:
		if combine {
			return false
		}
		return price >= t.OffPeakLimit && price <= t.MidPeakLimit
	case Peak:
		if combine {
			return price > t.OffPeakLimit
		}
		return price > t.MidPeakLimit
	default:
		return false
	}
}

// Classify returns the single band for price. On a shared boundary the cheaper band wins.
func (t Thresholds) Classify(price float64, combine bool) Band {
	for _, b := range Bands {
		if t.Matches(b, price, combine) {
			return b
		}
	}
	return Unclassified
}

// Extract returns copies of the intervals that classify as b, tagged with b and sorted
// by start time. The input is not modified.
func Extract(intervals []Interval, t Thresholds, b Band, combine bool) []Interval {
	var out []Interval
	for _, iv := range intervals {
		if t.Classify(iv.PriceIncTax, combine) != b {
			continue
		}
		iv.Band = b
		out = append(out, iv)
	}
	SortByStart(out)
	return out
}
