package tou

import (
	"time"
)

var day = time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC)

// halfHours builds contiguous 30 minute slots starting at day, one per price.
// Tax-exclusive prices are the inclusive ones divided by 1.05.
func halfHours(prices ...float64) []Interval {
	out := make([]Interval, len(prices))
	for i, p := range prices {
		from := day.Add(time.Duration(i) * 30 * time.Minute)
		out[i] = Interval{
			ValidFrom:   from,
			ValidTo:     from.Add(30 * time.Minute),
			PriceExcTax: p / 1.05,
			PriceIncTax: p,
		}
	}
	return out
}

func slot(fromMin, toMin int, inc, exc float64) Interval {
	return Interval{
		ValidFrom:   day.Add(time.Duration(fromMin) * time.Minute),
		ValidTo:     day.Add(time.Duration(toMin) * time.Minute),
		PriceIncTax: inc,
		PriceExcTax: exc,
	}
}
