package tou

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Band is a price tier assigned to an interval.
type Band int

const (
	Unclassified Band = iota
	SuperOffPeak
	OffPeak
	MidPeak
	Peak
)

// Bands lists the classifiable bands from cheapest to most expensive.
var Bands = []Band{SuperOffPeak, OffPeak, MidPeak, Peak}

func (b Band) String() string {
	switch b {
	case SuperOffPeak:
		return "Super Off-Peak"
	case OffPeak:
		return "Off-Peak"
	case MidPeak:
		return "Mid-Peak"
	case Peak:
		return "Peak"
	default:
		return "Unclassified"
	}
}

// Key returns the name the battery tariff uses for the band.
func (b Band) Key() string {
	switch b {
	case SuperOffPeak:
		return "SUPER_OFF_PEAK"
	case OffPeak:
		return "OFF_PEAK"
	case MidPeak:
		return "PARTIAL_PEAK"
	case Peak:
		return "ON_PEAK"
	default:
		return ""
	}
}

// ErrNonContiguous is returned when a day's intervals have gaps or overlaps.
var ErrNonContiguous = errors.New("intervals are not contiguous")

// Interval is a half-open [ValidFrom, ValidTo) price slot. Prices are in pence.
type Interval struct {
	ValidFrom   time.Time
	ValidTo     time.Time
	PriceExcTax float64
	PriceIncTax float64
	Band        Band
}

// Adjacent reports whether next starts exactly where i ends.
func (i Interval) Adjacent(next Interval) bool {
	return i.ValidTo.Equal(next.ValidFrom)
}

func (i Interval) String() string {
	return fmt.Sprintf("%s, %s, %v, %v, %s",
		i.ValidFrom.Format(time.RFC3339), i.ValidTo.Format(time.RFC3339),
		i.PriceExcTax, i.PriceIncTax, i.Band)
}

// SortByStart orders intervals chronologically in place.
func SortByStart(intervals []Interval) {
	slices.SortStableFunc(intervals, func(a, b Interval) int {
		return a.ValidFrom.Compare(b.ValidFrom)
	})
}

// CheckContiguous verifies that, once sorted, every interval has a positive width and
// ends exactly where the next one starts.
func CheckContiguous(intervals []Interval) error {
	sorted := slices.Clone(intervals)
	SortByStart(sorted)

	for i, iv := range sorted {
		if !iv.ValidTo.After(iv.ValidFrom) {
			return fmt.Errorf("%w: slot %s has no width", ErrNonContiguous, iv.ValidFrom.Format(time.RFC3339))
		}
		if i+1 < len(sorted) && !iv.Adjacent(sorted[i+1]) {
			return fmt.Errorf("%w: slot ending %s followed by slot starting %s", ErrNonContiguous,
				iv.ValidTo.Format(time.RFC3339), sorted[i+1].ValidFrom.Format(time.RFC3339))
		}
	}
	return nil
}
