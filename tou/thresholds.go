package tou

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmptyInput is returned when a statistic is requested over no intervals.
	ErrEmptyInput = errors.New("no intervals")
	// ErrDegenerateThresholds is wrapped by DegenerateThresholdsError.
	ErrDegenerateThresholds = errors.New("inconsistent rate thresholds")
)

// DegenerateThresholdsError carries the limits that failed the ordering check.
type DegenerateThresholdsError struct {
	Thresholds Thresholds
}

func (e *DegenerateThresholdsError) Error() string {
	t := e.Thresholds
	return fmt.Sprintf("%v: min=%v super_off_peak=%v off_peak=%v mid_peak=%v max=%v",
		ErrDegenerateThresholds, t.Min, t.SuperOffPeakLimit, t.OffPeakLimit, t.MidPeakLimit, t.Max)
}

func (e *DegenerateThresholdsError) Unwrap() error { return ErrDegenerateThresholds }

// Thresholds are the band limits derived from one day of prices.
type Thresholds struct {
	Min float64
	Max float64
	Avg float64

	SuperOffPeakLimit float64
	OffPeakLimit      float64
	MidPeakLimit      float64
}

// Valid reports whether the limits are strictly ordered between min and max.
func (t Thresholds) Valid() bool {
	return t.Max > t.MidPeakLimit &&
		t.MidPeakLimit > t.OffPeakLimit &&
		t.OffPeakLimit > t.SuperOffPeakLimit &&
		t.SuperOffPeakLimit > t.Min
}

// CalculateThresholds derives the band limits from the tax-inclusive prices.
// The super off-peak and off-peak limits are pulled 10% low to keep those bands narrow.
func CalculateThresholds(intervals []Interval) (Thresholds, error) {
	if len(intervals) == 0 {
		return Thresholds{}, ErrEmptyInput
	}

	prices := make([]float64, len(intervals))
	for i, iv := range intervals {
		prices[i] = iv.PriceIncTax
	}

	t := Thresholds{
		Min: floats.Min(prices),
		Max: floats.Max(prices),
		Avg: round(stat.Mean(prices, nil), 3),
	}
	t.SuperOffPeakLimit = ((t.Avg-t.Min)/2 + t.Min) * 0.9
	t.OffPeakLimit = t.Avg * 0.9
	t.MidPeakLimit = (t.Max-t.Avg)/2 + t.Avg

	if !t.Valid() {
		return t, &DegenerateThresholdsError{Thresholds: t}
	}
	return t, nil
}

// round rounds half to even.
func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).RoundBank(places).InexactFloat64()
}
