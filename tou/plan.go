package tou

import (
	"fmt"
	"time"
)

// BandPlan holds everything derived for one band.
type BandPlan struct {
	Band     Band
	Slots    []Interval
	Ranges   []Interval
	Schedule []ScheduleEntry
	// AverageRate is the mean of Ranges in pence.
	AverageRate float64
}

// Plan is the classified, merged and scheduled view of one day of prices.
type Plan struct {
	Thresholds  Thresholds
	CombinePeak bool
	Bands       []BandPlan
	Rates       RateTable
}

// BuildPlan runs threshold calculation, classification, merging and schedule building
// over one day of intervals. Schedule times are expressed in loc.
//
// A band's average is taken over its merged ranges, so a run counts once at its own
// mean. When combinePeak is set, MidPeak is left empty and both MidPeak and Peak are
// reported at the day's maximum price.
func BuildPlan(intervals []Interval, loc *time.Location, combinePeak bool) (*Plan, error) {
	th, err := CalculateThresholds(intervals)
	if err != nil {
		return nil, err
	}

	p := &Plan{Thresholds: th, CombinePeak: combinePeak}
	for _, b := range Bands {
		slots := Extract(intervals, th, b, combinePeak)
		ranges := Merge(slots)

		bp := BandPlan{
			Band:     b,
			Slots:    slots,
			Ranges:   ranges,
			Schedule: BuildSchedule(ranges, loc),
		}
		if combinePeak && (b == MidPeak || b == Peak) {
			bp.AverageRate = th.Max
		} else if bp.AverageRate, err = AverageRate(ranges); err != nil {
			return nil, fmt.Errorf("%s average: %w", b, err)
		}
		p.Bands = append(p.Bands, bp)
	}

	p.Rates = BuildRateTable(
		p.Band(SuperOffPeak).AverageRate,
		p.Band(OffPeak).AverageRate,
		p.Band(MidPeak).AverageRate,
		p.Band(Peak).AverageRate,
	)
	return p, nil
}

// Band returns the plan for b, or a zero BandPlan if b was not planned.
func (p *Plan) Band(b Band) BandPlan {
	for _, bp := range p.Bands {
		if bp.Band == b {
			return bp
		}
	}
	return BandPlan{Band: b}
}

// SlotCount is the number of classified slots across all bands.
func (p *Plan) SlotCount() int {
	n := 0
	for _, bp := range p.Bands {
		n += len(bp.Slots)
	}
	return n
}

// RangeCount is the number of merged ranges across all bands.
func (p *Plan) RangeCount() int {
	n := 0
	for _, bp := range p.Bands {
		n += len(bp.Ranges)
	}
	return n
}
