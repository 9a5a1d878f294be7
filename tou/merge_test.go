package tou

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name   string
		in     []Interval
		expect []Interval
	}{
		{
			name:   "Empty",
			in:     nil,
			expect: []Interval{},
		},
		{
			name:   "Single slot passes through",
			in:     []Interval{slot(0, 30, 5.1234, 4.87)},
			expect: []Interval{slot(0, 30, 5.1234, 4.87)},
		},
		{
			name:   "Two adjacent slots",
			in:     []Interval{slot(0, 30, 5, 4), slot(30, 60, 7, 6)},
			expect: []Interval{slot(0, 60, 6, 5)},
		},
		{
			name: "Gap splits runs",
			in: []Interval{
				slot(0, 30, 10, 9), slot(30, 60, 11, 10), slot(60, 90, 12.5, 11),
				slot(120, 150, 20, 19),
				slot(180, 210, 3, 2), slot(210, 240, 4, 3),
			},
			expect: []Interval{
				slot(0, 90, 11.167, 10),
				slot(120, 150, 20, 19),
				slot(180, 240, 3.5, 2.5),
			},
		},
		{
			name:   "Averages are rounded to 3dp",
			in:     []Interval{slot(0, 30, 10, 1), slot(30, 60, 10, 1), slot(60, 90, 10.001, 1.0002)},
			expect: []Interval{slot(0, 90, 10, 1)},
		},
		{
			name:   "Irregular widths",
			in:     []Interval{slot(0, 15, 2, 2), slot(15, 75, 4, 4)},
			expect: []Interval{slot(0, 75, 3, 3)},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expect, Merge(test.in))
		})
	}
}

func TestMergeKeepsBand(t *testing.T) {
	in := []Interval{slot(0, 30, 1, 1), slot(30, 60, 2, 2)}
	in[0].Band, in[1].Band = Peak, Peak

	out := Merge(in)
	require.Len(t, out, 1)
	assert.Equal(t, Peak, out[0].Band)
}

func TestMergeReturnsNewSlice(t *testing.T) {
	in := []Interval{slot(0, 30, 1, 1), slot(60, 90, 2, 2)}
	out := Merge(in)
	out[0].PriceIncTax = 99
	assert.Equal(t, 1.0, in[0].PriceIncTax)
}

func TestMergeIsIdempotent(t *testing.T) {
	in := []Interval{
		slot(0, 30, 10, 9), slot(30, 60, 11, 10),
		slot(90, 120, 20, 19),
		slot(150, 180, 3, 2), slot(180, 210, 4, 3), slot(210, 240, 8, 7),
	}

	once := Merge(in)
	assert.Equal(t, once, Merge(once))
}

func TestMergePreservesCoverage(t *testing.T) {
	in := Extract(halfHours(9.8, 10.1, 14.2, 18, 21, 33, 40.5, 12.2, 16.8, 24.1, 24.6, 7.7, 8, 8.2),
		Thresholds{Min: 7.7, SuperOffPeakLimit: 12, OffPeakLimit: 17, MidPeakLimit: 30, Max: 40.5}, OffPeak, false)
	require.NotEmpty(t, in)

	var want time.Duration
	for _, iv := range in {
		want += iv.ValidTo.Sub(iv.ValidFrom)
	}

	out := Merge(in)
	var got time.Duration
	for i, r := range out {
		got += r.ValidTo.Sub(r.ValidFrom)
		if i > 0 {
			assert.False(t, out[i-1].Adjacent(r), "ranges %d and %d should have merged", i-1, i)
		}
	}
	assert.Equal(t, want, got)
}
