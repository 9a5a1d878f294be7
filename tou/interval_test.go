package tou

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandNames(t *testing.T) {
	assert.Equal(t, []string{"SUPER_OFF_PEAK", "OFF_PEAK", "PARTIAL_PEAK", "ON_PEAK"},
		[]string{SuperOffPeak.Key(), OffPeak.Key(), MidPeak.Key(), Peak.Key()})
	assert.Equal(t, "Mid-Peak", MidPeak.String())
	assert.Equal(t, "Unclassified", Unclassified.String())
	assert.Empty(t, Unclassified.Key())
}

func TestCheckContiguous(t *testing.T) {
	tests := []struct {
		name string
		in   []Interval
		ok   bool
	}{
		{name: "Empty", in: nil, ok: true},
		{name: "Full day", in: halfHours(1, 2, 3, 4, 5, 6), ok: true},
		{name: "Unsorted", in: []Interval{slot(30, 60, 1, 1), slot(0, 30, 1, 1)}, ok: true},
		{name: "Gap", in: []Interval{slot(0, 30, 1, 1), slot(60, 90, 1, 1)}, ok: false},
		{name: "Overlap", in: []Interval{slot(0, 45, 1, 1), slot(30, 60, 1, 1)}, ok: false},
		{name: "Zero width", in: []Interval{slot(0, 0, 1, 1)}, ok: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := CheckContiguous(test.in)
			if test.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrNonContiguous)
			}
		})
	}
}

func TestSortByStart(t *testing.T) {
	in := []Interval{slot(60, 90, 3, 3), slot(0, 30, 1, 1), slot(30, 60, 2, 2)}
	SortByStart(in)
	assert.Equal(t, []float64{1, 2, 3}, []float64{in[0].PriceIncTax, in[1].PriceIncTax, in[2].PriceIncTax})
}
