package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgazza/agile-powerwall/tou"
)

func TestExportChart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "www")
	require.NoError(t, exportChart(dir, testPlan(t), time.UTC, NopLogger{}))

	data, err := os.ReadFile(filepath.Join(dir, chartDataFile))
	require.NoError(t, err)
	assert.Equal(t, "// Octopus Agile Daily Data\n"+
		`var RATES = ["10", "20", "15", "30", "30"]`+"\n"+
		`var TIMES = ["23:00", "23:30", "00:00", "00:30", ""]`+"\n", string(data))

	rates, err := os.ReadFile(filepath.Join(dir, chartRatesFile))
	require.NoError(t, err)
	assert.Equal(t, "// Powerwall Rate Ranges\n"+
		"var MIN = 10\n"+
		"var OFF_PEAK = 12.9\n"+
		"var MID_PEAK = 16.9\n"+
		"var PEAK = 24.4\n"+
		"var MAX = 30\n"+
		"var COMBINE = 0\n", string(rates))
}

func TestExportChartCombined(t *testing.T) {
	start := time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC)
	var intervals []tou.Interval
	for i, p := range []float64{10, 20, 15, 30} {
		from := start.Add(time.Duration(i) * halfHour)
		intervals = append(intervals, tou.Interval{ValidFrom: from, ValidTo: from.Add(halfHour), PriceIncTax: p})
	}
	plan, err := tou.BuildPlan(intervals, time.UTC, true)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, writeChartRates(filepath.Join(dir, chartRatesFile), plan))
	rates, err := os.ReadFile(filepath.Join(dir, chartRatesFile))
	require.NoError(t, err)
	assert.Contains(t, string(rates), "var COMBINE = 1\n")
}

func TestWriteCSV(t *testing.T) {
	plan := testPlan(t)
	var slots []tou.Interval
	for _, bp := range plan.Bands {
		slots = append(slots, bp.Slots...)
	}
	tou.SortByStart(slots)

	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), chartCSVFile)
	require.NoError(t, writeCSV(path, slots, london))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"Valid_From", "Valid_To", "Local_From", "Local_To", "Price_Exc_VAT", "Price_Inc_VAT", "Band"}, records[0])
	assert.Equal(t, []string{"2025-01-01T23:00:00Z", "2025-01-01T23:30:00Z", "23:00", "23:30", "9.5238", "10.0000", "SUPER_OFF_PEAK"}, records[1])
	assert.Equal(t, "PARTIAL_PEAK", records[2][6])
	assert.Equal(t, "ON_PEAK", records[4][6])
}

func TestWriteCSVEmpty(t *testing.T) {
	assert.Error(t, writeCSV(filepath.Join(t.TempDir(), "empty.csv"), nil, time.UTC))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.2346", formatFloat(1.23456, 4))
	assert.Equal(t, "3", formatFloat(3.1, 0))
}
