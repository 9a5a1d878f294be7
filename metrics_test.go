package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgazza/agile-powerwall/tou"
)

func TestWriteMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agile.prom")
	require.NoError(t, writeMetrics(path, testPlan(t), nil))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(b)

	for _, line := range []string{
		`agile_threshold_pence{limit="min"} 10`,
		`agile_threshold_pence{limit="max"} 30`,
		`agile_threshold_pence{limit="mid_peak"} 24.375`,
		`agile_band_rate_pence{band="ON_PEAK"} 30`,
		`agile_band_slots{band="SUPER_OFF_PEAK"} 1`,
		`agile_band_periods{band="OFF_PEAK"} 1`,
	} {
		assert.Contains(t, text, line)
	}
	assert.NotContains(t, text, "agile_band_grid_import_kwh")
}

func TestWriteMetricsWithUsage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agile.prom")
	usages := []BandUsage{
		{Band: tou.SuperOffPeak, KWh: 2, CostPence: 20},
		{Band: tou.Peak, KWh: 0.5, CostPence: 15},
	}
	require.NoError(t, writeMetrics(path, testPlan(t), usages))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `agile_band_grid_import_kwh{band="SUPER_OFF_PEAK"} 2`)
	assert.Contains(t, string(b), `agile_band_grid_import_cost_pence{band="ON_PEAK"} 15`)
}

func TestWriteMetricsBadPath(t *testing.T) {
	assert.Error(t, writeMetrics(filepath.Join(t.TempDir(), "missing", "agile.prom"), testPlan(t), nil))
}
