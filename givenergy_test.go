package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgazza/agile-powerwall/tou"
)

func TestFetchGridImport(t *testing.T) {
	// Expected call to the GivEnergy API: GET /inverter/{serial}/data-points/{date}
	mockRoundTripper := &MockRoundTripper{
		Handler: func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "/v1/inverter/ABC12345/data-points/2025-01-01", req.URL.Path, "Unexpected request URL")

			return jsonResponse(http.StatusOK, `{
				"data": [
					{"time": "2025-01-01T00:00:00Z", "total": {"grid": {"import": 1842.3, "export": 1629.9}}},
					{"time": "2025-01-01T00:10:00Z", "total": {"grid": {"import": 1843.0, "export": 1629.9}}},
					{"time": "2025-01-01T00:30:00Z", "total": {"grid": {"import": 1845.4, "export": 1630}}},
					{"time": "2025-01-01T01:00:00Z", "total": {"grid": {"import": 1846.0, "export": 1630}}}
				],
				"meta": {"current_page": 1, "last_page": 1}
			}`), nil
		},
	}

	givService := NewGivEnergyService(mockRoundTripper, "dummyBearerToken", NopLogger{})
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC)

	imports, err := givService.FetchGridImport(context.Background(), "ABC12345", start, end, time.UTC)
	require.NoError(t, err, "Expected no error while fetching inverter data")
	require.Len(t, imports, 2)
	assert.InDelta(t, 3.1, imports[start], 1e-9)
	assert.InDelta(t, 0.6, imports[start.Add(halfHour)], 1e-9)
}

func TestFetchGridImportError(t *testing.T) {
	mockRoundTripper := &MockRoundTripper{
		Handler: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusUnauthorized, `{"message": "Unauthenticated."}`), nil
		},
	}

	givService := NewGivEnergyService(mockRoundTripper, "bad", NopLogger{})
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := givService.FetchGridImport(context.Background(), "ABC12345", start, start.Add(time.Hour), time.UTC)
	assert.Error(t, err)
}

func TestBandUsages(t *testing.T) {
	plan := testPlan(t)
	start := time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC)

	imports := map[time.Time]float64{
		start:                     2,   // 10p super off-peak
		start.Add(halfHour):       1,   // 20p mid-peak
		start.Add(3 * halfHour):   0.5, // 30p peak
		start.Add(10 * time.Hour): 9,   // outside the plan
	}

	usages := BandUsages(plan, imports)
	require.Len(t, usages, len(tou.Bands))

	byBand := map[tou.Band]BandUsage{}
	for _, u := range usages {
		byBand[u.Band] = u
	}
	assert.InDelta(t, 2, byBand[tou.SuperOffPeak].KWh, 1e-9)
	assert.InDelta(t, 20, byBand[tou.SuperOffPeak].CostPence, 1e-9)
	assert.Zero(t, byBand[tou.OffPeak].KWh)
	assert.InDelta(t, 20, byBand[tou.MidPeak].CostPence, 1e-9)
	assert.InDelta(t, 15, byBand[tou.Peak].CostPence, 1e-9)
}
