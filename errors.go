package main

import "errors"

var (
	// ErrInvalidOffset is returned when rates for a future day are requested.
	ErrInvalidOffset = errors.New("day offset must not be in the future")
	// ErrNoData means Octopus has not published rates for the requested day yet.
	ErrNoData = errors.New("no agile rates published for this period")
	// ErrApplyRejected means the Powerwall refused the tariff update.
	ErrApplyRejected = errors.New("powerwall rejected the tariff update")
	// ErrChartExport wraps any failure writing the chart files.
	ErrChartExport = errors.New("chart export failed")
	// ErrListOnly ends a run that listed changes without applying them.
	ErrListOnly = errors.New("list mode complete - no updates applied")
)

// exitCode maps a run error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrListOnly):
		return 1
	case errors.Is(err, ErrNoData):
		return -2
	case errors.Is(err, ErrApplyRejected):
		return -3
	case errors.Is(err, ErrChartExport):
		return -4
	default:
		return -1
	}
}
