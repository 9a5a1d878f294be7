package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mgazza/agile-powerwall/tou"
)

// writeMetrics writes the plan as gauges in the Prometheus text format, for the node
// exporter textfile collector.
func writeMetrics(path string, plan *tou.Plan, usages []BandUsage) error {
	reg := prometheus.NewRegistry()

	threshold := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "agile_threshold_pence",
		Help: "Price limits derived from the day's Agile rates",
	}, []string{"limit"})
	rate := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "agile_band_rate_pence",
		Help: "Average inc VAT rate reported for each band",
	}, []string{"band"})
	slots := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "agile_band_slots",
		Help: "Half hour slots classified into each band",
	}, []string{"band"})
	periods := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "agile_band_periods",
		Help: "Time of use periods sent for each band after merging",
	}, []string{"band"})
	usage := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "agile_band_grid_import_kwh",
		Help: "Grid import measured by the inverter within each band",
	}, []string{"band"})
	cost := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "agile_band_grid_import_cost_pence",
		Help: "Cost of the grid import within each band",
	}, []string{"band"})

	reg.MustRegister(threshold, rate, slots, periods)

	th := plan.Thresholds
	threshold.WithLabelValues("min").Set(th.Min)
	threshold.WithLabelValues("avg").Set(th.Avg)
	threshold.WithLabelValues("max").Set(th.Max)
	threshold.WithLabelValues("super_off_peak").Set(th.SuperOffPeakLimit)
	threshold.WithLabelValues("off_peak").Set(th.OffPeakLimit)
	threshold.WithLabelValues("mid_peak").Set(th.MidPeakLimit)

	for _, bp := range plan.Bands {
		key := bp.Band.Key()
		rate.WithLabelValues(key).Set(bp.AverageRate)
		slots.WithLabelValues(key).Set(float64(len(bp.Slots)))
		periods.WithLabelValues(key).Set(float64(len(bp.Ranges)))
	}

	if len(usages) > 0 {
		reg.MustRegister(usage, cost)
		for _, u := range usages {
			usage.WithLabelValues(u.Band.Key()).Set(u.KWh)
			cost.WithLabelValues(u.Band.Key()).Set(u.CostPence)
		}
	}

	return prometheus.WriteToTextfile(path, reg)
}
