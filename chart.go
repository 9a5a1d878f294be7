package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mgazza/agile-powerwall/tou"
)

const (
	chartDataFile  = "agile_data.js"
	chartRatesFile = "powerwall_rates.js"
	chartCSVFile   = "agile_data.csv"
)

// exportChart writes the day's rates and band limits as JavaScript globals for the chart
// page, plus a CSV of the classified slots.
func exportChart(dir string, plan *tou.Plan, loc *time.Location, log Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var slots []tou.Interval
	for _, bp := range plan.Bands {
		slots = append(slots, bp.Slots...)
	}
	tou.SortByStart(slots)

	dataPath := filepath.Join(dir, chartDataFile)
	if err := writeChartData(dataPath, slots, loc); err != nil {
		return fmt.Errorf("failed to write %s: %w", dataPath, err)
	}
	log.Infof("Agile Chart Data = %s", dataPath)

	ratesPath := filepath.Join(dir, chartRatesFile)
	if err := writeChartRates(ratesPath, plan); err != nil {
		return fmt.Errorf("failed to write %s: %w", ratesPath, err)
	}
	log.Infof("Powerwall Rate Data = %s", ratesPath)

	csvPath := filepath.Join(dir, chartCSVFile)
	if err := writeCSV(csvPath, slots, loc); err != nil {
		return fmt.Errorf("failed to write %s: %w", csvPath, err)
	}
	log.Infof("Agile CSV Data = %s", csvPath)

	return nil
}

// writeChartData writes RATES and TIMES arrays. RATES repeats the last price so the
// stepped line reaches the end of the day; TIMES ends with an empty label to match.
func writeChartData(path string, slots []tou.Interval, loc *time.Location) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprint(w, "// Octopus Agile Daily Data\nvar RATES = [")
	var last float64
	for _, s := range slots {
		fmt.Fprintf(w, "%q, ", strconv.FormatFloat(s.PriceIncTax, 'f', -1, 64))
		last = s.PriceIncTax
	}
	fmt.Fprintf(w, "%q]\n", strconv.FormatFloat(last, 'f', -1, 64))

	fmt.Fprint(w, "var TIMES = [")
	for _, s := range slots {
		fmt.Fprintf(w, "%q, ", s.ValidFrom.In(loc).Format("15:04"))
	}
	fmt.Fprint(w, "\"\"]\n")

	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// writeChartRates writes the band limits. OFF_PEAK, MID_PEAK and PEAK are the prices
// where those bands begin.
func writeChartRates(path string, plan *tou.Plan) error {
	th := plan.Thresholds
	combine := 0
	if plan.CombinePeak {
		combine = 1
	}

	oneDP := func(v float64) string {
		return decimal.NewFromFloat(v).RoundBank(1).String()
	}

	content := fmt.Sprintf("// Powerwall Rate Ranges\n"+
		"var MIN = %s\n"+
		"var OFF_PEAK = %s\n"+
		"var MID_PEAK = %s\n"+
		"var PEAK = %s\n"+
		"var MAX = %s\n"+
		"var COMBINE = %d\n",
		oneDP(th.Min), oneDP(th.SuperOffPeakLimit), oneDP(th.OffPeakLimit), oneDP(th.MidPeakLimit), oneDP(th.Max), combine)

	return os.WriteFile(path, []byte(content), 0644)
}
