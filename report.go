package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mgazza/agile-powerwall/tou"
)

func printRateSlots(w io.Writer, name string, slots []tou.Interval) {
	fmt.Fprintf(w, "[%s Slots = %d]\n", name, len(slots))
	for _, s := range slots {
		fmt.Fprintln(w, s)
	}
}

func printTOU(w io.Writer, name string, avgRate float64, entries []tou.ScheduleEntry) {
	fmt.Fprintf(w, "Average %s Slot Rate = %vp\n", name, avgRate)
	for _, e := range entries {
		fmt.Fprintln(w, e)
	}
}

func printHeading(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	for range title {
		fmt.Fprint(w, "=")
	}
	fmt.Fprintln(w)
}

func printJSON(w io.Writer, title string, v any) {
	printHeading(w, title)
	b, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		fmt.Fprintf(w, "<%v>\n", err)
		return
	}
	fmt.Fprintln(w, string(b))
}

// printPlan lists the classified slots, the merged ranges and the periods of each band.
func printPlan(w io.Writer, total int, plan *tou.Plan) {
	fmt.Fprintln(w)
	printHeading(w, fmt.Sprintf("Time Slots: %d", total))
	for _, bp := range plan.Bands {
		printRateSlots(w, bp.Band.String(), bp.Slots)
	}

	fmt.Fprintln(w)
	printHeading(w, fmt.Sprintf("Merged Slots: %d", plan.RangeCount()))
	for _, bp := range plan.Bands {
		printRateSlots(w, bp.Band.String(), bp.Ranges)
	}

	for _, bp := range plan.Bands {
		printTOU(w, bp.Band.String(), bp.AverageRate, bp.Schedule)
	}
}

func printUsage(w io.Writer, usages []BandUsage) {
	printHeading(w, "Grid Import by Band")
	for _, u := range usages {
		fmt.Fprintf(w, "%s: %.3f kWh, %.2fp\n", u.Band, u.KWh, u.CostPence)
	}
}
