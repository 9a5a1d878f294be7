package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/mgazza/agile-powerwall/tou"
)

// Helper function to format float64 values with precision
func formatFloat(val float64, precision int) string {
	formatStr := fmt.Sprintf("%%.%df", precision)
	return fmt.Sprintf(formatStr, val)
}

// Write classified slots to a CSV file, one row per slot in time order.
func writeCSV(filename string, slots []tou.Interval, loc *time.Location) error {
	if len(slots) == 0 {
		return fmt.Errorf("no slots to write")
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{
		"Valid_From",
		"Valid_To",
		"Local_From",
		"Local_To",
		"Price_Exc_VAT",
		"Price_Inc_VAT",
		"Band",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, s := range slots {
		record := []string{
			s.ValidFrom.Format(time.RFC3339),
			s.ValidTo.Format(time.RFC3339),
			s.ValidFrom.In(loc).Format("15:04"),
			s.ValidTo.In(loc).Format("15:04"),
			formatFloat(s.PriceExcTax, 4),
			formatFloat(s.PriceIncTax, 4),
			s.Band.Key(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
