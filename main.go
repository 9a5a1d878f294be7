package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is set at build time.
var Version = "0.1"

func newRootCmd() *cobra.Command {
	var cfgPath string
	f := DefaultConfig()

	cmd := &cobra.Command{
		Use:           "agilewall",
		Short:         fmt.Sprintf("Octopus Agile to Tesla Powerwall Integration v%s", Version),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			applyFlags(cmd.Flags(), f, cfg)
			cfg.Normalize()
			if err := cfg.Validate(); err != nil {
				return err
			}

			app, err := NewApp(cfg, NewLogger("agilewall", cfg.Verbose), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&cfgPath, "config", "c", "", "optional YAML or JSON configuration file")
	fl.StringVarP(&f.Tariff, "tariff", "t", "", "Octopus Agile Tariff code, e.g. AGILE-23-12-06")
	fl.StringVarP(&f.Area, "area", "a", "", "DNO Area Code - see https://energy-stats.uk/dno-region-codes-explained/")
	fl.StringVarP(&f.TeslaID, "tesla-id", "i", "", "Tesla logon ID, used to find the access token in the token cache")
	fl.BoolVarP(&f.Verbose, "verbose", "v", false, "Verbose Output")
	fl.BoolVarP(&f.ListOnly, "list-only", "L", false, "List Changes, but don't send to Powerwall")
	fl.IntVarP(&f.Delta, "delta", "d", 0, "Days into the past to fetch Agile Schedule - Does not update Powerwall")
	fl.StringVar(&f.ChartDirectory, "chart", "", "directory to export chart data to")
	fl.BoolVarP(&f.PeakCombine, "peak-combine", "p", false, "combine Mid-Peak into Peak, both at the day's maximum rate")
	fl.StringVar(&f.TeslaToken, "tesla-token", "", "Tesla owner API access token (overrides the token cache)")
	fl.StringVar(&f.TeslaCache, "tesla-cache", f.TeslaCache, "teslapy style token cache file")
	fl.StringVar(&f.SiteID, "site-id", "", "Tesla energy site id (default: first site on the account)")
	fl.StringVar(&f.Season, "season", f.Season, "Powerwall tariff season to update")
	fl.StringVar(&f.Timezone, "timezone", f.Timezone, "time zone the Powerwall schedule is in")
	fl.StringVar(&f.OctopusAPIKey, "apikey", "", "Octopus API key (optional)")
	fl.StringVar(&f.CacheDirectory, "cache", f.CacheDirectory, "Directory for HTTP cache ('disable' to disable, empty for temporary directory)")
	fl.DurationVar(&f.CacheMaxAge, "cache-max-age", f.CacheMaxAge, "maximum age of cached rate responses")
	fl.StringVar(&f.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	fl.StringVar(&f.GivAPIKey, "giv-apikey", "", "GivEnergy API key, enables the grid usage report")
	fl.StringVar(&f.GivSerial, "giv-serial", "", "GivEnergy inverter serial number")

	cmd.AddCommand(newProductsCmd())
	return cmd
}

// applyFlags copies the flags given on the command line over cfg.
func applyFlags(fl *pflag.FlagSet, f, cfg *Config) {
	overrides := map[string]func(){
		"tariff":        func() { cfg.Tariff = f.Tariff },
		"area":          func() { cfg.Area = f.Area },
		"tesla-id":      func() { cfg.TeslaID = f.TeslaID },
		"verbose":       func() { cfg.Verbose = f.Verbose },
		"list-only":     func() { cfg.ListOnly = f.ListOnly },
		"delta":         func() { cfg.Delta = f.Delta },
		"chart":         func() { cfg.ChartDirectory = f.ChartDirectory },
		"peak-combine":  func() { cfg.PeakCombine = f.PeakCombine },
		"tesla-token":   func() { cfg.TeslaToken = f.TeslaToken },
		"tesla-cache":   func() { cfg.TeslaCache = f.TeslaCache },
		"site-id":       func() { cfg.SiteID = f.SiteID },
		"season":        func() { cfg.Season = f.Season },
		"timezone":      func() { cfg.Timezone = f.Timezone },
		"apikey":        func() { cfg.OctopusAPIKey = f.OctopusAPIKey },
		"cache":         func() { cfg.CacheDirectory = f.CacheDirectory },
		"cache-max-age": func() { cfg.CacheMaxAge = f.CacheMaxAge },
		"metrics-file":  func() { cfg.MetricsFile = f.MetricsFile },
		"giv-apikey":    func() { cfg.GivAPIKey = f.GivAPIKey },
		"giv-serial":    func() { cfg.GivSerial = f.GivSerial },
	}
	for name, set := range overrides {
		if fl.Changed(name) {
			set()
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil && !errors.Is(err, ErrListOnly) {
		NewLogger("main", false).Errorf("Application error: %v", err)
	}
	os.Exit(exitCode(err))
}
