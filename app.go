package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/mgazza/agile-powerwall/tou"
)

// RateSource supplies one day of Agile rates.
type RateSource interface {
	FetchDayRates(ctx context.Context, tariff, area string, dayOffset int, now time.Time) ([]tou.Interval, error)
}

// TariffStore reads and writes the whole battery tariff.
type TariffStore interface {
	GetTariff(ctx context.Context) (Tariff, error)
	SetTariff(ctx context.Context, t Tariff) error
}

// UsageSource supplies half-hourly grid import for the usage report.
type UsageSource interface {
	FetchGridImport(ctx context.Context, serial string, from, to time.Time, loc *time.Location) (map[time.Time]float64, error)
}

// App manages application dependencies and logic.
type App struct {
	Config    *Config
	Log       Logger
	Out       io.Writer
	Location  *time.Location
	Now       func() time.Time
	Rates     RateSource
	Powerwall TariffStore
	// Usage is nil unless a GivEnergy inverter is configured.
	Usage UsageSource
}

// NewApp wires the remote services for a validated config.
func NewApp(config *Config, log Logger, out io.Writer) (*App, error) {
	loc, err := config.Location()
	if err != nil {
		return nil, err
	}

	rt, err := pricingTransport(config, log)
	if err != nil {
		return nil, err
	}

	token, err := config.TeslaAccessToken()
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    config,
		Log:       log,
		Out:       out,
		Location:  loc,
		Now:       time.Now,
		Rates:     NewOctopusService(rt, config.OctopusAPIKey),
		Powerwall: NewPowerwallService(http.DefaultTransport, token, config.SiteID),
	}
	if config.GivAPIKey != "" {
		app.Usage = NewGivEnergyService(http.DefaultTransport, config.GivAPIKey, log)
	}
	return app, nil
}

// pricingTransport returns the transport for the public pricing API, caching responses on
// disk unless the cache directory is "disable". An empty directory uses the temp dir.
func pricingTransport(config *Config, log Logger) (http.RoundTripper, error) {
	if config.CacheDirectory == "disable" {
		log.Debugf("HTTP caching disabled")
		return http.DefaultTransport, nil
	}

	cacheDir := config.CacheDirectory
	if cacheDir == "" {
		cacheDir = os.TempDir()
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	log.Infof("HTTP caching enabled in directory: %s", cacheDir)

	return &CachingRoundTripper{
		UnderlyingTransport: http.DefaultTransport,
		CacheDir:            path.Clean(cacheDir),
		MaxAge:              config.CacheMaxAge,
	}, nil
}

// Run fetches the day's rates, builds the time of use plan and, unless listing only,
// writes it to the Powerwall.
func (app *App) Run(ctx context.Context) error {
	cfg := app.Config
	app.Log.Infof("Tariff = %s", cfg.Tariff)
	app.Log.Infof("DNO Area = %s", cfg.Area)
	app.Log.Infof("Tesla ID = %s", cfg.TeslaID)

	intervals, err := app.Rates.FetchDayRates(ctx, cfg.Tariff, cfg.Area, cfg.DayOffset(), app.Now().In(app.Location))
	if err != nil {
		return fmt.Errorf("failed to fetch agile rates: %w", err)
	}
	if err := tou.CheckContiguous(intervals); err != nil {
		return err
	}

	plan, err := tou.BuildPlan(intervals, app.Location, cfg.PeakCombine)
	if err != nil {
		return fmt.Errorf("failed to build time of use plan: %w", err)
	}
	th := plan.Thresholds
	app.Log.Infof("rate_min=%v, rate_avg=%v, rate_max=%v, LIMIT_SUPER_OFF_PEAK=%v, LIMIT_OFF_PEAK=%v, LIMIT_MID_PEAK=%v",
		th.Min, th.Avg, th.Max, th.SuperOffPeakLimit, th.OffPeakLimit, th.MidPeakLimit)

	if cfg.Verbose {
		printPlan(app.Out, len(intervals), plan)
	}

	var usages []BandUsage
	if app.Usage != nil {
		imports, err := app.Usage.FetchGridImport(ctx, cfg.GivSerial, intervals[0].ValidFrom, intervals[len(intervals)-1].ValidTo, app.Location)
		if err != nil {
			app.Log.Warnf("Skipping grid usage report: %v", err)
		} else {
			usages = BandUsages(plan, imports)
			if cfg.Verbose {
				printUsage(app.Out, usages)
			}
		}
	}

	if cfg.ChartDirectory != "" {
		if err := exportChart(cfg.ChartDirectory, plan, app.Location, app.Log); err != nil {
			return fmt.Errorf("%w: %w", ErrChartExport, err)
		}
	}

	if cfg.MetricsFile != "" {
		if err := writeMetrics(cfg.MetricsFile, plan, usages); err != nil {
			app.Log.Warnf("Failed to write metrics to %s: %v", cfg.MetricsFile, err)
		}
	}

	// The update takes the whole tariff, so fetch it and change only our season.
	tariff, err := app.Powerwall.GetTariff(ctx)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printJSON(app.Out, "Energy Charges", section(tariff, "energy_charges", cfg.Season))
		printJSON(app.Out, "New ToU Rates", plan.Rates)
		printJSON(app.Out, "ToU Periods", section(tariff, "seasons", cfg.Season, "tou_periods"))
	}

	if err := ApplyPlan(tariff, cfg.Season, plan); err != nil {
		return fmt.Errorf("failed to update tariff: %w", err)
	}

	if cfg.Verbose {
		printJSON(app.Out, "Energy Charges (Updated)", section(tariff, "energy_charges", cfg.Season))
		printJSON(app.Out, "ToU Periods (Updated)", section(tariff, "seasons", cfg.Season, "tou_periods"))
	}

	if cfg.ListOnly {
		fmt.Fprintln(app.Out, "List Mode Complete - No Updates Applied.")
		return ErrListOnly
	}

	if err := app.Powerwall.SetTariff(ctx, tariff); err != nil {
		return err
	}

	fmt.Fprintln(app.Out, "Tesla Powerwall Battery Tariff data successfully updated.")
	return nil
}
