package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	httptransport "github.com/go-openapi/runtime/client"
	strfmt "github.com/go-openapi/strfmt"
	giv "github.com/mgazza/go-givenergy/client"
	"github.com/mgazza/go-givenergy/client/inverter_data"

	"github.com/mgazza/agile-powerwall/tou"
)

const halfHour = 30 * time.Minute

// GivEnergyService handles interactions with the GivEnergy API.
type GivEnergyService struct {
	Client *giv.GivEnergyAPIDocumentationV1350
	Log    Logger
}

// NewGivEnergyService creates a new GivEnergyService with pre-configured authentication.
func NewGivEnergyService(tr http.RoundTripper, bearerToken string, log Logger) *GivEnergyService {
	cfg := giv.DefaultTransportConfig()
	transport := httptransport.New(cfg.Host, cfg.BasePath, cfg.Schemes)
	transport.Transport = tr
	transport.DefaultAuthentication = httptransport.BearerToken(bearerToken)

	client := giv.New(transport, strfmt.Default)
	return &GivEnergyService{
		Client: client,
		Log:    log,
	}
}

// FetchGridImport returns the grid import in kWh of each half hour in [from, to), keyed
// by the UTC start of the half hour. Inverter data is requested per date in loc.
func (s *GivEnergyService) FetchGridImport(ctx context.Context, serial string, from, to time.Time, loc *time.Location) (map[time.Time]float64, error) {
	total := 0
	pageSize := int64(500)

	// Lowest cumulative meter reading seen in each half hour.
	cumulative := map[time.Time]float64{}

	last := to.In(loc)
	for day := truncateToMidnight(from.In(loc)); !day.After(last); day = day.AddDate(0, 0, 1) {
		s.Log.Debugf("Getting inverter data for %s", day.Format("2006-01-02"))
		page := int64(1)
		params := inverter_data.NewGetDataPoints2Params().
			WithContext(ctx).
			WithDate(day.Format("2006-01-02")).
			WithInverterSerialNumber(serial).
			WithPageSize(&pageSize)

		for {
			params.WithPage(&page)
			response, err := s.Client.InverterData.GetDataPoints2(params, nil)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch inverter data: %w", err)
			}

			for _, d := range response.Payload.Data {
				total++
				hf := time.Time(d.Time).Truncate(halfHour).UTC()
				imported := d.Total.Grid.Import

				if v, ok := cumulative[hf]; !ok || imported < v {
					cumulative[hf] = imported
				}
			}

			if response.Payload.Meta.CurrentPage == response.Payload.Meta.LastPage {
				break
			}
			page++
		}
	}
	s.Log.Debugf("Fetched %d GivEnergy records", total)

	imports := map[time.Time]float64{}
	for t := from.UTC(); t.Before(to); t = t.Add(halfHour) {
		start, ok := cumulative[t]
		end, okNext := cumulative[t.Add(halfHour)]
		if ok && okNext {
			imports[t] = end - start
		}
	}
	return imports, nil
}

// BandUsage is the grid import and its cost within one band.
type BandUsage struct {
	Band      tou.Band
	KWh       float64
	CostPence float64
}

// BandUsages attributes half-hourly grid imports to the plan's bands at each slot's price.
func BandUsages(plan *tou.Plan, imports map[time.Time]float64) []BandUsage {
	usages := make([]BandUsage, 0, len(plan.Bands))
	for _, bp := range plan.Bands {
		u := BandUsage{Band: bp.Band}
		for _, slot := range bp.Slots {
			for t := slot.ValidFrom; t.Before(slot.ValidTo); t = t.Add(halfHour) {
				kwh := imports[t]
				u.KWh += kwh
				u.CostPence += kwh * slot.PriceIncTax
			}
		}
		usages = append(usages, u)
	}
	return usages
}

func truncateToMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
