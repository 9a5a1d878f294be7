package main

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	httptransport "github.com/go-openapi/runtime/client"
	"github.com/go-openapi/strfmt"
	octopus "github.com/mgazza/go-octopus-energy/client"
	"github.com/mgazza/go-octopus-energy/client/products"

	"github.com/mgazza/agile-powerwall/tou"
)

// OctopusService handles interactions with the Octopus Energy API.
type OctopusService struct {
	Client *octopus.OctopusEnergyRESTAPI
}

// NewOctopusService creates a new OctopusService. Product and tariff endpoints are
// public, so apiKey may be empty.
func NewOctopusService(rt http.RoundTripper, apiKey string) *OctopusService {
	cfg := octopus.DefaultTransportConfig()
	transport := httptransport.New(cfg.Host, cfg.BasePath, cfg.Schemes)
	transport.Transport = rt
	if apiKey != "" {
		transport.DefaultAuthentication = httptransport.BasicAuth(apiKey, "")
	}

	client := octopus.New(transport, strfmt.Default)
	return &OctopusService{
		Client: client,
	}
}

// agileDayWindow returns the period Agile publishes as one day: 23:00 UTC on the
// offset date through 23:00 UTC the following day.
func agileDayWindow(now time.Time, dayOffset int) (time.Time, time.Time) {
	d := now.AddDate(0, 0, dayOffset)
	start := time.Date(d.Year(), d.Month(), d.Day(), 23, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

// FetchDayRates fetches one day of Agile unit rates for a tariff in a DNO area, sorted by
// start time. dayOffset 0 is the day published this afternoon, negative values are past
// days.
func (s *OctopusService) FetchDayRates(ctx context.Context, tariff, area string, dayOffset int, now time.Time) ([]tou.Interval, error) {
	if dayOffset > 0 {
		return nil, fmt.Errorf("%w: day_offset=%d", ErrInvalidOffset, dayOffset)
	}

	start, end := agileDayWindow(now, dayOffset)
	tariffCode := fmt.Sprintf("E-1R-%s-%s", tariff, area)

	rates, err := s.FetchTariffs(ctx, tariff, tariffCode, start, end)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: tariff %s from %s", ErrNoData, tariffCode, start.Format(time.RFC3339))
	}

	tou.SortByStart(rates)
	return rates, nil
}

// FetchTariffs fetches unit rates for the specified product and tariff with pagination.
func (s *OctopusService) FetchTariffs(ctx context.Context, productCode, tariffCode string, start, end time.Time) ([]tou.Interval, error) {
	var allTariffs []tou.Interval
	pageSize := int64(100) // two days of half-hour slots
	page := int64(1)

	params := products.NewListElectricityTariffStandardUnitRatesParams().
		WithContext(ctx).
		WithProductCode(productCode).
		WithTariffCode(tariffCode).
		WithPeriodFrom((*strfmt.DateTime)(&start)).
		WithPeriodTo((*strfmt.DateTime)(&end)).
		WithPageSize(&pageSize)

	for {
		params.WithPage(&page)
		response, err := s.Client.Products.ListElectricityTariffStandardUnitRates(params, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch tariffs: %w", err)
		}

		for _, rate := range response.Payload.Results {
			if rate.ValidFrom == nil || rate.ValidTo == nil {
				return nil, fmt.Errorf("rate %v has an open validity period", rate.ValueIncVat)
			}
			allTariffs = append(allTariffs, tou.Interval{
				ValidFrom:   time.Time(*rate.ValidFrom).UTC(),
				ValidTo:     time.Time(*rate.ValidTo).UTC(),
				PriceExcTax: rate.ValueExcVat,
				PriceIncTax: rate.ValueIncVat,
			})
		}

		if response.Payload.Next == nil {
			break
		}

		page++
	}

	return allTariffs, nil
}

// ListProducts returns the codes of all public Octopus products containing filter,
// case-insensitively.
func (s *OctopusService) ListProducts(ctx context.Context, filter string) ([]string, error) {
	response, err := s.Client.Products.ListProducts(products.NewListProductsParams().WithContext(ctx), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	var codes []string
	for _, p := range response.Payload.Results {
		if p.Code == nil {
			continue
		}
		if strings.Contains(strings.ToUpper(*p.Code), strings.ToUpper(filter)) {
			codes = append(codes, *p.Code)
		}
	}
	slices.Sort(codes)
	return codes, nil
}
