package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-openapi/runtime"
	httptransport "github.com/go-openapi/runtime/client"
	"github.com/go-openapi/strfmt"

	"github.com/mgazza/agile-powerwall/tou"
)

const teslaOwnerAPIHost = "owner-api.teslamotors.com"

// Tariff is the Powerwall battery tariff document. Only the energy charges and time of
// use periods of one season are ever changed; everything else is written back as read.
type Tariff map[string]any

type teslaResponse[T any] struct {
	Response T `json:"response"`
}

type teslaUpdateResult struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// PowerwallService reads and writes the tariff of a Tesla energy site.
type PowerwallService struct {
	Runtime *httptransport.Runtime
	SiteID  string
}

// NewPowerwallService creates a PowerwallService authenticated with an owner API access
// token. An empty siteID is resolved from the account's products on first use.
func NewPowerwallService(rt http.RoundTripper, accessToken, siteID string) *PowerwallService {
	transport := httptransport.New(teslaOwnerAPIHost, "/", []string{"https"})
	transport.Transport = rt
	transport.DefaultAuthentication = httptransport.BearerToken(accessToken)

	return &PowerwallService{
		Runtime: transport,
		SiteID:  siteID,
	}
}

func (s *PowerwallService) call(ctx context.Context, id, method, path string, body, out any) error {
	_, err := s.Runtime.Submit(&runtime.ClientOperation{
		ID:                 id,
		Method:             method,
		PathPattern:        path,
		ProducesMediaTypes: []string{runtime.JSONMime},
		ConsumesMediaTypes: []string{runtime.JSONMime},
		Schemes:            []string{"https"},
		Params: runtime.ClientRequestWriterFunc(func(r runtime.ClientRequest, _ strfmt.Registry) error {
			if s.SiteID != "" {
				if err := r.SetPathParam("site_id", s.SiteID); err != nil {
					return err
				}
			}
			if body != nil {
				return r.SetBodyParam(body)
			}
			return nil
		}),
		Reader: runtime.ClientResponseReaderFunc(func(resp runtime.ClientResponse, consumer runtime.Consumer) (any, error) {
			if resp.Code()/100 != 2 {
				return nil, runtime.NewAPIError(id, resp.Message(), resp.Code())
			}
			if err := consumer.Consume(resp.Body(), out); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return out, nil
		}),
		Context: ctx,
	})
	return err
}

// ResolveSite picks the first energy site on the account.
func (s *PowerwallService) ResolveSite(ctx context.Context) error {
	var res teslaResponse[[]map[string]any]
	if err := s.call(ctx, "listProducts", http.MethodGet, "/api/1/products", nil, &res); err != nil {
		return fmt.Errorf("failed to list tesla products: %w", err)
	}

	for _, p := range res.Response {
		if id, ok := p["energy_site_id"]; ok && id != nil {
			s.SiteID = fmt.Sprint(id)
			return nil
		}
	}
	return errors.New("no energy site found on the tesla account")
}

// GetTariff fetches the full battery tariff of the site.
func (s *PowerwallService) GetTariff(ctx context.Context) (Tariff, error) {
	if s.SiteID == "" {
		if err := s.ResolveSite(ctx); err != nil {
			return nil, err
		}
	}

	var res teslaResponse[Tariff]
	if err := s.call(ctx, "getSiteTariff", http.MethodGet, "/api/1/energy_sites/{site_id}/tariff_rate", nil, &res); err != nil {
		return nil, fmt.Errorf("failed to fetch powerwall tariff: %w", err)
	}
	if res.Response == nil {
		return nil, errors.New("powerwall returned an empty tariff")
	}
	return res.Response, nil
}

// SetTariff writes back the whole tariff. Any answer other than "Updated" is a rejection.
func (s *PowerwallService) SetTariff(ctx context.Context, t Tariff) error {
	if s.SiteID == "" {
		if err := s.ResolveSite(ctx); err != nil {
			return err
		}
	}

	body := map[string]any{
		"tou_settings": map[string]any{"tariff_content": t},
	}
	var res teslaResponse[teslaUpdateResult]
	if err := s.call(ctx, "setTimeOfUseSettings", http.MethodPost, "/api/1/energy_sites/{site_id}/time_of_use_settings", body, &res); err != nil {
		var apiErr *runtime.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("%w: %v", ErrApplyRejected, err)
		}
		return fmt.Errorf("failed to send powerwall tariff: %w", err)
	}
	if res.Response.Message != "Updated" {
		return fmt.Errorf("%w: response %q", ErrApplyRejected, res.Response.Message)
	}
	return nil
}

// ApplyPlan replaces the season's energy charges and time of use periods with the plan.
func ApplyPlan(t Tariff, season string, plan *tou.Plan) error {
	charges, err := child(t, "energy_charges")
	if err != nil {
		return err
	}
	charges[season] = plan.Rates

	periods, err := descend(t, "seasons", season, "tou_periods")
	if err != nil {
		return err
	}
	for _, bp := range plan.Bands {
		periods[bp.Band.Key()] = bp.Schedule
	}
	return nil
}

// section returns the value at path without creating anything.
func section(t Tariff, path ...string) any {
	var v any = map[string]any(t)
	for _, key := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[key]
	}
	return v
}

func descend(m map[string]any, path ...string) (map[string]any, error) {
	var err error
	for _, key := range path {
		if m, err = child(m, key); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// child returns m[key] as an object, creating it when absent.
func child(m map[string]any, key string) (map[string]any, error) {
	v, ok := m[key]
	if !ok || v == nil {
		c := map[string]any{}
		m[key] = c
		return c, nil
	}
	c, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("tariff field %q is %T, not an object", key, v)
	}
	return c, nil
}
