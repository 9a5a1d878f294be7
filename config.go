package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "AGILEWALL_"

// Config contains configuration for the application.
type Config struct {
	Tariff        string `json:"tariff"`
	Area          string `json:"area"`
	OctopusAPIKey string `json:"octopusApiKey"`

	TeslaID    string `json:"teslaId"`
	TeslaToken string `json:"teslaToken"`
	// TeslaCache is a teslapy style token cache keyed by account id.
	TeslaCache string `json:"teslaCache"`
	SiteID     string `json:"siteId"`
	Season     string `json:"season"`
	Timezone   string `json:"timezone"`

	Verbose     bool `json:"verbose"`
	ListOnly    bool `json:"listOnly"`
	Delta       int  `json:"delta"`
	PeakCombine bool `json:"peakCombine"`

	ChartDirectory string        `json:"chart"`
	MetricsFile    string        `json:"metricsFile"`
	CacheDirectory string        `json:"cache"`
	CacheMaxAge    time.Duration `json:"cacheMaxAge"`

	GivAPIKey string `json:"givApiKey"`
	GivSerial string `json:"givSerial"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	return &Config{
		TeslaCache:     "cache.json",
		Season:         "Summer",
		Timezone:       "Europe/London",
		CacheDirectory: "disable",
		CacheMaxAge:    6 * time.Hour,
	}
}

// configKeys maps the lowercased config keys to their json names.
func configKeys() map[string]string {
	keys := map[string]string{}
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("json"); tag != "" {
			keys[strings.ToLower(tag)] = tag
		}
	}
	return keys
}

// LoadConfig layers an optional YAML or JSON file and AGILEWALL_* environment variables
// over the defaults. Environment names drop underscores, so AGILEWALL_TESLA_TOKEN sets
// teslaToken.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	keys := configKeys()
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, envPrefix), "_", ""))
		if key, ok := keys[s]; ok {
			return key
		}
		return s
	}), nil); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Normalize applies the flag interactions: looking at a past day never updates the
// Powerwall, and listing always prints the details.
func (c *Config) Normalize() {
	if c.Delta != 0 {
		c.ListOnly = true
	}
	if c.ListOnly {
		c.Verbose = true
	}
}

// Validate reports every missing or inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Tariff == "" {
		errs = append(errs, errors.New("tariff is required"))
	}
	if c.Area == "" {
		errs = append(errs, errors.New("area is required"))
	}
	if c.TeslaID == "" && c.TeslaToken == "" {
		errs = append(errs, errors.New("tesla-id or tesla-token is required"))
	}
	if c.Delta < 0 {
		errs = append(errs, fmt.Errorf("%w: delta=%d", ErrInvalidOffset, c.Delta))
	}
	if (c.GivAPIKey == "") != (c.GivSerial == "") {
		errs = append(errs, errors.New("giv-apikey and giv-serial must be set together"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location is the zone the Powerwall schedule is expressed in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DayOffset is the day to fetch relative to today; Delta counts days into the past.
func (c *Config) DayOffset() int {
	return -c.Delta
}

// TeslaAccessToken returns the configured token, or looks up the account's access token
// in the token cache file.
func (c *Config) TeslaAccessToken() (string, error) {
	if c.TeslaToken != "" {
		return c.TeslaToken, nil
	}

	// Account ids are email addresses, so keys cannot be split on dots.
	k := koanf.New("/")
	if err := k.Load(file.Provider(c.TeslaCache), json.Parser()); err != nil {
		return "", fmt.Errorf("failed to read tesla token cache %s: %w", c.TeslaCache, err)
	}
	token := k.String(c.TeslaID + "/sso/access_token")
	if token == "" {
		return "", fmt.Errorf("no access token for %s in %s", c.TeslaID, c.TeslaCache)
	}
	return token, nil
}
