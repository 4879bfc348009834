// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Xuanwo/go-locale"
	"github.com/kkyr/fig"
)

const (
	configEnv = "GEOCACHED"

	ProviderNominatim    = "osm-nominatim"
	ProviderMapQuest     = "mapquest"
	ProviderOpenCage     = "opencage"
	ProviderGeocodeEarth = "geocode-earth"

	WakeNone    = "nowakeup"
	WakePartial = "wakeuppartial"
	WakeFull    = "wakeupfull"
)

// Config represents the application's configuration structure. A loaded Config is
// treated as an immutable snapshot, changes are applied by loading a new one.
type Config struct {
	Locale         string        `fig:"locale"`
	LogLevel       slog.Level    `fig:"loglevel" default:"0"`
	ReloadInterval time.Duration `fig:"reload_interval" default:"1m"`

	GeoCoder struct {
		// Allowed values: osm-nominatim, mapquest, opencage, geocode-earth
		Provider         string `fig:"provider" default:"osm-nominatim"`
		APIKey           string `fig:"apikey"`
		BaseURL          string `fig:"base_url"`
		DisableFormatter bool   `fig:"disable_formatter"`
	} `fig:"geocoder"`

	Cache struct {
		Disable       bool          `fig:"disable"`
		TTL           time.Duration `fig:"ttl" default:"720h"`
		Path          string        `fig:"path"`
		SweepInterval time.Duration `fig:"sweep_interval" default:"1h"`
	} `fig:"cache"`

	HTTP struct {
		ConnectTimeout time.Duration `fig:"connect_timeout" default:"30s"`
		ReadTimeout    time.Duration `fig:"read_timeout" default:"30s"`
	} `fig:"http"`

	Wake struct {
		// Allowed values: nowakeup, wakeuppartial, wakeupfull
		Strategy string `fig:"strategy" default:"nowakeup"`
	} `fig:"wake"`

	Server struct {
		Addr string `fig:"addr" default:"127.0.0.1:8087"`
	} `fig:"server"`
}

// NewFromFile loads the configuration from the given file in path, applying environment
// overrides on top.
func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// New loads the configuration from defaults and environment variables only.
func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	c.GeoCoder.Provider = strings.ToLower(c.GeoCoder.Provider)
	switch c.GeoCoder.Provider {
	case ProviderNominatim:
	case ProviderMapQuest, ProviderOpenCage, ProviderGeocodeEarth:
		if c.GeoCoder.APIKey == "" {
			return fmt.Errorf("geocoder %s requires an API key", c.GeoCoder.Provider)
		}
	default:
		return fmt.Errorf("unsupported geocoder provider: %s", c.GeoCoder.Provider)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("invalid cache TTL: %s", c.Cache.TTL)
	}
	if c.Cache.SweepInterval <= 0 {
		return fmt.Errorf("invalid cache sweep interval: %s", c.Cache.SweepInterval)
	}
	if c.HTTP.ConnectTimeout <= 0 || c.HTTP.ReadTimeout <= 0 {
		return fmt.Errorf("invalid HTTP timeouts: connect=%s, read=%s", c.HTTP.ConnectTimeout,
			c.HTTP.ReadTimeout)
	}
	c.Wake.Strategy = strings.ToLower(c.Wake.Strategy)
	switch c.Wake.Strategy {
	case WakeNone, WakePartial, WakeFull:
	default:
		return fmt.Errorf("invalid wake strategy: %s", c.Wake.Strategy)
	}
	if c.Locale == "" {
		c.Locale = getLocale()
	}

	return nil
}

// CacheEnabled reports whether reverse geocoding results may be read from and written
// to the spatial cache.
func (c *Config) CacheEnabled() bool {
	return !c.Cache.Disable
}

// FormatterEnabled reports whether the address formatter should be used during
// normalization.
func (c *Config) FormatterEnabled() bool {
	return !c.GeoCoder.DisableFormatter
}

func getLocale() string {
	tag, err := locale.Detect()
	if err != nil {
		return "en"
	}
	return tag.String()
}
