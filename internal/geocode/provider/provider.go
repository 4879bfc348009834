// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package provider selects the geocode.Provider adapter for a configured provider name.
package provider

import (
	"fmt"

	"github.com/wneessen/geocached/internal/config"
	"github.com/wneessen/geocached/internal/geocode"
	geocodeearth "github.com/wneessen/geocached/internal/geocode/provider/geocode-earth"
	"github.com/wneessen/geocached/internal/geocode/provider/mapquest"
	"github.com/wneessen/geocached/internal/geocode/provider/opencage"
	nominatim "github.com/wneessen/geocached/internal/geocode/provider/osm-nominatim"
)

// New returns the adapter configured in conf.
func New(conf *config.Config) (geocode.Provider, error) {
	switch conf.GeoCoder.Provider {
	case config.ProviderNominatim:
		return nominatim.New(conf.GeoCoder.BaseURL), nil
	case config.ProviderMapQuest:
		return mapquest.New(conf.GeoCoder.BaseURL, conf.GeoCoder.APIKey), nil
	case config.ProviderOpenCage:
		return opencage.New(conf.GeoCoder.BaseURL, conf.GeoCoder.APIKey), nil
	case config.ProviderGeocodeEarth:
		return geocodeearth.New(conf.GeoCoder.BaseURL, conf.GeoCoder.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported geocoder provider: %s", conf.GeoCoder.Provider)
	}
}
