// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nominatim

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/wneessen/geocached/internal/geocode"
)

const (
	APIBaseURL = "https://nominatim.openstreetmap.org"
	name       = "osm-nominatim"
)

// Nominatim builds requests for the Nominatim API and services that are compatible
// with it.
type Nominatim struct {
	name     string
	baseURL  string
	keyQuery string
}

// New returns an adapter for the public OpenStreetMap Nominatim instance, or the
// instance at baseURL if it is not empty.
func New(baseURL string) *Nominatim {
	if baseURL == "" {
		baseURL = APIBaseURL
	}
	return &Nominatim{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// NewCompatible returns an adapter for a Nominatim compatible service that expects
// an API key as "key" query parameter.
func NewCompatible(name, baseURL, apikey string) *Nominatim {
	return &Nominatim{
		name:     name,
		baseURL:  strings.TrimRight(baseURL, "/"),
		keyQuery: "key=" + url.QueryEscape(apikey) + "&",
	}
}

func (n *Nominatim) Name() string {
	return n.name
}

func (n *Nominatim) ReverseURL(coord geocode.Coordinate, locale language.Tag) string {
	return fmt.Sprintf("%s/reverse?%sformat=json&accept-language=%s&lat=%s&lon=%s", n.baseURL, n.keyQuery,
		geocode.PrimaryLanguage(locale), geocode.FormatDegrees(coord.Lat), geocode.FormatDegrees(coord.Lon))
}

func (n *Nominatim) SearchURL(query string, max int, box geocode.BoundingBox, locale language.Tag) string {
	endpoint := fmt.Sprintf("%s/search?%sformat=json&accept-language=%s&addressdetails=1&bounded=1&q=%s&limit=%d",
		n.baseURL, n.keyQuery, geocode.PrimaryLanguage(locale), geocode.EscapeQuery(query), max)
	if box.IsZero() {
		return endpoint
	}

	// viewbox is left,top,right,bottom
	return endpoint + fmt.Sprintf("&viewbox=%s,%s,%s,%s",
		geocode.FormatDegrees(box.LowerLeftLon),
		geocode.FormatDegrees(box.UpperRightLat),
		geocode.FormatDegrees(box.UpperRightLon),
		geocode.FormatDegrees(box.LowerLeftLat),
	)
}

func (n *Nominatim) Fields() geocode.FieldTable {
	return geocode.FieldTable{
		Latitude:  "lat",
		Longitude: "lon",
		Address:   "address",
		Components: map[geocode.Field][]string{
			geocode.FieldThoroughfare: {"road"},
			geocode.FieldSubLocality:  {"suburb"},
			geocode.FieldPostalCode:   {"postcode"},
			geocode.FieldLocality:     {"city", "town", "village"},
			geocode.FieldSubAdminArea: {"county"},
			geocode.FieldAdminArea:    {"state"},
			geocode.FieldCountryName:  {"country"},
			geocode.FieldCountryCode:  {"country_code"},
		},
	}
}
