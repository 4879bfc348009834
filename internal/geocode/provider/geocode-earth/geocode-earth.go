// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocodeearth

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/wneessen/geocached/internal/geocode"
)

const (
	APIBaseURL = "https://api.geocode.earth/v1"
	name       = "geocode-earth"
)

// GeocodeEarth builds requests for the Pelias based geocode.earth API. Responses are
// GeoJSON feature collections with [lon, lat] point coordinates.
type GeocodeEarth struct {
	apikey  string
	baseURL string
}

func New(baseURL, apikey string) *GeocodeEarth {
	if baseURL == "" {
		baseURL = APIBaseURL
	}
	return &GeocodeEarth{
		apikey:  apikey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (g *GeocodeEarth) Name() string {
	return name
}

func (g *GeocodeEarth) ReverseURL(coord geocode.Coordinate, locale language.Tag) string {
	query := g.query(locale)
	query.Set("point.lat", geocode.FormatDegrees(coord.Lat))
	query.Set("point.lon", geocode.FormatDegrees(coord.Lon))
	query.Set("size", "1")
	return g.baseURL + "/reverse?" + geocode.EncodeQuery(query)
}

func (g *GeocodeEarth) SearchURL(q string, max int, box geocode.BoundingBox, locale language.Tag) string {
	query := g.query(locale)
	query.Set("text", q)
	query.Set("size", strconv.Itoa(max))
	if !box.IsZero() {
		query.Set("boundary.rect.min_lat", geocode.FormatDegrees(box.LowerLeftLat))
		query.Set("boundary.rect.min_lon", geocode.FormatDegrees(box.LowerLeftLon))
		query.Set("boundary.rect.max_lat", geocode.FormatDegrees(box.UpperRightLat))
		query.Set("boundary.rect.max_lon", geocode.FormatDegrees(box.UpperRightLon))
	}
	return g.baseURL + "/search?" + geocode.EncodeQuery(query)
}

func (g *GeocodeEarth) Fields() geocode.FieldTable {
	return geocode.FieldTable{
		Results:   "features",
		Single:    "features.0",
		Latitude:  "geometry.coordinates.1",
		Longitude: "geometry.coordinates.0",
		Address:   "properties",
		Components: map[geocode.Field][]string{
			geocode.FieldThoroughfare: {"street"},
			geocode.FieldSubLocality:  {"borough", "neighbourhood"},
			geocode.FieldPostalCode:   {"postalcode"},
			geocode.FieldLocality:     {"locality", "localadmin"},
			geocode.FieldSubAdminArea: {"county"},
			geocode.FieldAdminArea:    {"region"},
			geocode.FieldCountryName:  {"country"},
			geocode.FieldCountryCode:  {"country_code"},
		},
	}
}

func (g *GeocodeEarth) query(locale language.Tag) url.Values {
	query := url.Values{}
	query.Set("api_key", g.apikey)
	query.Set("lang", geocode.PrimaryLanguage(locale))
	return query
}
