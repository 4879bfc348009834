// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package opencage

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/wneessen/geocached/internal/geocode"
)

const (
	APIBaseURL = "https://api.opencagedata.com/geocode/v1"
	name       = "opencage"
)

type OpenCage struct {
	apikey  string
	baseURL string
}

func New(baseURL, apikey string) *OpenCage {
	if baseURL == "" {
		baseURL = APIBaseURL
	}
	return &OpenCage{
		apikey:  apikey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (o *OpenCage) Name() string {
	return name
}

func (o *OpenCage) ReverseURL(coord geocode.Coordinate, locale language.Tag) string {
	query := o.query(locale)
	query.Set("q", geocode.FormatDegrees(coord.Lat)+","+geocode.FormatDegrees(coord.Lon))
	query.Set("limit", "1")
	return o.baseURL + "/json?" + geocode.EncodeQuery(query)
}

func (o *OpenCage) SearchURL(q string, max int, box geocode.BoundingBox, locale language.Tag) string {
	query := o.query(locale)
	query.Set("q", q)
	query.Set("limit", strconv.Itoa(max))
	if !box.IsZero() {
		// bounds is min_lon,min_lat,max_lon,max_lat
		query.Set("bounds", strings.Join([]string{
			geocode.FormatDegrees(box.LowerLeftLon),
			geocode.FormatDegrees(box.LowerLeftLat),
			geocode.FormatDegrees(box.UpperRightLon),
			geocode.FormatDegrees(box.UpperRightLat),
		}, ","))
	}
	return o.baseURL + "/json?" + geocode.EncodeQuery(query)
}

func (o *OpenCage) Fields() geocode.FieldTable {
	return geocode.FieldTable{
		Results:   "results",
		Single:    "results.0",
		Latitude:  "geometry.lat",
		Longitude: "geometry.lng",
		Address:   "components",
		Components: map[geocode.Field][]string{
			geocode.FieldThoroughfare: {"road"},
			geocode.FieldSubLocality:  {"suburb", "city_district"},
			geocode.FieldPostalCode:   {"postcode"},
			geocode.FieldLocality:     {"city", "town", "village"},
			geocode.FieldSubAdminArea: {"county"},
			geocode.FieldAdminArea:    {"state"},
			geocode.FieldCountryName:  {"country"},
			geocode.FieldCountryCode:  {"country_code"},
		},
	}
}

func (o *OpenCage) query(locale language.Tag) url.Values {
	query := url.Values{}
	query.Set("key", o.apikey)
	query.Set("language", geocode.PrimaryLanguage(locale))
	query.Set("no_annotations", "1")
	query.Set("no_record", "1")
	return query
}
