// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

var (
	// ErrInvalidLocale is returned when a caller supplied locale tag can not be parsed.
	ErrInvalidLocale = errors.New("invalid locale tag")
	// ErrNoResult indicates that the provider response did not contain a usable address.
	ErrNoResult = errors.New("no usable address in provider response")
	// ErrFetchFailed indicates that the HTTP round trip to the provider failed.
	ErrFetchFailed = errors.New("failed to fetch provider response")
	// ErrInvalidCoordinate is returned for positions that are not finite or lie outside
	// the WGS84 range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// Coordinate is a WGS84 position. Values coming from providers are not validated.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks that latitude and longitude are finite and within [-90,90] and
// [-180,180].
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, c.Lat)
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, c.Lon)
	}
	return nil
}

// Address is the canonical representation of a resolved address. Empty strings
// represent unset fields.
type Address struct {
	Locale       language.Tag `json:"locale"`
	Coordinate   Coordinate   `json:"coordinate"`
	Thoroughfare string       `json:"thoroughfare,omitempty"`
	SubLocality  string       `json:"sub_locality,omitempty"`
	PostalCode   string       `json:"postal_code,omitempty"`
	Locality     string       `json:"locality,omitempty"`
	SubAdminArea string       `json:"sub_admin_area,omitempty"`
	AdminArea    string       `json:"admin_area,omitempty"`
	CountryName  string       `json:"country_name,omitempty"`
	CountryCode  string       `json:"country_code,omitempty"`
	FeatureName  string       `json:"feature_name,omitempty"`
	AddressLines []string     `json:"address_lines,omitempty"`
}

// BoundingBox restricts a forward search to a geographic rectangle. The zero value
// means no restriction.
type BoundingBox struct {
	LowerLeftLat  float64 `json:"ll_lat"`
	LowerLeftLon  float64 `json:"ll_lon"`
	UpperRightLat float64 `json:"ur_lat"`
	UpperRightLon float64 `json:"ur_lon"`
}

// Validate checks both corners of a non-zero box.
func (b BoundingBox) Validate() error {
	if b.IsZero() {
		return nil
	}
	if err := (Coordinate{Lat: b.LowerLeftLat, Lon: b.LowerLeftLon}).Validate(); err != nil {
		return err
	}
	return Coordinate{Lat: b.UpperRightLat, Lon: b.UpperRightLon}.Validate()
}

// IsZero reports whether all four edges are zero.
func (b BoundingBox) IsZero() bool {
	return b.LowerLeftLat == 0 && b.LowerLeftLon == 0 && b.UpperRightLat == 0 && b.UpperRightLon == 0
}

// Geocoder resolves coordinates to addresses and place names to coordinates. A nil
// slice with a nil error means that no address could be resolved.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64, max int, locale string) ([]Address, error)
	Search(ctx context.Context, query string, max int, box BoundingBox, locale string) ([]Address, error)
}

// FormatDegrees renders a coordinate component with six decimals, independent of
// any locale settings.
func FormatDegrees(val float64) string {
	return strconv.FormatFloat(val, 'f', 6, 64)
}

// EscapeQuery percent-encodes a query value. Spaces are encoded as %20.
func EscapeQuery(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

// EncodeQuery encodes the given values in key order, using EscapeQuery semantics.
func EncodeQuery(values url.Values) string {
	return strings.ReplaceAll(values.Encode(), "+", "%20")
}
