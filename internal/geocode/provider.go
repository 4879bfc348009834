// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"golang.org/x/text/language"
)

// Field is a canonical address attribute that a provider maps onto its own keys.
type Field string

const (
	FieldThoroughfare Field = "thoroughfare"
	FieldSubLocality  Field = "sub_locality"
	FieldPostalCode   Field = "postal_code"
	FieldLocality     Field = "locality"
	FieldSubAdminArea Field = "sub_admin_area"
	FieldAdminArea    Field = "admin_area"
	FieldCountryName  Field = "country_name"
	FieldCountryCode  Field = "country_code"
)

// FieldTable describes where a provider keeps its data in a JSON response. Paths are
// dot separated and may contain array indices ("features.0.geometry"). An empty path
// refers to the document root.
type FieldTable struct {
	// Results points to the array holding forward search results.
	Results string
	// Single points to the object holding a reverse geocoding result.
	Single string

	Latitude  string
	Longitude string
	Address   string

	// Components maps each canonical field to the ordered list of candidate keys
	// inside the address object. The first present key wins.
	Components map[Field][]string
}

// Provider builds request URLs for a remote geocoding service and describes its
// response layout.
type Provider interface {
	Name() string
	ReverseURL(coord Coordinate, locale language.Tag) string
	SearchURL(query string, max int, box BoundingBox, locale language.Tag) string
	Fields() FieldTable
}
