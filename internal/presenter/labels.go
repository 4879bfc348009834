// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import "github.com/vorlif/spreak/localize"

const (
	msgNoAddress  localize.MsgID = "No address found"
	msgCacheEmpty localize.MsgID = "The cache is empty"
	msgSwept      localize.MsgID = "Removed %d expired cache entries"
)

// addressLabels lists the address fields in output order.
var addressLabels = []struct {
	label localize.MsgID
	value func(field) string
}{
	{"Name", func(f field) string { return f.addr.FeatureName }},
	{"Street", func(f field) string { return f.addr.Thoroughfare }},
	{"District", func(f field) string { return f.addr.SubLocality }},
	{"Postal code", func(f field) string { return f.addr.PostalCode }},
	{"City", func(f field) string { return f.addr.Locality }},
	{"County", func(f field) string { return f.addr.SubAdminArea }},
	{"State", func(f field) string { return f.addr.AdminArea }},
	{"Country", func(f field) string { return f.addr.CountryName }},
	{"Country code", func(f field) string { return f.addr.CountryCode }},
	{"Coordinates", func(f field) string { return f.coordinates() }},
}

// rowLabels are the column headers of the cache listing.
var rowLabels = []localize.MsgID{"Coordinates", "Locale", "City", "Cached"}
