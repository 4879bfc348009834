// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package mapquest

import (
	nominatim "github.com/wneessen/geocached/internal/geocode/provider/osm-nominatim"
)

const (
	APIBaseURL = "https://open.mapquestapi.com/nominatim/v1"
	name       = "mapquest"
)

// MapQuest is the commercial MapQuest Open Nominatim service. It shares URL layout
// and response shape with Nominatim and adds the API key to every request.
type MapQuest struct {
	*nominatim.Nominatim
}

// New returns a MapQuest adapter. An empty baseURL selects the public endpoint.
func New(baseURL, apikey string) *MapQuest {
	if baseURL == "" {
		baseURL = APIBaseURL
	}
	return &MapQuest{nominatim.NewCompatible(name, baseURL, apikey)}
}
