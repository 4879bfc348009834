// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package format renders address display lines from raw provider address components
// using per-country text templates.
package format

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// DefaultCountry is the template key used for countries without a dedicated layout.
const DefaultCountry = "default"

// countryTemplates are keyed by lower-case ISO 3166-1 alpha-2 country code.
var countryTemplates = map[string]string{
	DefaultCountry: `{{ first . "road" "street" "pedestrian" "footway" }} {{ first . "house_number" "housenumber" }}
{{ first . "postcode" "postalcode" }} {{ locality . }}
{{ first . "state" "region" }}
{{ .country }}`,
	"de": germanic,
	"at": germanic,
	"ch": germanic,
	"nl": germanic,
	"dk": germanic,
	"us": `{{ first . "house_number" "housenumber" }} {{ first . "road" "street" }}
{{ join ", " (locality .) (first . "state_code" "region_a" "state" "region") }} {{ first . "postcode" "postalcode" }}
{{ .country }}`,
	"gb": `{{ first . "house_number" "housenumber" }} {{ first . "road" "street" }}
{{ locality . }}
{{ .county }}
{{ first . "postcode" "postalcode" }}
{{ .country }}`,
	"fr": `{{ first . "house_number" "housenumber" }} {{ first . "road" "street" }}
{{ first . "postcode" "postalcode" }} {{ locality . }}
{{ .country }}`,
}

const germanic = `{{ first . "road" "street" "pedestrian" }} {{ first . "house_number" "housenumber" }}
{{ first . "postcode" "postalcode" }} {{ locality . }}
{{ .country }}`

// nameKeys lists the address keys consulted by GuessName, in order.
var nameKeys = []string{
	"name", "building", "amenity", "shop", "tourism", "leisure", "office", "attraction",
	"house_name", "neighbourhood", "quarter", "suburb",
}

// Formatter implements the normalize.Formatter interface.
type Formatter struct {
	templates map[string]*template.Template
}

// New parses all country templates.
func New() (*Formatter, error) {
	f := &Formatter{templates: make(map[string]*template.Template, len(countryTemplates))}
	for country, text := range countryTemplates {
		tpl, err := template.New(country).Funcs(funcMap()).Option("missingkey=zero").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse address template for %s: %w", country, err)
		}
		f.templates[country] = tpl
	}
	return f, nil
}

// FormatAddress renders the address lines for the given components. Empty lines are
// dropped. It returns nil if rendering fails.
func (f *Formatter) FormatAddress(components map[string]string) []string {
	tpl, ok := f.templates[strings.ToLower(components["country_code"])]
	if !ok {
		tpl = f.templates[DefaultCountry]
	}

	buf := bytes.NewBuffer(nil)
	if err := tpl.Execute(buf, components); err != nil {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if line = cleanLine(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// GuessName returns the most specific name-like component, or an empty string.
func (f *Formatter) GuessName(components map[string]string) string {
	return first(components, nameKeys...)
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"first":    first,
		"locality": locality,
		"join":     join,
	}
}

func first(components map[string]string, keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(components[key]); val != "" {
			return val
		}
	}
	return ""
}

func locality(components map[string]string) string {
	return first(components, "city", "town", "village", "hamlet", "locality", "municipality")
}

func join(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, val := range values {
		if val != "" {
			parts = append(parts, val)
		}
	}
	return strings.Join(parts, sep)
}

func cleanLine(line string) string {
	return strings.Trim(strings.Join(strings.Fields(line), " "), " ,")
}
