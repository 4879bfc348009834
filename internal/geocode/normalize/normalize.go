// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package normalize maps heterogeneous provider JSON responses onto the canonical
// geocode.Address, driven by the provider's geocode.FieldTable.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	simple "github.com/bitly/go-simplejson"
	"golang.org/x/text/language"

	"github.com/wneessen/geocached/internal/geocode"
	"github.com/wneessen/geocached/internal/logger"
)

// Formatter turns the raw key/value pairs of an address object into display lines
// and a best-guess place name.
type Formatter interface {
	FormatAddress(components map[string]string) []string
	GuessName(components map[string]string) string
}

// Normalizer converts provider responses into addresses. The formatter is optional.
type Normalizer struct {
	formatter Formatter
	logger    *logger.Logger
}

// New returns a Normalizer. If formatter is nil the default line ordering is used.
func New(log *logger.Logger, formatter Formatter) *Normalizer {
	return &Normalizer{formatter: formatter, logger: log}
}

// Reverse parses a reverse geocoding response body and normalizes the single result.
func (n *Normalizer) Reverse(fields geocode.FieldTable, locale language.Tag, body []byte) (geocode.Address, error) {
	doc, err := simple.NewJson(body)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to parse provider response: %w", err)
	}
	node, ok := lookup(doc, fields.Single)
	if !ok {
		return geocode.Address{}, fmt.Errorf("%w: no result object at %q", geocode.ErrNoResult, fields.Single)
	}
	addr, ok := n.Normalize(fields, locale, node)
	if !ok {
		return geocode.Address{}, geocode.ErrNoResult
	}
	return addr, nil
}

// Search parses a forward geocoding response body and normalizes all usable results.
func (n *Normalizer) Search(fields geocode.FieldTable, locale language.Tag, body []byte) ([]geocode.Address, error) {
	doc, err := simple.NewJson(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse provider response: %w", err)
	}
	node, ok := lookup(doc, fields.Results)
	if !ok {
		return nil, fmt.Errorf("%w: no result array at %q", geocode.ErrNoResult, fields.Results)
	}
	if _, err = node.Array(); err != nil {
		return nil, fmt.Errorf("failed to read result array: %w", err)
	}
	addrs := n.NormalizeAll(fields, locale, node)
	if len(addrs) == 0 {
		return nil, geocode.ErrNoResult
	}
	return addrs, nil
}

// NormalizeAll normalizes every element of a JSON array, keeping provider order and
// dropping rejected elements.
func (n *Normalizer) NormalizeAll(fields geocode.FieldTable, locale language.Tag, list *simple.Json) []geocode.Address {
	elems, err := list.Array()
	if err != nil {
		return nil
	}
	addrs := make([]geocode.Address, 0, len(elems))
	for i := range elems {
		addr, ok := n.Normalize(fields, locale, list.GetIndex(i))
		if !ok {
			continue
		}
		addrs = append(addrs, addr)
	}
	return addrs
}

// Normalize maps a single provider object onto an Address. It reports false when the
// object lacks a latitude, a longitude or an address object.
func (n *Normalizer) Normalize(fields geocode.FieldTable, locale language.Tag, obj *simple.Json) (geocode.Address, bool) {
	lat, ok := degrees(obj, fields.Latitude)
	if !ok {
		n.debug("rejecting result without usable latitude", fields.Latitude)
		return geocode.Address{}, false
	}
	lon, ok := degrees(obj, fields.Longitude)
	if !ok {
		n.debug("rejecting result without usable longitude", fields.Longitude)
		return geocode.Address{}, false
	}
	node, ok := lookup(obj, fields.Address)
	if !ok {
		n.debug("rejecting result without address object", fields.Address)
		return geocode.Address{}, false
	}
	raw, err := node.Map()
	if err != nil {
		n.debug("rejecting result with malformed address object", fields.Address)
		return geocode.Address{}, false
	}
	components := stringify(raw)

	addr := geocode.Address{
		Locale:       locale,
		Coordinate:   geocode.Coordinate{Lat: lat, Lon: lon},
		Thoroughfare: component(components, fields, geocode.FieldThoroughfare),
		SubLocality:  component(components, fields, geocode.FieldSubLocality),
		PostalCode:   component(components, fields, geocode.FieldPostalCode),
		Locality:     component(components, fields, geocode.FieldLocality),
		SubAdminArea: component(components, fields, geocode.FieldSubAdminArea),
		AdminArea:    component(components, fields, geocode.FieldAdminArea),
		CountryName:  component(components, fields, geocode.FieldCountryName),
		CountryCode:  component(components, fields, geocode.FieldCountryCode),
	}
	addr.AddressLines = DefaultLines(addr)

	if n.formatter != nil {
		if lines := n.formatter.FormatAddress(components); len(lines) > 0 {
			addr.AddressLines = lines
		}
		addr.FeatureName = n.formatter.GuessName(components)
	}

	return addr, true
}

// DefaultLines returns the display lines used when no formatter is available:
// thoroughfare, postal code, locality, sub-admin area, admin area and country name,
// each only if present.
func DefaultLines(addr geocode.Address) []string {
	candidates := []string{
		addr.Thoroughfare,
		addr.PostalCode,
		addr.Locality,
		addr.SubAdminArea,
		addr.AdminArea,
		addr.CountryName,
	}
	lines := make([]string, 0, len(candidates))
	for _, line := range candidates {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func (n *Normalizer) debug(msg, path string) {
	if n.logger == nil {
		return
	}
	n.logger.Debug(msg, "path", path)
}

// lookup walks a dot separated path. Numeric segments index into arrays.
func lookup(doc *simple.Json, path string) (*simple.Json, bool) {
	if doc == nil {
		return nil, false
	}
	if path == "" {
		return doc, doc.Interface() != nil
	}
	cur := doc
	for _, segment := range strings.Split(path, ".") {
		if idx, err := strconv.Atoi(segment); err == nil {
			elems, err := cur.Array()
			if err != nil || idx < 0 || idx >= len(elems) {
				return nil, false
			}
			cur = cur.GetIndex(idx)
			continue
		}
		next, ok := cur.CheckGet(segment)
		if !ok {
			return nil, false
		}
		cur = next
	}
	if cur.Interface() == nil {
		return nil, false
	}
	return cur, true
}

// degrees reads a coordinate value that may be encoded as JSON number or as string.
func degrees(obj *simple.Json, path string) (float64, bool) {
	node, ok := lookup(obj, path)
	if !ok {
		return 0, false
	}
	if val, err := node.Float64(); err == nil {
		return val, true
	}
	str, err := node.String()
	if err != nil {
		return 0, false
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// stringify converts the scalar values of an address object to strings. Nested
// objects and arrays are skipped.
func stringify(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for key, val := range raw {
		switch v := val.(type) {
		case string:
			out[key] = v
		case json.Number:
			out[key] = v.String()
		case bool:
			out[key] = strconv.FormatBool(v)
		case float64:
			out[key] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return out
}

// component returns the value of the first candidate key present in components. A
// present key wins even if its value is empty; null values were dropped by stringify.
func component(components map[string]string, fields geocode.FieldTable, field geocode.Field) string {
	for _, key := range fields.Components[field] {
		if val, ok := components[key]; ok {
			return val
		}
	}
	return ""
}
