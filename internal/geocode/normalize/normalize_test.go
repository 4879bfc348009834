// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package normalize

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"
	"testing"

	simple "github.com/bitly/go-simplejson"
	"golang.org/x/text/language"

	"github.com/wneessen/geocached/internal/geocode"
	"github.com/wneessen/geocached/internal/logger"
)

const (
	cityFile    = "../../../testdata/nominatim_berlin.json"
	townFile    = "../../../testdata/nominatim_otley.json"
	villageFile = "../../../testdata/nominatim_marshfield.json"
	searchFile  = "../../../testdata/nominatim_search_berlin.json"
	errorFile   = "../../../testdata/nominatim_error.json"
	emptyFile   = "../../../testdata/empty_array.json"
)

var testFields = geocode.FieldTable{
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

type testFormatter struct {
	seen map[string]string
}

func (f *testFormatter) FormatAddress(components map[string]string) []string {
	f.seen = components
	return []string{components["road"] + " " + components["house_number"], components["postcode"] + " " + components["city"]}
}

func (f *testFormatter) GuessName(components map[string]string) string {
	return components["building"]
}

func TestNormalizer_Reverse(t *testing.T) {
	t.Run("city is used as locality", func(t *testing.T) {
		addr, err := testNormalizer(nil).Reverse(testFields, language.German, readFile(t, cityFile))
		if err != nil {
			t.Fatalf("failed to normalize response: %s", err)
		}
		if addr.Locality != "Berlin" {
			t.Errorf("expected locality to be Berlin, got %q", addr.Locality)
		}
		if len(addr.AddressLines) == 0 {
			t.Fatal("expected address lines to be set")
		}
		if addr.Coordinate.Lat != 52.512892 || addr.Coordinate.Lon != 13.390627 {
			t.Errorf("expected coordinate 52.512892/13.390627, got %f/%f", addr.Coordinate.Lat,
				addr.Coordinate.Lon)
		}
		if addr.Thoroughfare != "Friedrichstraße" {
			t.Errorf("expected thoroughfare to be Friedrichstraße, got %q", addr.Thoroughfare)
		}
		if addr.SubLocality != "Mitte" {
			t.Errorf("expected sub locality to be Mitte, got %q", addr.SubLocality)
		}
		if addr.CountryCode != "de" {
			t.Errorf("expected country code to be de, got %q", addr.CountryCode)
		}
		if addr.Locale != language.German {
			t.Errorf("expected locale to be %s, got %s", language.German, addr.Locale)
		}
		if addr.FeatureName != "" {
			t.Errorf("expected no feature name without formatter, got %q", addr.FeatureName)
		}
	})
	t.Run("town is used as locality without city", func(t *testing.T) {
		addr, err := testNormalizer(nil).Reverse(testFields, language.English, readFile(t, townFile))
		if err != nil {
			t.Fatalf("failed to normalize response: %s", err)
		}
		if addr.Locality != "Otley" {
			t.Errorf("expected locality to be Otley, got %q", addr.Locality)
		}
		if addr.SubAdminArea != "West Yorkshire" {
			t.Errorf("expected sub admin area to be West Yorkshire, got %q", addr.SubAdminArea)
		}
	})
	t.Run("present but empty city stops the locality fallback", func(t *testing.T) {
		body := []byte(`{"lat":"52.5","lon":"13.4","address":{"city":"","town":"Otley"}}`)
		addr, err := testNormalizer(nil).Reverse(testFields, language.English, body)
		if err != nil {
			t.Fatalf("failed to normalize response: %s", err)
		}
		if addr.Locality != "" {
			t.Errorf("expected locality to be empty, got %q", addr.Locality)
		}
	})
	t.Run("village is used as locality without city and town", func(t *testing.T) {
		addr, err := testNormalizer(nil).Reverse(testFields, language.English, readFile(t, villageFile))
		if err != nil {
			t.Fatalf("failed to normalize response: %s", err)
		}
		if addr.Locality != "Marshfield" {
			t.Errorf("expected locality to be Marshfield, got %q", addr.Locality)
		}
	})
	t.Run("default lines follow the canonical order", func(t *testing.T) {
		addr, err := testNormalizer(nil).Reverse(testFields, language.English, readFile(t, townFile))
		if err != nil {
			t.Fatalf("failed to normalize response: %s", err)
		}
		want := []string{"Kirkgate", "LS21 3HJ", "Otley", "West Yorkshire", "England", "United Kingdom"}
		if !slices.Equal(addr.AddressLines, want) {
			t.Errorf("expected address lines %v, got %v", want, addr.AddressLines)
		}
	})
	t.Run("formatter overrides lines and sets the feature name", func(t *testing.T) {
		formatter := &testFormatter{}
		addr, err := testNormalizer(formatter).Reverse(testFields, language.German, readFile(t, cityFile))
		if err != nil {
			t.Fatalf("failed to normalize response: %s", err)
		}
		want := []string{"Friedrichstraße 67", "10117 Berlin"}
		if !slices.Equal(addr.AddressLines, want) {
			t.Errorf("expected address lines %v, got %v", want, addr.AddressLines)
		}
		if addr.FeatureName != "Quartier 205" {
			t.Errorf("expected feature name to be Quartier 205, got %q", addr.FeatureName)
		}
		if formatter.seen["ISO3166-2-lvl4"] != "DE-BE" {
			t.Error("expected formatter to receive all raw address pairs")
		}
	})
	t.Run("error response is no result", func(t *testing.T) {
		_, err := testNormalizer(nil).Reverse(testFields, language.English, readFile(t, errorFile))
		if !errors.Is(err, geocode.ErrNoResult) {
			t.Errorf("expected error to be %s, got %v", geocode.ErrNoResult, err)
		}
	})
	t.Run("invalid JSON fails to parse", func(t *testing.T) {
		_, err := testNormalizer(nil).Reverse(testFields, language.English, []byte(`{"lat":`))
		if err == nil {
			t.Fatal("expected normalization to fail")
		}
		if errors.Is(err, geocode.ErrNoResult) {
			t.Error("expected parse failure to be distinguishable from no result")
		}
	})
	t.Run("empty body fails to parse", func(t *testing.T) {
		_, err := testNormalizer(nil).Reverse(testFields, language.English, nil)
		if err == nil {
			t.Fatal("expected normalization to fail")
		}
	})
}

func TestNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"missing latitude", `{"lon":"13.4","address":{"city":"Berlin"}}`},
		{"missing longitude", `{"lat":"52.5","address":{"city":"Berlin"}}`},
		{"missing address", `{"lat":"52.5","lon":"13.4"}`},
		{"null address", `{"lat":"52.5","lon":"13.4","address":null}`},
		{"address is not an object", `{"lat":"52.5","lon":"13.4","address":"Berlin"}`},
		{"unparseable latitude", `{"lat":"north","lon":"13.4","address":{"city":"Berlin"}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name+" is rejected", func(t *testing.T) {
			obj, err := simple.NewJson([]byte(tc.json))
			if err != nil {
				t.Fatalf("failed to parse test JSON: %s", err)
			}
			if _, ok := testNormalizer(nil).Normalize(testFields, language.English, obj); ok {
				t.Error("expected object to be rejected")
			}
		})
	}
	t.Run("numeric coordinates are accepted", func(t *testing.T) {
		obj, err := simple.NewJson([]byte(`{"lat":52.5,"lon":-13.25,"address":{"town":"Somewhere","zip":12345}}`))
		if err != nil {
			t.Fatalf("failed to parse test JSON: %s", err)
		}
		addr, ok := testNormalizer(nil).Normalize(testFields, language.English, obj)
		if !ok {
			t.Fatal("expected object to be accepted")
		}
		if addr.Coordinate.Lat != 52.5 || addr.Coordinate.Lon != -13.25 {
			t.Errorf("expected coordinate 52.5/-13.25, got %f/%f", addr.Coordinate.Lat, addr.Coordinate.Lon)
		}
		if addr.Locality != "Somewhere" {
			t.Errorf("expected locality to be Somewhere, got %q", addr.Locality)
		}
	})
	t.Run("locality stays unset without city, town or village", func(t *testing.T) {
		obj, err := simple.NewJson([]byte(`{"lat":"1","lon":"2","address":{"country":"Nowhere"}}`))
		if err != nil {
			t.Fatalf("failed to parse test JSON: %s", err)
		}
		addr, ok := testNormalizer(nil).Normalize(testFields, language.English, obj)
		if !ok {
			t.Fatal("expected object to be accepted")
		}
		if addr.Locality != "" {
			t.Errorf("expected locality to be unset, got %q", addr.Locality)
		}
		if !slices.Equal(addr.AddressLines, []string{"Nowhere"}) {
			t.Errorf("expected address lines [Nowhere], got %v", addr.AddressLines)
		}
	})
	t.Run("nested paths with array indices are resolved", func(t *testing.T) {
		fields := testFields
		fields.Latitude = "geometry.coordinates.1"
		fields.Longitude = "geometry.coordinates.0"
		fields.Address = "properties"
		obj, err := simple.NewJson([]byte(`{"geometry":{"coordinates":[13.4,52.5]},"properties":{"city":"Berlin"}}`))
		if err != nil {
			t.Fatalf("failed to parse test JSON: %s", err)
		}
		addr, ok := testNormalizer(nil).Normalize(fields, language.English, obj)
		if !ok {
			t.Fatal("expected object to be accepted")
		}
		if addr.Coordinate.Lat != 52.5 || addr.Coordinate.Lon != 13.4 {
			t.Errorf("expected coordinate 52.5/13.4, got %f/%f", addr.Coordinate.Lat, addr.Coordinate.Lon)
		}
	})
	t.Run("out of range array index is rejected", func(t *testing.T) {
		fields := testFields
		fields.Latitude = "coordinates.5"
		obj, err := simple.NewJson([]byte(`{"coordinates":[1],"lon":"2","address":{}}`))
		if err != nil {
			t.Fatalf("failed to parse test JSON: %s", err)
		}
		if _, ok := testNormalizer(nil).Normalize(fields, language.English, obj); ok {
			t.Error("expected object to be rejected")
		}
	})
}

func TestNormalizer_Search(t *testing.T) {
	t.Run("results keep provider order and drop rejects", func(t *testing.T) {
		addrs, err := testNormalizer(nil).Search(testFields, language.German, readFile(t, searchFile))
		if err != nil {
			t.Fatalf("failed to normalize response: %s", err)
		}
		if len(addrs) != 2 {
			t.Fatalf("expected 2 addresses, got %d", len(addrs))
		}
		if addrs[0].Thoroughfare != "Friedrichstraße" {
			t.Errorf("expected first result to be Friedrichstraße, got %q", addrs[0].Thoroughfare)
		}
		if addrs[1].AdminArea != "Berlin" {
			t.Errorf("expected second result admin area to be Berlin, got %q", addrs[1].AdminArea)
		}
	})
	t.Run("empty array is no result", func(t *testing.T) {
		_, err := testNormalizer(nil).Search(testFields, language.German, readFile(t, emptyFile))
		if !errors.Is(err, geocode.ErrNoResult) {
			t.Errorf("expected error to be %s, got %v", geocode.ErrNoResult, err)
		}
	})
	t.Run("object instead of array fails", func(t *testing.T) {
		_, err := testNormalizer(nil).Search(testFields, language.German, readFile(t, cityFile))
		if err == nil {
			t.Fatal("expected normalization to fail")
		}
	})
	t.Run("nested result array", func(t *testing.T) {
		fields := testFields
		fields.Results = "results"
		body := []byte(`{"results":[{"lat":1,"lon":2,"address":{"city":"A"}},{"lat":3,"lon":4,"address":{"town":"B"}}]}`)
		addrs, err := testNormalizer(nil).Search(fields, language.English, body)
		if err != nil {
			t.Fatalf("failed to normalize response: %s", err)
		}
		if len(addrs) != 2 || addrs[0].Locality != "A" || addrs[1].Locality != "B" {
			t.Errorf("expected localities A and B, got %+v", addrs)
		}
	})
}

func testNormalizer(formatter Formatter) *Normalizer {
	return New(logger.NewLogger(slog.LevelDebug, io.Discard), formatter)
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read test file: %s", err)
	}
	return data
}
