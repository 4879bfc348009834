// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/text/language"
)

func TestBoundingBox_IsZero(t *testing.T) {
	tests := []struct {
		name string
		box  BoundingBox
		want bool
	}{
		{"all edges zero", BoundingBox{}, true},
		{"lower left latitude set", BoundingBox{LowerLeftLat: 1}, false},
		{"lower left longitude set", BoundingBox{LowerLeftLon: -1}, false},
		{"upper right latitude set", BoundingBox{UpperRightLat: 0.5}, false},
		{"upper right longitude set", BoundingBox{UpperRightLon: 13.4}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.box.IsZero(); got != tc.want {
				t.Errorf("expected IsZero to be %t, got %t", tc.want, got)
			}
		})
	}
}

func TestCoordinate_Validate(t *testing.T) {
	tests := []struct {
		name  string
		coord Coordinate
		valid bool
	}{
		{"regular position", Coordinate{Lat: 52.512892, Lon: 13.390627}, true},
		{"range edges", Coordinate{Lat: -90, Lon: 180}, true},
		{"latitude is NaN", Coordinate{Lat: math.NaN(), Lon: 13.4}, false},
		{"longitude is infinite", Coordinate{Lat: 52.5, Lon: math.Inf(1)}, false},
		{"latitude is negative infinite", Coordinate{Lat: math.Inf(-1), Lon: 0}, false},
		{"latitude out of range", Coordinate{Lat: 90.5, Lon: 0}, false},
		{"longitude out of range", Coordinate{Lat: 0, Lon: -180.1}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.coord.Validate()
			if tc.valid && err != nil {
				t.Errorf("expected coordinate to be valid, got %s", err)
			}
			if !tc.valid && !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("expected error to be %s, got %v", ErrInvalidCoordinate, err)
			}
		})
	}
}

func TestBoundingBox_Validate(t *testing.T) {
	t.Run("zero box is valid", func(t *testing.T) {
		if err := (BoundingBox{}).Validate(); err != nil {
			t.Errorf("expected zero box to be valid, got %s", err)
		}
	})
	t.Run("box with a NaN edge is invalid", func(t *testing.T) {
		box := BoundingBox{LowerLeftLat: 52.3, LowerLeftLon: 13.1, UpperRightLat: math.NaN(), UpperRightLon: 13.8}
		if err := box.Validate(); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("expected error to be %s, got %v", ErrInvalidCoordinate, err)
		}
	})
}

func TestFormatDegrees(t *testing.T) {
	t.Run("degrees are formatted with six decimals", func(t *testing.T) {
		if got := FormatDegrees(52.5129); got != "52.512900" {
			t.Errorf("expected 52.512900, got %s", got)
		}
		if got := FormatDegrees(-2.3185); got != "-2.318500" {
			t.Errorf("expected -2.318500, got %s", got)
		}
	})
}

func TestParseLocale(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    language.Tag
		primary string
	}{
		{"language only", "de", language.German, "de"},
		{"language and region", "en_US", language.AmericanEnglish, "en"},
		{"language, region and variant", "de_DE_1996", language.MustParse("de-DE-1996"), "de"},
		{"bcp47 tag", "pt-BR", language.BrazilianPortuguese, "pt"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tag, err := ParseLocale(tc.value)
			if err != nil {
				t.Fatalf("failed to parse locale: %s", err)
			}
			if tag.String() != tc.want.String() {
				t.Errorf("expected tag to be %s, got %s", tc.want, tag)
			}
			if got := PrimaryLanguage(tag); got != tc.primary {
				t.Errorf("expected primary language to be %s, got %s", tc.primary, got)
			}
		})
	}
	t.Run("malformed locales are rejected", func(t *testing.T) {
		for _, value := range []string{"", "en_US_x_y", "en__US", "!!", "_"} {
			_, err := ParseLocale(value)
			if err == nil {
				t.Errorf("expected locale %q to fail", value)
				continue
			}
			if !errors.Is(err, ErrInvalidLocale) {
				t.Errorf("expected error to be %s, got %s", ErrInvalidLocale, err)
			}
		}
	})
}

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{OutcomeFailed, "failed"},
		{OutcomeMiss, "miss"},
		{OutcomeFound, "found"},
		{OutcomeCacheHit, "cache_hit"},
		{Outcome(99), "unknown"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if tc.outcome.String() != tc.want {
				t.Errorf("expected %s, got %s", tc.want, tc.outcome.String())
			}
		})
	}
}

func TestResult_Absent(t *testing.T) {
	t.Run("result without addresses is absent", func(t *testing.T) {
		if !(Result{Outcome: OutcomeMiss}).Absent() {
			t.Error("expected result to be absent")
		}
	})
	t.Run("result with an address is present", func(t *testing.T) {
		res := Result{Addresses: []Address{{Locality: "Berlin"}}, Outcome: OutcomeFound}
		if res.Absent() {
			t.Error("expected result to be present")
		}
	})
}

func TestEscapeQuery(t *testing.T) {
	t.Run("spaces are encoded as %20", func(t *testing.T) {
		got := EscapeQuery("Friedrichstraße 67, Berlin")
		want := "Friedrichstra%C3%9Fe%2067%2C%20Berlin"
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})
	t.Run("literal plus signs are kept encoded", func(t *testing.T) {
		if got := EscapeQuery("a+b"); got != "a%2Bb" {
			t.Errorf("expected a%%2Bb, got %s", got)
		}
	})
}
