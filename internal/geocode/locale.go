// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ParseLocale parses a locale tag in the underscore form used by most platforms
// (language, language_REGION or language_REGION_variant). BCP 47 tags are accepted
// as well.
func ParseLocale(value string) (language.Tag, error) {
	if value == "" {
		return language.Und, fmt.Errorf("%w: empty tag", ErrInvalidLocale)
	}
	parts := strings.Split(value, "_")
	if len(parts) > 3 {
		return language.Und, fmt.Errorf("%w: %q", ErrInvalidLocale, value)
	}
	for _, part := range parts {
		if part == "" {
			return language.Und, fmt.Errorf("%w: %q", ErrInvalidLocale, value)
		}
	}
	tag, err := language.Parse(strings.Join(parts, "-"))
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q: %s", ErrInvalidLocale, value, err)
	}
	return tag, nil
}

// PrimaryLanguage returns the primary language subtag of the given tag, e.g. "de" for
// "de-AT".
func PrimaryLanguage(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
