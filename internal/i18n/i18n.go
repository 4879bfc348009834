// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package i18n provides the localized strings for the geocached command line output.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/Xuanwo/go-locale"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/spreak"
	"golang.org/x/text/language"

	"github.com/wneessen/geocached/internal/geocode"
)

//go:embed locale/*
var locales embed.FS

// Catalog bundles the message localizer with a humanizer for the same language.
type Catalog struct {
	*spreak.Localizer
	Humanizer *humanize.Humanizer
	Tag       language.Tag
}

// New returns the Catalog for loc. An empty or unparsable loc falls back to the
// detected system locale and finally to English.
func New(loc string) (*Catalog, error) {
	tag, err := geocode.ParseLocale(loc)
	if err != nil {
		tag, err = locale.Detect()
		if err != nil {
			tag = language.English // Unable to detect locale, fallback to English
		}
	}

	localeFS, err := fs.Sub(locales, "locale")
	if err != nil {
		return nil, fmt.Errorf("failed to load locales: %w", err)
	}

	bundle, err := spreak.NewBundle(
		spreak.WithSourceLanguage(language.English),
		spreak.WithFallbackLanguage(language.English),
		spreak.WithDomainFs(spreak.NoDomain, localeFS),
		spreak.WithLanguage(tag),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create i18n bundle: %w", err)
	}
	humanizers, err := humanize.New(humanize.WithLocale(de.New()))
	if err != nil {
		return nil, fmt.Errorf("failed to create humanizer: %w", err)
	}

	return &Catalog{
		Localizer: spreak.NewLocalizer(bundle, tag),
		Humanizer: humanizers.CreateHumanizer(tag),
		Tag:       tag,
	}, nil
}
