// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package file reads a position from a plain text file holding "lat,lon" lines.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wneessen/geocached/internal/geocode"
)

var ErrNoCoordinates = errors.New("no valid coordinates found in position file")

type Locator struct {
	path string
}

func New(path string) *Locator {
	return &Locator{path: path}
}

// Fix returns the first valid "lat,lon" line of the file. Empty lines and lines
// starting with # are skipped.
func (l *Locator) Fix(ctx context.Context) (geocode.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return geocode.Coordinate{}, err
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return geocode.Coordinate{}, fmt.Errorf("failed to read position file %q: %w", l.path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		coords := strings.Split(line, ",")
		if len(coords) != 2 {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			continue
		}
		coord := geocode.Coordinate{Lat: lat, Lon: lon}
		if coord.Validate() != nil {
			continue
		}
		return coord, nil
	}
	return geocode.Coordinate{}, ErrNoCoordinates
}
