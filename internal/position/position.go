// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package position defines where the command line takes the current position from
// when no coordinates are given.
package position

import (
	"context"

	"github.com/wneessen/geocached/internal/geocode"
)

// Source returns the current position.
type Source interface {
	Fix(ctx context.Context) (geocode.Coordinate, error)
}
