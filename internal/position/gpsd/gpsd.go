// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package gpsd reads the current position from a running gpsd daemon.
package gpsd

import (
	"context"
	"errors"
	"net"

	"github.com/stratoberry/go-gpsd"

	"github.com/wneessen/geocached/internal/geocode"
)

const (
	host = "localhost"
	port = "2947"
)

// DefaultAddr is the address gpsd listens on by default.
var DefaultAddr = net.JoinHostPort(host, port)

// ErrStreamClosed is returned when gpsd closes the connection before a fix arrived.
var ErrStreamClosed = errors.New("gpsd stream closed before a fix was received")

type Locator struct {
	addr string
}

func New(addr string) *Locator {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Locator{addr: addr}
}

// Fix waits for the first TPV report with at least a 2D fix and returns its position.
func (l *Locator) Fix(ctx context.Context) (geocode.Coordinate, error) {
	session, err := gpsd.Dial(l.addr)
	if err != nil {
		return geocode.Coordinate{}, err
	}

	fixes := make(chan geocode.Coordinate, 1)
	session.AddFilter("TPV", func(r interface{}) {
		tpv, ok := r.(*gpsd.TPVReport)
		if !ok {
			return
		}
		// Need at least 2D fix
		if tpv.Mode < gpsd.Mode2D {
			return
		}
		coord := geocode.Coordinate{Lat: tpv.Lat, Lon: tpv.Lon}
		if coord.Validate() != nil {
			return
		}
		select {
		case fixes <- coord:
		default:
		}
	})

	// Watch() returns a channel that closes when the watch ends (e.g. connection lost).
	// go-gpsd has no Close(), the connection is released when the process exits.
	done := session.Watch()

	select {
	case coord := <-fixes:
		return coord, nil
	case <-done:
		select {
		case coord := <-fixes:
			return coord, nil
		default:
		}
		return geocode.Coordinate{}, ErrStreamClosed
	case <-ctx.Done():
		return geocode.Coordinate{}, ctx.Err()
	}
}
