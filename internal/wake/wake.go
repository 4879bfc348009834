// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package wake keeps the host awake while a geocode request is on the network.
package wake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"github.com/wneessen/geocached/internal/config"
	"github.com/wneessen/geocached/internal/logger"
)

const (
	dbusDestination = "org.freedesktop.login1"
	dbusObjectPath  = "/org/freedesktop/login1"
	dbusInhibit     = "org.freedesktop.login1.Manager.Inhibit"

	inhibitWho  = "geocached"
	inhibitWhy  = "geocode request in flight"
	inhibitMode = "block"

	whatPartial = "sleep"
	whatFull    = "sleep:idle"
)

// Strategy is consulted right before a request goes to the network. The returned
// release func must be called once the request completed, on every path.
type Strategy interface {
	BeforeFetch(ctx context.Context) (release func(), err error)
}

// Inhibitor takes a logind inhibitor lock and returns its file descriptor.
type Inhibitor func(ctx context.Context, what string) (dbus.UnixFD, error)

// New returns the Strategy for the given configured name. Unknown names fall back to
// the no-op strategy.
func New(name string, log *logger.Logger) Strategy {
	return NewWithInhibitor(name, log, logindInhibit)
}

// NewWithInhibitor is like New but takes the lock through the given Inhibitor.
func NewWithInhibitor(name string, log *logger.Logger, inhibit Inhibitor) Strategy {
	switch name {
	case config.WakePartial:
		return &logind{what: whatPartial, inhibit: inhibit, logger: log}
	case config.WakeFull:
		return &logind{what: whatFull, inhibit: inhibit, logger: log}
	default:
		return None{}
	}
}

// None never touches the power state.
type None struct{}

func (None) BeforeFetch(context.Context) (func(), error) {
	return func() {}, nil
}

type logind struct {
	what    string
	inhibit Inhibitor
	logger  *logger.Logger
}

// BeforeFetch takes a delay-free "block" inhibitor lock. If the system bus is not
// reachable the request continues without one.
func (l *logind) BeforeFetch(ctx context.Context) (func(), error) {
	fd, err := l.inhibit(ctx, l.what)
	if err != nil {
		l.logger.Warn("failed to take inhibitor lock, continuing without", slog.String("what", l.what),
			logger.Err(err))
		return func() {}, nil
	}
	l.logger.Debug("inhibitor lock taken", slog.String("what", l.what))

	return func() {
		if err := closeFD(int(fd)); err != nil {
			l.logger.Error("failed to release inhibitor lock", logger.Err(err))
			return
		}
		l.logger.Debug("inhibitor lock released", slog.String("what", l.what))
	}, nil
}

func logindInhibit(ctx context.Context, what string) (dbus.UnixFD, error) {
	conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	defer func() { _ = conn.Close() }()

	var fd dbus.UnixFD
	obj := conn.Object(dbusDestination, dbusObjectPath)
	if err = obj.CallWithContext(ctx, dbusInhibit, 0, what, inhibitWho, inhibitWhy, inhibitMode).
		Store(&fd); err != nil {
		return 0, fmt.Errorf("failed to call %s: %w", dbusInhibit, err)
	}
	return fd, nil
}
