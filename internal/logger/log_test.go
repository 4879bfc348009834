// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("stderr logger honors the level", func(t *testing.T) {
		l := New(slog.LevelWarn)
		if l == nil {
			t.Fatal("expected logger to be non-nil")
		}
		if l.Enabled(t.Context(), slog.LevelInfo) {
			t.Error("expected info level to be disabled")
		}
		if !l.Enabled(t.Context(), slog.LevelWarn) {
			t.Error("expected warn level to be enabled")
		}
	})
}

func TestNewLogger(t *testing.T) {
	levels := []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}
	for _, min := range levels {
		t.Run("records below "+min.String()+" are dropped", func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			l := NewLogger(min, buf)
			for _, level := range levels {
				l.Log(t.Context(), level, "geocode request")
			}

			for _, level := range levels {
				logged := strings.Contains(buf.String(), "level="+level.String())
				if level >= min && !logged {
					t.Errorf("expected %s record to be logged, got: %q", level, buf.String())
				}
				if level < min && logged {
					t.Errorf("did not expect %s record to be logged, got: %q", level, buf.String())
				}
			}
		})
	}
}

func TestErr(t *testing.T) {
	t.Run("errors are logged under the error key", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		NewLogger(slog.LevelDebug, buf).Warn("provider request failed", Err(errors.New("connection refused")))

		want := `error="connection refused"`
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected log to contain %q, got: %q", want, buf.String())
		}
	})
	t.Run("nil error renders as nil", func(t *testing.T) {
		attr := Err(nil)
		if attr.Key != "error" {
			t.Errorf("expected key to be %q, got %q", "error", attr.Key)
		}
		if attr.Value.Any() != nil {
			t.Errorf("expected nil value, got %v", attr.Value.Any())
		}
	})
}
