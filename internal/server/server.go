// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package server exposes the geocoding facade over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wneessen/geocached/internal/geocode"
	"github.com/wneessen/geocached/internal/logger"
)

const (
	defaultReverseMax = 1
	defaultSearchMax  = 10
)

// Server serves the geocoding API together with health and metrics endpoints.
type Server struct {
	httpServer *http.Server
	geocoder   geocode.Geocoder
	locale     func() string
	logger     *logger.Logger
}

// New creates a Server listening on addr. locale returns the locale that is used when a
// request does not name one.
func New(addr string, geocoder geocode.Geocoder, locale func() string, log *logger.Logger) *Server {
	router := chi.NewRouter()
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		geocoder: geocoder,
		locale:   locale,
		logger:   log,
	}

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(s.logRequests)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/v1", func(r chi.Router) {
		r.Get("/reverse", s.reverse)
		r.Get("/search", s.search)
	})

	return s
}

// Start begins listening. It returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) reverse(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lat, err := floatParam(query.Get("lat"), "lat")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	lon, err := floatParam(query.Get("lon"), "lon")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err = (geocode.Coordinate{Lat: lat, Lon: lon}).Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	max, err := maxParam(query.Get("max"), defaultReverseMax)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	addrs, err := s.geocoder.Reverse(r.Context(), lat, lon, max, s.localeParam(query.Get("locale")))
	s.respond(w, addrs, err)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := query.Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing parameter: q"))
		return
	}
	max, err := maxParam(query.Get("max"), defaultSearchMax)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	box, err := boxParam(query.Get("ll_lat"), query.Get("ll_lon"), query.Get("ur_lat"), query.Get("ur_lon"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	addrs, err := s.geocoder.Search(r.Context(), q, max, box, s.localeParam(query.Get("locale")))
	s.respond(w, addrs, err)
}

func (s *Server) respond(w http.ResponseWriter, addrs []geocode.Address, err error) {
	switch {
	case errors.Is(err, geocode.ErrInvalidLocale), errors.Is(err, geocode.ErrInvalidCoordinate):
		writeError(w, http.StatusBadRequest, err)
	case err != nil:
		s.logger.Error("geocode request failed", logger.Err(err))
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	case len(addrs) == 0:
		writeError(w, http.StatusNotFound, errors.New("no result"))
	default:
		writeJSON(w, http.StatusOK, addrs)
	}
}

func (s *Server) localeParam(value string) string {
	if value != "" || s.locale == nil {
		return value
	}
	return s.locale()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("inbound request",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)))
	})
}

func floatParam(value, name string) (float64, error) {
	if value == "" {
		return 0, fmt.Errorf("missing parameter: %s", name)
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid parameter %s: %q", name, value)
	}
	return f, nil
}

func maxParam(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	max, err := strconv.Atoi(value)
	if err != nil || max < 1 {
		return 0, fmt.Errorf("invalid parameter max: %q", value)
	}
	return max, nil
}

// boxParam accepts either all four edges or none of them.
func boxParam(llLat, llLon, urLat, urLon string) (geocode.BoundingBox, error) {
	if llLat == "" && llLon == "" && urLat == "" && urLon == "" {
		return geocode.BoundingBox{}, nil
	}
	var box geocode.BoundingBox
	var err error
	if box.LowerLeftLat, err = floatParam(llLat, "ll_lat"); err != nil {
		return box, err
	}
	if box.LowerLeftLon, err = floatParam(llLon, "ll_lon"); err != nil {
		return box, err
	}
	if box.UpperRightLat, err = floatParam(urLat, "ur_lat"); err != nil {
		return box, err
	}
	if box.UpperRightLon, err = floatParam(urLon, "ur_lon"); err != nil {
		return box, err
	}
	return box, box.Validate()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
