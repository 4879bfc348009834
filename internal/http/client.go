// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"github.com/wneessen/geocached/internal/logger"
)

const (
	// DefaultConnectTimeout bounds the TCP connect and TLS handshake.
	DefaultConnectTimeout = time.Second * 30
	// DefaultReadTimeout bounds the wait for response headers and the overall request.
	DefaultReadTimeout = time.Second * 30

	maxBodySize = 8 << 20
)

var (
	// version is the version of the application (will be set at build time)
	version = "dev"
	// UserAgent is the User-Agent that the HTTP client sends with API requests
	UserAgent = fmt.Sprintf("geocached/%s (%s; %s)", version, runtime.GOOS, osRelease())
)

// StatusError is returned when a provider answers with a non-2xx status code.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status: %s", e.Status)
}

// Client is a type wrapper for the Go stdlib http.Client and the Config
type Client struct {
	*http.Client
	logger *logger.Logger
}

// New returns a new HTTP client with the default timeouts
func New(logger *logger.Logger) *Client {
	return NewWithTimeouts(logger, DefaultConnectTimeout, DefaultReadTimeout)
}

// NewWithTimeouts returns a new HTTP client. connectTimeout bounds dialing and the TLS
// handshake, readTimeout bounds the wait for the response.
func NewWithTimeouts(logger *logger.Logger, connectTimeout, readTimeout time.Duration) *Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	dialer := &net.Dialer{Timeout: connectTimeout}
	httpTransport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSClientConfig:       tlsConfig,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       time.Second * 90,
	}
	httpClient := &http.Client{
		Timeout:   connectTimeout + readTimeout,
		Transport: httpTransport,
	}
	return &Client{httpClient, logger}
}

// GetBytes performs a HTTP GET request for the given URL and returns the raw response
// body. Responses with a non-2xx status code are returned as *StatusError.
func (h *Client) GetBytes(ctx context.Context, endpoint string) ([]byte, error) {
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	response, err := h.do(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer h.closeBody(response.Body)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &StatusError{StatusCode: response.StatusCode, Status: response.Status}
	}
	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read HTTP response body: %w", err)
	}

	return body, nil
}

func (h *Client) do(ctx context.Context, endpoint string, headers map[string]string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed create new HTTP request with context: %w", err)
	}
	request.Header.Set("User-Agent", UserAgent)
	for k, v := range headers {
		request.Header.Set(k, v)
	}

	// Execute HTTP request
	response, err := h.Do(request)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	if response == nil {
		return nil, errors.New("nil response received")
	}
	return response, nil
}

func (h *Client) closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		h.logger.Error("failed to close HTTP request body", logger.Err(err))
	}
}
