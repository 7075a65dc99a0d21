// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/slipway-systems/slipway/lib/netutil"
)

// SessionConfig holds the values needed to construct a Session without
// a login round-trip, typically restored from a saved profile.
type SessionConfig struct {
	// BaseURL is the controller's base URL.
	BaseURL string
	// Key is the API key issued at login.
	Key APIKey
	// Description is the raw describe document JSON.
	Description []byte
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Session is an authenticated binding to one controller. It is
// immutable once constructed: base URL, key, and description never
// change, so concurrent reads need no locking. Per-call failures
// (ErrUnknownMethod, *ServerError) never invalidate the Session.
type Session struct {
	baseURL        string
	apiRoot        string
	key            APIKey
	description    *Description
	descriptionRaw []byte
	httpClient     *http.Client
	logger         *slog.Logger
}

// NewSession constructs a Session from already-known values. No
// network I/O is performed; the description is parsed and validated
// locally (ErrIncompatibleAPI on failure).
func NewSession(config SessionConfig) (*Session, error) {
	baseURL, err := CanonicalBaseURL(config.BaseURL)
	if err != nil {
		return nil, err
	}
	if config.Key.IsZero() {
		return nil, fmt.Errorf("controller: Key is required")
	}
	description, err := ParseDescription(config.Description)
	if err != nil {
		return nil, err
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		baseURL:        baseURL,
		apiRoot:        apiRoot(baseURL),
		key:            config.Key,
		description:    description,
		descriptionRaw: config.Description,
		httpClient:     httpClient,
		logger:         logger,
	}, nil
}

// BaseURL returns the canonicalized base URL.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// Key returns the session's API key.
func (s *Session) Key() APIKey {
	return s.key
}

// Description returns the parsed describe document.
func (s *Session) Description() *Description {
	return s.description
}

// DescriptionBytes returns the raw describe document JSON, suitable
// for caching in a profile.
func (s *Session) DescriptionBytes() []byte {
	return s.descriptionRaw
}

// CloseIdleConnections closes idle HTTP connections in the underlying
// transport's connection pool. Call after a network disruption to
// force subsequent requests onto fresh TCP connections.
func (s *Session) CloseIdleConnections() {
	s.httpClient.CloseIdleConnections()
}

// Call invokes a named remote operation. The method is a dotted path
// through the describe document ("machines.allocate",
// "machines.interfaces.create"); params are the operation's
// parameters.
//
// GET and DELETE actions send params in the query string; POST and
// PUT actions send them form-encoded in the body. The action's "op"
// discriminator always travels in the query string. The request is
// signed with the session's API key.
//
// Fails with ErrUnknownMethod when the description does not name the
// method, ErrEndpointUnreachable on transport failure, and
// *ServerError when the controller reports failure. None of these
// invalidate the Session.
func (s *Session) Call(ctx context.Context, method string, params url.Values) ([]byte, error) {
	resource, action, err := s.description.Resolve(method)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if action.Op != "" {
		query.Set("op", action.Op)
	}

	var body *strings.Reader
	switch action.Method {
	case http.MethodGet, http.MethodDelete:
		for name, values := range params {
			query[name] = values
		}
	default:
		body = strings.NewReader(params.Encode())
	}

	requestURL := s.apiRoot + strings.TrimPrefix(resource.Path, "/")
	if encoded := query.Encode(); encoded != "" {
		requestURL += "?" + encoded
	}

	var request *http.Request
	if body != nil {
		request, err = http.NewRequestWithContext(ctx, action.Method, requestURL, body)
	} else {
		request, err = http.NewRequestWithContext(ctx, action.Method, requestURL, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("controller: creating %s request: %w", method, err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	authorization, err := authorizationHeader(s.key)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Authorization", authorization)

	response, err := s.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("controller: %s: %w: %w", method, ErrEndpointUnreachable, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("controller: reading %s response: %w", method, err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}
	return nil, serverError(response.StatusCode, responseBody)
}
