// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/slipway-systems/slipway/lib/netutil"
	"github.com/slipway-systems/slipway/lib/secret"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the controller's base URL as the user supplied it
	// (e.g., "http://controller.example.com/"). It is canonicalized to
	// exactly one trailing slash.
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client is an unauthenticated controller client. It issues API keys
// and fetches describe documents; authenticated calls go through the
// Session it produces.
type Client struct {
	baseURL    string
	apiRoot    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new unauthenticated controller client.
func NewClient(config ClientConfig) (*Client, error) {
	baseURL, err := CanonicalBaseURL(config.BaseURL)
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

	return &Client{
		baseURL:    baseURL,
		apiRoot:    apiRoot(baseURL),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// BaseURL returns the canonicalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// versionedRootPattern matches a base URL whose path already ends in
// an api/<version>/ segment, meaning the user pointed directly at a
// versioned API root.
var versionedRootPattern = regexp.MustCompile(`/api/\d+\.\d+/$`)

// CanonicalBaseURL validates a base URL and normalizes it to exactly
// one trailing slash. The canonical form is what profiles persist, so
// the same endpoint typed with or without a slash maps to the same
// stored identity.
//
// Request URLs are built by string concatenation on the canonical
// form. This avoids double-encoding issues with Go's url.URL.String(),
// which re-encodes Path even when RawPath is set if it doesn't
// consider RawPath a valid encoding of Path.
func CanonicalBaseURL(baseURL string) (string, error) {
	if baseURL == "" {
		return "", fmt.Errorf("controller: BaseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("controller: invalid BaseURL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("controller: BaseURL %q must be http or https", baseURL)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("controller: BaseURL %q has no host", baseURL)
	}
	return strings.TrimRight(baseURL, "/") + "/", nil
}

// apiRoot derives the versioned API root from a canonical base URL.
// A base URL already pointing at an api/<version>/ segment is used
// as-is; otherwise the supported version's root is appended.
func apiRoot(canonicalBaseURL string) string {
	if versionedRootPattern.MatchString(canonicalBaseURL) {
		return canonicalBaseURL
	}
	return canonicalBaseURL + "api/" + SupportedVersion + "/"
}

// tokenResponse is the JSON body of a successful token issue.
type tokenResponse struct {
	ConsumerKey string `json:"consumer_key"`
	TokenKey    string `json:"token_key"`
	TokenSecret string `json:"token_secret"`
}

// Login authenticates with username and password, obtaining a durable
// API key and fetching the describe document, and returns the
// resulting authenticated Session.
//
// The password Buffer is read but not closed — the caller retains
// ownership. Fails with ErrAuthenticationFailed on rejected
// credentials, ErrEndpointUnreachable on transport failure, and
// ErrIncompatibleAPI when the describe document cannot be used.
func (c *Client) Login(ctx context.Context, username string, password *secret.Buffer) (*Session, error) {
	if username == "" {
		return nil, fmt.Errorf("controller: username is required for login")
	}
	if password == nil {
		return nil, fmt.Errorf("controller: password is required for login")
	}

	// Password is converted to string at the JSON serialization
	// boundary. The heap copy is short-lived — it exists only during
	// the HTTP call.
	requestBody := map[string]any{
		"username": username,
		"password": password.String(),
	}
	encoded, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("controller: encoding token request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiRoot+"auth/tokens/", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("controller: creating token request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("controller: token request: %w: %w", ErrEndpointUnreachable, err)
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("controller: reading token response: %w", err)
	}

	switch {
	case response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("controller: login as %q: %w", username, ErrAuthenticationFailed)
	case response.StatusCode < 200 || response.StatusCode >= 300:
		return nil, serverError(response.StatusCode, body)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("controller: parsing token response: %w", err)
	}
	key := APIKey{
		ConsumerKey: token.ConsumerKey,
		TokenKey:    token.TokenKey,
		TokenSecret: token.TokenSecret,
	}
	if key.IsZero() {
		return nil, fmt.Errorf("controller: token response carried no key material")
	}

	description, raw, err := c.Describe(ctx)
	if err != nil {
		return nil, err
	}

	c.logger.Info("logged in to controller",
		"url", c.baseURL,
		"username", username,
		"service", description.Service,
		"api_version", description.Version,
	)

	return &Session{
		baseURL:        c.baseURL,
		apiRoot:        c.apiRoot,
		key:            key,
		description:    description,
		descriptionRaw: raw,
		httpClient:     c.httpClient,
		logger:         c.logger,
	}, nil
}

// Describe fetches and validates the controller's describe document.
// This is an anonymous endpoint. Returns the parsed description and
// the raw JSON bytes (for caching in a profile).
func (c *Client) Describe(ctx context.Context) (*Description, []byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiRoot+"describe/", nil)
	if err != nil {
		return nil, nil, fmt.Errorf("controller: creating describe request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, nil, fmt.Errorf("controller: describe request: %w: %w", ErrEndpointUnreachable, err)
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("controller: reading describe response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("controller: describe returned %d: %w", response.StatusCode, ErrIncompatibleAPI)
	}

	description, err := ParseDescription(body)
	if err != nil {
		return nil, nil, err
	}
	return description, body, nil
}

// serverError builds a *ServerError from a non-2xx response body. The
// controller's error bodies are JSON {code, message}; anything else
// surfaces raw.
func serverError(statusCode int, body []byte) error {
	var parsed ServerError
	if err := json.Unmarshal(body, &parsed); err != nil || (parsed.Code == "" && parsed.Message == "") {
		return &ServerError{
			StatusCode: statusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	parsed.StatusCode = statusCode
	return &parsed
}
