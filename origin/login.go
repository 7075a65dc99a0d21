// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/slipway-systems/slipway/controller"
	"github.com/slipway-systems/slipway/lib/secret"
	"github.com/slipway-systems/slipway/profile"
)

// LoginOptions carries the optional plumbing for Login and
// FromProfile. The zero value is usable.
type LoginOptions struct {
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client

	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Login authenticates against the controller at endpointURL and
// returns both an Origin over the new session and a Profile capturing
// everything needed to rebuild it later: the canonical URL, the issued
// credentials, and the fetched describe document. The Profile's name
// is unset; the caller chooses one before saving.
//
// The password Buffer is read but not closed — the caller retains
// ownership.
func Login(ctx context.Context, endpointURL, username string, password *secret.Buffer, options LoginOptions) (profile.Profile, *Origin, error) {
	client, err := controller.NewClient(controller.ClientConfig{
		BaseURL:    endpointURL,
		HTTPClient: options.HTTPClient,
		Logger:     options.Logger,
	})
	if err != nil {
		return profile.Profile{}, nil, err
	}

	session, err := client.Login(ctx, username, password)
	if err != nil {
		return profile.Profile{}, nil, err
	}

	entry := profile.New("", session.BaseURL(), session.Key().String()).
		WithDescription(session.DescriptionBytes())

	bound, err := New(session)
	if err != nil {
		return profile.Profile{}, nil, err
	}
	return entry, bound, nil
}

// FromProfile rebuilds an Origin from a saved profile. When the
// profile carries a cached describe document the session is built
// entirely locally; otherwise the document is fetched from the
// endpoint first.
func FromProfile(ctx context.Context, entry profile.Profile, options LoginOptions) (*Origin, error) {
	key, err := controller.ParseAPIKey(entry.Credentials())
	if err != nil {
		return nil, fmt.Errorf("origin: profile %q: %w", entry.Name(), err)
	}

	description := entry.Description()
	if !entry.HasDescription() {
		client, err := controller.NewClient(controller.ClientConfig{
			BaseURL:    entry.URL(),
			HTTPClient: options.HTTPClient,
			Logger:     options.Logger,
		})
		if err != nil {
			return nil, err
		}
		_, raw, err := client.Describe(ctx)
		if err != nil {
			return nil, err
		}
		description = raw
	}

	session, err := controller.NewSession(controller.SessionConfig{
		BaseURL:     entry.URL(),
		Key:         key,
		Description: description,
		HTTPClient:  options.HTTPClient,
		Logger:      options.Logger,
	})
	if err != nil {
		return nil, err
	}
	return New(session)
}
