// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/slipway-systems/slipway/controller"
	"github.com/slipway-systems/slipway/origin"
	"github.com/slipway-systems/slipway/profile"
)

// OpenStore opens the operator's profile store at its default location,
// mapping store errors to categorized CLI errors. The caller must
// Close the store.
func OpenStore(ctx context.Context) (*profile.Store, error) {
	store, err := profile.Open(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return store, nil
}

func storeError(err error) error {
	switch {
	case errors.Is(err, profile.ErrStoreUnavailable):
		return &ToolError{Category: CategoryTransient, Err: err}
	case errors.Is(err, profile.ErrStoreCorrupt):
		return &ToolError{Category: CategoryInternal, Err: err}
	default:
		return err
	}
}

// ResolveProfile returns the named profile, or the store default when
// name is empty.
func ResolveProfile(store *profile.Store, name string) (profile.Profile, error) {
	if name == "" {
		entry, err := store.Default()
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, NotFound("no default profile; run 'slipway profiles login' or pass --profile")
		}
		return entry, err
	}

	entry, err := store.Get(name)
	if errors.Is(err, profile.ErrNotFound) {
		return profile.Profile{}, NotFound("profile %q not found", name)
	}
	return entry, err
}

// ProfileSelector is an embeddable params struct providing the
// --profile flag shared by every command that talks to a controller.
type ProfileSelector struct {
	Profile string `json:"-" flag:"profile,p" desc:"profile name (default: the store default)"`
}

// Load opens the store, resolves the selected profile, and closes the
// store again. Commands that only read one profile use this; commands
// that mutate the store open it themselves.
func (s *ProfileSelector) Load(ctx context.Context) (profile.Profile, error) {
	store, err := OpenStore(ctx)
	if err != nil {
		return profile.Profile{}, err
	}
	defer store.Close()

	return ResolveProfile(store, s.Profile)
}

// Connect resolves the selected profile and builds an Origin from it,
// applying the operator's client configuration and mapping controller
// errors to categorized CLI errors.
func (s *ProfileSelector) Connect(ctx context.Context, logger *slog.Logger) (profile.Profile, *origin.Origin, error) {
	entry, err := s.Load(ctx)
	if err != nil {
		return profile.Profile{}, nil, err
	}

	config, err := LoadConfig()
	if err != nil {
		return profile.Profile{}, nil, Validation("%s", err)
	}
	httpClient, err := config.HTTPClient()
	if err != nil {
		return profile.Profile{}, nil, Validation("%s", err)
	}

	org, err := origin.FromProfile(ctx, entry, origin.LoginOptions{
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return profile.Profile{}, nil, ControllerError(err)
	}
	return entry, org, nil
}

// ControllerError maps controller sentinel errors to categorized CLI
// errors; anything unrecognized passes through unchanged.
func ControllerError(err error) error {
	switch {
	case errors.Is(err, controller.ErrAuthenticationFailed):
		return &ToolError{Category: CategoryForbidden, Err: err}
	case errors.Is(err, controller.ErrEndpointUnreachable):
		return &ToolError{Category: CategoryTransient, Err: err}
	case errors.Is(err, controller.ErrIncompatibleAPI):
		return &ToolError{Category: CategoryInternal, Err: err}
	case errors.Is(err, controller.ErrUnknownMethod):
		return &ToolError{Category: CategoryNotFound, Err: err}
	default:
		return err
	}
}
