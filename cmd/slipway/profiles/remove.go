// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package profiles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/slipway-systems/slipway/cmd/slipway/cli"
	"github.com/slipway-systems/slipway/profile"
)

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:    "remove",
		Summary: "Remove a stored profile",
		Description: `Remove a profile from the store.

Removing the default profile clears the default; the next login or an
explicit 'profiles default <name>' sets a new one. The API key remains
valid on the controller side until revoked there.`,
		Usage: "slipway profiles remove <name>",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one profile name, got %d arguments", len(args))
			}
			name := args[0]

			store, err := cli.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(name); err != nil {
				if errors.Is(err, profile.ErrNotFound) {
					return cli.NotFound("profile %q not found", name)
				}
				return err
			}
			if err := store.Close(); err != nil {
				return err
			}

			logger.Info("profile removed", "profile", name)
			fmt.Printf("Profile %q removed.\n", name)
			return nil
		},
	}
}
