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

func defaultCommand() *cli.Command {
	return &cli.Command{
		Name:    "default",
		Summary: "Print or set the default profile",
		Usage:   "slipway profiles default [<name>]",
		Examples: []cli.Example{
			{
				Description: "Print the current default",
				Command:     "slipway profiles default",
			},
			{
				Description: "Make the lab profile the default",
				Command:     "slipway profiles default lab",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 1 {
				return cli.Validation("expected at most one profile name, got %d arguments", len(args))
			}

			store, err := cli.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 0 {
				name := store.DefaultName()
				if name == "" {
					return cli.NotFound("no default profile set")
				}
				fmt.Println(name)
				return nil
			}

			name := args[0]
			if err := store.SetDefault(name); err != nil {
				if errors.Is(err, profile.ErrNotFound) {
					return cli.NotFound("profile %q not found", name)
				}
				return err
			}
			if err := store.Close(); err != nil {
				return err
			}

			logger.Info("default profile changed", "profile", name)
			fmt.Printf("Default profile is now %q.\n", name)
			return nil
		},
	}
}
