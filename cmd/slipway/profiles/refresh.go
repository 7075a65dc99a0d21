// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package profiles

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slipway-systems/slipway/cmd/slipway/cli"
	"github.com/slipway-systems/slipway/controller"
	"github.com/slipway-systems/slipway/profile"
)

func refreshCommand() *cli.Command {
	return &cli.Command{
		Name:    "refresh",
		Summary: "Refetch a profile's cached describe document",
		Description: `Refetch the controller's describe document and update the cache.

Compares the blake3 digest of the fetched document against the cached
one and reports whether anything changed. Exits 1 when the description
changed (and was updated), 0 when it is unchanged, so scripts can
trigger follow-up work on API changes.`,
		Usage: "slipway profiles refresh [<name>]",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 1 {
				return cli.Validation("expected at most one profile name, got %d arguments", len(args))
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			config, err := cli.LoadConfig()
			if err != nil {
				return cli.Validation("%s", err)
			}
			httpClient, err := config.HTTPClient()
			if err != nil {
				return cli.Validation("%s", err)
			}

			store, err := cli.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := cli.ResolveProfile(store, name)
			if err != nil {
				return err
			}

			client, err := controller.NewClient(controller.ClientConfig{
				BaseURL:    entry.URL(),
				HTTPClient: httpClient,
				Logger:     logger,
			})
			if err != nil {
				return cli.Validation("%s", err)
			}

			_, raw, err := client.Describe(ctx)
			if err != nil {
				return cli.ControllerError(err)
			}

			if entry.HasDescription() {
				oldDigest := profile.DescriptionDigest(entry.Description())
				newDigest := profile.DescriptionDigest(raw)
				if oldDigest == newDigest {
					fmt.Printf("Profile %q: description unchanged.\n", entry.Name())
					return nil
				}
			}

			if err := store.Save(entry.WithDescription(raw)); err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return err
			}

			logger.Info("description refreshed",
				"profile", entry.Name(),
				"bytes", len(raw))
			fmt.Printf("Profile %q: description changed, cache updated.\n", entry.Name())
			return &cli.ExitError{Code: 1}
		},
	}
}
