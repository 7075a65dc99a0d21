// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package profiles

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slipway-systems/slipway/cmd/slipway/cli"
	"github.com/slipway-systems/slipway/origin"
)

type loginParams struct {
	PasswordFile string `flag:"password-file" desc:"read the password from PATH (- for stdin) instead of prompting"`
	MakeDefault  bool   `flag:"make-default" desc:"set the new profile as the store default"`
}

func loginCommand() *cli.Command {
	var params loginParams

	return &cli.Command{
		Name:    "login",
		Summary: "Authenticate against a controller and save a profile",
		Description: `Log in to a controller and save the resulting profile.

Authenticates with username and password, stores the issued API key
under the given profile name, and caches the controller's describe
document. The password is read from the terminal with echo disabled
unless --password-file is given.

The first profile saved into an empty store becomes the default
automatically; --make-default forces it for later logins.`,
		Usage: "slipway profiles login <name> <url> <username> [flags]",
		Examples: []cli.Example{
			{
				Description: "Interactive login",
				Command:     "slipway profiles login lab http://controller.lab:5240/ admin",
			},
			{
				Description: "Scripted login with the password on stdin",
				Command:     "echo \"$PASSWORD\" | slipway profiles login lab http://controller.lab:5240/ admin --password-file -",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 3 {
				return cli.Validation("expected <name> <url> <username>, got %d arguments", len(args))
			}
			name, endpointURL, username := args[0], args[1], args[2]
			if name == "" {
				return cli.Validation("profile name must not be empty")
			}

			config, err := cli.LoadConfig()
			if err != nil {
				return cli.Validation("%s", err)
			}
			httpClient, err := config.HTTPClient()
			if err != nil {
				return cli.Validation("%s", err)
			}

			password, err := cli.ReadPassword(params.PasswordFile, fmt.Sprintf("Password for %s@%s: ", username, endpointURL))
			if err != nil {
				return cli.Validation("%s", err)
			}
			defer password.Close()

			entry, _, err := origin.Login(ctx, endpointURL, username, password, origin.LoginOptions{
				HTTPClient: httpClient,
				Logger:     logger,
			})
			if err != nil {
				return cli.ControllerError(err)
			}
			entry = entry.WithName(name)

			store, err := cli.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			wasEmpty := len(store.Names()) == 0
			if err := store.Save(entry); err != nil {
				return err
			}
			if params.MakeDefault || wasEmpty {
				if err := store.SetDefault(name); err != nil {
					return err
				}
			}
			if err := store.Close(); err != nil {
				return err
			}

			logger.Info("profile saved",
				"profile", name,
				"url", entry.URL(),
				"default", params.MakeDefault || wasEmpty)
			fmt.Printf("Logged in to %s as %s; profile %q saved.\n", entry.URL(), username, name)
			return nil
		},
	}
}
