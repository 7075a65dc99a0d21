// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

// Package profiles implements the "slipway profiles" command tree:
// logging in to controllers, managing the stored profiles, and moving
// sealed profile exports between operator machines.
package profiles

import (
	"github.com/slipway-systems/slipway/cmd/slipway/cli"
)

// Command returns the "profiles" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "profiles",
		Summary: "Manage stored controller profiles",
		Description: `Manage the profiles slipway uses to reach controllers.

A profile records a controller endpoint, the API key issued at login,
and a cached copy of the controller's describe document so later
commands can resolve API calls without refetching it. Profiles live in
a single store file, one per operator, locked against concurrent
slipway processes.

The "login" subcommand authenticates against a controller and saves
the resulting profile. "export" and "import" move a profile between
machines as an age-encrypted bundle, so API keys never cross the wire
in the clear.`,
		Subcommands: []*cli.Command{
			loginCommand(),
			listCommand(),
			showCommand(),
			removeCommand(),
			defaultCommand(),
			refreshCommand(),
			exportCommand(),
			importCommand(),
			keygenCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Log in to a controller and make it the default",
				Command:     "slipway profiles login lab http://controller.lab:5240/ admin --make-default",
			},
			{
				Description: "List stored profiles",
				Command:     "slipway profiles list",
			},
		},
	}
}
