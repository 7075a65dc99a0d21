// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

// Package api implements the "slipway api" command tree and the
// top-level "call" command: browsing a controller's discovered API
// surface and invoking its actions generically.
package api

import (
	"github.com/slipway-systems/slipway/cmd/slipway/cli"
)

// Command returns the "api" parent command with all subcommands.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "api",
		Summary: "Browse a controller's API surface",
		Description: `Browse the API surface discovered from the controller.

Every controller publishes a describe document listing its resources
and the actions callable on each. These commands render that document:
"resources" lists the catalog, "actions" the operations of one
resource, and "doc" the full documentation of a resource or action.
Invoke an action with 'slipway call'.`,
		Subcommands: []*cli.Command{
			resourcesCommand(),
			actionsCommand(),
			docCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "List everything the controller exposes",
				Command:     "slipway api resources",
			},
			{
				Description: "Read the documentation of one action",
				Command:     "slipway api doc machines.allocate",
			},
		},
	}
}
