// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete slipway CLI command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	apicmd "github.com/slipway-systems/slipway/cmd/slipway/api"
	"github.com/slipway-systems/slipway/cmd/slipway/cli"
	profilescmd "github.com/slipway-systems/slipway/cmd/slipway/profiles"
	shellcmd "github.com/slipway-systems/slipway/cmd/slipway/shell"
	"github.com/slipway-systems/slipway/lib/version"
)

// Root builds and returns the complete slipway CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "slipway",
		Description: `Slipway: operator client for machine-provisioning controllers.

Log in once to store a profile; every later command resolves the
controller's API surface from the cached describe document and signs
its requests with the stored key.`,
		Subcommands: []*cli.Command{
			profilescmd.Command(),
			apicmd.Command(),
			apicmd.CallCommand(),
			shellcmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("slipway %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Log in to a controller and make it the default profile",
				Command:     "slipway profiles login lab http://controller.lab:5240/ admin --make-default",
			},
			{
				Description: "See what the controller exposes",
				Command:     "slipway api resources",
			},
			{
				Description: "Invoke an action",
				Command:     "slipway call machines.allocate hostname=web01",
			},
			{
				Description: "Explore interactively",
				Command:     "slipway shell",
			},
		},
	}
}
