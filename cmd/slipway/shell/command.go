// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

// Package shell implements the interactive slipway shell: a REPL
// bound to one origin, with catalog browsing, rendered documentation,
// fuzzy Tab completion, and asynchronous action calls.
package shell

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/slipway-systems/slipway/cmd/slipway/cli"
)

type shellParams struct {
	cli.ProfileSelector
}

// Command returns the top-level "shell" command.
func Command() *cli.Command {
	var params shellParams

	return &cli.Command{
		Name:    "shell",
		Summary: "Interactive shell against one controller",
		Description: `Open an interactive shell bound to a profile's controller.

The shell resolves the default (or named) profile, builds the API
catalog from the cached describe document, and evaluates commands
against it: ls to browse, doc for documentation, dotted action paths
to invoke. Tab completes catalog paths; calls run in the background
and print when they finish.`,
		Usage: "slipway shell [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			entry, org, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}
			defer org.Session().CloseIdleConnections()

			program := tea.NewProgram(NewModel(org, entry), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("shell: %w", err)
			}
			return nil
		},
	}
}
