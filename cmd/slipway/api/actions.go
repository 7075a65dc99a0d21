// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/slipway-systems/slipway/cmd/slipway/cli"
)

type actionsParams struct {
	cli.ProfileSelector
	cli.JSONOutput
}

// actionEntry is one action row in the JSON output.
type actionEntry struct {
	Name   string   `json:"name"`
	Method string   `json:"method"`
	Op     string   `json:"op,omitempty"`
	Params []string `json:"params,omitempty"`
	Doc    string   `json:"doc,omitempty"`
}

func actionsCommand() *cli.Command {
	var params actionsParams

	return &cli.Command{
		Name:    "actions",
		Summary: "List the actions of one resource",
		Usage:   "slipway api actions <resource> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one resource path, got %d arguments", len(args))
			}

			_, org, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}

			resource, action, err := resolvePath(org, args[0])
			if err != nil {
				return err
			}
			if action != nil {
				return cli.Validation("%q is an action; use 'slipway api doc %s'", args[0], args[0])
			}

			entries := make([]actionEntry, 0, len(resource.Actions()))
			for _, action := range resource.Actions() {
				entries = append(entries, actionEntry{
					Name:   action.Name,
					Method: action.Method,
					Op:     action.Op,
					Params: action.Params,
					Doc:    firstLine(action.Doc),
				})
			}

			if done, err := params.EmitJSON(entries); done {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "ACTION\tMETHOD\tOP\tPARAMS")
			for _, entry := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					entry.Name, entry.Method, entry.Op, strings.Join(entry.Params, ", "))
			}
			return tw.Flush()
		},
	}
}
