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
	"github.com/slipway-systems/slipway/origin"
)

type resourcesParams struct {
	cli.ProfileSelector
	cli.JSONOutput
}

// resourceEntry is one catalog row in the JSON output.
type resourceEntry struct {
	Path    string   `json:"path"`
	Actions []string `json:"actions"`
	Doc     string   `json:"doc,omitempty"`
}

func resourcesCommand() *cli.Command {
	var params resourcesParams

	return &cli.Command{
		Name:    "resources",
		Summary: "List the controller's resources",
		Usage:   "slipway api resources [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			_, org, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}

			var entries []resourceEntry
			for _, name := range org.Names() {
				resource, err := org.Get(name)
				if err != nil {
					return err
				}
				entries = collect(entries, resource)
			}

			if done, err := params.EmitJSON(entries); done {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "RESOURCE\tACTIONS")
			for _, entry := range entries {
				fmt.Fprintf(tw, "%s\t%s\n", entry.Path, strings.Join(entry.Actions, ", "))
			}
			return tw.Flush()
		},
	}
}

// collect appends the resource and its descendants depth-first, so
// children sort directly under their parent.
func collect(entries []resourceEntry, resource *origin.Resource) []resourceEntry {
	actions := make([]string, 0, len(resource.Actions()))
	for _, action := range resource.Actions() {
		actions = append(actions, action.Name)
	}
	entries = append(entries, resourceEntry{
		Path:    resource.Dotted(),
		Actions: actions,
		Doc:     firstLine(resource.Doc()),
	})

	for _, name := range resource.Names() {
		child, err := resource.Get(name)
		if err != nil {
			continue
		}
		entries = collect(entries, child)
	}
	return entries
}

func firstLine(doc string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(doc), "\n")
	return line
}
