// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package profiles

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/slipway-systems/slipway/cmd/slipway/cli"
)

type listParams struct {
	cli.JSONOutput
}

// listEntry is a single entry in the JSON output.
type listEntry struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Default bool   `json:"default"`
	Cached  bool   `json:"cached_description"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List stored profiles",
		Usage:   "slipway profiles list [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			store, err := cli.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			defaultName := store.DefaultName()
			entries := make([]listEntry, 0, len(store.Names()))
			for _, name := range store.Names() {
				entry, err := store.Get(name)
				if err != nil {
					return err
				}
				entries = append(entries, listEntry{
					Name:    name,
					URL:     entry.URL(),
					Default: name == defaultName,
					Cached:  entry.HasDescription(),
				})
			}

			if done, err := params.EmitJSON(entries); done {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No profiles. Run 'slipway profiles login' to add one.")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "NAME\tURL\tDEFAULT\tCACHED")
			for _, entry := range entries {
				marker := ""
				if entry.Default {
					marker = "*"
				}
				cached := "no"
				if entry.Cached {
					cached = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", entry.Name, entry.URL, marker, cached)
			}
			return tw.Flush()
		},
	}
}
