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

type showParams struct {
	cli.JSONOutput
}

// showEntry is the JSON output of profiles show. Token key and secret
// are never included; the consumer key alone identifies the API key
// without granting access.
type showEntry struct {
	Name              string `json:"name"`
	URL               string `json:"url"`
	ConsumerKey       string `json:"consumer_key"`
	Default           bool   `json:"default"`
	CachedDescription bool   `json:"cached_description"`
	DescriptionDigest string `json:"description_digest,omitempty"`
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show one profile (secrets redacted)",
		Usage:   "slipway profiles show <name> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one profile name, got %d arguments", len(args))
			}
			name := args[0]

			store, err := cli.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := cli.ResolveProfile(store, name)
			if err != nil {
				return err
			}

			key, err := controller.ParseAPIKey(entry.Credentials())
			if err != nil {
				return cli.Internal("profile %q holds malformed credentials: %v", name, err)
			}

			output := showEntry{
				Name:              entry.Name(),
				URL:               entry.URL(),
				ConsumerKey:       key.ConsumerKey,
				Default:           store.DefaultName() == entry.Name(),
				CachedDescription: entry.HasDescription(),
			}
			if entry.HasDescription() {
				digest := profile.DescriptionDigest(entry.Description())
				output.DescriptionDigest = fmt.Sprintf("%x", digest)
			}

			if done, err := params.EmitJSON(output); done {
				return err
			}

			fmt.Printf("Name:         %s\n", output.Name)
			fmt.Printf("URL:          %s\n", output.URL)
			fmt.Printf("Consumer key: %s\n", output.ConsumerKey)
			fmt.Printf("Token key:    (redacted)\n")
			fmt.Printf("Token secret: (redacted)\n")
			if output.Default {
				fmt.Printf("Default:      yes\n")
			} else {
				fmt.Printf("Default:      no\n")
			}
			if output.CachedDescription {
				fmt.Printf("Description:  cached (blake3 %s)\n", output.DescriptionDigest[:16])
			} else {
				fmt.Printf("Description:  not cached\n")
			}
			return nil
		},
	}
}
