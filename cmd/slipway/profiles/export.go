// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/slipway-systems/slipway/cmd/slipway/cli"
	"github.com/slipway-systems/slipway/lib/sealed"
	"github.com/slipway-systems/slipway/lib/secret"
)

// exportBundle is the plaintext carried inside a sealed profile
// export. The cached describe document is deliberately excluded: it is
// bulky and the importing machine refetches it on first use.
type exportBundle struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Credentials string `json:"credentials"`
}

type exportParams struct {
	Recipients []string `flag:"recipient" desc:"age public key of the receiving machine (repeatable)"`
	Out        string   `flag:"out,o" desc:"write the sealed bundle to FILE instead of stdout"`
}

func exportCommand() *cli.Command {
	var params exportParams

	return &cli.Command{
		Name:    "export",
		Summary: "Export a profile as an age-encrypted bundle",
		Description: `Export a profile for transfer to another machine.

The profile's endpoint and API key are serialized and encrypted to the
given age recipients; only a machine holding a matching private key
can import the bundle. Generate a keypair on the receiving machine
with 'slipway profiles keygen' first.`,
		Usage: "slipway profiles export <name> --recipient age1... [flags]",
		Examples: []cli.Example{
			{
				Description: "Export to a file for the workstation's key",
				Command:     "slipway profiles export lab --recipient age1qqpr... --out lab.sealed",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one profile name, got %d arguments", len(args))
			}
			if len(params.Recipients) == 0 {
				return cli.Validation("at least one --recipient is required")
			}
			for _, recipient := range params.Recipients {
				if err := sealed.ParsePublicKey(recipient); err != nil {
					return cli.Validation("%s", err)
				}
			}

			store, err := cli.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := cli.ResolveProfile(store, args[0])
			if err != nil {
				return err
			}

			plaintext, err := json.Marshal(exportBundle{
				Name:        entry.Name(),
				URL:         entry.URL(),
				Credentials: entry.Credentials(),
			})
			if err != nil {
				return cli.Internal("encoding bundle: %v", err)
			}
			ciphertext, err := sealed.Encrypt(plaintext, params.Recipients)
			secret.Zero(plaintext)
			if err != nil {
				return cli.Internal("%s", err)
			}

			if params.Out == "" {
				fmt.Println(ciphertext)
				return nil
			}
			if err := os.WriteFile(params.Out, []byte(ciphertext+"\n"), 0o600); err != nil {
				return fmt.Errorf("writing bundle: %w", err)
			}

			logger.Info("profile exported",
				"profile", entry.Name(),
				"recipients", len(params.Recipients),
				"out", params.Out)
			fmt.Printf("Profile %q exported to %s.\n", entry.Name(), params.Out)
			return nil
		},
	}
}
