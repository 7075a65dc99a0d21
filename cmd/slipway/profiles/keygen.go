// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package profiles

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/slipway-systems/slipway/cmd/slipway/cli"
	"github.com/slipway-systems/slipway/lib/sealed"
)

type keygenParams struct {
	Out string `flag:"out,o" desc:"write the private key to FILE (0600) instead of stdout"`
}

func keygenCommand() *cli.Command {
	var params keygenParams

	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate an age keypair for profile transfer",
		Description: `Generate an X25519 keypair for sealed profile bundles.

The public key goes to the exporting machine (--recipient); the
private key stays on this machine and decrypts imported bundles. The
private key is printed once and never stored by slipway.`,
		Usage: "slipway profiles keygen [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			keypair, err := sealed.GenerateKeypair()
			if err != nil {
				return cli.Internal("%s", err)
			}
			defer keypair.Close()

			if params.Out == "" {
				fmt.Printf("# public key: %s\n", keypair.PublicKey)
				fmt.Println(keypair.PrivateKey.String())
				return nil
			}

			content := fmt.Sprintf("# public key: %s\n%s\n", keypair.PublicKey, keypair.PrivateKey.String())
			if err := os.WriteFile(params.Out, []byte(content), 0o600); err != nil {
				return fmt.Errorf("writing key file: %w", err)
			}

			logger.Info("keypair generated", "out", params.Out)
			fmt.Printf("Public key: %s\nPrivate key written to %s.\n", keypair.PublicKey, params.Out)
			return nil
		},
	}
}
