// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/slipway-systems/slipway/cmd/slipway/cli"
	"github.com/slipway-systems/slipway/controller"
	"github.com/slipway-systems/slipway/lib/sealed"
	"github.com/slipway-systems/slipway/lib/secret"
	"github.com/slipway-systems/slipway/profile"
)

type importParams struct {
	IdentityFile string `flag:"identity-file" desc:"age private key file (\"-\" reads the key from stdin)"`
	Name         string `flag:"name" desc:"store under this name instead of the exported one"`
	MakeDefault  bool   `flag:"make-default" desc:"set the imported profile as the store default"`
}

func importCommand() *cli.Command {
	var params importParams

	return &cli.Command{
		Name:    "import",
		Summary: "Import a sealed profile bundle",
		Description: `Import a profile exported on another machine.

Decrypts the bundle with the age private key and saves the contained
profile. The describe document is not part of the bundle; it is
fetched from the controller the first time the profile is used (or
explicitly via 'profiles refresh').`,
		Usage: "slipway profiles import <file> --identity-file PATH [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one bundle file, got %d arguments", len(args))
			}
			if params.IdentityFile == "" {
				return cli.Validation("--identity-file is required")
			}

			ciphertext, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading bundle: %w", err)
			}

			identity, err := secret.ReadFromPath(params.IdentityFile)
			if err != nil {
				return cli.Validation("reading identity: %v", err)
			}
			defer identity.Close()

			plaintext, err := sealed.Decrypt(strings.TrimSpace(string(ciphertext)), identity)
			if err != nil {
				return cli.Validation("%s", err)
			}
			defer plaintext.Close()

			var bundle exportBundle
			if err := json.Unmarshal(plaintext.Bytes(), &bundle); err != nil {
				return cli.Validation("malformed bundle payload: %v", err)
			}

			name := bundle.Name
			if params.Name != "" {
				name = params.Name
			}
			if name == "" {
				return cli.Validation("bundle has no profile name; pass --name")
			}
			if _, err := controller.ParseAPIKey(bundle.Credentials); err != nil {
				return cli.Validation("bundle credentials: %v", err)
			}

			store, err := cli.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			wasEmpty := len(store.Names()) == 0
			if err := store.Save(profile.New(name, bundle.URL, bundle.Credentials)); err != nil {
				return err
			}
			if params.MakeDefault || wasEmpty {
				if err := store.SetDefault(name); err != nil {
					return err
				}
			}
			if err := store.Close(); err != nil {
				return err
			}

			logger.Info("profile imported", "profile", name, "url", bundle.URL)
			fmt.Printf("Profile %q imported for %s.\n", name, bundle.URL)
			return nil
		},
	}
}
