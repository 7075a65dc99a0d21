// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestCommandDispatch(t *testing.T) {
	t.Run("subcommand receives remaining args", func(t *testing.T) {
		var got []string
		root := &Command{
			Name: "slipway",
			Subcommands: []*Command{{
				Name: "profiles",
				Subcommands: []*Command{{
					Name: "show",
					Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
						got = args
						return nil
					},
				}},
			}},
		}

		if err := root.Execute(context.Background(), []string{"profiles", "show", "staging"}); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if len(got) != 1 || got[0] != "staging" {
			t.Errorf("args = %v, want [staging]", got)
		}
	})

	t.Run("unknown subcommand suggests the closest name", func(t *testing.T) {
		root := &Command{
			Name:        "slipway",
			Subcommands: []*Command{{Name: "profiles"}, {Name: "version"}},
		}

		err := root.Execute(context.Background(), []string{"profles"})
		if err == nil {
			t.Fatal("expected error for unknown subcommand")
		}
		if !strings.Contains(err.Error(), `"profiles"`) {
			t.Errorf("error should suggest profiles: %v", err)
		}
	})

	t.Run("missing subcommand is an error", func(t *testing.T) {
		root := &Command{
			Name:        "slipway",
			Subcommands: []*Command{{Name: "profiles"}},
		}
		if err := root.Execute(context.Background(), nil); err == nil {
			t.Fatal("expected error when no subcommand given")
		}
	})
}

func TestCommandFlagParsing(t *testing.T) {
	type showParams struct {
		JSONOutput
		Profile string `flag:"profile,p" desc:"profile name"`
	}

	newShow := func(params *showParams, positional *[]string) *Command {
		return &Command{
			Name:   "show",
			Params: func() any { return params },
			Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
				*positional = args
				return nil
			},
		}
	}

	t.Run("flags bind and positionals remain", func(t *testing.T) {
		var params showParams
		var positional []string
		command := newShow(&params, &positional)

		err := command.Execute(context.Background(), []string{"--profile", "lab", "--json", "extra"})
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if params.Profile != "lab" || !params.OutputJSON {
			t.Errorf("params = %+v", params)
		}
		if len(positional) != 1 || positional[0] != "extra" {
			t.Errorf("positional = %v, want [extra]", positional)
		}
	})

	t.Run("unknown flag suggests the closest defined flag", func(t *testing.T) {
		var params showParams
		var positional []string
		command := newShow(&params, &positional)

		err := command.Execute(context.Background(), []string{"--profil", "lab"})
		if err == nil {
			t.Fatal("expected error for unknown flag")
		}
		if !strings.Contains(err.Error(), "--profile") {
			t.Errorf("error should suggest --profile: %v", err)
		}
	})
}

func TestCommandHelp(t *testing.T) {
	root := &Command{
		Name:    "slipway",
		Summary: "operator client for machine-provisioning controllers",
		Subcommands: []*Command{
			{Name: "profiles", Summary: "manage stored controller profiles"},
			{Name: "version", Summary: "print the build version"},
		},
	}
	root.Subcommands[0].parent = root

	var out strings.Builder
	root.PrintHelp(&out)
	help := out.String()

	for _, want := range []string{"profiles", "manage stored controller profiles", "version", "<command>"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}

	if got := root.Subcommands[0].fullName(); got != "slipway profiles" {
		t.Errorf("fullName = %q, want %q", got, "slipway profiles")
	}
}
