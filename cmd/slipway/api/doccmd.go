// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/slipway-systems/slipway/cmd/slipway/cli"
	"github.com/slipway-systems/slipway/controller"
	"github.com/slipway-systems/slipway/lib/termdoc"
	"github.com/slipway-systems/slipway/lib/tui"
	"github.com/slipway-systems/slipway/origin"
)

type docParams struct {
	cli.ProfileSelector
}

func docCommand() *cli.Command {
	var params docParams

	return &cli.Command{
		Name:    "doc",
		Summary: "Show the documentation of a resource or action",
		Usage:   "slipway api doc <resource[.action]> [flags]",
		Examples: []cli.Example{
			{
				Description: "Resource overview with its actions",
				Command:     "slipway api doc machines",
			},
			{
				Description: "One action in detail",
				Command:     "slipway api doc machines.allocate",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one path, got %d arguments", len(args))
			}

			_, org, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}

			resource, action, err := resolvePath(org, args[0])
			if err != nil {
				return err
			}

			var text string
			if action != nil {
				text = actionMarkdown(resource.Dotted(), action)
			} else {
				text = resourceMarkdown(resource)
			}

			fmt.Print(termdoc.Markdown(text, tui.DefaultTheme, outputWidth()))
			return nil
		},
	}
}

// outputWidth returns the render width: the terminal width capped at
// 100 columns, or 80 when stdout is not a terminal.
func outputWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return min(width, 100)
}

// resourceMarkdown builds the markdown document for a resource: its
// own doc followed by a table of its actions and a list of children.
func resourceMarkdown(resource *origin.Resource) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", resource.Dotted())
	if doc := strings.TrimSpace(resource.Doc()); doc != "" {
		fmt.Fprintf(&b, "%s\n\n", doc)
	}

	if actions := resource.Actions(); len(actions) > 0 {
		b.WriteString("## Actions\n\n")
		b.WriteString("| Action | Method | Op | Params |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, action := range actions {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				action.Name, action.Method, action.Op, strings.Join(action.Params, ", "))
		}
		b.WriteString("\n")
	}

	if children := resource.Names(); len(children) > 0 {
		b.WriteString("## Children\n\n")
		for _, name := range children {
			fmt.Fprintf(&b, "- `%s.%s`\n", resource.Dotted(), name)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// actionMarkdown builds the markdown document for one action.
func actionMarkdown(dotted string, action *controller.ActionDescription) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s.%s\n\n", dotted, action.Name)
	fmt.Fprintf(&b, "`%s`", action.Method)
	if action.Op != "" {
		fmt.Fprintf(&b, " with `op=%s`", action.Op)
	}
	b.WriteString("\n\n")

	if len(action.Params) > 0 {
		b.WriteString("Parameters:\n\n")
		for _, param := range action.Params {
			fmt.Fprintf(&b, "- `%s`\n", param)
		}
		b.WriteString("\n")
	}
	if doc := strings.TrimSpace(action.Doc); doc != "" {
		fmt.Fprintf(&b, "%s\n", doc)
	}
	return b.String()
}
