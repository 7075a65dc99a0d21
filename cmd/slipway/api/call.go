// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/slipway-systems/slipway/cmd/slipway/cli"
	"github.com/slipway-systems/slipway/controller"
	"github.com/slipway-systems/slipway/lib/termdoc"
)

type callParams struct {
	cli.ProfileSelector
	Raw bool `flag:"raw" desc:"plain output, no highlighting"`
}

// CallCommand returns the top-level "call" command.
func CallCommand() *cli.Command {
	var params callParams

	return &cli.Command{
		Name:    "call",
		Summary: "Invoke a controller action",
		Description: `Invoke one action on the controller.

The action is addressed by its dotted path from 'slipway api
resources'; parameters are key=value pairs. The JSON response is
highlighted on a terminal, plain when piped or with --raw.`,
		Usage: "slipway call <resource.action> [key=value ...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Allocate a machine by hostname",
				Command:     "slipway call machines.allocate hostname=web01",
			},
			{
				Description: "List machines from a named profile, for a script",
				Command:     "slipway call machines.list --profile lab --raw",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return cli.Validation("expected <resource.action>")
			}
			method := args[0]
			if !strings.Contains(method, ".") {
				return cli.Validation("%q is not a dotted action path (e.g., machines.list)", method)
			}

			values, err := parseCallArgs(args[1:])
			if err != nil {
				return err
			}

			_, org, err := params.Connect(ctx, logger)
			if err != nil {
				return err
			}

			result, err := org.Session().Call(ctx, method, values)
			if err != nil {
				return callError(err)
			}

			if params.Raw || !term.IsTerminal(int(os.Stdout.Fd())) {
				fmt.Println(termdoc.PlainJSON(result))
				return nil
			}
			fmt.Println(termdoc.JSON(result))
			return nil
		},
	}
}

// parseCallArgs converts key=value arguments to url.Values. Repeating
// a key sends multiple values for it.
func parseCallArgs(args []string) (url.Values, error) {
	values := url.Values{}
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return nil, cli.Validation("argument %q is not key=value", arg)
		}
		values.Add(key, value)
	}
	return values, nil
}

// callError categorizes a failed call: remote errors by their HTTP
// status, everything else through the shared sentinel mapping.
func callError(err error) error {
	var serverErr *controller.ServerError
	if errors.As(err, &serverErr) {
		switch serverErr.StatusCode {
		case http.StatusBadRequest:
			return &cli.ToolError{Category: cli.CategoryValidation, Err: err}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &cli.ToolError{Category: cli.CategoryForbidden, Err: err}
		case http.StatusNotFound:
			return &cli.ToolError{Category: cli.CategoryNotFound, Err: err}
		case http.StatusConflict:
			return &cli.ToolError{Category: cli.CategoryConflict, Err: err}
		case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return &cli.ToolError{Category: cli.CategoryTransient, Err: err}
		default:
			return &cli.ToolError{Category: cli.CategoryInternal, Err: err}
		}
	}
	return cli.ControllerError(err)
}
