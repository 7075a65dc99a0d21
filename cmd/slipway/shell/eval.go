// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/slipway-systems/slipway/controller"
	"github.com/slipway-systems/slipway/origin"
	"github.com/slipway-systems/slipway/profile"
)

// evalResult is what one line of shell input evaluates to. At most one
// of the fields is meaningful: plain text output, a markdown document
// to render, an asynchronous call to start, or a screen/session
// control.
type evalResult struct {
	output   string
	markdown string
	call     *callSpec
	clear    bool
	quit     bool
}

// callSpec is a controller invocation extracted from shell input,
// executed asynchronously by the model.
type callSpec struct {
	method string
	params url.Values
}

const helpText = `Commands:
  ls [<resource>]          list resources, or one resource's children and actions
  doc <path>               documentation for a resource or action
  <resource.action> k=v    invoke an action (also: call <resource.action> k=v)
  profile                  current profile summary
  clear                    clear the scrollback
  exit                     leave the shell

Tab completes resource paths and commands; up/down walk the history.`

// eval interprets one line of input against the bound origin. Errors
// are returned for the caller to print; they never terminate the
// shell.
func eval(input string, org *origin.Origin, entry profile.Profile) (evalResult, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return evalResult{}, nil
	}

	switch fields[0] {
	case "help", "?":
		return evalResult{output: helpText}, nil

	case "clear":
		return evalResult{clear: true}, nil

	case "exit", "quit":
		return evalResult{quit: true}, nil

	case "profile":
		return evalResult{output: profileSummary(org, entry)}, nil

	case "ls":
		if len(fields) > 2 {
			return evalResult{}, fmt.Errorf("usage: ls [<resource>]")
		}
		if len(fields) == 1 {
			return evalResult{output: listCatalog(org)}, nil
		}
		return listResource(org, fields[1])

	case "doc":
		if len(fields) != 2 {
			return evalResult{}, fmt.Errorf("usage: doc <resource[.action]>")
		}
		return docFor(org, fields[1])

	case "call":
		if len(fields) < 2 {
			return evalResult{}, fmt.Errorf("usage: call <resource.action> [key=value ...]")
		}
		return buildCall(org, fields[1], fields[2:])

	default:
		if strings.Contains(fields[0], ".") {
			return buildCall(org, fields[0], fields[1:])
		}
		return evalResult{}, fmt.Errorf("unknown command %q (try help)", fields[0])
	}
}

func profileSummary(org *origin.Origin, entry profile.Profile) string {
	return fmt.Sprintf("profile %s\n  url:       %s\n  resources: %d",
		entry.Name(), entry.URL(), len(org.Names()))
}

func listCatalog(org *origin.Origin) string {
	var b strings.Builder
	for _, name := range org.Names() {
		resource, err := org.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "%-24s %s\n", name, actionNames(resource))
	}
	return strings.TrimRight(b.String(), "\n")
}

func listResource(org *origin.Origin, dotted string) (evalResult, error) {
	resource, action, err := resolve(org, dotted)
	if err != nil {
		return evalResult{}, err
	}
	if action != nil {
		return evalResult{}, fmt.Errorf("%q is an action; try doc %s", dotted, dotted)
	}

	var b strings.Builder
	for _, name := range resource.Names() {
		child, err := resource.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "%-24s %s\n", child.Dotted(), actionNames(child))
	}
	for _, action := range resource.Actions() {
		op := ""
		if action.Op != "" {
			op = " op=" + action.Op
		}
		fmt.Fprintf(&b, "%s.%-*s %s%s\n", resource.Dotted(), 23-len(resource.Dotted()), action.Name, action.Method, op)
	}
	return evalResult{output: strings.TrimRight(b.String(), "\n")}, nil
}

func actionNames(resource *origin.Resource) string {
	names := make([]string, 0, len(resource.Actions()))
	for _, action := range resource.Actions() {
		names = append(names, action.Name)
	}
	return strings.Join(names, ", ")
}

func docFor(org *origin.Origin, dotted string) (evalResult, error) {
	resource, action, err := resolve(org, dotted)
	if err != nil {
		return evalResult{}, err
	}

	if action != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "# %s.%s\n\n`%s`", resource.Dotted(), action.Name, action.Method)
		if action.Op != "" {
			fmt.Fprintf(&b, " with `op=%s`", action.Op)
		}
		b.WriteString("\n\n")
		if len(action.Params) > 0 {
			fmt.Fprintf(&b, "Parameters: `%s`\n\n", strings.Join(action.Params, "`, `"))
		}
		if doc := strings.TrimSpace(action.Doc); doc != "" {
			b.WriteString(doc)
			b.WriteString("\n")
		}
		return evalResult{markdown: b.String()}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", resource.Dotted())
	if doc := strings.TrimSpace(resource.Doc()); doc != "" {
		b.WriteString(doc)
		b.WriteString("\n")
	}
	return evalResult{markdown: b.String()}, nil
}

func buildCall(org *origin.Origin, method string, args []string) (evalResult, error) {
	resource, action, err := resolve(org, method)
	if err != nil {
		return evalResult{}, err
	}
	if action == nil {
		return evalResult{}, fmt.Errorf("%q is a resource, not an action; try ls %s", method, method)
	}

	params := url.Values{}
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found || key == "" {
			return evalResult{}, fmt.Errorf("argument %q is not key=value", arg)
		}
		params.Add(key, value)
	}

	return evalResult{call: &callSpec{
		method: resource.Dotted() + "." + action.Name,
		params: params,
	}}, nil
}

// resolve walks a dotted path through the catalog. When the final
// segment names an action rather than a child, the owning resource
// and that action are returned.
func resolve(org *origin.Origin, dotted string) (*origin.Resource, *controller.ActionDescription, error) {
	segments := strings.Split(dotted, ".")

	resource, err := org.Get(segments[0])
	if err != nil {
		if errors.Is(err, origin.ErrUnknownResource) {
			return nil, nil, fmt.Errorf("unknown resource %q", segments[0])
		}
		return nil, nil, err
	}

	for i, segment := range segments[1:] {
		child, err := resource.Get(segment)
		if err == nil {
			resource = child
			continue
		}
		if !errors.Is(err, origin.ErrUnknownResource) {
			return nil, nil, err
		}
		if i == len(segments)-2 {
			if action := resource.Action(segment); action != nil {
				return resource, action, nil
			}
		}
		return nil, nil, fmt.Errorf("%q has no child or action %q", resource.Dotted(), segment)
	}

	return resource, nil, nil
}
