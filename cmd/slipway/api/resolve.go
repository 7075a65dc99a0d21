// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"strings"

	"github.com/slipway-systems/slipway/cmd/slipway/cli"
	"github.com/slipway-systems/slipway/controller"
	"github.com/slipway-systems/slipway/origin"
)

// resolvePath walks a dotted path through the origin's catalog. When
// the final segment names an action rather than a child resource, the
// owning resource and that action are returned; otherwise the action
// is nil and the path named a resource.
func resolvePath(org *origin.Origin, dotted string) (*origin.Resource, *controller.ActionDescription, error) {
	segments := strings.Split(dotted, ".")

	resource, err := org.Get(segments[0])
	if err != nil {
		if errors.Is(err, origin.ErrUnknownResource) {
			return nil, nil, cli.NotFound("unknown resource %q", segments[0])
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

		// Not a child. As the last segment it may name an action.
		if i == len(segments)-2 {
			if action := resource.Action(segment); action != nil {
				return resource, action, nil
			}
		}
		return nil, nil, cli.NotFound("%q has no child or action %q", resource.Dotted(), segment)
	}

	return resource, nil, nil
}
