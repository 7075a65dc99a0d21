// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SupportedVersion is the API generation this client speaks. The
// describe document's version field must match exactly; there is no
// cross-generation compatibility in the 2.x wire contract.
const SupportedVersion = "2.0"

// Description is the controller's describe document: the full set of
// resources the API exposes and the actions each supports. It is
// fetched once at login (or restored from a profile's cached copy) and
// drives both generic invocation (Session.Call) and discovery
// (origin package).
type Description struct {
	// Service is the controller's service name (e.g., "slipway").
	Service string `json:"service"`

	// Version is the API generation (e.g., "2.0").
	Version string `json:"version"`

	// Doc is the service-level documentation, in markdown.
	Doc string `json:"doc,omitempty"`

	// Resources are the top-level resource categories.
	Resources []ResourceDescription `json:"resources"`
}

// ResourceDescription describes one resource category: its URL path
// under the API root, its callable actions, and any child resources.
type ResourceDescription struct {
	// Name is the resource's identifier within its level, used as a
	// segment of dotted method paths (e.g., "machines").
	Name string `json:"name"`

	// Path is the resource's URL path relative to the API root
	// (e.g., "machines/").
	Path string `json:"path"`

	// Doc is the resource documentation, in markdown.
	Doc string `json:"doc,omitempty"`

	// Actions are the operations callable on this resource.
	Actions []ActionDescription `json:"actions"`

	// Children are nested sub-resources, addressed by extending the
	// dotted path (e.g., "machines.interfaces").
	Children []ResourceDescription `json:"children,omitempty"`
}

// ActionDescription describes one callable operation on a resource.
type ActionDescription struct {
	// Name is the action's identifier, the final segment of a dotted
	// method path (e.g., "allocate").
	Name string `json:"name"`

	// Method is the HTTP method the action uses (GET, POST, PUT,
	// DELETE).
	Method string `json:"method"`

	// Op is the operation discriminator sent as the "op" query
	// parameter. Empty for a resource's default CRUD action.
	Op string `json:"op,omitempty"`

	// Doc is the action documentation, in markdown.
	Doc string `json:"doc,omitempty"`

	// Params are the names of the parameters the action accepts.
	Params []string `json:"params,omitempty"`
}

// ParseDescription decodes and validates a describe document. All
// failures wrap ErrIncompatibleAPI: an unparseable or unsupported
// description must never silently produce an empty resource set.
func ParseDescription(data []byte) (*Description, error) {
	var description Description
	if err := json.Unmarshal(data, &description); err != nil {
		return nil, fmt.Errorf("controller: parsing describe document: %w: %w", ErrIncompatibleAPI, err)
	}
	if err := description.validate(); err != nil {
		return nil, fmt.Errorf("controller: %w: %w", ErrIncompatibleAPI, err)
	}
	return &description, nil
}

func (d *Description) validate() error {
	if d.Version != SupportedVersion {
		return fmt.Errorf("unsupported API version %q (want %q)", d.Version, SupportedVersion)
	}
	if len(d.Resources) == 0 {
		return fmt.Errorf("describe document names no resources")
	}
	return validateResources(d.Resources, "")
}

func validateResources(resources []ResourceDescription, parent string) error {
	seen := make(map[string]bool, len(resources))
	for i := range resources {
		resource := &resources[i]
		if resource.Name == "" {
			return fmt.Errorf("resource under %q has no name", displayPath(parent))
		}
		if strings.Contains(resource.Name, ".") {
			return fmt.Errorf("resource name %q contains a dot", resource.Name)
		}
		dotted := joinDotted(parent, resource.Name)
		if seen[resource.Name] {
			return fmt.Errorf("duplicate resource name %q", dotted)
		}
		seen[resource.Name] = true

		if resource.Path == "" {
			return fmt.Errorf("resource %q has no path", dotted)
		}

		actionNames := make(map[string]bool, len(resource.Actions))
		for _, action := range resource.Actions {
			if action.Name == "" {
				return fmt.Errorf("resource %q has an unnamed action", dotted)
			}
			if action.Method == "" {
				return fmt.Errorf("action %q.%s has no HTTP method", dotted, action.Name)
			}
			if actionNames[action.Name] {
				return fmt.Errorf("duplicate action %q on resource %q", action.Name, dotted)
			}
			actionNames[action.Name] = true
		}

		if err := validateResources(resource.Children, dotted); err != nil {
			return err
		}
	}
	return nil
}

// Resource finds a resource by its dotted path (e.g.,
// "machines.interfaces"). Returns nil if any segment is unknown.
func (d *Description) Resource(dotted string) *ResourceDescription {
	segments := strings.Split(dotted, ".")
	resources := d.Resources
	var found *ResourceDescription
	for _, segment := range segments {
		found = nil
		for i := range resources {
			if resources[i].Name == segment {
				found = &resources[i]
				break
			}
		}
		if found == nil {
			return nil
		}
		resources = found.Children
	}
	return found
}

// Resolve splits a dotted method path ("machines.allocate",
// "machines.interfaces.create") into the resource it targets and the
// action to invoke. Fails with ErrUnknownMethod when any segment does
// not appear in the description.
func (d *Description) Resolve(method string) (*ResourceDescription, *ActionDescription, error) {
	dot := strings.LastIndex(method, ".")
	if dot <= 0 || dot == len(method)-1 {
		return nil, nil, fmt.Errorf("controller: %w: %q is not a resource.action path", ErrUnknownMethod, method)
	}
	resourcePath, actionName := method[:dot], method[dot+1:]

	resource := d.Resource(resourcePath)
	if resource == nil {
		return nil, nil, fmt.Errorf("controller: %w: no resource %q", ErrUnknownMethod, resourcePath)
	}
	action := resource.Action(actionName)
	if action == nil {
		return nil, nil, fmt.Errorf("controller: %w: resource %q has no action %q", ErrUnknownMethod, resourcePath, actionName)
	}
	return resource, action, nil
}

// Action finds an action by name. Returns nil if absent.
func (r *ResourceDescription) Action(name string) *ActionDescription {
	for i := range r.Actions {
		if r.Actions[i].Name == name {
			return &r.Actions[i]
		}
	}
	return nil
}

func joinDotted(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func displayPath(parent string) string {
	if parent == "" {
		return "(root)"
	}
	return parent
}
