// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/slipway-systems/slipway/controller"
)

// Resource is a handle on one resource in the hierarchy. It carries
// the dotted path from the root ("machines", "machines.interfaces")
// and delegates invocation to the underlying Session. A Resource is
// also a Catalog over its children.
type Resource struct {
	session     *controller.Session
	dotted      string
	description *controller.ResourceDescription

	build      sync.Once
	children   map[string]*Resource
	childNames []string
}

// newResource binds a resource description under the given parent
// dotted path ("" for top level).
func newResource(session *controller.Session, parent string, description *controller.ResourceDescription) *Resource {
	dotted := description.Name
	if parent != "" {
		dotted = parent + "." + description.Name
	}
	return &Resource{
		session:     session,
		dotted:      dotted,
		description: description,
	}
}

// Name returns the resource's name within its level ("interfaces").
func (r *Resource) Name() string {
	return r.description.Name
}

// Dotted returns the resource's full dotted path from the root
// ("machines.interfaces").
func (r *Resource) Dotted() string {
	return r.dotted
}

// Doc returns the resource's documentation, in markdown.
func (r *Resource) Doc() string {
	return r.description.Doc
}

// Actions returns the resource's callable actions, sorted by name.
func (r *Resource) Actions() []controller.ActionDescription {
	actions := make([]controller.ActionDescription, len(r.description.Actions))
	copy(actions, r.description.Actions)
	sort.Slice(actions, func(i, j int) bool {
		return actions[i].Name < actions[j].Name
	})
	return actions
}

// Action returns the named action's description, or nil if the
// resource has no such action.
func (r *Resource) Action(name string) *controller.ActionDescription {
	if found := r.description.Action(name); found != nil {
		action := *found
		return &action
	}
	return nil
}

// Call invokes the named action on this resource. It delegates to
// Session.Call with the resource's dotted prefix, so per-call errors
// carry the same taxonomy (ErrUnknownMethod, *ServerError,
// ErrEndpointUnreachable) and never invalidate the handle.
func (r *Resource) Call(ctx context.Context, action string, params url.Values) ([]byte, error) {
	return r.session.Call(ctx, r.dotted+"."+action, params)
}

// materialize builds the child handles, once.
func (r *Resource) materialize() {
	r.build.Do(func() {
		children := r.description.Children
		r.children = make(map[string]*Resource, len(children))
		r.childNames = make([]string, 0, len(children))
		for i := range children {
			child := &children[i]
			r.children[child.Name] = newResource(r.session, r.dotted, child)
			r.childNames = append(r.childNames, child.Name)
		}
		sort.Strings(r.childNames)
	})
}

// Names returns the child resource names, sorted. Empty for a leaf.
func (r *Resource) Names() []string {
	r.materialize()
	names := make([]string, len(r.childNames))
	copy(names, r.childNames)
	return names
}

// Get returns the named child resource.
func (r *Resource) Get(name string) (*Resource, error) {
	r.materialize()
	child, present := r.children[name]
	if !present {
		return nil, fmt.Errorf("origin: %q: %w", r.dotted+"."+name, ErrUnknownResource)
	}
	return child, nil
}

// Describe returns the named child resource's documentation.
func (r *Resource) Describe(name string) (string, error) {
	child, err := r.Get(name)
	if err != nil {
		return "", err
	}
	return child.Doc(), nil
}
