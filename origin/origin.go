// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package origin

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/slipway-systems/slipway/controller"
)

// ErrUnknownResource indicates a catalog lookup named a resource the
// describe document does not advertise at that level.
var ErrUnknownResource = errors.New("unknown resource")

// Catalog is one level of the resource hierarchy: the top-level
// resources of an Origin, or the children of a Resource.
type Catalog interface {
	// Names returns the member names at this level, sorted.
	Names() []string

	// Get returns the named member, or ErrUnknownResource.
	Get(name string) (*Resource, error)

	// Describe returns the named member's documentation (markdown),
	// or ErrUnknownResource.
	Describe(name string) (string, error)
}

// Origin is the discoverable root object over an authenticated
// Session. Its members mirror the describe document's top-level
// resources; they are materialized on first access, exactly once, and
// shared by concurrent callers.
type Origin struct {
	session *controller.Session

	build   sync.Once
	members map[string]*Resource
	names   []string
}

// New wraps a Session in an Origin. The Session's description was
// validated at construction, so the member set is never empty.
func New(session *controller.Session) (*Origin, error) {
	if session == nil {
		return nil, fmt.Errorf("origin: session is required")
	}
	return &Origin{session: session}, nil
}

// Session returns the underlying authenticated session.
func (o *Origin) Session() *controller.Session {
	return o.session
}

// materialize builds the member handles from the session's
// description. The description is immutable, so the build runs once
// and the result is shared.
func (o *Origin) materialize() {
	o.build.Do(func() {
		resources := o.session.Description().Resources
		o.members = make(map[string]*Resource, len(resources))
		o.names = make([]string, 0, len(resources))
		for i := range resources {
			resource := &resources[i]
			o.members[resource.Name] = newResource(o.session, "", resource)
			o.names = append(o.names, resource.Name)
		}
		sort.Strings(o.names)
	})
}

// Names returns the top-level resource names, sorted.
func (o *Origin) Names() []string {
	o.materialize()
	names := make([]string, len(o.names))
	copy(names, o.names)
	return names
}

// Get returns the named top-level resource.
func (o *Origin) Get(name string) (*Resource, error) {
	o.materialize()
	member, present := o.members[name]
	if !present {
		return nil, fmt.Errorf("origin: %q: %w", name, ErrUnknownResource)
	}
	return member, nil
}

// Describe returns the named top-level resource's documentation.
func (o *Origin) Describe(name string) (string, error) {
	member, err := o.Get(name)
	if err != nil {
		return "", err
	}
	return member.Doc(), nil
}

// Doc returns the service-level documentation from the describe
// document.
func (o *Origin) Doc() string {
	return o.session.Description().Doc
}
