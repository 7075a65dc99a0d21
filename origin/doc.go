// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

// Package origin provides the discoverable entry point to a
// controller: an Origin wraps an authenticated controller.Session and
// materializes handles for the resources the controller's describe
// document advertises.
//
// Resources form a hierarchy (machines, machines.interfaces, ...);
// the Catalog interface is the uniform way to enumerate one level of
// it, whether at the root (Origin) or under a resource (children).
// Member handles are built lazily on first catalog access and are
// immutable afterwards.
//
// Most callers arrive here through Login, which authenticates and
// returns both an Origin and a Profile ready to persist, or
// FromProfile, which rebuilds an Origin from saved credentials without
// touching the network when a cached describe document is available.
package origin
