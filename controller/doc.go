// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

// Package controller is the wire client for the Slipway controller's
// REST API.
//
// The controller is self-describing: it publishes a describe document
// listing every resource it exposes and the actions each resource
// supports. The client layers split along the authentication boundary:
//
//   - [Client] is unauthenticated. It validates the base URL, issues
//     API keys from username/password credentials, and fetches the
//     describe document.
//   - [Session] is authenticated. It holds an API key and a parsed
//     [Description], and performs signed calls to any action the
//     description names via [Session.Call].
//
// A Session built by [Client.Login] fetches the describe document from
// the endpoint; a Session restored from saved values via [NewSession]
// performs no network I/O at all. Nothing in this package persists
// state — profile storage is the profile package's concern.
package controller
