// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the framework shared by every slipway command:
// the command tree with pflag-based flag binding, typo suggestions,
// categorized errors with exit-code mapping, JSON output support,
// structured logging, the operator's client configuration file, and
// the helpers that open the profile store and prompt for passwords.
//
// Commands declare a params struct with flag tags and a Run function;
// Execute handles dispatch, flag parsing, and help. See Command.
package cli
