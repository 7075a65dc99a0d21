// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

// Package termdoc renders controller-supplied documentation for the
// terminal. The describe document carries markdown doc strings for the
// service, its resources, and their actions; Markdown turns those into
// styled, width-wrapped ANSI text. JSON highlights API call results.
//
// Rendering is deliberately forced to the ANSI256 profile rather than
// auto-detected: the output is always destined for a terminal (the
// `api doc` command or the interactive shell), and auto-detection
// produces bare text under test harnesses and pipes where the caller
// has already decided color is wanted.
package termdoc
