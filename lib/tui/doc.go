// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui holds the shared pieces of Slipway's terminal UIs: the
// color theme and the fuzzy matcher that drives shell completion.
//
// The theme uses lipgloss ANSI 256-color codes for broad terminal
// compatibility. The fuzzy matcher wraps fzf's FuzzyMatchV2 so
// completion behaves the way fingers already expect from fzf:
// non-contiguous matches, boundary bonuses, case-insensitive.
package tui
