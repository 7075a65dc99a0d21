// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for Slipway's terminal UIs. All
// colors use lipgloss ANSI 256-color codes for broad terminal
// compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected completion entry.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	PromptForeground lipgloss.Color

	// Fuzzy-match highlighting inside completion candidates.
	MatchForeground lipgloss.Color

	// Semantic accents for command output.
	ErrorForeground   lipgloss.Color
	SuccessForeground lipgloss.Color
	DocForeground     lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed
// for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	PromptForeground: lipgloss.Color("114"), // green

	MatchForeground: lipgloss.Color("220"), // amber

	ErrorForeground:   lipgloss.Color("196"), // red
	SuccessForeground: lipgloss.Color("114"), // green
	DocForeground:     lipgloss.Color("75"),  // blue
}
