// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// fzf requires its scoring and character-class tables to be
// initialized before any matching; without this, case folding and
// bonus scoring are inert.
func init() {
	algo.Init("default")
}

// FuzzyResult is the outcome of matching a pattern against one
// candidate: fzf's score (higher is better, 0 means no match) and the
// rune positions of the matched characters, for highlighting.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// FuzzyMatch matches pattern against text using fzf's V2 algorithm.
// Matching is case-insensitive. An empty pattern matches nothing
// (zero result) — callers treat an empty query as "show everything"
// without per-candidate scoring.
//
// The slab is fzf's scratch allocation arena; pass nil for one-off
// matches, or share a slab across a batch (see MakeSlab) to avoid
// per-call allocation. A slab must not be shared across goroutines.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}

	// fzf expects an already-lowercased pattern when matching
	// case-insensitively.
	lowered := []rune(strings.ToLower(string(pattern)))
	chars := util.ToChars([]byte(text))

	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Score <= 0 {
		return FuzzyResult{}
	}

	matched := FuzzyResult{Score: result.Score}
	if positions != nil {
		matched.Positions = *positions
	}
	return matched
}

// slab sizing mirrors fzf's own defaults.
const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

// MakeSlab allocates a scratch arena for a batch of FuzzyMatch calls.
func MakeSlab() *util.Slab {
	return util.MakeSlab(slab16Size, slab32Size)
}
