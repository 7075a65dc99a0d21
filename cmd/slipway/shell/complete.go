// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"sort"

	"github.com/junegunn/fzf/src/util"

	"github.com/slipway-systems/slipway/lib/tui"
	"github.com/slipway-systems/slipway/origin"
)

// shellKeywords are the completion candidates that are not catalog
// paths.
var shellKeywords = []string{"ls", "doc", "call", "profile", "help", "clear", "exit", "quit"}

// candidates collects everything Tab can complete to: shell keywords,
// every dotted resource path, and every dotted action path.
func candidates(org *origin.Origin) []string {
	result := append([]string(nil), shellKeywords...)
	for _, name := range org.Names() {
		resource, err := org.Get(name)
		if err != nil {
			continue
		}
		result = appendResourcePaths(result, resource)
	}
	return result
}

func appendResourcePaths(result []string, resource *origin.Resource) []string {
	result = append(result, resource.Dotted())
	for _, action := range resource.Actions() {
		result = append(result, resource.Dotted()+"."+action.Name)
	}
	for _, name := range resource.Names() {
		child, err := resource.Get(name)
		if err != nil {
			continue
		}
		result = appendResourcePaths(result, child)
	}
	return result
}

// scored pairs a candidate with its fuzzy match score for ranking.
type scored struct {
	text  string
	score int
}

// complete fuzzy-filters the candidates against the word being typed,
// best match first. An empty word returns every candidate in order.
func complete(cands []string, word string, slab *util.Slab) []string {
	if word == "" {
		return append([]string(nil), cands...)
	}

	pattern := []rune(word)
	var matches []scored
	for _, candidate := range cands {
		result := tui.FuzzyMatch(candidate, pattern, slab)
		if result.Score > 0 {
			matches = append(matches, scored{text: candidate, score: result.Score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	completions := make([]string, len(matches))
	for i, match := range matches {
		completions[i] = match.text
	}
	return completions
}
