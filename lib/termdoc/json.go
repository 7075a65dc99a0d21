// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package termdoc

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
)

// chroma formatter/style pair used everywhere output is highlighted.
const (
	chromaFormatter = "terminal256"
	chromaStyle     = "monokai"
)

// highlight syntax-highlights code with chroma, falling back to the
// given style for an unknown language or a chroma failure.
func highlight(code, language string, fallback lipgloss.Style) string {
	if language == "" {
		return fallback.Render(code)
	}
	var highlighted strings.Builder
	if err := quick.Highlight(&highlighted, code, language, chromaFormatter, chromaStyle); err != nil {
		return fallback.Render(code)
	}
	return highlighted.String()
}

// JSON pretty-prints and syntax-highlights a JSON document for
// terminal display. Invalid JSON is returned as-is — call results are
// the controller's to shape, and a display helper should never eat
// them.
func JSON(data []byte) string {
	pretty := prettyJSON(data)
	var highlighted strings.Builder
	if err := quick.Highlight(&highlighted, pretty, "json", chromaFormatter, chromaStyle); err != nil {
		return pretty
	}
	return highlighted.String()
}

// PlainJSON pretty-prints without color, for pipes and --raw output.
func PlainJSON(data []byte) string {
	return prettyJSON(data)
}

func prettyJSON(data []byte) string {
	var indented bytes.Buffer
	if err := json.Indent(&indented, bytes.TrimSpace(data), "", "  "); err != nil {
		return string(data)
	}
	return indented.String()
}
