// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package termdoc

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/slipway-systems/slipway/lib/tui"
)

// stripped renders markdown and returns ANSI-stripped visible text.
func stripped(input string, width int) string {
	return ansi.Strip(Markdown(input, tui.DefaultTheme, width))
}

func TestMarkdownEmpty(t *testing.T) {
	if result := Markdown("", tui.DefaultTheme, 80); result != "" {
		t.Errorf("expected empty output for empty input, got %q", result)
	}
}

func TestMarkdownParagraphReflow(t *testing.T) {
	// Server doc strings arrive hard-wrapped at a narrow width.
	input := "Allocate a machine matching the\ngiven constraints and transition\nit to the allocated state."
	result := stripped(input, 120)

	if strings.Contains(result, "\n") {
		t.Errorf("expected soft breaks to reflow at width 120, got:\n%s", result)
	}
	if !strings.Contains(result, "the given constraints") {
		t.Errorf("expected soft break converted to space, got:\n%s", result)
	}
}

func TestMarkdownParagraphWrapsToWidth(t *testing.T) {
	input := "This action releases a machine back into the pool so it can be allocated again."
	result := stripped(input, 30)

	for _, line := range strings.Split(result, "\n") {
		if len(line) > 30 {
			t.Errorf("line exceeds width 30: %q (len=%d)", line, len(line))
		}
	}
}

func TestMarkdownHeading(t *testing.T) {
	input := "# Machines\n\nOperations on machines."
	visible := stripped(input, 80)
	if !strings.Contains(visible, "Machines") {
		t.Error("missing heading text")
	}
	if raw := Markdown(input, tui.DefaultTheme, 80); raw == visible {
		t.Error("expected ANSI styling in heading output")
	}
}

func TestMarkdownList(t *testing.T) {
	input := "Constraints:\n\n- hostname\n- arch\n- zone"
	result := stripped(input, 80)

	for _, item := range []string{"- hostname", "- arch", "- zone"} {
		if !strings.Contains(result, item) {
			t.Errorf("missing list item %q in:\n%s", item, result)
		}
	}
}

func TestMarkdownOrderedList(t *testing.T) {
	input := "Steps:\n\n1. commission\n2. allocate\n3. deploy"
	result := stripped(input, 80)

	for _, item := range []string{"1. commission", "2. allocate", "3. deploy"} {
		if !strings.Contains(result, item) {
			t.Errorf("missing list item %q in:\n%s", item, result)
		}
	}
}

func TestMarkdownCodeBlock(t *testing.T) {
	input := "Example:\n\n```json\n{\"hostname\": \"web01\"}\n```\n"
	result := stripped(input, 80)

	if !strings.Contains(result, `{"hostname": "web01"}`) {
		t.Errorf("missing code block content in:\n%s", result)
	}
}

func TestMarkdownCodeSpanNotReflowed(t *testing.T) {
	input := "Pass `system_id` to identify the machine."
	result := stripped(input, 80)

	if !strings.Contains(result, "system_id") {
		t.Errorf("missing code span in:\n%s", result)
	}
}

func TestMarkdownBlockquote(t *testing.T) {
	input := "> Deprecated since 2.0; use allocate instead."
	result := stripped(input, 80)

	if !strings.Contains(result, "│ ") {
		t.Errorf("missing blockquote prefix in:\n%s", result)
	}
	if !strings.Contains(result, "Deprecated since 2.0") {
		t.Errorf("missing blockquote content in:\n%s", result)
	}
}

func TestMarkdownLink(t *testing.T) {
	input := "See [the docs](https://example.com/docs) for details."
	result := stripped(input, 120)

	if !strings.Contains(result, "the docs") {
		t.Error("missing link text")
	}
	if !strings.Contains(result, "(https://example.com/docs)") {
		t.Errorf("missing link destination in:\n%s", result)
	}
}

func TestMarkdownTable(t *testing.T) {
	input := "| Param | Doc |\n| --- | --- |\n| hostname | The machine hostname |\n| arch | CPU architecture |"
	result := stripped(input, 80)

	if !strings.Contains(result, "Param") || !strings.Contains(result, "hostname") {
		t.Errorf("missing table content in:\n%s", result)
	}
	if !strings.Contains(result, "─") {
		t.Errorf("missing header separator in:\n%s", result)
	}
}

func TestMarkdownHTMLStripped(t *testing.T) {
	input := "Before <b>inline</b> after."
	result := stripped(input, 80)

	if strings.Contains(result, "<b>") {
		t.Errorf("HTML tags should be stripped, got:\n%s", result)
	}
	if !strings.Contains(result, "inline") {
		t.Errorf("HTML text content should survive, got:\n%s", result)
	}
}

func TestMarkdownNestedListIndent(t *testing.T) {
	input := "- outer\n  - inner one\n  - inner two"
	result := stripped(input, 80)

	if !strings.Contains(result, "- outer") {
		t.Errorf("missing outer item in:\n%s", result)
	}
	if !strings.Contains(result, "  - inner one") {
		t.Errorf("missing indented inner item in:\n%s", result)
	}
}
