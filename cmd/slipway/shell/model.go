// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"

	"github.com/slipway-systems/slipway/lib/termdoc"
	"github.com/slipway-systems/slipway/lib/tui"
	"github.com/slipway-systems/slipway/origin"
	"github.com/slipway-systems/slipway/profile"
)

// keyMap binds the shell's control keys. Everything else goes to the
// input line.
type keyMap struct {
	Submit      key.Binding
	Complete    key.Binding
	HistoryUp   key.Binding
	HistoryDown key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:      key.NewBinding(key.WithKeys("enter")),
		Complete:    key.NewBinding(key.WithKeys("tab")),
		HistoryUp:   key.NewBinding(key.WithKeys("up")),
		HistoryDown: key.NewBinding(key.WithKeys("down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d")),
	}
}

// callDoneMsg delivers the result of an asynchronous controller call
// back into the update loop.
type callDoneMsg struct {
	method string
	output string
	err    error
}

// Model is the shell's bubbletea model: a scrollback viewport above a
// single input line, bound to one origin.
type Model struct {
	org   *origin.Origin
	entry profile.Profile
	theme tui.Theme
	keys  keyMap

	viewport viewport.Model
	input    textinput.Model
	ready    bool
	width    int
	height   int

	scrollback []string

	history      []string
	historyIndex int

	// Completion state: candidates is the full catalog, completions
	// the current Tab cycle. completionIndex is the entry the last
	// Tab inserted.
	candidates      []string
	completions     []string
	completionIndex int
	slab            *util.Slab

	pendingCalls int
	quitting     bool
}

// NewModel builds the shell model for one origin and profile.
func NewModel(org *origin.Origin, entry profile.Profile) Model {
	input := textinput.New()
	input.Prompt = entry.Name() + "> "
	input.Focus()

	return Model{
		org:          org,
		entry:        entry,
		theme:        tui.DefaultTheme,
		keys:         defaultKeyMap(),
		input:        input,
		candidates:   candidates(org),
		slab:         tui.MakeSlab(),
		historyIndex: 0,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := max(msg.Height-2, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, bodyHeight)
			m.ready = true
			m.appendBlock(m.banner())
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = bodyHeight
			m.refreshViewport()
		}
		return m, nil

	case callDoneMsg:
		m.pendingCalls--
		if msg.err != nil {
			m.appendBlock(m.errorStyle().Render(fmt.Sprintf("%s: %v", msg.method, msg.err)))
		} else {
			m.appendBlock(msg.output)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			cmd := m.submit()
			return m, cmd

		case key.Matches(msg, m.keys.Complete):
			m.completeInput()
			return m, nil

		case key.Matches(msg, m.keys.HistoryUp):
			m.recallHistory(-1)
			return m, nil

		case key.Matches(msg, m.keys.HistoryDown):
			m.recallHistory(1)
			return m, nil

		case key.Matches(msg, m.keys.PageUp):
			m.viewport.HalfViewUp()
			return m, nil

		case key.Matches(msg, m.keys.PageDown):
			m.viewport.HalfViewDown()
			return m, nil
		}

		// Any other keystroke edits the line and ends a Tab cycle.
		m.completions = nil
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.completions = nil
	if line == "" {
		return nil
	}

	m.history = append(m.history, line)
	m.historyIndex = len(m.history)
	m.appendBlock(m.promptStyle().Render(m.entry.Name()+"> ") + line)

	result, err := eval(line, m.org, m.entry)
	if err != nil {
		m.appendBlock(m.errorStyle().Render(err.Error()))
		return nil
	}

	switch {
	case result.quit:
		m.quitting = true
		return tea.Quit

	case result.clear:
		m.scrollback = nil
		m.refreshViewport()

	case result.markdown != "":
		m.appendBlock(strings.TrimRight(termdoc.Markdown(result.markdown, m.theme, m.contentWidth()), "\n"))

	case result.call != nil:
		m.pendingCalls++
		m.appendBlock(m.faintStyle().Render("calling " + result.call.method + " ..."))
		return m.startCall(result.call)

	case result.output != "":
		m.appendBlock(result.output)
	}
	return nil
}

// startCall runs the controller call off the update loop; the result
// arrives as a callDoneMsg. A failed call prints and the shell keeps
// going.
func (m *Model) startCall(spec *callSpec) tea.Cmd {
	session := m.org.Session()
	method, params := spec.method, spec.params
	return func() tea.Msg {
		result, err := session.Call(context.Background(), method, params)
		if err != nil {
			return callDoneMsg{method: method, err: err}
		}
		return callDoneMsg{method: method, output: strings.TrimRight(termdoc.JSON(result), "\n")}
	}
}

func (m *Model) completeInput() {
	value := m.input.Value()

	if len(m.completions) > 1 {
		// Subsequent Tab: cycle through the previous matches.
		m.completionIndex = (m.completionIndex + 1) % len(m.completions)
		m.replaceLastWord(m.completions[m.completionIndex])
		return
	}

	word := lastWord(value)
	matches := complete(m.candidates, word, m.slab)
	if len(matches) == 0 {
		return
	}
	m.completions = matches
	m.completionIndex = 0
	m.replaceLastWord(matches[0])
}

func (m *Model) replaceLastWord(replacement string) {
	value := m.input.Value()
	trimmed := strings.TrimRight(value, " ")
	if index := strings.LastIndexByte(trimmed, ' '); index >= 0 {
		m.input.SetValue(trimmed[:index+1] + replacement)
	} else {
		m.input.SetValue(replacement)
	}
	m.input.CursorEnd()
}

func lastWord(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 || strings.HasSuffix(value, " ") {
		return ""
	}
	return fields[len(fields)-1]
}

func (m *Model) recallHistory(direction int) {
	if len(m.history) == 0 {
		return
	}
	next := m.historyIndex + direction
	if next < 0 {
		next = 0
	}
	if next >= len(m.history) {
		m.historyIndex = len(m.history)
		m.input.SetValue("")
		return
	}
	m.historyIndex = next
	m.input.SetValue(m.history[next])
	m.input.CursorEnd()
}

func (m *Model) appendBlock(block string) {
	m.scrollback = append(m.scrollback, block)
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.scrollback, "\n"))
	m.viewport.GotoBottom()
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return min(m.width, 100)
}

func (m *Model) banner() string {
	return fmt.Sprintf("Connected to %s (profile %s). Type help for commands.",
		m.entry.URL(), m.entry.Name())
}

func (m Model) View() string {
	if !m.ready || m.quitting {
		return ""
	}

	status := ""
	switch {
	case m.pendingCalls > 0:
		status = m.faintStyle().Render(fmt.Sprintf(" %d call(s) in flight", m.pendingCalls))
	case len(m.completions) > 1:
		status = m.faintStyle().Render(" " + completionHint(m.completions, m.completionIndex, m.contentWidth()))
	}

	return m.viewport.View() + "\n" + m.input.View() + "\n" + status
}

// completionHint shows the Tab cycle: the selected candidate
// bracketed, trailing ones truncated to the width.
func completionHint(completions []string, index int, width int) string {
	parts := make([]string, len(completions))
	for i, completion := range completions {
		if i == index {
			parts[i] = "[" + completion + "]"
		} else {
			parts[i] = completion
		}
	}
	hint := strings.Join(parts, "  ")
	if len(hint) > width {
		hint = hint[:max(width-1, 0)] + "…"
	}
	return hint
}

func (m *Model) promptStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(m.theme.PromptForeground)
}

func (m *Model) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(m.theme.ErrorForeground)
}

func (m *Model) faintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(m.theme.FaintText)
}
