package repl

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap binds the editor actions handled by [model.handleKey].
type keyMap struct {
	Interrupt   key.Binding
	Exit        key.Binding
	Submit      key.Binding
	Next        key.Binding
	Prev        key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
	ModePrev    key.Binding
	ModeNext    key.Binding
	CtrlPrev    key.Binding
	CtrlNext    key.Binding
	Toggle      key.Binding
}

var keys = keyMap{
	Interrupt: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "clear the line, or exit when it is empty"),
	),
	Exit: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "exit when the line is empty"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run the line, or accept the selected completion"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next completion"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous completion"),
	),
	HistoryPrev: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("up", "previous history entry (switches mode)"),
	),
	HistoryNext: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("down", "next history entry (switches mode)"),
	),
	ModePrev: key.NewBinding(
		key.WithKeys("shift+up"),
		key.WithHelp("shift+up", "previous history entry in this mode"),
	),
	ModeNext: key.NewBinding(
		key.WithKeys("shift+down"),
		key.WithHelp("shift+down", "next history entry in this mode"),
	),
	CtrlPrev: key.NewBinding(
		key.WithKeys("alt+up"),
		key.WithHelp("alt+up", "previous command, restoring the mode at the end"),
	),
	CtrlNext: key.NewBinding(
		key.WithKeys("alt+down"),
		key.WithHelp("alt+down", "next command, restoring the mode at the end"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel completion, or toggle command mode"),
	),
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{
		k.Submit, k.Toggle, k.Next, k.Prev,
		k.HistoryPrev, k.HistoryNext, k.ModePrev, k.ModeNext,
		k.CtrlPrev, k.CtrlNext, k.Interrupt, k.Exit,
	}
}

// usage lists each binding on its own line.
func (k keyMap) usage() string {
	var b strings.Builder

	for _, kb := range k.bindings() {
		h := kb.Help()
		fmt.Fprintf(&b, "  %-12s %s\n", h.Key, h.Desc)
	}

	return b.String()
}
