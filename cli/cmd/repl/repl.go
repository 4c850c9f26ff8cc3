package repl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/vac/lang"
	"github.com/ardnew/vac/log"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help             Print this cruft
  history          List evaluated expressions
  verify [on|off]  Toggle cross-checking of resolved results
  clear            Clear screen
  quit             Exit REPL

Keys:

` + keys.usage() + `
Type an expression to evaluate it; identifiers stay symbolic.
Identifiers used before are offered as completions while typing,
and Space accepts the selected one.
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	symbolicStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// Config configures a REPL session.
type Config struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// History is the path of the persistent history file. An empty path
	// keeps history for the session only.
	History string

	Logger log.Logger
	Verify bool
}

func (c Config) withDefaults() Config {
	if c.In == nil {
		c.In = os.Stdin
	}

	if c.Out == nil {
		c.Out = os.Stdout
	}

	if c.Err == nil {
		c.Err = os.Stderr
	}

	return c
}

// evaluator runs one line of input through the language pipeline.
type evaluator struct {
	logger log.Logger
	verify bool
}

func (e evaluator) eval(ctx context.Context, line string) (lang.Return, error) {
	return lang.Run(ctx, line,
		lang.WithLogger(e.logger),
		lang.WithVerify(e.verify))
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc          func() context.Context
	input            textinput.Model
	eval             evaluator
	logger           log.Logger
	history          *History
	historyIdx       int
	matches          fuzzy.Matches // current fuzzy match results
	candidates       []string      // backing candidate list
	idents           []string      // identifiers seen in eval history
	wordStart        int           // byte offset of current word start
	wordEnd          int           // byte offset of current word end
	suggIdx          int           // selected candidate index
	tabActive        bool          // whether user is tab-cycling
	preTabText       string        // input text before tab-cycling began
	preTabCursor     int           // cursor position before tab-cycling began
	altNavActive     bool          // whether user is in Alt+Up/Down navigation
	altNavOrigMode   inputMode     // original mode before Alt navigation
	altNavOrigText   string        // original text before Alt navigation
	altNavOrigCursor int           // original cursor position before Alt navigation
	width            int           // terminal width for ellipsization
	quitting         bool
	mode             inputMode
	evalText         string
	evalCursor       int
	ctrlText         string
	ctrlCursor       int
}

// Run starts an interactive session. When both ends of the session are
// terminals it runs the full-screen line editor; otherwise it reads lines
// from cfg.In until end of input.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg = cfg.withDefaults()

	interactive := isTerminal(cfg.In) && isTerminal(cfg.Out)

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("history", cfg.History),
		slog.Bool("interactive", interactive),
		slog.Bool("verify", cfg.Verify))

	ev := evaluator{logger: cfg.Logger, verify: cfg.Verify}

	if !interactive {
		return runLines(ctx, cfg.In, cfg.Out, cfg.Err, ev)
	}

	history := NewHistory(cfg.History)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", cfg.History),
			slog.Any("error", err))
	}

	cfg.Logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()))

	m := newModel(ctx, ev, history)

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(cfg.In),
		tea.WithOutput(cfg.Out))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, ev evaluator, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		eval:       ev,
		logger:     ev.logger,
		history:    history,
		historyIdx: history.Len(),
		idents:     identifiers(history.Lines(modeEval)),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		pos := m.historyIdx + 1 // 1-based for display
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(pos)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type an expression or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") +
				" (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width,
		))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)))

	switch {
	case key.Matches(msg, keys.Interrupt):
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.altNavActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case key.Matches(msg, keys.Exit):
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case key.Matches(msg, keys.Submit):
		if !m.tabActive || len(m.matches) == 0 {
			m.altNavActive = false

			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		m.altNavActive = false
		refreshMatches(&m, true)

		return m, nil

	case key.Matches(msg, keys.Next):
		return m.cycle(1)

	case key.Matches(msg, keys.Prev):
		return m.cycle(-1)

	case key.Matches(msg, keys.HistoryPrev):
		return m.historyPrev()

	case key.Matches(msg, keys.HistoryNext):
		return m.historyNext()

	case key.Matches(msg, keys.ModePrev):
		return m.historyInMode(-1)

	case key.Matches(msg, keys.ModeNext):
		return m.historyInMode(1)

	case key.Matches(msg, keys.CtrlPrev):
		return m.historyCtrl(-1)

	case key.Matches(msg, keys.CtrlNext):
		return m.historyCtrl(1)

	case key.Matches(msg, keys.Toggle):
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNavActive = false

		return m.toggleMode()

	case msg.Type == tea.KeyRunes, msg.Type == tea.KeySpace:
		// Space is the "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNavActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the selected completion candidate by step, wrapping around.
func (m model) cycle(step int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")
	refreshMatches(&m, false)

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	m.idents = identifiers(m.history.Lines(modeEval))

	cmds := []tea.Cmd{tea.Println(formatCommand(input))}
	if out := m.evaluate(input); out != "" {
		cmds = append(cmds, tea.Println(out))
	}

	return m, tea.Sequence(cmds...)
}

// evaluate runs input and renders its result or error for display. An
// empty result renders as nothing.
func (m model) evaluate(input string) string {
	ctx := m.ctxFunc()

	ret, err := m.eval.eval(ctx, input)
	if err != nil {
		m.logger.TraceContext(ctx, "repl eval result",
			slog.String("result_type", "error"),
			slog.String("error", err.Error()))

		return errorStyle.Render("error: " + err.Error())
	}

	m.logger.TraceContext(ctx, "repl eval result",
		slog.String("result_type", ret.Kind().String()))

	switch ret.Kind() {
	case lang.ReturnValue:
		return resultStyle.Render(ret.Display())
	case lang.ReturnExpr:
		return symbolicStyle.Render(ret.Display())
	default:
		return ""
	}
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]
	args := parts[1:]

	m.logger.TraceContext(m.ctxFunc(), "repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args))

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "history":
		return m, tea.Sequence(echoCmd, tea.Println(m.listHistory()))

	case "verify":
		on, err := parseToggle(m.eval.verify, args)
		if err != nil {
			return m, tea.Sequence(echoCmd,
				tea.Println(errorStyle.Render("error: "+err.Error())))
		}

		m.eval.verify = on

		return m, tea.Sequence(echoCmd,
			tea.Println(hintStyle.Render("verify: "+onOff(on))))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

// parseToggle returns the new state of a boolean setting: the negation of
// current with no arguments, or the parsed argument.
func parseToggle(current bool, args []string) (bool, error) {
	if len(args) == 0 {
		return !current, nil
	}

	switch strings.ToLower(args[0]) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}

	return strconv.ParseBool(args[0])
}

func onOff(b bool) string {
	if b {
		return "on"
	}

	return "off"
}

// listHistory renders the evaluated expressions, oldest first.
func (m model) listHistory() string {
	lines := m.history.Lines(modeEval)
	width := len(strconv.Itoa(len(lines)))

	var b strings.Builder

	for i, line := range lines {
		fmt.Fprintf(&b, "  %s %s\n",
			hintStyle.Render(fmt.Sprintf("%*d", width, i+1)), line)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// showEntry loads history entry i into the input, switching mode if needed.
func (m model) showEntry(i int, entry HistoryEntry) model {
	m.historyIdx = i

	if m.mode != entry.Mode {
		m, _ = m.switchToMode(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(&m, false)

	return m
}

// clearEntry leaves history navigation with an empty input.
func (m model) clearEntry() model {
	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(&m, false)

	return m
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		if entry, err := m.history.Entry(m.historyIdx - 1); err == nil {
			m = m.showEntry(m.historyIdx-1, entry)
		}
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx >= m.history.Len()-1 {
		return m.clearEntry(), nil
	}

	if entry, err := m.history.Entry(m.historyIdx + 1); err == nil {
		m = m.showEntry(m.historyIdx+1, entry)
	}

	return m, nil
}

// findInMode returns the index of the nearest entry in mode from the
// current history position in direction step, or -1.
func (m model) findInMode(mode inputMode, step int) (int, HistoryEntry) {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		if entry, err := m.history.Entry(i); err == nil && entry.Mode == mode {
			return i, entry
		}
	}

	return -1, HistoryEntry{}
}

func (m model) historyInMode(step int) (model, tea.Cmd) {
	if i, entry := m.findInMode(m.mode, step); i >= 0 {
		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m, nil
	}

	// Reached end of mode-specific history, clear input
	if step > 0 && m.historyIdx < m.history.Len() {
		m = m.clearEntry()
	}

	return m, nil
}

// historyCtrl navigates command history, entering command mode first and
// restoring the original mode and input when navigation runs off either end.
func (m model) historyCtrl(step int) (model, tea.Cmd) {
	if !m.altNavActive {
		m.altNavActive = true
		m.altNavOrigMode = m.mode
		m.altNavOrigText = m.input.Value()
		m.altNavOrigCursor = m.input.Position()

		if m.mode != modeCtrl {
			m, _ = m.switchToMode(modeCtrl)
		}
	}

	if i, entry := m.findInMode(modeCtrl, step); i >= 0 {
		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		refreshMatches(&m, false)

		return m, nil
	}

	m.altNavActive = false
	if m.altNavOrigMode != m.mode {
		m, _ = m.switchToMode(m.altNavOrigMode)
	}

	m.input.SetValue(m.altNavOrigText)
	m.input.SetCursor(m.altNavOrigCursor)
	m.historyIdx = m.history.Len()
	refreshMatches(&m, false)

	return m, nil
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
