package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/pl2/ext"
	"github.com/ardnew/pl2/lang"
	"github.com/ardnew/pl2/log"
)

const (
	evalPrompt = "➜ "
	contPrompt = "… "
)

func helpMessage() string {
	return `
Control words:

  :help    Print this cruft
  :list    List the commands of the active language
  :clear   Clear screen
  :quit    Exit REPL

Usage:
  Type a command to run it; "language <id> <version>" loads a language
  A ?begin line opens a block that runs when ?end is entered
  Completions for command names appear as you type
  Press Tab / Shift-Tab to cycle through candidates
  Use Up/Down arrows for history navigation
  Press Esc to discard an open block
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	contPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
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

// Config configures [Run].
type Config struct {
	// In is read for input. A terminal starts the interactive console;
	// anything else is read fully and run as one script.
	In io.Reader
	// Out receives console and script output.
	Out io.Writer
	// Loader supplies modules other than the built-in std language.
	Loader ext.Loader
	Logger log.Logger
	// HistoryPath is the history file. Empty keeps history in memory.
	HistoryPath  string
	BufferSize   int
	MessageLimit int
}

// Run starts the console, or runs In as a script when it is not a
// terminal.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if cfg.In == nil {
		cfg.In = os.Stdin
	}

	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	sess := NewSession(cfg)

	defer func() {
		out, cerr := sess.Close(ctx)
		if out != "" {
			_, _ = io.WriteString(cfg.Out, out)
		}

		err = errors.Join(err, cerr)
	}()

	if !isTerminal(cfg.In) {
		cfg.Logger.TraceContext(ctx, "repl script mode")

		return runScript(ctx, sess, cfg)
	}

	history := NewHistory(cfg.HistoryPath)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", cfg.HistoryPath),
			slog.Any("error", err))
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("history", cfg.HistoryPath),
		slog.Int("entries", history.Len()))

	m := newModel(ctx, sess, history, cfg.Logger)

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(cfg.In),
		tea.WithOutput(cfg.Out),
	)

	_, err = p.Run()

	return err
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(interface{ Fd() uintptr })

	return ok && term.IsTerminal(int(f.Fd()))
}

func runScript(ctx context.Context, sess *Session, cfg Config) error {
	prog, err := lang.ParseReader(ctx, cfg.In,
		append(sess.parse, lang.WithFileName("<stdin>"))...)
	if err != nil {
		return err
	}

	res, err := sess.Exec(ctx, prog)
	if res.Output != "" {
		_, _ = io.WriteString(cfg.Out, res.Output)
	}

	return err
}

const defaultWidth = 80

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	session      *Session
	history      *History
	input        textinput.Model
	logger       log.Logger
	matches      fuzzy.Matches // current fuzzy match results
	draft        string        // input before history navigation began
	preTabText   string        // input text before tab-cycling began
	historyIdx   int
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int
	width        int
	tabActive    bool
	quitting     bool
}

func newModel(
	ctx context.Context,
	sess *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		session:    sess,
		history:    history,
		input:      ti,
		logger:     logger,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
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
		m.input.Width = msg.Width - lipgloss.Width(evalPrompt) - 2

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
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))

	case m.session.Pending() && strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render("Block open: enter ?end to run it, Esc to discard"))

	case strings.TrimSpace(input) == "":
		if l := m.session.Language(); l != nil {
			b.WriteString(hintStyle.Render("Language " + l.Name + " loaded; :help for help"))
		} else {
			b.WriteString(hintStyle.Render("Type \"language <id> <version>\" or :help"))
		}
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.matches = nil

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches()

			return m, nil
		}

		if m.session.Pending() {
			m.session.Reset()
			m.input.Prompt = promptStyle.Render(evalPrompt)

			return m, tea.Println(hintStyle.Render("block discarded"))
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()

	return m, cmd
}

// cycle moves the tab selection by step and writes the candidate into the
// input.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = -1

		if step < 0 {
			m.suggIdx = 0
		}
	}

	m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input and moves the
// cursor to its end.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	end := min(m.wordEnd, len(input))
	start := min(m.wordStart, end)

	m.input.SetValue(input[:start] + replacement + input[end:])
	m.input.SetCursor(start + len(replacement))
	m.wordEnd = start + len(replacement)
}

func (m *model) refreshMatches() {
	m.matches, m.wordStart, m.wordEnd = complete(
		m.input.Value(), m.input.Position(), m.session.Names())

	if !m.tabActive {
		m.suggIdx = -1
	}
}

func (m model) historyMove(step int) model {
	n := m.history.Len()
	if n == 0 {
		return m
	}

	if m.historyIdx == n {
		m.draft = m.input.Value()
	}

	m.historyIdx = min(max(m.historyIdx+step, 0), n)

	if m.historyIdx == n {
		m.input.SetValue(m.draft)
	} else if line, err := m.history.Line(m.historyIdx); err == nil {
		m.input.SetValue(line)
	}

	m.input.CursorEnd()
	m.matches = nil
	m.tabActive = false

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	raw := m.input.Value()
	line := strings.TrimSpace(raw)

	m.input.SetValue("")
	m.matches = nil
	m.historyIdx = m.history.Len()

	if line == "" && !m.session.Pending() {
		return m, nil
	}

	if err := m.history.Add(raw); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	prompt := evalPrompt
	if m.session.Pending() {
		prompt = contPrompt
	}

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(raw))

	if strings.HasPrefix(line, ctrlPrefix) && !m.session.Pending() {
		return m.executeControl(echo, strings.TrimPrefix(line, ctrlPrefix))
	}

	res, err := m.session.Submit(m.ctxFunc(), raw)

	cmds := []tea.Cmd{echo}

	if out := strings.TrimRight(res.Output, "\n"); out != "" {
		cmds = append(cmds, tea.Println(resultStyle.Render(out)))
	}

	if err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	if res.Pending {
		m.input.Prompt = contPromptStyle.Render(contPrompt)
	} else {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}

	if res.Stopped {
		m.quitting = true
		cmds = append(cmds, tea.Quit)
	}

	return m, tea.Sequence(cmds...)
}

func (m model) executeControl(echo tea.Cmd, word string) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl control", slog.String("word", word))

	switch word {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listNames()))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("unknown control word: "+ctrlPrefix+word+" (try :help)")))
	}
}

func (m model) listNames() string {
	var b strings.Builder

	if l := m.session.Language(); l != nil {
		fmt.Fprintf(&b, "%s: %s\n", l.Name, l.Info)
	} else {
		b.WriteString("no language loaded\n")
	}

	b.WriteString(strings.Join(m.session.Names(), "  "))

	return b.String()
}
