package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"hybridsearch/internal/domain"
	"hybridsearch/internal/presets"
	"hybridsearch/internal/selection"
	"hybridsearch/internal/ui/views"
)

// Placeholder is shown while the query is empty
const Placeholder = "Find or ask anything"

// textinput only renders the whole placeholder when it has a width
const defaultInputWidth = 60

// Engine is the part of the search engine the UI drives
type Engine interface {
	SetText(text string)
	ToggleMode()
}

// Selector opens a hit
type Selector interface {
	Select(item domain.ChunkMetadata) error
}

// Options wires a Model
type Options struct {
	Engine    Engine
	Selector  Selector
	Presets   *presets.Picker
	Pager     Pager
	Initial   domain.QueryState
	ShowLinks bool
	Logger    *zap.Logger
}

// Model is the bubbletea model for the search screen
type Model struct {
	engine   Engine
	selector Selector
	presets  *presets.Picker
	pager    Pager
	logger   *zap.Logger

	input    textinput.Model
	help     help.Model
	keys     keyMap
	styles   *views.Styles
	renderer *views.ResultsRenderer

	snapshot domain.Snapshot
	cursor   int
	width    int
	height   int
	status   string
}

// NewModel creates the search screen seeded with opts.Initial
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = Placeholder
	input.Prompt = "› "
	input.Width = defaultInputWidth
	input.SetValue(opts.Initial.Text)
	input.CursorEnd()
	input.Focus()

	styles := views.NewStyles()
	return &Model{
		engine:   opts.Engine,
		selector: opts.Selector,
		presets:  opts.Presets,
		pager:    opts.Pager,
		logger:   logger.Named("ui"),
		input:    input,
		help:     help.New(),
		keys:     newKeyMap(),
		styles:   styles,
		renderer: views.NewResultsRenderer(styles, opts.ShowLinks),
		snapshot: domain.Snapshot{State: opts.Initial},
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 8 {
			m.input.Width = msg.Width - 4
		}
		m.help.Width = msg.Width
		return m, nil

	case SnapshotMsg:
		m.applySnapshot(msg.Snapshot)
		return m, nil

	case selectedMsg:
		if msg.err != nil {
			m.status = "could not open " + msg.target
		} else {
			m.status = "opened " + msg.target
		}
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			m.logger.Warn("pager failed", zap.Error(msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.setText(after)
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keys.Clear):
		if m.input.Value() == "" {
			return tea.Quit, true
		}
		m.input.SetValue("")
		m.setText("")
		return nil, true

	case key.Matches(msg, m.keys.Mode):
		m.engine.ToggleMode()
		m.cursor = 0
		return nil, true

	case key.Matches(msg, m.keys.Preset):
		if m.presets == nil {
			return nil, true
		}
		if query, ok := m.presets.Next(m.input.Value()); ok {
			m.input.SetValue(query)
			m.input.CursorEnd()
			m.setText(query)
		}
		return nil, true

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return nil, true

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items())-1 {
			m.cursor++
		}
		return nil, true

	case key.Matches(msg, m.keys.Open):
		item, ok := m.current()
		if !ok || m.selector == nil {
			return nil, true
		}
		return m.selectCmd(item), true

	case key.Matches(msg, m.keys.Preview):
		item, ok := m.current()
		if !ok || m.pager == nil {
			return nil, true
		}
		return m.pagerCmd(renderPreview(m.styles, item)), true

	case key.Matches(msg, m.keys.Help):
		if m.pager == nil {
			return nil, true
		}
		return m.pagerCmd(renderHelpContent(m.keys)), true
	}
	return nil, false
}

func (m *Model) setText(text string) {
	m.cursor = 0
	m.status = ""
	m.engine.SetText(text)
}

// applySnapshot keeps only the newest snapshot
func (m *Model) applySnapshot(s domain.Snapshot) {
	if s.Version <= m.snapshot.Version {
		return
	}
	m.snapshot = s

	n := len(m.items())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) items() []domain.ChunkMetadata {
	if m.snapshot.Results == nil {
		return nil
	}
	return m.snapshot.Results.Items()
}

func (m *Model) current() (domain.ChunkMetadata, bool) {
	items := m.items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return domain.ChunkMetadata{}, false
	}
	return items[m.cursor], true
}

func (m *Model) selectCmd(item domain.ChunkMetadata) tea.Cmd {
	selector := m.selector
	return func() tea.Msg {
		target := item.Target()
		if target == "" {
			target = selection.BlankTarget
		}
		return selectedMsg{target: target, err: selector.Select(item)}
	}
}

func (m *Model) pagerCmd(content string) tea.Cmd {
	pager := m.pager
	return func() tea.Msg {
		return pagerMsg{err: pager.Show(content)}
	}
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	helpView := m.styles.Help.Render(m.help.View(m.keys))
	lines, cursorLine := m.renderer.Lines(m.snapshot.Results, m.cursor, m.width-2)
	if room := m.height - 5; m.height > 0 && room > 0 {
		lines = window(lines, cursorLine, room, m.styles)
	}
	if len(lines) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpView)

	return m.styles.Main.Render(b.String())
}

func (m *Model) renderHeader() string {
	tabs := make([]string, 0, len(domain.Modes))
	for _, mode := range domain.Modes {
		style := m.styles.ModeIdle
		if mode == m.snapshot.State.Mode {
			style = m.styles.ModeActive
		}
		tabs = append(tabs, style.Render(mode.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Title.Render("hybridsearch"), "  ", strings.Join(tabs, " "))
}

func (m *Model) renderStatus() string {
	switch {
	case m.status != "":
		return m.styles.Status.Render(m.status)
	case m.snapshot.Loading:
		return m.styles.Loading.Render("searching…")
	case m.snapshot.Results != nil:
		n := m.snapshot.Results.Len()
		noun := "results"
		if n == 1 {
			noun = "result"
		}
		return m.styles.Status.Render(fmt.Sprintf("%d %s", n, noun))
	default:
		return ""
	}
}

// window keeps the cursor line visible within height lines
func window(lines []string, cursorLine, height int, styles *views.Styles) []string {
	if len(lines) <= height {
		return lines
	}
	if height < 3 {
		height = 3
	}

	start := 0
	if cursorLine >= height-1 {
		start = cursorLine - height + 2
	}
	end := start + height
	if end > len(lines) {
		end = len(lines)
		start = end - height
	}

	visible := append([]string(nil), lines[start:end]...)
	if start > 0 {
		visible[0] = styles.Scroll.Render("↑ (more above)")
	}
	if end < len(lines) {
		visible[len(visible)-1] = styles.Scroll.Render("↓ (more below)")
	}
	return visible
}
