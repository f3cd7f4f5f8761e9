package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"hybridsearch/internal/domain"
	"hybridsearch/internal/ui/views"
)

// Pager shows long content outside the bubbletea view
type Pager interface {
	Show(content string) error
}

// OvPager runs the ov pager on a released terminal
type OvPager struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewOvPager creates a pager; SetProgram must be called before Show
func NewOvPager() *OvPager {
	return &OvPager{}
}

func (p *OvPager) SetProgram(program *tea.Program) {
	p.program = program
}

// Show pages content until the user quits ov
func (p *OvPager) Show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Leave nothing behind on our screen
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)
	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				MarginTop(1)
	helpKeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	helpDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// renderHelpContent generates help content with colors for the pager
func renderHelpContent(keys keyMap) string {
	var help strings.Builder

	help.WriteString(helpTitleStyle.Render("hybridsearch Help"))
	help.WriteString("\n")

	sections := []struct {
		title    string
		bindings []keyHelp
	}{
		{"Searching", []keyHelp{
			{"type", "Search as you type"},
			{keys.Mode.Help().Key, "Switch between group and chunk results"},
			{keys.Preset.Help().Key, "Fill in an example query"},
			{keys.Clear.Help().Key, "Clear the query (quit when empty)"},
		}},
		{"Results", []keyHelp{
			{"↑/↓", "Move between results"},
			{keys.Open.Help().Key, "Open the result's link in the browser"},
			{keys.Preview.Help().Key, "Read the whole result"},
		}},
		{"Other", []keyHelp{
			{keys.Help.Help().Key, "Show this help"},
			{keys.Quit.Help().Key, "Quit"},
		}},
	}

	for _, section := range sections {
		help.WriteString(helpSectionStyle.Render(section.title))
		help.WriteString("\n")
		for _, b := range section.bindings {
			help.WriteString(fmt.Sprintf("  %-8s %s\n", helpKeyStyle.Render(b.key), helpDescStyle.Render(b.desc)))
		}
	}

	return help.String()
}

type keyHelp struct {
	key  string
	desc string
}

// renderPreview renders one hit in full for the pager
func renderPreview(styles *views.Styles, item domain.ChunkMetadata) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(item.ID))
	b.WriteString("\n\n")
	b.WriteString(views.PlainText(item.ChunkHTML, styles.Highlight.Render))
	b.WriteString("\n")
	if link := item.Target(); link != "" {
		b.WriteString("\n")
		b.WriteString(styles.Link.Render(link))
		b.WriteString("\n")
	}
	return b.String()
}
