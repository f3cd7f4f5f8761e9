package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	ModeActive  lipgloss.Style
	ModeIdle    lipgloss.Style
	GroupHeader lipgloss.Style
	Item        lipgloss.Style
	Selected    lipgloss.Style
	Highlight   lipgloss.Style
	Link        lipgloss.Style
	Dim         lipgloss.Style
	Status      lipgloss.Style
	Loading     lipgloss.Style
	Scroll      lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		ModeActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("99")).
			Padding(0, 1),
		ModeIdle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1),
		GroupHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Item:        lipgloss.NewStyle(),
		Selected:    lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Link:        lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Underline(true),
		Dim:         lipgloss.NewStyle().Faint(true),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Loading:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Help:        lipgloss.NewStyle().Faint(true),
		Main:        lipgloss.NewStyle().Padding(0, 1),
	}
}
