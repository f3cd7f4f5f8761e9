package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"hybridsearch/internal/domain"
)

// ResultsRenderer handles rendering of the active result set
type ResultsRenderer struct {
	styles    *Styles
	showLinks bool
}

// NewResultsRenderer creates a new results renderer
func NewResultsRenderer(styles *Styles, showLinks bool) *ResultsRenderer {
	return &ResultsRenderer{
		styles:    styles,
		showLinks: showLinks,
	}
}

// Lines renders results one terminal line per slice entry and reports
// the line the cursor sits on (-1 when nothing is selectable)
func (r *ResultsRenderer) Lines(results domain.ResultSet, cursor, width int) ([]string, int) {
	if results == nil {
		return nil, -1
	}
	if results.Len() == 0 {
		return []string{r.styles.Dim.Render("No results")}, -1
	}

	var lines []string
	cursorLine := -1
	index := 0

	appendItem := func(item domain.ChunkMetadata, indent string) {
		if index == cursor {
			cursorLine = len(lines)
		}
		lines = append(lines, r.renderItem(item, index == cursor, indent, width)...)
		index++
	}

	switch set := results.(type) {
	case domain.GroupResults:
		for _, group := range set {
			if len(group.Entries) == 0 {
				continue
			}
			header := fmt.Sprintf("%s (%d)", group.Name, len(group.Entries))
			lines = append(lines, r.styles.GroupHeader.Render(truncate(header, width)))
			for _, item := range group.Entries {
				appendItem(item, "  ")
			}
		}
	default:
		for _, item := range results.Items() {
			appendItem(item, "")
		}
	}

	return lines, cursorLine
}

// Render joins Lines for callers that do not scroll
func (r *ResultsRenderer) Render(results domain.ResultSet, cursor, width int) string {
	lines, _ := r.Lines(results, cursor, width)
	return strings.Join(lines, "\n")
}

func (r *ResultsRenderer) renderItem(item domain.ChunkMetadata, selected bool, indent string, width int) []string {
	marker := "  "
	if selected {
		marker = "> "
	}

	text := PlainText(item.ChunkHTML, r.styles.Highlight.Render)
	if text == "" {
		text = r.styles.Dim.Render(item.ID)
	}

	line := truncate(indent+marker+text, width)
	if selected {
		line = r.styles.Selected.Render(line)
	}
	out := []string{line}

	if r.showLinks {
		if link := item.Target(); link != "" {
			out = append(out, truncate(indent+"    "+r.styles.Link.Render(link), width))
		}
	}
	return out
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
