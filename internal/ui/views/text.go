package views

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText reduces a chunk's HTML fragment to a single line of text.
// Highlighted spans (<b>, <strong>, <mark>) are passed through highlight.
func PlainText(fragment string, highlight func(...string) string) string {
	if highlight == nil {
		highlight = func(strs ...string) string { return strings.Join(strs, " ") }
	}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return collapseSpace(fragment)
	}

	var sb strings.Builder
	writeText(doc, &sb, highlight, 0)
	return collapseSpace(sb.String())
}

func writeText(n *html.Node, sb *strings.Builder, highlight func(...string) string, depth int) {
	if depth > 64 {
		return
	}

	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "head":
			return
		case "b", "strong", "mark":
			var inner strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				writeText(c, &inner, highlight, depth+1)
			}
			if text := collapseSpace(inner.String()); text != "" {
				sb.WriteString(highlight(text))
			}
			return
		case "br", "p", "div", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
			sb.WriteString(" ")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(c, sb, highlight, depth+1)
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
			sb.WriteString(" ")
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
