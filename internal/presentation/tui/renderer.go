package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/routes"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a function that renders markdown using glamour.
// Output that is not a terminal gets the markdown back unchanged.
func NewRenderer(w io.Writer) (func(string) (string, error), error) {
	out, ok := w.(*os.File)
	if !ok || !IsTerminal(out) {
		return func(markdown string) (string, error) { return markdown, nil }, nil
	}

	width := 100
	if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
		width = w
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return r.Render, nil
}

// RoutesMarkdown renders the route table as a markdown table.
func RoutesMarkdown(entries []routes.Entry) string {
	var sb strings.Builder
	sb.WriteString("# Routes\n\n")
	sb.WriteString("| Route | Header | Title | Presentation | Icon |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, e := range entries {
		header := string(e.Chrome.Profile)
		if e.Chrome.HideHeader {
			header = "hidden"
		}
		title := ""
		if e.Chrome.Title != nil {
			title = *e.Chrome.Title
			if title == "" {
				title = `""`
			}
		}
		presentation := string(e.Chrome.Presentation)
		if presentation == "" {
			presentation = string(routes.PresentationCard)
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s | %s |\n", e.Name, header, title, presentation, e.Chrome.HeaderRightIcon)
	}
	return sb.String()
}

// StackMarkdown renders a stack as a numbered list, focused route last.
func StackMarkdown(stack *domain.Stack) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Session `%s` (v%d)\n\n", stack.SessionID, stack.Version)
	for i, r := range stack.Routes {
		marker := ""
		if i == len(stack.Routes)-1 {
			marker = " **(focused)**"
		}
		fmt.Fprintf(&sb, "%d. `%s`%s\n", i+1, r.Name, marker)
	}
	return sb.String()
}
