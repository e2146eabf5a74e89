package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/lifecycle"
	"github.com/aretw0/navstack/pkg/routes"
)

// Overlay contains live stack data to visualize on the graph.
type Overlay struct {
	Stack   []domain.RouteName
	Focused domain.RouteName
}

// OverlayFromStack builds an Overlay from a navigation stack.
func OverlayFromStack(stack *domain.Stack) *Overlay {
	if stack == nil {
		return nil
	}
	o := &Overlay{Stack: stack.Names()}
	if focused, ok := stack.Focused(); ok {
		o.Focused = focused.Name
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the route table.
// Routes are grouped in one subgraph per section (the part before the dot).
// Shapes follow the presentation:
// - formSheet: [/Parallelogram/]
// - containedTransparentModal: ([Stadium])
// - hidden header: [[Subroutine]]
// - Default: [Rectangle]
// Managed lifecycle states are drawn as circles with a dotted reset edge to their target.
func GenerateMermaid(entries []routes.Entry, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	sections := make(map[string][]routes.Entry)
	var order []string
	for _, e := range entries {
		section, _, _ := strings.Cut(string(e.Name), ".")
		if _, ok := sections[section]; !ok {
			order = append(order, section)
		}
		sections[section] = append(sections[section], e)
	}
	sort.Strings(order)

	for _, section := range order {
		sb.WriteString(fmt.Sprintf("    subgraph %s\n", sanitizeMermaidID(section)))
		for _, e := range sections[section] {
			opener, closer := shape(e.Chrome)
			sb.WriteString(fmt.Sprintf("        %s%s\"%s\"%s\n", sanitizeMermaidID(string(e.Name)), opener, e.Name, closer))
		}
		sb.WriteString("    end\n")
	}

	known := make(map[domain.RouteName]bool, len(entries))
	for _, e := range entries {
		known[e.Name] = true
	}

	sb.WriteString("\n    %% Lifecycle resets\n")
	for _, state := range domain.AppStates {
		target, ok := lifecycle.ResetTarget(state)
		if !ok || !known[target] {
			continue
		}
		stateID := "state_" + sanitizeMermaidID(string(state))
		sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", stateID, state))
		sb.WriteString(fmt.Sprintf("    %s -. reset .-> %s\n", stateID, sanitizeMermaidID(string(target))))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef onstack fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef focused fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for i, name := range overlay.Stack {
			id := sanitizeMermaidID(string(name))
			if i > 0 {
				prev := sanitizeMermaidID(string(overlay.Stack[i-1]))
				sb.WriteString(fmt.Sprintf("    %s ==> %s\n", prev, id))
			}
			if !seen[id] && name != overlay.Focused {
				seen[id] = true
				sb.WriteString(fmt.Sprintf("    class %s onstack;\n", id))
			}
		}
		if overlay.Focused != "" {
			sb.WriteString(fmt.Sprintf("    class %s focused;\n", sanitizeMermaidID(string(overlay.Focused))))
		}
	}

	return sb.String()
}

func shape(c routes.Chrome) (opener, closer string) {
	switch {
	case c.Presentation == routes.PresentationFormSheet:
		return "[/", "/]"
	case c.Presentation == routes.PresentationContainedTransparentModal:
		return "([", "])"
	case c.HideHeader:
		return "[[", "]]"
	}
	return "[", "]"
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
