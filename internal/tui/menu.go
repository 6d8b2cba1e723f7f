package tui

import (
	"strings"

	"github.com/tinytelemetry/topicalguide/internal/view"
)

// menuEntry is one line of the flattened navigation menu. Groups have no
// path.
type menuEntry struct {
	label string
	path  string
	depth int
}

func flattenMenu(items []view.MenuItem, depth int, out []menuEntry) []menuEntry {
	for _, it := range items {
		out = append(out, menuEntry{label: it.Label, path: it.Path, depth: depth})
		if len(it.Children) > 0 {
			out = flattenMenu(it.Children, depth+1, out)
		}
	}
	return out
}

// nextLeaf returns the index of the next entry with a path after from in
// direction dir, or from when there is none.
func nextLeaf(entries []menuEntry, from, dir int) int {
	for i := from + dir; i >= 0 && i < len(entries); i += dir {
		if entries[i].path != "" {
			return i
		}
	}
	if from < 0 {
		return 0
	}
	return from
}

func (m *Model) renderMenuLines() string {
	var b strings.Builder
	for i, e := range m.menu {
		indent := strings.Repeat("  ", e.depth)
		switch {
		case e.path == "":
			b.WriteString(indent + headingStyle.Render(e.label))
		case i == m.menuCursor:
			b.WriteString(indent + cursorStyle.Render("› "+e.label))
		default:
			b.WriteString(indent + "  " + e.label)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
