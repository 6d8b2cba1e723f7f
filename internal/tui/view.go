package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the browser.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing Topical Guide..."
	}

	switch m.mode {
	case modeHelp:
		return m.renderHelpModal()
	case modeMenu:
		return m.renderMenuModal()
	}

	title := m.snap.Title
	if title == "" {
		title = "Topical Guide"
	}
	header := titleStyle.Render(title)
	if m.loading {
		header += " " + statusStyle.Render(spinnerFrame()+" Loading...")
	}
	header += " " + helpStyle.Render(m.snap.Fragment)

	parts := []string{
		lipgloss.NewStyle().MaxWidth(m.width).Render(header),
		crumbStyle.MaxWidth(m.width).Render(m.crumbs),
		m.body.View(),
	}
	if len(m.bars) > 0 && m.height-chromeHeight > 2*chartHeight {
		if chart := renderAttributeChart(m.bars, m.width, chartHeight); chart != "" {
			parts = append(parts, chart)
		}
	}
	parts = append(parts, m.renderStatusLine())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderStatusLine() string {
	switch {
	case m.mode == modeGoto:
		return m.input.View()
	case m.status != "":
		return errorStyle.MaxWidth(m.width).Render(m.status)
	}
	var keys []string
	for _, b := range m.keys.statusKeys() {
		h := b.Help()
		keys = append(keys, h.Key+" "+h.Desc)
	}
	return helpStyle.MaxWidth(m.width).Render(strings.Join(keys, " | "))
}

// renderHelpModal shows the current view's help in a scrollable box.
func (m *Model) renderHelpModal() string {
	header := lipgloss.NewStyle().
		Foreground(ColorBlue).
		Bold(true).
		Render("Help: " + m.snap.Title)

	content := activeSectionStyle.
		Width(m.help.Width).
		Height(m.help.Height).
		Render(m.help.View())

	status := helpStyle.Render("up/down: Scroll | PgUp/PgDn: Page | ?/h: Toggle Help | ESC: Close")

	modal := lipgloss.JoinVertical(lipgloss.Left, header, content, status)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m *Model) renderMenuModal() string {
	header := lipgloss.NewStyle().
		Foreground(ColorBlue).
		Bold(true).
		Render("Views")
	box := sectionStyle.Padding(0, 2).Render(m.renderMenuLines())
	status := helpStyle.Render("up/down: Move | enter: Open | ESC: Close")

	modal := lipgloss.JoinVertical(lipgloss.Left, header, box, status)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
