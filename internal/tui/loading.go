package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 120 * time.Millisecond

// spinnerFrame picks the frame from the current time so it animates on
// re-render.
func spinnerFrame() string {
	return spinnerFrames[time.Now().UnixMilli()/spinnerInterval.Milliseconds()%int64(len(spinnerFrames))]
}

// SpinnerTickMsg triggers a re-render for the loading spinner.
type SpinnerTickMsg struct{}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg { return SpinnerTickMsg{} })
}

// handleSpinnerTick re-schedules ticks while the page is loading.
func (m *Model) handleSpinnerTick() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, spinnerTick()
	}
	return m, nil
}
