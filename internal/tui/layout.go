package tui

import "github.com/charmbracelet/lipgloss"

// FooterHeight is the status bar below the grid
const FooterHeight = 1

// updateLayout sizes the grid to whatever the header and hero leave over
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	f := m.flags()
	chrome := lipgloss.Height(m.renderHeader(f)) + lipgloss.Height(m.renderHero(f)) + FooterHeight
	m.Grid.SetSize(m.Width, max(m.Height-chrome, 0))
}
