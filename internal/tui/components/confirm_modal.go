package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/picks/internal/tui/styles"
)

// ConfirmModal asks a yes/no question before a destructive action
type ConfirmModal struct {
	visible bool
	title   string
	body    string
}

// NewConfirmModal creates a hidden confirmation modal
func NewConfirmModal() ConfirmModal {
	return ConfirmModal{}
}

// Show displays the modal
func (m *ConfirmModal) Show(title, body string) {
	m.visible = true
	m.title = title
	m.body = body
}

// Hide dismisses the modal
func (m *ConfirmModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m ConfirmModal) IsVisible() bool {
	return m.visible
}

// Update handles key events, returns (modal, confirmed, cancelled)
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, bool, bool) {
	if !m.visible {
		return m, false, false
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false, false
	}
	switch keyMsg.String() {
	case "y", "Y", "enter":
		m.Hide()
		return m, true, false
	case "n", "N", "esc", "q":
		m.Hide()
		return m, false, true
	}
	return m, false, false
}

// View renders the modal
func (m ConfirmModal) View() string {
	if !m.visible {
		return ""
	}
	const width = 44
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		styles.SubtitleStyle.Render(styles.WordWrap(m.body, width)),
		"",
		styles.Key("[Y]", "Yes")+"      "+styles.Key("[N]", "No"),
	)
	return styles.ModalStyle.Width(width + 6).Render(content)
}
