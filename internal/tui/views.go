package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/picks/internal/showcase"
	"github.com/mmcdole/picks/internal/tui/components"
	"github.com/mmcdole/picks/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	// Handle modal states
	if m.State == StateHelp {
		return m.renderHelp()
	}

	if m.State == StateConfirmLogout {
		return m.renderLogoutConfirmation()
	}

	switch {
	case m.Confirm.IsVisible():
		return m.place(m.Confirm.View())
	case m.ProfileForm.IsVisible():
		return m.place(m.ProfileForm.View())
	case m.ProductForm.IsVisible():
		return m.place(m.ProductForm.View())
	}

	f := m.flags()
	page := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(f),
		m.renderHero(f),
		m.Grid.View(components.GridProps{
			Loading:  f.ProductsLoading,
			IsOwner:  f.IsOwner,
			Removing: m.removing,
		}),
	)

	// Pin the footer to the bottom row
	gap := m.Height - lipgloss.Height(page) - FooterHeight
	if gap > 0 {
		page += strings.Repeat("\n", gap)
	}
	return page + "\n" + m.renderFooter(f)
}

func (m Model) place(modal string) string {
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		modal)
}

func (m Model) renderHeader(f showcase.Flags) string {
	return components.RenderHeader(components.HeaderProps{
		Authenticated: f.IsAuthenticated,
		Principal:     m.Auth.Principal(),
		LoggingIn:     m.isLoggingIn(),
		LinkCode:      m.linkCode,
	}, m.Width)
}

func (m Model) renderHero(f showcase.Flags) string {
	profile, loading := m.displayedProfile(f)
	return components.RenderProfileHero(components.HeroProps{
		Profile:       profile,
		Loading:       loading,
		IsOwner:       f.IsOwner,
		Authenticated: f.IsAuthenticated,
		Visiting:      m.viewed.IsSome() && !f.IsOwner,
	}, m.Width)
}

func (m Model) renderFooter(f showcase.Flags) string {
	// Left side: spinner + status when busy or status message active
	var left string
	switch {
	case m.StatusMsg != "":
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	case m.removing >= 0:
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Removing…")
	case f.ProfileLoading || f.ProductsLoading:
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading…")
	}

	// Center section: hints for the selected card
	var center string
	if _, _, ok := m.Grid.Selected(); ok {
		center = styles.Key("enter", "View on Amazon")
		if f.IsOwner {
			center += "  " + styles.Key("e", "Edit") + "  " + styles.Key("x", "Remove")
		}
	}

	// Right side: "? help" hint
	right := styles.Key("?", "help")

	// Layout: left + centered hints + right
	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	totalContent := leftWidth + centerWidth + rightWidth
	if totalContent >= m.Width {
		// Not enough space - just left + right
		gap := m.Width - leftWidth - rightWidth
		if gap < 0 {
			gap = 0
		}
		return left + strings.Repeat(" ", gap) + right
	}

	// Center the hints in available space
	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      PRODUCTS
  h/j/k/←/→  Move selection        Enter  View on Amazon
  g/Home     First product         a      Add product
  G/End      Last product          e      Edit product
  /          Filter by title       x      Remove product
  Esc        Clear filter

PROFILE & ACCOUNT               OTHER
  p          Edit profile          r      Refresh
  l          Log in                q      Quit
  L          Log out               ?      This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// renderLogoutConfirmation renders the logout confirmation modal
func (m Model) renderLogoutConfirmation() string {
	modal := `
              Log Out?

  This will end your session and
  clear all cached data.

        [Y] Yes      [N] No
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(modal))
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	return styles.SpinnerStyle.Render(styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])
}
