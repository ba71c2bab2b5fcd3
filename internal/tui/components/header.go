package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/tui/styles"
)

// AppTitle is shown in the header and the terminal title
const AppTitle = "My Amazon Picks"

// HeaderProps drive the header bar
type HeaderProps struct {
	Authenticated bool
	Principal     domain.Option[domain.Principal]
	LoggingIn     bool
	LinkCode      domain.Option[domain.LinkCode]
}

// RenderHeader renders the top bar: title on the left, login state on the right
func RenderHeader(p HeaderProps, width int) string {
	left := styles.LogoStyle.Render("🛍  " + AppTitle)

	var right string
	switch {
	case p.Authenticated:
		who := ""
		if principal, ok := p.Principal.Get(); ok {
			who = styles.DimStyle.Render(principal.Short()) + "  "
		}
		right = who + styles.Key("L", "Logout")
	case p.LoggingIn:
		right = styles.AccentStyle.Render("Logging in…")
	default:
		right = styles.Key("l", "Login")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	bar := styles.HeaderStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)

	code, ok := p.LinkCode.Get()
	if !p.LoggingIn || !ok {
		return bar
	}
	prompt := fmt.Sprintf("Enter code %s at %s to log in",
		styles.PriceBadgeStyle.Render(code.Code), styles.AccentStyle.Render(code.URL))
	return lipgloss.JoinVertical(lipgloss.Left, bar, lipgloss.NewStyle().Padding(0, 1).Render(prompt))
}
