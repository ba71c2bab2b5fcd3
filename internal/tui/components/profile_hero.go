package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/tui/styles"
)

// HeroProps drive the profile hero section
type HeroProps struct {
	Profile       domain.Option[domain.UserProfile]
	Loading       bool
	IsOwner       bool
	Authenticated bool
	Visiting      bool // showing someone else's showcase
}

// RenderProfileHero renders the avatar, name, bio and handle of a profile
func RenderProfileHero(p HeroProps, width int) string {
	var avatar, info string

	profile, hasProfile := p.Profile.Get()
	switch {
	case p.Loading:
		avatar = styles.AvatarStyle.BorderForeground(styles.SlateLight).Render("")
		info = lipgloss.JoinVertical(lipgloss.Left,
			styles.SkeletonStyle.Render(strings.Repeat("▆", 18)),
			styles.SkeletonStyle.Render(strings.Repeat("▂", 32)),
			styles.SkeletonStyle.Render(strings.Repeat("▂", 12)),
		)

	case hasProfile:
		avatar = styles.AvatarStyle.Render(profile.Initials())
		textWidth := max(width-14, 10)
		lines := []string{styles.HeroNameStyle.Render(profile.DisplayName)}
		if profile.Bio != "" {
			lines = append(lines, styles.SubtitleStyle.Render(styles.Clamp(styles.WordWrap(profile.Bio, textWidth), 3)))
		}
		if handle := profile.Handle(); handle != "" {
			lines = append(lines, styles.HandleStyle.Render("@"+handle))
		}
		if p.IsOwner {
			lines = append(lines, "", styles.Key("p", "Edit Profile"))
		}
		info = lipgloss.JoinVertical(lipgloss.Left, lines...)

	default:
		avatar = styles.AvatarStyle.Render("?")
		info = lipgloss.JoinVertical(lipgloss.Left,
			styles.DimStyle.Bold(true).Render("No profile yet"),
			styles.DimStyle.Render(emptyProfileMessage(p)),
		)
	}

	hero := lipgloss.JoinHorizontal(lipgloss.Center, avatar, "  ", info)
	return lipgloss.NewStyle().Padding(1, 2).Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, hero, "", styles.AccentBar),
	)
}

func emptyProfileMessage(p HeroProps) string {
	switch {
	case p.IsOwner:
		return "Finish setting up your profile to get started."
	case !p.Authenticated && !p.Visiting:
		return "Log in to set up your profile."
	default:
		return "This profile has not been set up yet."
	}
}
