package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Amber        = lipgloss.Color("#F59E0B")
	AmberLight   = lipgloss.Color("#FCD34D")
	CharcoalDark = lipgloss.Color("#1C1917")
	Charcoal     = lipgloss.Color("#292524")
	SlateLight   = lipgloss.Color("#44403C")
	DimGray      = lipgloss.Color("#78716C")
	LightGray    = lipgloss.Color("#A8A29E")
	White        = lipgloss.Color("#FAFAF9")
	Green        = lipgloss.Color("#10B981")
	Red          = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Amber)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Header and hero
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(CharcoalDark).
			Padding(0, 1)

	LogoStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Background(CharcoalDark).
			Bold(true)

	AvatarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Amber).
			Foreground(Amber).
			Bold(true).
			Width(6).
			Height(3).
			Align(lipgloss.Center, lipgloss.Center)

	HeroNameStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	HandleStyle = lipgloss.NewStyle().
			Foreground(Amber)

	AccentBar = lipgloss.NewStyle().
			Foreground(Amber).
			Render(strings.Repeat("━", 12))
)

// Badge styles
var (
	PriceBadgeStyle = lipgloss.NewStyle().
			Foreground(CharcoalDark).
			Background(Amber).
			Bold(true).
			Padding(0, 1)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(CharcoalDark).
			Background(Amber).
			Bold(true).
			Padding(0, 1)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Background(SlateLight).
				Padding(0, 1)
)

// Card styles
var (
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SlateLight).
			Padding(0, 1)

	CardSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Amber).
				Padding(0, 1)

	SkeletonStyle = lipgloss.NewStyle().
			Foreground(SlateLight)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Amber).
			Padding(1, 2).
			Background(CharcoalDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(Amber).
				Bold(true)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Amber)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Amber)

	SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(Amber)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Amber).
				Bold(true)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(Amber).
				Bold(true)
)

// Helper functions

// Truncate truncates a string to the given display width with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 {
		return string(runes[:1])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// Key renders a key hint such as "[a] Add Product"
func Key(k, desc string) string {
	return HelpKeyStyle.Render(k) + " " + HelpDescStyle.Render(desc)
}

// WordWrap wraps text at word boundaries to width
func WordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if lipgloss.Width(line)+1+lipgloss.Width(w) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Clamp keeps at most n lines of text, marking the cut with an ellipsis
func Clamp(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= n {
		return text
	}
	lines = lines[:n]
	lines[n-1] = strings.TrimRight(lines[n-1], " ") + "…"
	return strings.Join(lines, "\n")
}
