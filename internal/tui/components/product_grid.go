package components

import (
	"net/url"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Layout constants for the grid
const (
	// Border adds 1 char on each side, padding 1 more horizontally
	cardChromeWidth  = 4
	cardChromeHeight = 2

	// Lines of content inside a card
	cardBodyLines = 7

	cardGap = 1

	// Section heading lines above the cards
	gridHeadingLines = 3

	skeletonCards = 4
)

// GridProps carry the flags the grid renders from
type GridProps struct {
	Loading  bool
	IsOwner  bool
	Removing int // index being removed, -1 when none
}

// ProductGrid shows the owner's listings as cards with a fuzzy filter
type ProductGrid struct {
	products []domain.ProductListing

	// Selection
	cursor int // position within the visible (possibly filtered) list
	offset int // first visible row

	// Dimensions
	columns int
	width   int
	height  int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filteredIdx  []int         // indices into products, ranked
	matches      map[int][]int // product index -> matched byte offsets in title
}

// NewProductGrid creates a grid with the given column count
func NewProductGrid(columns int) ProductGrid {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return ProductGrid{
		columns:     max(columns, 1),
		filterInput: ti,
	}
}

// SetProducts replaces the listings, keeping the cursor in range
func (g *ProductGrid) SetProducts(products []domain.ProductListing) {
	g.products = products
	if g.filterActive {
		g.applyFilter()
	} else {
		g.filteredIdx = nil
		g.matches = nil
	}
	g.clampCursor()
}

// Products returns the listings shown by the grid
func (g ProductGrid) Products() []domain.ProductListing {
	return g.products
}

// SetSize updates the grid dimensions
func (g *ProductGrid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.ensureVisible()
}

// effectiveColumns shrinks the column count on narrow terminals
func (g ProductGrid) effectiveColumns() int {
	cols := g.columns
	for cols > 1 && g.cardWidth(cols) < 24 {
		cols--
	}
	return cols
}

func (g ProductGrid) cardWidth(cols int) int {
	if g.width <= 0 {
		return 30
	}
	return (g.width - cardGap*(cols-1)) / cols
}

func (g ProductGrid) visibleRows() int {
	rows := (g.height - gridHeadingLines) / (cardBodyLines + cardChromeHeight)
	return max(rows, 1)
}

// === Selection ===

// Selected returns the index into the full product list and the listing
// under the cursor
func (g ProductGrid) Selected() (int, domain.ProductListing, bool) {
	if g.visibleCount() == 0 {
		return -1, domain.ProductListing{}, false
	}
	idx := g.mapIndex(g.cursor)
	return idx, g.products[idx], true
}

// MoveUp moves the cursor one row up
func (g *ProductGrid) MoveUp() { g.moveBy(-g.effectiveColumns()) }

// MoveDown moves the cursor one row down
func (g *ProductGrid) MoveDown() { g.moveBy(g.effectiveColumns()) }

// MoveLeft moves the cursor one card left
func (g *ProductGrid) MoveLeft() { g.moveBy(-1) }

// MoveRight moves the cursor one card right
func (g *ProductGrid) MoveRight() { g.moveBy(1) }

// Home moves to the first card
func (g *ProductGrid) Home() {
	g.cursor = 0
	g.ensureVisible()
}

// End moves to the last card
func (g *ProductGrid) End() {
	g.cursor = max(g.visibleCount()-1, 0)
	g.ensureVisible()
}

func (g *ProductGrid) moveBy(delta int) {
	n := g.visibleCount()
	if n == 0 {
		return
	}
	next := g.cursor + delta
	if next < 0 || next >= n {
		return
	}
	g.cursor = next
	g.ensureVisible()
}

func (g *ProductGrid) clampCursor() {
	n := g.visibleCount()
	if g.cursor >= n {
		g.cursor = max(n-1, 0)
	}
	g.ensureVisible()
}

func (g *ProductGrid) ensureVisible() {
	cols := g.effectiveColumns()
	row := g.cursor / cols
	rows := g.visibleRows()
	if row < g.offset {
		g.offset = row
	}
	if row >= g.offset+rows {
		g.offset = row - rows + 1
	}
}

// === Filter ===

// ToggleFilter opens the filter input, or focuses it again when open
func (g *ProductGrid) ToggleFilter() tea.Cmd {
	g.filterActive = true
	return g.filterInput.Focus()
}

// IsFiltering returns true if a filter is applied
func (g ProductGrid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true while the filter input has focus
func (g ProductGrid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (g *ProductGrid) ClearFilter() {
	g.filterActive = false
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.filteredIdx = nil
	g.matches = nil
	g.clampCursor()
}

// UpdateFilter routes a key to the filter input while typing.
// Enter keeps the filter and returns focus to the grid; esc clears it.
func (g *ProductGrid) UpdateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		g.ClearFilter()
		return nil
	case "enter":
		g.filterInput.Blur()
		return nil
	}

	var cmd tea.Cmd
	g.filterInput, cmd = g.filterInput.Update(msg)
	g.applyFilter()
	return cmd
}

// applyFilter ranks titles against the query. Ranking folds case and
// accents; highlighting uses the matched character positions.
func (g *ProductGrid) applyFilter() {
	query := strings.TrimSpace(g.filterInput.Value())
	if query == "" {
		g.filteredIdx = nil
		g.matches = nil
		return
	}

	titles := make([]string, len(g.products))
	for i, p := range g.products {
		titles[i] = p.Title
	}

	ranks := fuzzysearch.RankFindNormalizedFold(query, titles)
	sort.Stable(ranks)

	g.filteredIdx = make([]int, len(ranks))
	g.matches = make(map[int][]int, len(ranks))
	for i, r := range ranks {
		g.filteredIdx[i] = r.OriginalIndex
		if m := fuzzy.Find(strings.ToLower(query), []string{strings.ToLower(r.Target)}); len(m) > 0 {
			g.matches[r.OriginalIndex] = m[0].MatchedIndexes
		}
	}

	g.cursor = 0
	g.offset = 0
}

func (g ProductGrid) visibleCount() int {
	if g.filteredIdx != nil {
		return len(g.filteredIdx)
	}
	return len(g.products)
}

// mapIndex maps a cursor position to the actual index in the data
func (g ProductGrid) mapIndex(i int) int {
	if g.filteredIdx != nil && i < len(g.filteredIdx) {
		return g.filteredIdx[i]
	}
	return i
}

// === Rendering ===

// View renders the section heading and the cards
func (g ProductGrid) View(p GridProps) string {
	heading := []string{
		styles.TitleStyle.Render("My Picks"),
		styles.DimStyle.Render("Hand-picked Amazon products I love and recommend"),
	}
	if p.IsOwner {
		heading[0] += "  " + styles.Key("a", "Add Product")
	}
	if g.filterActive {
		heading = append(heading, g.filterInput.View())
	} else {
		heading = append(heading, "")
	}
	head := lipgloss.JoinVertical(lipgloss.Left, heading...)

	var body string
	switch {
	case p.Loading:
		body = g.renderSkeleton()
	case len(g.products) == 0:
		body = g.renderEmpty(p.IsOwner)
	case g.visibleCount() == 0:
		body = styles.DimStyle.Render("No products match the filter.")
	default:
		body = g.renderCards(p)
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(lipgloss.JoinVertical(lipgloss.Left, head, body))
}

func (g ProductGrid) renderEmpty(isOwner bool) string {
	lines := []string{
		"",
		styles.AccentStyle.Render("📦"),
		styles.TitleStyle.Render("No products yet"),
	}
	if isOwner {
		lines = append(lines,
			styles.DimStyle.Render("Start adding your favorite Amazon products to showcase them here."),
			"",
			styles.ButtonStyle.Render("[a] Add Your First Product"),
		)
	} else {
		lines = append(lines, styles.DimStyle.Render("This profile has no product recommendations yet."))
	}
	return lipgloss.PlaceHorizontal(max(g.width-4, 0), lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (g ProductGrid) renderSkeleton() string {
	cols := g.effectiveColumns()
	w := g.cardWidth(cols) - cardChromeWidth
	line := func(frac int) string {
		return styles.SkeletonStyle.Render(strings.Repeat("▂", max(w*frac/4, 1)))
	}
	card := styles.CardStyle.Width(w + 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.SkeletonStyle.Render(strings.Repeat("▆", max(w, 1))),
		"",
		line(3), line(4), line(2),
		"",
		line(4),
	))

	cards := make([]string, 0, skeletonCards)
	for i := 0; i < skeletonCards; i++ {
		cards = append(cards, card)
	}
	return joinRows(cards, cols)
}

func (g ProductGrid) renderCards(p GridProps) string {
	cols := g.effectiveColumns()
	w := g.cardWidth(cols) - cardChromeWidth

	n := g.visibleCount()
	start := g.offset * cols
	end := min(start+g.visibleRows()*cols, n)

	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		idx := g.mapIndex(i)
		cards = append(cards, RenderProductCard(CardProps{
			Listing:  g.products[idx],
			Selected: i == g.cursor,
			IsOwner:  p.IsOwner,
			Removing: p.Removing == idx,
			Matched:  g.matches[idx],
		}, w))
	}

	out := joinRows(cards, cols)
	if g.offset > 0 {
		out = styles.DimStyle.Render("↑ more") + "\n" + out
	}
	if end < n {
		out += "\n" + styles.DimStyle.Render("↓ more")
	}
	return out
}

func joinRows(cards []string, cols int) string {
	var rows []string
	for i := 0; i < len(cards); i += cols {
		row := cards[i:min(i+cols, len(cards))]
		spaced := make([]string, 0, len(row)*2)
		for j, c := range row {
			if j > 0 {
				spaced = append(spaced, strings.Repeat(" ", cardGap))
			}
			spaced = append(spaced, c)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, spaced...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// CardProps drive a single product card
type CardProps struct {
	Listing  domain.ProductListing
	Selected bool
	IsOwner  bool
	Removing bool
	Matched  []int
}

// RenderProductCard renders one listing at the given inner width
func RenderProductCard(p CardProps, width int) string {
	l := p.Listing
	width = max(width, 10)

	// Thumbnail line: host of the image, or a placeholder marker
	thumbText := "▢ no image"
	if l.HasThumbnail() {
		host := l.ThumbnailURL
		if u, err := url.Parse(l.ThumbnailURL); err == nil && u.Host != "" {
			host = u.Host
		}
		thumbText = "▣ " + host
	}
	thumb := styles.DimStyle.Render(styles.Truncate(thumbText, width))
	if price, ok := l.Price.Get(); ok {
		badge := styles.PriceBadgeStyle.Render("🏷 " + price)
		thumb = badge + " " + styles.DimStyle.Render(styles.Truncate(thumbText, max(width-lipgloss.Width(badge)-1, 0)))
	}

	title := highlight(styles.Truncate(l.Title, width), p.Matched)

	desc := ""
	if l.Description != "" {
		desc = styles.SubtitleStyle.Render(styles.Clamp(styles.WordWrap(l.Description, width), 2))
	}

	action := styles.Key("enter", "View on Amazon ↗")
	if p.Removing {
		action = styles.AccentStyle.Render("Removing…")
	} else if p.IsOwner && p.Selected {
		action += "  " + styles.Key("e", "Edit") + " " + styles.Key("x", "Remove")
	}

	body := lipgloss.JoinVertical(lipgloss.Left, thumb, "", title, desc)
	body = lipgloss.NewStyle().Height(cardBodyLines - 1).Render(body)
	body = lipgloss.JoinVertical(lipgloss.Left, body, action)

	style := styles.CardStyle
	if p.Selected {
		style = styles.CardSelectedStyle
	}
	return style.Width(width + 2).Render(body)
}

// highlight bolds the matched byte offsets of s
func highlight(s string, matched []int) string {
	if len(matched) == 0 {
		return styles.TitleStyle.Render(s)
	}
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}
	var b strings.Builder
	for i, r := range s {
		if set[i] {
			b.WriteString(styles.MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteString(styles.TitleStyle.Render(string(r)))
		}
	}
	return b.String()
}
