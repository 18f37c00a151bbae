package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// UI styles and layout settings
// Dark palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorRedDim   = "#d06178"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"

	// Light palette counterparts.
	colorPaper    = "#f4f1ea"
	colorInk      = "#1f2330"
	colorSlate    = "#8a8fa3"
	colorTeal     = "#0f7b8a"
	colorLeaf     = "#2f8f46"
	colorLeafDim  = "#5d8c6a"
	colorBrick    = "#b3261e"
	colorBrickDim = "#a4545a"
	colorPlum     = "#6b4fa8"

	marqueeTickDuration = time.Duration(time.Second / 20)
	bordersAndPadding   = 4
)

type palette struct {
	frame, text, accent, tag         string
	selected, ok, okDim, danger, bad string
}

var (
	darkPalette = palette{
		frame: colorGray, text: colorWhite, accent: colorBlue, tag: colorPurple,
		selected: colorGreen, ok: colorGreen, okDim: colorGreenDim, danger: colorRed, bad: colorRedDim,
	}
	lightPalette = palette{
		frame: colorSlate, text: colorInk, accent: colorTeal, tag: colorPlum,
		selected: colorLeaf, ok: colorLeaf, okDim: colorLeafDim, danger: colorBrick, bad: colorBrickDim,
	}
)

// styles holds every lipgloss style the view uses for one palette.
type styles struct {
	title          lipgloss.Style
	subtitle       lipgloss.Style
	selected       lipgloss.Style
	dangerSelected lipgloss.Style
	inactive       lipgloss.Style
	text           lipgloss.Style
	dim            lipgloss.Style
	danger         lipgloss.Style
	label          lipgloss.Style
	tag            lipgloss.Style
	pin            lipgloss.Style
	status         lipgloss.Style
	footer         lipgloss.Style
	border         lipgloss.Color
	okDim          lipgloss.Color
	bad            lipgloss.Color
}

func newStyles(dark bool) styles {
	p := lightPalette
	background := colorPaper
	if dark {
		p = darkPalette
		background = colorGray
	}

	return styles{
		title: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(p.accent)).
			Background(lipgloss.Color(background)).
			Padding(0, 2).Align(lipgloss.Center),
		subtitle: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(p.accent)),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(background)).
			Background(lipgloss.Color(p.selected)),
		dangerSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(background)).
			Background(lipgloss.Color(p.danger)),
		inactive: lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)),
		text:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.frame)),
		danger:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.danger)),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)),
		tag:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.tag)),
		pin:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.ok)),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.okDim)),
		footer:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.frame)),
		border:   lipgloss.Color(p.frame),
		okDim:    lipgloss.Color(p.okDim),
		bad:      lipgloss.Color(p.bad),
	}
}

// statusColorize colors text by status: 0 unknown, 1 good, 2 bad.
func (s styles) statusColorize(text string, status int) string {
	switch status {
	case 1:
		return lipgloss.NewStyle().Foreground(s.okDim).Render(text)
	case 2:
		return lipgloss.NewStyle().Foreground(s.bad).Render(text)
	default:
		return s.dim.Render(text)
	}
}

// Generates pointer symbol when line in focus
func generateLinePointer(isPoint bool, length int) string {
	if isPoint {
		return ">" + strings.Repeat(" ", length-1)
	}
	return strings.Repeat(" ", length)
}

// Create a padded version marquee text for scrolling
func (m model) marqueeText(text string, availableWidth int) string {
	if len(text) <= availableWidth || availableWidth <= 0 {
		return text
	}
	paddedText := text + "    " + text
	offset := m.marqueeOffset % (len(text) + bordersAndPadding)
	if offset+availableWidth <= len(paddedText) {
		text = paddedText[offset : offset+availableWidth]
	}
	return text
}

// truncate shortens text to width, marking the cut with two dots.
func truncate(text string, width int) string {
	if len(text) > width && width > 3 {
		return text[:width-2] + ".."
	}
	return text
}

func (m model) dynamicColumnWidth() (int, int, int) {
	var leftWidth, middleWidth, rightWidth int
	switch m.columnFocus {
	case focusTags:
		leftWidth = (m.width * 25) / 100
		middleWidth = (m.width * 35) / 100
	case focusNotes:
		leftWidth = (m.width * 20) / 100
		middleWidth = (m.width * 35) / 100
	default:
		leftWidth = (m.width * 15) / 100
		middleWidth = (m.width * 25) / 100
	}
	rightWidth = m.width - leftWidth - middleWidth
	return leftWidth, middleWidth, rightWidth
}
