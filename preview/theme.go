package preview

import "github.com/charmbracelet/lipgloss"

// Theme holds the colours used by Render. Colours are ANSI256 indices.
type Theme struct {
	NormalText       lipgloss.Color
	FaintText        lipgloss.Color
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	LinkForeground   lipgloss.Color
	CodeForeground   lipgloss.Color

	// Chips for `[status:x]` and `[date]` tags. StatusBackgrounds is keyed
	// by the single-letter colour code; "n" is the fallback.
	ChipForeground    lipgloss.Color
	StatusBackgrounds map[string]lipgloss.Color
	DateBackground    lipgloss.Color

	DecisionForeground  lipgloss.Color
	CheckedForeground   lipgloss.Color
	UncheckedForeground lipgloss.Color

	// AlertColors is keyed by alert kind (NOTE, TIP, IMPORTANT, WARNING,
	// CAUTION) and colours both the label and the quote bar.
	AlertColors map[string]lipgloss.Color

	// CodeStyle names the chroma style used for fenced code.
	CodeStyle string
}

// DefaultTheme is tuned for dark terminals.
var DefaultTheme = Theme{
	NormalText:       lipgloss.Color("252"),
	FaintText:        lipgloss.Color("243"),
	HeaderForeground: lipgloss.Color("75"),
	BorderColor:      lipgloss.Color("238"),
	LinkForeground:   lipgloss.Color("111"),
	CodeForeground:   lipgloss.Color("180"),

	ChipForeground: lipgloss.Color("231"),
	StatusBackgrounds: map[string]lipgloss.Color{
		"n": lipgloss.Color("244"),
		"r": lipgloss.Color("160"),
		"b": lipgloss.Color("26"),
		"g": lipgloss.Color("28"),
		"y": lipgloss.Color("136"),
		"p": lipgloss.Color("91"),
		"t": lipgloss.Color("30"),
	},
	DateBackground: lipgloss.Color("37"),

	DecisionForeground:  lipgloss.Color("114"),
	CheckedForeground:   lipgloss.Color("35"),
	UncheckedForeground: lipgloss.Color("244"),

	AlertColors: map[string]lipgloss.Color{
		"NOTE":      lipgloss.Color("75"),
		"TIP":       lipgloss.Color("35"),
		"IMPORTANT": lipgloss.Color("141"),
		"WARNING":   lipgloss.Color("178"),
		"CAUTION":   lipgloss.Color("167"),
	},

	CodeStyle: "monokai",
}

func (t Theme) statusBackground(code string) lipgloss.Color {
	if color, ok := t.StatusBackgrounds[code]; ok {
		return color
	}
	return t.StatusBackgrounds["n"]
}

func (t Theme) alertColor(kind string) lipgloss.Color {
	if color, ok := t.AlertColors[kind]; ok {
		return color
	}
	return t.BorderColor
}
