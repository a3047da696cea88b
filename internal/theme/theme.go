package theme

import (
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
)

// IconSet maps a field or outcome name to the glyph printed before it.
type IconSet map[string]string

// IconMode selects which icon set a Theme prints.
type IconMode int

const (
	// IconsAuto picks ASCII on SSH sessions and Windows consoles, emoji
	// elsewhere.
	IconsAuto IconMode = iota
	IconsEmoji
	IconsASCII
)

// Palette holds the colors used for command output.
type Palette struct {
	Heading lipgloss.Color
	Label   lipgloss.Color
	OK      lipgloss.Color
	Failed  lipgloss.Color
	Text    lipgloss.Color
}

// Theme styles parse results, traces and registry listings.
type Theme struct {
	palette Palette
	icons   IconSet
}

// Option configures a Theme during construction.
type Option func(*Theme)

// WithIcons selects the icon set.
func WithIcons(mode IconMode) Option {
	return func(t *Theme) {
		t.icons = iconsFor(mode)
	}
}

// WithPalette overrides the default colors.
func WithPalette(p Palette) Option {
	return func(t *Theme) {
		t.palette = p
	}
}

// New builds a Theme with the default palette and automatic icons, then
// applies opts.
func New(opts ...Option) Theme {
	t := Theme{
		palette: Palette{
			Heading: lipgloss.Color("#3a6b4a"),
			Label:   lipgloss.Color("#9ba8c0"),
			OK:      lipgloss.Color("#5dc796"),
			Failed:  lipgloss.Color("#f04c56"),
			Text:    lipgloss.Color("#f8f8f8"),
		},
		icons: iconsFor(IconsAuto),
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Default returns New().
func Default() Theme {
	return New()
}

// Palette returns the theme colors.
func (t Theme) Palette() Palette {
	return t.palette
}

// Icon returns the glyph for name, or "" when the set has none.
func (t Theme) Icon(name string) string {
	return t.icons[name]
}

// Heading renders a section heading such as the raw filename of a result.
func (t Theme) Heading(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(t.palette.Heading).Render(s)
}

// LabelStyle is used for the key column of key/value output.
func (t Theme) LabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.palette.Label)
}

// ValueStyle is used for the value column of key/value output.
func (t Theme) ValueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

// Badge renders text as a colored status badge.
func (t Theme) Badge(ok bool, text string) string {
	bg := t.palette.Failed
	if ok {
		bg = t.palette.OK
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Background(bg).
		Foreground(t.palette.Text).
		Render(text)
}

func iconsFor(mode IconMode) IconSet {
	if mode == IconsAuto {
		mode = IconsEmoji
		if limitedTerminal() {
			mode = IconsASCII
		}
	}
	if mode == IconsASCII {
		return asciiIcons
	}
	return emojiIcons
}

// limitedTerminal reports environments where emoji often render badly.
func limitedTerminal() bool {
	for _, key := range []string{"SSH_CLIENT", "SSH_TTY", "SSH_CONNECTION"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return runtime.GOOS == "windows"
}

var emojiIcons = IconSet{
	"title":   "📺",
	"season":  "📁",
	"episode": "🎬",
	"quality": "🎞",
	"name":    "📚",
	"trace":   "🔎",
	"success": "✅",
	"error":   "❌",
	"learned": "➕",
	"removed": "➖",
}

var asciiIcons = IconSet{
	"title":   "[T]",
	"season":  "[S]",
	"episode": "[E]",
	"quality": "[Q]",
	"name":    "[N]",
	"trace":   "[?]",
	"success": "[v]",
	"error":   "[!]",
	"learned": "[+]",
	"removed": "[-]",
}
