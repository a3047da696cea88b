package theme

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

func init() {
	runewidth.DefaultCondition.EastAsianWidth = false
	runewidth.DefaultCondition.StrictEmojiNeutral = true
}

// Row is one line of key/value output.
type Row struct {
	Label string
	Value string
}

// KeyValue renders rows as two aligned columns. Values wider than maxWidth
// cells are truncated with an ellipsis; maxWidth <= 0 disables truncation.
func (t Theme) KeyValue(rows []Row, maxWidth int) string {
	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, runewidth.StringWidth(r.Label))
	}

	label := t.LabelStyle()
	value := t.ValueStyle()

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(label.Render(PadRight(r.Label, labelWidth)))
		b.WriteString("  ")
		b.WriteString(value.Render(Truncate(r.Value, maxWidth)))
		b.WriteByte('\n')
	}
	return b.String()
}

// PadRight pads s with spaces to width terminal cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Truncate shortens s to at most width terminal cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
