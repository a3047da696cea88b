package caption

import (
	"fmt"
	"html"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Digital-Shane/caption-tidy/internal/core"
)

// DefaultTemplate is the caption used when none is configured.
const DefaultTemplate = "<b>{AnimeName} [{Sn}]\nEpisode - {Ep}\nQuality : {Quality}</b>"

var variablePattern = regexp.MustCompile(`\{([^}]+)\}`)

// variables maps every placeholder name to the Result field it renders.
var variables = map[string]func(core.Result) string{
	"title":       func(r core.Result) string { return r.Title },
	"AnimeName":   func(r core.Result) string { return r.Title },
	"season":      func(r core.Result) string { return r.Season },
	"Sn":          func(r core.Result) string { return r.Season },
	"season_num":  func(r core.Result) string { return strconv.Itoa(r.SeasonNumber) },
	"episode":     func(r core.Result) string { return r.Episode },
	"Ep":          func(r core.Result) string { return r.Episode },
	"episode_num": func(r core.Result) string { return strconv.Itoa(r.EpisodeNumber) },
	"quality":     func(r core.Result) string { return r.Quality.String() },
	"Quality":     func(r core.Result) string { return r.Quality.String() },
}

// Variables lists the supported placeholder names in sorted order.
func Variables() []string {
	names := make([]string, 0, len(variables))
	for name := range variables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate reports the first placeholder in template that Render would not
// recognize.
func Validate(template string) error {
	for _, match := range variablePattern.FindAllStringSubmatch(template, -1) {
		if _, ok := variables[match[1]]; !ok {
			return fmt.Errorf("unknown variable: {%s}", match[1])
		}
	}
	return nil
}

// Render substitutes r into template. Values are HTML escaped so the caption
// can be sent with HTML parse mode; the template's own markup is kept.
// Unknown placeholders render as nothing.
func Render(template string, r core.Result) string {
	if template == "" {
		template = DefaultTemplate
	}
	return variablePattern.ReplaceAllStringFunc(template, func(placeholder string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(placeholder, "{"), "}")
		value, ok := variables[name]
		if !ok {
			return ""
		}
		return html.EscapeString(value(r))
	})
}
