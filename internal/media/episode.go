package media

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EpisodeMatch is a season/episode pair located in a view. Text is the literal
// episode token. Start moves back to a standalone season token when one sits
// before the episode token, so the title cut excludes both.
type EpisodeMatch struct {
	Season   int
	Episode  int
	Start    int
	End      int
	Text     string
	Strategy string
}

// LocateOptions tunes the episode cascade.
type LocateOptions struct {
	// AllowBareNumber enables the last-resort isolated number rule. Callers
	// set it only when an explicit quality token was found elsewhere, so an
	// arbitrary number in a title is not mistaken for an episode.
	AllowBareNumber bool
}

// EpisodeRule is one pattern family of the cascade. Rules are evaluated in
// order by LocateEpisode; first match wins.
type EpisodeRule struct {
	Name string
	find func(view string, opts LocateOptions) (EpisodeMatch, bool)
}

// EpisodeRules is the ordered cascade, highest confidence first.
var EpisodeRules = []EpisodeRule{
	{"SxxExx", pairRule(seasonEpisodeRe)},
	{"NxNN", pairRule(crossEpisodeRe)},
	{"Season-Episode", pairRule(spelledOutRe)},
	{"Episode-word", episodeOnlyRule(episodeWordRe)},
	{"E-number", episodeOnlyRule(episodeLetterRe)},
	{"Bare-number", findBareNumber},
}

// LocateEpisode walks the cascade and returns the first match.
func LocateEpisode(view string, opts LocateOptions) (EpisodeMatch, bool) {
	for _, rule := range EpisodeRules {
		if m, ok := rule.find(view, opts); ok {
			m.Strategy = rule.Name
			return m, true
		}
	}
	return EpisodeMatch{}, false
}

// Anchor re-locates this match in another view by re-running the rule that
// produced it.
func (m EpisodeMatch) Anchor(opts LocateOptions) Anchor {
	return Anchor{
		Text: m.Text,
		Find: func(view string) (int, bool) {
			for _, rule := range EpisodeRules {
				if rule.Name != m.Strategy {
					continue
				}
				if found, ok := rule.find(view, opts); ok {
					return found.Start, true
				}
			}
			return 0, false
		},
	}
}

// FormatSeason renders a season number for display: 1 -> "S01".
func FormatSeason(season int) string {
	return fmt.Sprintf("S%02d", season)
}

// FormatEpisode renders an episode number for display: 7 -> "07", 226 -> "226".
func FormatEpisode(episode int) string {
	return fmt.Sprintf("%02d", episode)
}

// pairRule builds a rule for patterns capturing season then episode.
func pairRule(re *regexp.Regexp) func(string, LocateOptions) (EpisodeMatch, bool) {
	return func(view string, _ LocateOptions) (EpisodeMatch, bool) {
		for _, loc := range re.FindAllStringSubmatchIndex(view, -1) {
			season := atoi(view[loc[2]:loc[3]])
			episode := atoi(view[loc[4]:loc[5]])
			if episode < 1 {
				continue
			}
			return EpisodeMatch{
				Season:  normalizeSeason(season),
				Episode: episode,
				Start:   loc[0],
				End:     loc[1],
				Text:    view[loc[0]:loc[1]],
			}, true
		}
		return EpisodeMatch{}, false
	}
}

// episodeOnlyRule builds a rule for patterns capturing only an episode. The
// season comes from a standalone season token when the view has one.
func episodeOnlyRule(re *regexp.Regexp) func(string, LocateOptions) (EpisodeMatch, bool) {
	return func(view string, _ LocateOptions) (EpisodeMatch, bool) {
		for _, loc := range re.FindAllStringSubmatchIndex(view, -1) {
			episode := atoi(view[loc[2]:loc[3]])
			if episode < 1 {
				continue
			}
			return withSeason(view, EpisodeMatch{
				Episode: episode,
				Start:   loc[0],
				End:     loc[1],
				Text:    view[loc[0]:loc[1]],
			}), true
		}
		return EpisodeMatch{}, false
	}
}

// findBareNumber picks an isolated 1-4 digit number that is not a year and
// not part of an audio channel layout. A number before the quality token
// wins over later ones, since trailing tags follow the episode; otherwise the
// last number is used.
func findBareNumber(view string, opts LocateOptions) (EpisodeMatch, bool) {
	if !opts.AllowBareNumber {
		return EpisodeMatch{}, false
	}

	quality, hasQuality := ResolveQuality(view)
	channels := audioChannelRe.FindAllStringIndex(view, -1)

	var last, beforeQuality EpisodeMatch
	found, foundBefore := false, false
	offset := 0
	for _, field := range strings.Split(view, " ") {
		start := offset
		offset += len(field) + 1
		sub := bareEpisodeRe.FindStringSubmatch(field)
		if sub == nil || within(channels, start) {
			continue
		}
		n := atoi(sub[1])
		if n < 1 || (len(sub[1]) == 4 && n >= 1900 && n <= 2099) {
			continue
		}
		m := EpisodeMatch{Episode: n, Start: start, End: start + len(field), Text: field}
		last, found = m, true
		if hasQuality && start < quality.Start {
			beforeQuality, foundBefore = m, true
		}
	}
	if !found {
		return EpisodeMatch{}, false
	}
	if foundBefore {
		return withSeason(view, beforeQuality), true
	}
	return withSeason(view, last), true
}

// within reports whether pos falls inside one of spans.
func within(spans [][]int, pos int) bool {
	for _, span := range spans {
		if pos >= span[0] && pos < span[1] {
			return true
		}
	}
	return false
}

// withSeason fills in the season from a standalone token, defaulting to 1.
func withSeason(view string, m EpisodeMatch) EpisodeMatch {
	m.Season = 1
	for _, loc := range seasonOnlyRe.FindAllStringSubmatchIndex(view, -1) {
		// Skip season tokens overlapping the episode token itself.
		if loc[0] < m.End && loc[1] > m.Start {
			continue
		}
		m.Season = normalizeSeason(atoi(view[loc[2]:loc[3]]))
		if loc[0] < m.Start {
			m.Start = loc[0]
		}
		break
	}
	return m
}

func normalizeSeason(season int) int {
	if season < 1 {
		return 1
	}
	return season
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
