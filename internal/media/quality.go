package media

import (
	"regexp"
	"strings"
)

// Quality is a canonical resolution label.
type Quality string

// Canonical qualities. Every parse result carries one of these.
const (
	Quality2160p Quality = "2160p"
	Quality1440p Quality = "1440p"
	Quality1080p Quality = "1080p"
	Quality720p  Quality = "720p"
	Quality540p  Quality = "540p"
	Quality480p  Quality = "480p"
	Quality240p  Quality = "240p"
	Quality144p  Quality = "144p"
)

// DefaultQuality is used when a filename carries no resolution token and the
// caller asked for defaulting instead of rejection.
const DefaultQuality = Quality480p

// Qualities lists the canonical qualities from highest to lowest.
func Qualities() []Quality {
	return []Quality{
		Quality2160p, Quality1440p, Quality1080p, Quality720p,
		Quality540p, Quality480p, Quality240p, Quality144p,
	}
}

// Valid reports whether q is a canonical quality.
func (q Quality) Valid() bool {
	for _, c := range Qualities() {
		if q == c {
			return true
		}
	}
	return false
}

func (q Quality) String() string {
	return string(q)
}

// ParseQuality canonicalizes a single resolution token such as "1080P",
// "4k" or "360p".
func ParseQuality(token string) (Quality, bool) {
	lower := strings.ToLower(strings.TrimSpace(token))
	switch lower {
	case "4k":
		return Quality2160p, true
	case "360p":
		return Quality480p, true
	}
	q := Quality(lower)
	return q, q.Valid()
}

// QualityMatch is a resolution token located in a view.
type QualityMatch struct {
	Quality Quality
	Start   int
	End     int
	Text    string
}

// qualityRule pairs a literal resolution token with its word-bounded pattern.
type qualityRule struct {
	token   string
	pattern *regexp.Regexp
}

// qualityRules is evaluated in order by ResolveQuality; the first rule that
// matches anywhere in the view wins, even if a lower ranked token appears
// earlier in the string.
var qualityRules = buildQualityRules(
	"2160p", "1440p", "1080p", "720p", "540p", "480p", "360p", "240p", "144p", "4k",
)

func buildQualityRules(tokens ...string) []qualityRule {
	rules := make([]qualityRule, 0, len(tokens))
	for _, token := range tokens {
		rules = append(rules, qualityRule{
			token:   token,
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(token) + `\b`),
		})
	}
	return rules
}

// ResolveQuality scans view for a resolution token and canonicalizes it.
// Only one quality is ever extracted per filename.
func ResolveQuality(view string) (QualityMatch, bool) {
	for i := range qualityRules {
		if m, ok := qualityRules[i].find(view); ok {
			return m, true
		}
	}
	return QualityMatch{}, false
}

func (r qualityRule) find(view string) (QualityMatch, bool) {
	loc := r.pattern.FindStringIndex(view)
	if loc == nil {
		return QualityMatch{}, false
	}
	text := view[loc[0]:loc[1]]
	q, ok := ParseQuality(text)
	if !ok {
		return QualityMatch{}, false
	}
	return QualityMatch{Quality: q, Start: loc[0], End: loc[1], Text: text}, true
}

// Anchor re-locates this match in another view using the same rule that
// produced it.
func (m QualityMatch) Anchor() Anchor {
	return Anchor{
		Text: m.Text,
		Find: func(view string) (int, bool) {
			for _, r := range qualityRules {
				if !strings.EqualFold(r.token, m.Text) {
					continue
				}
				if loc := r.pattern.FindStringIndex(view); loc != nil {
					return loc[0], true
				}
			}
			return 0, false
		},
	}
}
