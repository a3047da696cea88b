package media

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Anchor marks a metadata token found in the detection view so the title cut
// point can be re-derived in the title view.
type Anchor struct {
	// Text is the literal token as matched in the detection view.
	Text string
	// Find re-runs the rule that produced the token against another view.
	Find func(view string) (int, bool)
}

// TitleCandidate is the cleaned display title derived from a filename.
type TitleCandidate struct {
	Text string
	// FromBase is set when cleanup left nothing and the base filename was used
	// instead. Such candidates match the registry with a looser threshold.
	FromBase bool
}

// ExtractTitle slices the title view up to the earliest anchor and strips the
// residual tag vocabulary. It never returns an empty title for a non-empty
// base name.
func ExtractTitle(views Views, anchors ...Anchor) TitleCandidate {
	region := views.Title
	if cut, ok := CutIndex(views.Title, anchors...); ok {
		region = views.Title[:cut]
	}

	if title := CleanTitle(region); title != "" {
		return TitleCandidate{Text: title}
	}

	return TitleCandidate{Text: safeText(views.Base), FromBase: true}
}

// CutIndex returns the earliest position in view where any anchor can be
// located. Each anchor is first re-located with its own rule, then by a
// case-insensitive search for its literal text. Anchors found in neither way
// are ignored; ok is false when none was found.
func CutIndex(view string, anchors ...Anchor) (int, bool) {
	earliest := -1
	lowerView := strings.ToLower(view)
	for _, a := range anchors {
		idx := -1
		if a.Find != nil {
			if i, ok := a.Find(view); ok {
				idx = i
			}
		}
		if idx == -1 && a.Text != "" {
			idx = strings.Index(lowerView, strings.ToLower(a.Text))
		}
		if idx != -1 && (earliest == -1 || idx < earliest) {
			earliest = idx
		}
	}
	return earliest, earliest != -1
}

// CleanTitle strips trailing release vocabulary and a leading @handle from a
// raw title region, then collapses whitespace and trims separator
// punctuation.
func CleanTitle(region string) string {
	title := safeText(region)

	for {
		before := title
		title = strings.TrimRight(title, edgePunctuation)
		title = trailingTagRe.ReplaceAllString(title, "")
		title = strings.TrimSpace(title)
		if title == before {
			break
		}
	}

	title = handleRe.ReplaceAllString(title, "")
	title = strings.Join(strings.Fields(title), " ")
	return strings.Trim(title, edgePunctuation)
}

// safeText removes control and format characters and applies NFC so titles
// can be embedded in rich-text captions.
func safeText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r) {
			return ' '
		}
		return r
	}, s)
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}
