package media

import (
	"strings"
)

// Views holds the derived forms of a raw release filename. Parsing never
// mutates the raw input; every later stage works on one of these views.
//
//   - Base is the file name without directories, quotes and container
//     extensions. It is the last-resort title.
//   - Detection keeps the contents of bracket groups but drops the delimiters,
//     so metadata tokens can be located regardless of punctuation.
//   - Title removes bracket groups entirely, so release group, language and
//     checksum tags never leak into the display title.
type Views struct {
	Base      string
	Detection string
	Title     string
}

// Normalize derives the detection and title views from a raw filename.
// Empty input yields empty views.
func Normalize(raw string) Views {
	base := BaseName(raw)

	stripped := stripLeadingGroups(base)

	detection := bracketCharRe.ReplaceAllString(stripped, " ")
	detection = collapseSeparators(detection)

	title := bracketBlockRe.ReplaceAllString(stripped, " ")
	title = bracketCharRe.ReplaceAllString(title, " ")
	title = collapseSeparators(title)

	return Views{
		Base:      base,
		Detection: detection,
		Title:     title,
	}
}

// BaseName strips surrounding quotes, any directory prefix and the trailing
// run of container extensions from raw.
func BaseName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.Trim(name, `"'`)
	if idx := strings.LastIndexAny(name, `/\`); idx != -1 {
		name = name[idx+1:]
	}
	name = containerExtRe.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// stripLeadingGroups removes release tag prefixes like "[@Group]" one group at
// a time. Groups in the middle of the name are left for the views to handle,
// and a group is kept when it is all that is left of the name.
func stripLeadingGroups(name string) string {
	for {
		loc := leadingGroupRe.FindStringIndex(name)
		if loc == nil {
			return name
		}
		rest := strings.TrimSpace(name[loc[1]:])
		if rest == "" {
			return name
		}
		name = rest
	}
}

// collapseSeparators turns every run of "_", ".", "-" and whitespace into a
// single space and trims the ends.
func collapseSeparators(s string) string {
	return strings.TrimSpace(separatorRe.ReplaceAllString(s, " "))
}
