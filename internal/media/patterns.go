package media

import "regexp"

// Pattern compilation for release filename parsing
var (
	// containerExtRe matches a trailing run of container extensions, including
	// stacked ones like ".mkv.mp4".
	containerExtRe = regexp.MustCompile(`(?i)(?:\.(?:mkv|mp4|avi|mov|wmv|flv|webm|mpeg|mpg|m4v|3gp|vob|ts|mts|m2ts|rmvb|divx|srt|ass|ssa|vtt))+$`)

	// leadingGroupRe matches one bracketed, parenthesized or braced group at the
	// start of a name plus any separators that follow it.
	leadingGroupRe = regexp.MustCompile(`^(?:\[[^\]]*\]|\([^)]*\)|\{[^}]*\})[\s._\-]*`)

	// bracketBlockRe matches whole bracket blocks anywhere in a name.
	bracketBlockRe = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\{[^}]*\}`)

	// bracketCharRe matches the delimiter characters themselves, including
	// unbalanced leftovers.
	bracketCharRe = regexp.MustCompile(`[\[\](){}]`)

	// separatorRe collapses separators and whitespace runs into one space.
	separatorRe = regexp.MustCompile(`[\s._\-]+`)

	// Season and episode families, in cascade order.
	seasonEpisodeRe = regexp.MustCompile(`(?i)\bS0*(\d{1,2})[\s._\-]*E0*(\d{1,4})(?:v\d)?\b`)
	crossEpisodeRe  = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{1,3})\b`)
	spelledOutRe    = regexp.MustCompile(`(?i)\bSeason[\s:]*0*(\d{1,2})\b.*?\b(?:Episode|Ep)[\s:]*0*(\d{1,4})\b`)
	episodeWordRe   = regexp.MustCompile(`(?i)\b(?:Episode|Ep)[\s:]*0*(\d{1,4})(?:v\d)?\b`)
	episodeLetterRe = regexp.MustCompile(`(?i)\bE0*(\d{1,4})(?:v\d)?\b`)

	// bareEpisodeRe matches a whole field usable by the bare number rule,
	// with an optional release revision: "05", "12v2".
	bareEpisodeRe = regexp.MustCompile(`(?i)^(\d{1,4})(?:v\d)?$`)

	// audioChannelRe matches an audio codec followed by its channel layout
	// once separators are collapsed: "AAC 2 0", "DDP5 1".
	audioChannelRe = regexp.MustCompile(`(?i)\b(?:AAC|E?AC3|DDP?|FLAC|Opus|DTS|TrueHD)\s?[124578]\s[01]\b`)

	// seasonOnlyRe finds a standalone season token used when only the episode
	// is explicit: "S02", "Season 2".
	seasonOnlyRe = regexp.MustCompile(`(?i)\b(?:S|Season[\s:]*)0*(\d{1,2})\b`)

	// handleRe matches a leading "@handle" release group mention.
	handleRe = regexp.MustCompile(`^@\S+\s*`)

	// trailingTagRe matches one trailing release, encoding, audio, subtitle or
	// revision tag. It is applied until the title stops changing.
	trailingTagRe = regexp.MustCompile(`(?i)(?:^|\s)(?:` +
		`HEVC|AVC|x265|x264|H\s?26[45]|AV1|VP9|XviD|DivX|` +
		`\d{1,2}\s?bits?|Hi10P?|HDR(?:10)?|SDR|` +
		`Blu\s?Ray|BD|BDRip|BRRip|WEB\s?DL|WEBDL|WEBRip|WEB|HDTV|HDRip|DVDRip|DVD|TVRip|Remux|Rip|` +
		`AAC(?:\s?2\s0)?|AC3|EAC3|DDP?(?:\s?[25]\s[01])?|FLAC|Opus|MP3|DTS|TrueHD|` +
		`Dual\s?Audio|Multi\s?Audio|Multi|Dual|Dub|Dubbed|Hindi|English|Eng|Japanese|Jap|Jpn|Tamil|Telugu|` +
		`ESubs?|Subs?|Subbed|Softsubs?|Hardsubs?|MultiSubs?|` +
		`Proper|Repack|v\d|Extended|Uncut|Uncensored|Complete|Batch|` +
		`SD|HD|FHD|UHD|4K|\d{3,4}p` +
		`)\s*$`)

	// edgePunctuation is trimmed from both ends of a cleaned title.
	edgePunctuation = " -_.:|~,;+/\\"
)
