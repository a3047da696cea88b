package media

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// extract runs the detection stages and the title cut the way the pipeline
// wires them together.
func extract(raw string) TitleCandidate {
	views := Normalize(raw)

	var anchors []Anchor
	q, hasQuality := ResolveQuality(views.Detection)
	if hasQuality {
		anchors = append(anchors, q.Anchor())
	}
	opts := LocateOptions{AllowBareNumber: hasQuality}
	if ep, ok := LocateEpisode(views.Detection, opts); ok {
		anchors = append(anchors, ep.Anchor(opts))
	}
	return ExtractTitle(views, anchors...)
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  TitleCandidate
	}{
		"leading group": {
			input: "[@Group] Demon Slayer S01E07 1080p HEVC.mkv",
			want:  TitleCandidate{Text: "Demon Slayer"},
		},
		"tags inside trailing brackets": {
			input: "Naruto Shippuden - E226 [1080p BD x265 10bit Multi Audio].mkv",
			want:  TitleCandidate{Text: "Naruto Shippuden"},
		},
		"handle inside brackets": {
			input: "Death Note S01E01 [@CrunchyRollChannel]_360P SD.mp4",
			want:  TitleCandidate{Text: "Death Note"},
		},
		"no quality": {
			input: "Unknown Show Episode 5.mkv",
			want:  TitleCandidate{Text: "Unknown Show"},
		},
		"quality before episode": {
			input: "Jujutsu Kaisen 1080p S02E05.mkv",
			want:  TitleCandidate{Text: "Jujutsu Kaisen"},
		},
		"trailing vocabulary before anchor": {
			input: "Attack on Titan Hindi Dub BluRay x264 S04E28 720p.mkv",
			want:  TitleCandidate{Text: "Attack on Titan"},
		},
		"leading handle": {
			input: "@AnimeHub Spy x Family S01E02 480p.mp4",
			want:  TitleCandidate{Text: "Spy x Family"},
		},
		"episode hidden in brackets": {
			input: "Bleach Thousand Year Blood War [E05] 1080p.mkv",
			want:  TitleCandidate{Text: "Bleach Thousand Year Blood War"},
		},
		"anime dash number": {
			input: "[SubsPlease] One Piece - 1071 (1080p) [ABCD1234].mkv",
			want:  TitleCandidate{Text: "One Piece"},
		},
		"no anchors": {
			input: "Some Random Title.mkv",
			want:  TitleCandidate{Text: "Some Random Title"},
		},
		"numeric title is kept": {
			input: "86 S01E01 1080p.mkv",
			want:  TitleCandidate{Text: "86"},
		},
		"quality only falls back to base": {
			input: "[Group] 1080p.mkv",
			want:  TitleCandidate{Text: "[Group] 1080p", FromBase: true},
		},
		"episode only falls back to base": {
			input: "S01E05.mkv",
			want:  TitleCandidate{Text: "S01E05", FromBase: true},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := extract(tc.input)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("extract(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestCutIndex(t *testing.T) {
	t.Parallel()

	never := func(string) (int, bool) { return 0, false }

	tests := map[string]struct {
		view    string
		anchors []Anchor
		want    int
		wantOK  bool
	}{
		"no anchors": {
			view:   "Title Only",
			wantOK: false,
		},
		"earliest wins": {
			view: "Show 1080p S01E01",
			anchors: []Anchor{
				{Text: "S01E01", Find: never},
				{Text: "1080p", Find: never},
			},
			want:   5,
			wantOK: true,
		},
		"rule result preferred over text": {
			view: "Show abc def",
			anchors: []Anchor{
				{Text: "def", Find: func(string) (int, bool) { return 9, true }},
			},
			want:   9,
			wantOK: true,
		},
		"text search is case insensitive": {
			view:    "Show e05 rest",
			anchors: []Anchor{{Text: "E05"}},
			want:    5,
			wantOK:  true,
		},
		"vanished token ignored": {
			view:    "Show Title",
			anchors: []Anchor{{Text: "1080p", Find: never}},
			wantOK:  false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, ok := CutIndex(tc.view, tc.anchors...)
			if ok != tc.wantOK || (ok && got != tc.want) {
				t.Errorf("CutIndex(%q) = (%d, %v), want (%d, %v)", tc.view, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"trailing tags":      {input: "Show Name HEVC x265 10bit", want: "Show Name"},
		"dual audio":         {input: "Show Name Dual Audio ESub", want: "Show Name"},
		"separators":         {input: " - Show Name : ", want: "Show Name"},
		"handle":             {input: "@Channel Show Name", want: "Show Name"},
		"control characters": {input: "Show\u0000 Name\u200b", want: "Show Name"},
		"mid title tag kept": {input: "Sub Rosa Chronicles", want: "Sub Rosa Chronicles"},
		"only tags":          {input: "BluRay x264", want: ""},
		"nfc":                {input: "Poke\u0301mon", want: "Pok\u00e9mon"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := CleanTitle(tc.input); got != tc.want {
				t.Errorf("CleanTitle(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
