package media

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func TestResolveQuality(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		view   string
		want   QualityMatch
		wantOK bool
	}{
		"1080p": {
			view:   "Demon Slayer S01E07 1080p HEVC",
			want:   QualityMatch{Quality: Quality1080p, Start: 20, End: 25, Text: "1080p"},
			wantOK: true,
		},
		"360P remapped": {
			view:   "Death Note S01E01 @CrunchyRollChannel 360P SD",
			want:   QualityMatch{Quality: Quality480p, Start: 38, End: 42, Text: "360P"},
			wantOK: true,
		},
		"4k synonym": {
			view:   "Show E01 4K",
			want:   QualityMatch{Quality: Quality2160p, Start: 9, End: 11, Text: "4K"},
			wantOK: true,
		},
		"priority beats position": {
			view:   "Show 720p E01 1080p",
			want:   QualityMatch{Quality: Quality1080p, Start: 14, End: 19, Text: "1080p"},
			wantOK: true,
		},
		"literal token beats 4k": {
			view:   "4k Remaster 720p",
			want:   QualityMatch{Quality: Quality720p, Start: 12, End: 16, Text: "720p"},
			wantOK: true,
		},
		"word bounded": {
			view:   "Show x1080px E01",
			wantOK: false,
		},
		"unsupported resolution": {
			view:   "Show 576p E01",
			wantOK: false,
		},
		"none": {
			view:   "Unknown Show Episode 5",
			wantOK: false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, ok := ResolveQuality(tc.view)
			if ok != tc.wantOK {
				t.Fatalf("ResolveQuality(%q) ok = %v, want %v", tc.view, ok, tc.wantOK)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ResolveQuality(%q) mismatch (-want +got):\n%s", tc.view, diff)
			}
		})
	}
}

func TestParseQuality(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		token  string
		want   Quality
		wantOK bool
	}{
		"4k":          {token: "4k", want: Quality2160p, wantOK: true},
		"4K":          {token: "4K", want: Quality2160p, wantOK: true},
		"360p":        {token: "360p", want: Quality480p, wantOK: true},
		"720P":        {token: "720P", want: Quality720p, wantOK: true},
		"144p":        {token: "144p", want: Quality144p, wantOK: true},
		"unsupported": {token: "576p", want: Quality("576p"), wantOK: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseQuality(tc.token)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("ParseQuality(%q) = (%q, %v), want (%q, %v)", tc.token, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestResolveQuality_RemapClosure(t *testing.T) {
	t.Parallel()

	tokens := []string{"2160p", "1440p", "1080p", "720p", "540p", "480p", "360p", "240p", "144p", "4k"}

	rapid.Check(t, func(t *rapid.T) {
		token := rapid.SampledFrom(tokens).Draw(t, "token")
		upper := rapid.Bool().Draw(t, "upper")
		prefix := rapid.StringMatching(`[A-Za-z ]{0,12}`).Draw(t, "prefix")
		suffix := rapid.StringMatching(`[A-Za-z ]{0,12}`).Draw(t, "suffix")

		literal := token
		if upper {
			literal = strings.ToUpper(token)
		}
		view := prefix + " " + literal + " " + suffix

		got, ok := ResolveQuality(view)
		if !ok {
			t.Fatalf("ResolveQuality(%q) found nothing", view)
		}

		var want Quality
		switch token {
		case "360p":
			want = Quality480p
		case "4k":
			want = Quality2160p
		default:
			want = Quality(strings.ToLower(token))
		}
		if got.Quality != want {
			t.Fatalf("ResolveQuality(%q) = %q, want %q", view, got.Quality, want)
		}
		if !got.Quality.Valid() {
			t.Fatalf("ResolveQuality(%q) returned non-canonical %q", view, got.Quality)
		}
	})
}
