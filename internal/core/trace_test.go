package core

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTraceCache_RecordsParses(t *testing.T) {
	t.Parallel()

	traces := NewTraceCache(time.Hour)
	p := newTestPipeline(t, Options{Traces: traces})

	if _, ok := traces.Last(); ok {
		t.Fatal("Last() on empty cache reported a trace")
	}

	raw := "Death Note S01E01 [@CrunchyRollChannel]_360P SD.mp4"
	if _, err := p.Parse(raw); err != nil {
		t.Fatal(err)
	}

	want := Trace{
		Raw:          raw,
		Base:         "Death Note S01E01 [@CrunchyRollChannel]_360P SD",
		Detection:    "Death Note S01E01 @CrunchyRollChannel 360P SD",
		TitleView:    "Death Note S01E01 360P SD",
		QualityToken: "360P",
		Quality:      "480p",
		EpisodeToken: "S01E01",
		Strategy:     "SxxExx",
		Season:       1,
		Episode:      1,
		Candidate:    "Death Note",
		Title:        "Death Note",
	}
	got, ok := traces.Last()
	if !ok {
		t.Fatal("Last() reported no trace")
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Trace{}, "At")); diff != "" {
		t.Errorf("Last() mismatch (-want +got):\n%s", diff)
	}

	byRaw, ok := traces.Get(raw)
	if !ok || byRaw.Title != "Death Note" {
		t.Errorf("Get(%q) = %+v, %v", raw, byRaw, ok)
	}
}

func TestTraceCache_RecordsFailures(t *testing.T) {
	t.Parallel()

	traces := NewTraceCache(0)
	p := newTestPipeline(t, Options{Traces: traces, MissingEpisode: PolicyReject})

	if _, err := p.Parse("Some Random Title 1080p.mkv"); err == nil {
		t.Fatal("Parse() error = nil, want rejection")
	}
	got, ok := traces.Last()
	if !ok {
		t.Fatal("Last() reported no trace")
	}
	if got.Err == "" || got.Quality != "1080p" || got.Title != "" {
		t.Errorf("Last() = %+v, want failed trace with quality and no title", got)
	}
}

func TestTraceCache_FileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "traces", "last.gob")

	first := NewTraceCache(time.Hour)
	if err := first.LoadFile(path); err != nil {
		t.Fatalf("LoadFile(missing) error = %v", err)
	}
	want := Trace{Raw: "a.mkv", Title: "A", Season: 2, Episode: 3, At: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	first.Record(want)
	if err := first.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	second := NewTraceCache(time.Hour)
	if err := second.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	got, ok := second.Last()
	if !ok {
		t.Fatal("Last() after LoadFile reported no trace")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Last() mismatch (-want +got):\n%s", diff)
	}
}
