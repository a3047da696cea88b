package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/Digital-Shane/caption-tidy/internal/media"
	"github.com/Digital-Shane/caption-tidy/internal/registry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Result is the four caption fields derived from a filename.
type Result struct {
	Title   string
	Season  string
	Episode string
	Quality media.Quality

	SeasonNumber  int
	EpisodeNumber int
}

// Pipeline turns raw filenames into Results. It is safe for concurrent use;
// the registry is the only shared state.
type Pipeline struct {
	registry       *registry.Registry
	missingQuality Policy
	missingEpisode Policy
	defaultQuality media.Quality
	logger         zerolog.Logger
	traces         *TraceCache
}

// New creates a pipeline that canonicalizes titles against reg. A nil reg
// gets a fresh in-memory registry.
func New(reg *registry.Registry, opts Options) *Pipeline {
	if reg == nil {
		reg, _ = registry.New(registry.NewMemoryStore())
	}
	p := &Pipeline{
		registry:       reg,
		missingQuality: opts.MissingQuality,
		missingEpisode: opts.MissingEpisode,
		defaultQuality: opts.DefaultQuality,
		logger:         log.Logger,
		traces:         opts.Traces,
	}
	if opts.Logger != nil {
		p.logger = *opts.Logger
	}
	if !p.defaultQuality.Valid() {
		p.defaultQuality = media.DefaultQuality
	}
	return p
}

// Registry returns the registry titles are canonicalized against.
func (p *Pipeline) Registry() *registry.Registry {
	return p.registry
}

// Traces returns the trace cache, or nil when tracing is off.
func (p *Pipeline) Traces() *TraceCache {
	return p.traces
}

// Parse derives title, season, episode and quality from raw. On failure the
// error is a *ParseError. Titles are learned by the registry only for
// successful parses.
func (p *Pipeline) Parse(raw string) (res Result, err error) {
	trace := Trace{Raw: raw, At: time.Now()}
	defer func() {
		if r := recover(); r != nil {
			res = Result{}
			err = &ParseError{Raw: raw, Reason: ReasonInternal, Detail: fmt.Sprint(r)}
			p.logger.Error().Str("raw", raw).Interface("panic", r).Msg("parse panicked")
		}
		if err != nil {
			trace.Err = err.Error()
		}
		if p.traces != nil {
			p.traces.Record(trace)
		}
	}()

	views := media.Normalize(raw)
	trace.Base = views.Base
	trace.Detection = views.Detection
	trace.TitleView = views.Title
	if strings.TrimSpace(views.Base) == "" {
		return Result{}, &ParseError{Raw: raw, Reason: ReasonEmptyInput}
	}

	var anchors []media.Anchor

	quality := p.defaultQuality
	qm, hasQuality := media.ResolveQuality(views.Detection)
	if hasQuality {
		quality = qm.Quality
		anchors = append(anchors, qm.Anchor())
		trace.QualityToken = qm.Text
	} else {
		if p.missingQuality == PolicyReject {
			return Result{}, &ParseError{Raw: raw, Reason: ReasonNoQuality}
		}
		trace.QualityDefaulted = true
	}
	trace.Quality = quality.String()

	season, episode := 1, 1
	locate := media.LocateOptions{AllowBareNumber: hasQuality}
	em, hasEpisode := media.LocateEpisode(views.Detection, locate)
	if hasEpisode {
		season, episode = em.Season, em.Episode
		anchors = append(anchors, em.Anchor(locate))
		trace.EpisodeToken = em.Text
		trace.Strategy = em.Strategy
	} else {
		if p.missingEpisode == PolicyReject {
			return Result{}, &ParseError{Raw: raw, Reason: ReasonNoEpisode}
		}
		trace.EpisodeDefaulted = true
	}
	trace.Season = season
	trace.Episode = episode

	candidate := media.ExtractTitle(views, anchors...)
	trace.Candidate = candidate.Text
	trace.FromBase = candidate.FromBase
	if candidate.Text == "" {
		return Result{}, &ParseError{Raw: raw, Reason: ReasonEmptyInput}
	}

	title := p.registry.Canonicalize(candidate)
	trace.Title = title

	p.logger.Debug().
		Str("raw", raw).
		Str("quality", quality.String()).
		Bool("quality_defaulted", !hasQuality).
		Str("strategy", em.Strategy).
		Int("season", season).
		Int("episode", episode).
		Str("candidate", candidate.Text).
		Bool("from_base", candidate.FromBase).
		Str("title", title).
		Msg("parsed filename")

	return Result{
		Title:         title,
		Season:        media.FormatSeason(season),
		Episode:       media.FormatEpisode(episode),
		Quality:       quality,
		SeasonNumber:  season,
		EpisodeNumber: episode,
	}, nil
}
