package core

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/patrickmn/go-cache"
)

const lastTraceKey = "last"

func init() {
	// go-cache serializes values with gob.
	gob.Register(Trace{})
}

// Trace records every stage of one parse.
type Trace struct {
	Raw       string
	Base      string
	Detection string
	TitleView string

	QualityToken     string
	Quality          string
	QualityDefaulted bool

	EpisodeToken     string
	Strategy         string
	Season           int
	Episode          int
	EpisodeDefaulted bool

	Candidate string
	FromBase  bool
	Title     string

	Err string
	At  time.Time
}

// TraceCache keeps recent parse traces in memory with expiration, and can
// carry them across process runs through a gob file.
type TraceCache struct {
	cache *cache.Cache
}

// NewTraceCache creates a cache whose entries expire after ttl. A zero ttl
// keeps entries until the process exits.
func NewTraceCache(ttl time.Duration) *TraceCache {
	if ttl <= 0 {
		return &TraceCache{cache: cache.New(cache.NoExpiration, 0)}
	}
	return &TraceCache{cache: cache.New(ttl, 10*time.Minute)}
}

// Record stores t as the most recent trace and under its raw filename.
func (c *TraceCache) Record(t Trace) {
	c.cache.SetDefault(lastTraceKey, t)
	c.cache.SetDefault(traceKey(t.Raw), t)
}

// Last returns the most recently recorded trace.
func (c *TraceCache) Last() (Trace, bool) {
	return c.get(lastTraceKey)
}

// Get returns the trace recorded for raw.
func (c *TraceCache) Get(raw string) (Trace, bool) {
	return c.get(traceKey(raw))
}

func (c *TraceCache) get(key string) (Trace, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return Trace{}, false
	}
	t, ok := v.(Trace)
	return t, ok
}

// LoadFile merges traces saved by a previous run. A missing file is not an
// error.
func (c *TraceCache) LoadFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := c.cache.LoadFile(path); err != nil {
		return fmt.Errorf("failed to load trace cache: %w", err)
	}
	return nil
}

// SaveFile writes the unexpired traces to path.
func (c *TraceCache) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create trace cache directory: %w", err)
	}
	if err := c.cache.SaveFile(path); err != nil {
		return fmt.Errorf("failed to save trace cache: %w", err)
	}
	return nil
}

func traceKey(raw string) string {
	return "raw:" + raw
}
