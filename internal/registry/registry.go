package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Digital-Shane/caption-tidy/internal/media"
	"github.com/rs/zerolog"
)

// Match thresholds for Canonicalize.
const (
	// TitleThreshold applies to candidates built from a cleaned title.
	TitleThreshold = 0.60
	// BaseThreshold applies to candidates that fell back to the raw base
	// filename, which carries tag noise and so matches more loosely.
	BaseThreshold = 0.50
)

var (
	ErrEmptyName = errors.New("name is empty")
	ErrExists    = errors.New("name already exists")
	ErrNotFound  = errors.New("name not found")
)

// ChangeKind names a registry mutation.
type ChangeKind string

const (
	ChangeLearned ChangeKind = "learn"
	ChangeAdded   ChangeKind = "add"
	ChangeRemoved ChangeKind = "remove"
)

// Change describes one mutation. Err is the persist error, if any; the
// in-memory change stands either way.
type Change struct {
	Kind ChangeKind
	Name string
	Err  error
}

// Registry is the set of canonical series names learned so far. Entries keep
// first-seen order and are unique case-insensitively. All methods are safe for
// concurrent use; lookups share a read lock while learning and administrative
// changes take the write lock and persist before releasing it.
type Registry struct {
	mu     sync.RWMutex
	names  []string
	store  Storage
	logger zerolog.Logger
	hook   func(Change)
}

// Option configures a Registry during construction.
type Option func(*Registry)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithHook registers fn to be called after every mutation, while the
// registry lock is held. fn must not call back into the registry.
func WithHook(fn func(Change)) Option {
	return func(r *Registry) {
		r.hook = fn
	}
}

// New loads the registry from store. Duplicate entries in the stored list are
// dropped, keeping the first.
func New(store Storage, opts ...Option) (*Registry, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	r := &Registry{
		store:  store,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	names, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || r.indexOf(name) != -1 {
			continue
		}
		r.names = append(r.names, name)
	}
	r.logger.Debug().Int("names", len(r.names)).Msg("registry loaded")
	return r, nil
}

// Canonicalize resolves a title candidate to a known name, or learns it.
//
// The entry with the highest similarity wins when it meets the threshold for
// the candidate's origin; ties go to the entry seen first. Otherwise the
// candidate is appended, the registry persisted, and the candidate returned
// unchanged. A persist failure is logged and the in-memory registry stays
// authoritative.
func (r *Registry) Canonicalize(c media.TitleCandidate) string {
	threshold := TitleThreshold
	if c.FromBase {
		threshold = BaseThreshold
	}

	if name, _, ok := r.Lookup(c.Text, threshold); ok {
		return name
	}
	// Names without letters or digits cannot be compared, so they are never
	// learned.
	if comparisonKey(c.Text) == "" {
		return c.Text
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another writer may have learned a matching name since the read lock
	// was released.
	if name, _, ok := r.bestLocked(c.Text, threshold); ok {
		return name
	}

	r.names = append(r.names, c.Text)
	r.logger.Info().Str("name", c.Text).Int("names", len(r.names)).Msg("learned new name")
	err := r.persistLocked()
	if err != nil {
		r.logger.Warn().Err(err).Str("name", c.Text).Msg("registry persist failed, keeping in-memory copy")
	}
	r.notify(ChangeLearned, c.Text, err)
	return c.Text
}

// Lookup returns the best matching entry for candidate and its ratio. ok is
// false when no entry meets threshold.
func (r *Registry) Lookup(candidate string, threshold float64) (string, float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bestLocked(candidate, threshold)
}

func (r *Registry) bestLocked(candidate string, threshold float64) (string, float64, bool) {
	if comparisonKey(candidate) == "" {
		return "", 0, false
	}
	best := -1
	bestRatio := 0.0
	for i, name := range r.names {
		if comparisonKey(name) == "" {
			continue
		}
		ratio := Similarity(candidate, name)
		if ratio > bestRatio || best == -1 {
			best = i
			bestRatio = ratio
		}
	}
	if best == -1 || bestRatio < threshold {
		return "", bestRatio, false
	}
	return r.names[best], bestRatio, true
}

// Add registers name explicitly. The entry is kept in memory even when
// persisting it fails; the persist error is returned.
func (r *Registry) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(name) != -1 {
		return fmt.Errorf("%w: %s", ErrExists, name)
	}
	r.names = append(r.names, name)
	err := r.persistLocked()
	r.notify(ChangeAdded, name, err)
	return err
}

// Remove deletes name, matched case-insensitively. Like Add, the in-memory
// change stands when persisting fails.
func (r *Registry) Remove(name string) error {
	name = strings.TrimSpace(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(name)
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	removed := r.names[idx]
	r.names = append(r.names[:idx], r.names[idx+1:]...)
	err := r.persistLocked()
	r.notify(ChangeRemoved, removed, err)
	return err
}

// Names returns a copy of the entries in first-seen order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.names...)
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// Persist writes a full snapshot through the store.
func (r *Registry) Persist() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persistLocked()
}

func (r *Registry) persistLocked() error {
	if err := r.store.Save(append([]string{}, r.names...)); err != nil {
		return fmt.Errorf("failed to persist registry: %w", err)
	}
	r.logger.Debug().Int("names", len(r.names)).Msg("registry persisted")
	return nil
}

func (r *Registry) notify(kind ChangeKind, name string, err error) {
	if r.hook != nil {
		r.hook(Change{Kind: kind, Name: name, Err: err})
	}
}

func (r *Registry) indexOf(name string) int {
	for i, n := range r.names {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}
