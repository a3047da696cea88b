package core

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/caption-tidy/internal/media"
	"github.com/rs/zerolog"
)

// Policy decides what happens when a filename lacks a field.
type Policy int

const (
	// PolicyDefault substitutes the default value (480p, or season 1
	// episode 1) and lets the parse succeed.
	PolicyDefault Policy = iota
	// PolicyReject fails the parse with the matching Reason.
	PolicyReject
)

func (p Policy) String() string {
	switch p {
	case PolicyDefault:
		return "default"
	case PolicyReject:
		return "reject"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy reads a policy name as found in the config file. An empty
// string is PolicyDefault.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return PolicyDefault, nil
	case "reject":
		return PolicyReject, nil
	default:
		return PolicyDefault, fmt.Errorf("unknown policy %q (want \"default\" or \"reject\")", s)
	}
}

// Options configures a Pipeline.
type Options struct {
	MissingQuality Policy
	MissingEpisode Policy
	// DefaultQuality replaces a missing quality under PolicyDefault. Empty
	// means media.DefaultQuality.
	DefaultQuality media.Quality
	// Logger receives per-parse debug events. Nil uses the global logger.
	Logger *zerolog.Logger
	// Traces records every parse for later inspection. Optional.
	Traces *TraceCache
}
