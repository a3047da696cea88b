package core

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by ParseError.Is.
var (
	ErrNoQuality  = errors.New("no quality token found")
	ErrNoEpisode  = errors.New("no season or episode found")
	ErrEmptyInput = errors.New("filename is empty")
	ErrInternal   = errors.New("internal parse failure")
)

// Reason tags why a filename could not be parsed.
type Reason int

const (
	ReasonNoQuality Reason = iota + 1
	ReasonNoEpisode
	ReasonEmptyInput
	ReasonInternal
)

func (r Reason) String() string {
	switch r {
	case ReasonNoQuality:
		return "no_quality"
	case ReasonNoEpisode:
		return "no_episode"
	case ReasonEmptyInput:
		return "empty_input"
	case ReasonInternal:
		return "internal"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

func (r Reason) sentinel() error {
	switch r {
	case ReasonNoQuality:
		return ErrNoQuality
	case ReasonNoEpisode:
		return ErrNoEpisode
	case ReasonEmptyInput:
		return ErrEmptyInput
	default:
		return ErrInternal
	}
}

// ParseError is the tagged failure returned by Pipeline.Parse.
type ParseError struct {
	Raw    string
	Reason Reason
	// Detail carries the recovered panic value for ReasonInternal.
	Detail string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("cannot parse %q: %s", e.Raw, e.Reason.sentinel())
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is reports whether target is the sentinel error for e's reason.
func (e *ParseError) Is(target error) bool {
	return target == e.Reason.sentinel()
}
