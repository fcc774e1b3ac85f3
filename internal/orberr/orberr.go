// Package orberr defines the closed set of error kinds the planning engine
// can produce. Every fatal error surfaced to a caller carries one of these
// kinds so a CLI adapter can map it to an exit code without string matching.
package orberr

import (
	"errors"
	"fmt"
)

// Kind identifies which of the closed error categories an *Error belongs to.
type Kind int

const (
	// resolution
	UnknownIp Kind = iota
	UnknownVersion
	AmbiguousIp

	// planning
	UnknownUnit
	UnknownEntity
	BadEntity
	BadTop
	BadTestbench
	Ambiguous

	// manifest
	ManifestMissing
	ManifestInvalid

	// vhdl
	LexError
	ParseError

	// filesystem / network
	IoFailure
)

func (k Kind) String() string {
	switch k {
	case UnknownIp:
		return "UnknownIp"
	case UnknownVersion:
		return "UnknownVersion"
	case AmbiguousIp:
		return "AmbiguousIp"
	case UnknownUnit:
		return "UnknownUnit"
	case UnknownEntity:
		return "UnknownEntity"
	case BadEntity:
		return "BadEntity"
	case BadTop:
		return "BadTop"
	case BadTestbench:
		return "BadTestbench"
	case Ambiguous:
		return "Ambiguous"
	case ManifestMissing:
		return "ManifestMissing"
	case ManifestInvalid:
		return "ManifestInvalid"
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case IoFailure:
		return "IoFailure"
	default:
		return "Unknown"
	}
}

// Error is the single error type the core returns for fatal conditions.
// Subject is the offending identifier or path, verbatim. Candidates holds
// the list for Ambiguous/AmbiguousIp errors.
type Error struct {
	Kind       Kind
	Subject    string
	Candidates []string
	Detail     string
	Cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Subject)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if len(e.Candidates) > 0 {
		msg += fmt.Sprintf(" (candidates: %v)", e.Candidates)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a bare *Error with just a kind and subject.
func New(kind Kind, subject string) *Error {
	return &Error{Kind: kind, Subject: subject}
}

// Wrap builds an *Error carrying a causing error.
func Wrap(kind Kind, subject string, cause error) *Error {
	return &Error{Kind: kind, Subject: subject, Cause: cause}
}

// WithDetail attaches a human-readable detail string and returns the receiver.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// WithCandidates attaches the ambiguous candidate list and returns the receiver.
func (e *Error) WithCandidates(candidates []string) *Error {
	e.Candidates = candidates
	return e
}

// KindOf extracts the Kind from err, if it (or something it wraps) is an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
