// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable  = errors.New("catalog source unavailable")
	ErrMalformedResponse  = errors.New("malformed catalog response")
	ErrInvalidItem        = errors.New("invalid catalog item")
	ErrEmptyCatalog       = errors.New("catalog has no valid items")
	ErrUnknownDomain      = errors.New("unknown catalog domain")
	ErrUnknownFilter      = errors.New("unknown filter")
	ErrUnknownPriceBucket = errors.New("unknown price bucket")
	ErrUnknownItem        = errors.New("unknown item")
	ErrSuperseded         = errors.New("load superseded by a newer request")
	ErrInvalidConfig      = errors.New("invalid domain configuration")
	ErrNotLoaded          = errors.New("catalog not loaded")
)

// LoadErrorKind classifies catalog load failures.
type LoadErrorKind string

const (
	LoadErrorSourceUnavailable LoadErrorKind = "source_unavailable"
	LoadErrorMalformedResponse LoadErrorKind = "malformed_response"
	LoadErrorEmptyCatalog      LoadErrorKind = "empty_catalog"
)

// LoadError describes why a catalog could not be loaded from its source.
type LoadError struct {
	Kind      LoadErrorKind
	Domain    string
	SourceRef string
	Err       error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load %s catalog from %q: %s", e.Domain, e.SourceRef, e.Kind)
	}
	return fmt.Sprintf("load %s catalog from %q: %s: %v", e.Domain, e.SourceRef, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a LoadError against the sentinel of its kind.
func (e *LoadError) Is(target error) bool {
	switch e.Kind {
	case LoadErrorSourceUnavailable:
		return target == ErrSourceUnavailable
	case LoadErrorMalformedResponse:
		return target == ErrMalformedResponse
	case LoadErrorEmptyCatalog:
		return target == ErrEmptyCatalog
	}
	return false
}

// Fallbackable reports whether the seed dataset may stand in for the failed load.
func (e *LoadError) Fallbackable() bool {
	return e.Kind == LoadErrorSourceUnavailable || e.Kind == LoadErrorMalformedResponse
}
