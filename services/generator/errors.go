package generator

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure so the HTTP boundary can map it onto a
// response status without string matching.
type Kind string

const (
	KindMissingFields    Kind = "missing_fields"
	KindInvalidIcon      Kind = "invalid_icon"
	KindStorageProvision Kind = "storage_provision"
	KindUploadExhausted  Kind = "upload_exhausted"
	KindInternalAssembly Kind = "internal_assembly"
)

// Error is a pipeline failure tagged with its classification.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the classification of err, or the empty Kind when err did
// not originate in the pipeline.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}
