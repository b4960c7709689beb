// Package errs defines the error taxonomy shared across the ingestion
// pipelines and query operators: callers distinguish failures by kind
// (errors.Is against the sentinels below), not by concrete type.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error categories of the annotation engine.
type Kind int

const (
	// InvalidInput means a user-supplied value violates a syntactic contract
	// (bad coordinate, malformed accession, unknown chromosome token).
	InvalidInput Kind = iota
	// SchemaError means ingestion could not infer or reconcile a column type.
	SchemaError
	// StoreError means the underlying ordered store failed to open, read,
	// write, or compact.
	StoreError
	// AssemblyMismatch means a query's assembly does not match the
	// database's genome-release metadata entry.
	AssemblyMismatch
	// NotFound means a requested database or column family is absent.
	// Per §7, missing records in query results are not errors; NotFound is
	// reserved for open-time absence of the database or a required CF.
	NotFound
	// FormatError means an upstream file violates its own format.
	FormatError
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case SchemaError:
		return "SchemaError"
	case StoreError:
		return "StoreError"
	case AssemblyMismatch:
		return "AssemblyMismatch"
	case NotFound:
		return "NotFound"
	case FormatError:
		return "FormatError"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with a Kind and free-form context
// (dataset, file, approximate record index) the way vcf.ParseError
// carries a line number.
type Error struct {
	Kind    Kind
	Context string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, errs.InvalidInput) work by comparing Kind against
// a bare Kind sentinel wrapped into an *Error.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New builds an *Error of the given kind with a context string.
func New(kind Kind, context string) *Error {
	return &Error{Kind: kind, Context: context}
}

// Wrap builds an *Error of the given kind, context, and underlying cause.
func Wrap(kind Kind, context string, cause error) *Error {
	return &Error{Kind: kind, Context: context, Cause: cause}
}

// sentinels for use with errors.Is(err, errs.ErrInvalidInput) etc.
var (
	ErrInvalidInput     = &Error{Kind: InvalidInput}
	ErrSchemaError      = &Error{Kind: SchemaError}
	ErrStoreError       = &Error{Kind: StoreError}
	ErrAssemblyMismatch = &Error{Kind: AssemblyMismatch}
	ErrNotFound         = &Error{Kind: NotFound}
	ErrFormatError      = &Error{Kind: FormatError}
)

// Of reports the Kind of err if err is (or wraps) an *Error, and ok=false
// otherwise.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
