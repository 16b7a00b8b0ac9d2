// Package errors provides error handling for glbind.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details rendered by the CLI under the error message
//   - Sentinel marking so callers can classify failures with errors.Is
//
// Usage:
//
//	// Classify a failure while keeping a precise message
//	return errors.Mark(errors.Newf("unknown type %q", name), errors.ErrUnknownType)
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "check the --target flag")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	"fmt"
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors for registry translation. Every failure the pipeline
// returns is marked with exactly one of these.
var (
	// ErrInvalidVersionToken indicates a target such as "gl4.5" could not be parsed
	ErrInvalidVersionToken = New("invalid version token")

	// ErrUnresolvableExtension indicates a requested extension is missing or unsupported
	ErrUnresolvableExtension = New("unresolvable extension")

	// ErrUnknownType indicates a declaration names a base type that is neither
	// a primitive nor a previously declared registry type
	ErrUnknownType = New("unknown type")

	// ErrMalformedDeclaration indicates a declaration did not match any known form
	ErrMalformedDeclaration = New("malformed declaration")

	// ErrDuplicateName indicates a name collision or a declared/inferred name mismatch
	ErrDuplicateName = New("duplicate name")

	// ErrRegistryFetch indicates the registry document could not be retrieved
	ErrRegistryFetch = New("registry fetch failed")

	// ErrOutOfDate indicates a generated file no longer matches its registry
	ErrOutOfDate = New("generated output is out of date")
)

// InvalidVersion creates an ErrInvalidVersionToken error for token.
func InvalidVersion(token, reason string) error {
	err := Mark(Newf("invalid target %q: %s", token, reason), ErrInvalidVersionToken)
	return WithHint(err, "targets look like gl4.5, glcore3.3, gles2.0 or gles1.1")
}

// UnknownType creates an ErrUnknownType error naming the unresolved identifier.
func UnknownType(name string) error {
	return Mark(Newf("no Go equivalent for type %q", name), ErrUnknownType)
}

// Malformed creates an ErrMalformedDeclaration error for symbol.
func Malformed(symbol string, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return Mark(Newf("%s: %s", symbol, msg), ErrMalformedDeclaration)
}

// Duplicate creates an ErrDuplicateName error for symbol.
func Duplicate(symbol string, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return Mark(Newf("%s: %s", symbol, msg), ErrDuplicateName)
}

// ExtensionProblem describes one extension request that could not be honoured.
type ExtensionProblem struct {
	Name   string
	Reason string
}

// ExtensionError aggregates every unresolvable extension found during a single
// resolution pass. It is always marked with ErrUnresolvableExtension.
type ExtensionError struct {
	Problems []ExtensionProblem
}

func (e *ExtensionError) Error() string {
	names := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		names[i] = p.Name
	}
	return fmt.Sprintf("%d unresolvable extension(s): %s", len(e.Problems), strings.Join(names, ", "))
}

// NewExtensionError builds the aggregate failure for problems, with one detail
// line per problem. It returns nil when problems is empty.
func NewExtensionError(problems []ExtensionProblem) error {
	if len(problems) == 0 {
		return nil
	}
	var err error = &ExtensionError{Problems: problems}
	err = Mark(err, ErrUnresolvableExtension)
	for _, p := range problems {
		err = WithDetailf(err, "%s: %s", p.Name, p.Reason)
	}
	return WithHint(err, "check the extension names and that they are supported by the selected API")
}
