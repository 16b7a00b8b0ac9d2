package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across glbind.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldStage     = "stage"

	// Registry inputs
	FieldRegistry  = "registry"
	FieldTarget    = "target"
	FieldExtension = "extension"
	FieldSymbol    = "symbol"
	FieldOwner     = "owner"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount     = "count"
	FieldTypes     = "types"
	FieldConstants = "constants"
	FieldCommands  = "commands"
	FieldSize      = "size"

	// Files and paths
	FieldPath   = "path"
	FieldOutput = "output"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Watcher struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func New() *Watcher {
//	    return &Watcher{logger: logger.ComponentLogger("watch")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
