package logger

// Output controls what categories of information the CLI prints to stderr at
// each verbosity level. Unlike log levels, categories select WHAT is shown.
//
// Verbosity Levels:
//
//	0 (default) - generated source, errors with hints, check status
//	1 (-v)      - + stage summary and the files written
//	2 (-vv)     - + configuration sources and timing
//	3 (-vvv)    - + per-owner layout tables

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	OutputResults OutputCategory = iota // generated source, inspect tables
	OutputErrors                        // errors with hints and details
	OutputStatus                        // final up-to-date / written status

	OutputSummary // counts of types, constants and commands
	OutputFiles   // paths written or watched

	OutputConfig // configuration files consulted
	OutputTiming // stage timing

	OutputLayout // procedure table ranges per owner
)

var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,
	OutputErrors:  VerbosityUser,
	OutputStatus:  VerbosityUser,

	OutputSummary: VerbosityInfo,
	OutputFiles:   VerbosityInfo,

	OutputConfig: VerbosityDebug,
	OutputTiming: VerbosityDebug,

	OutputLayout: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults: "results",
	OutputErrors:  "errors",
	OutputStatus:  "status",
	OutputSummary: "summary",
	OutputFiles:   "files",
	OutputConfig:  "config",
	OutputTiming:  "timing",
	OutputLayout:  "layout",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
