package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldOutput(t *testing.T) {
	tests := []struct {
		category  OutputCategory
		verbosity int
		want      bool
	}{
		{OutputResults, VerbosityUser, true},
		{OutputStatus, VerbosityUser, true},
		{OutputSummary, VerbosityUser, false},
		{OutputSummary, VerbosityInfo, true},
		{OutputTiming, VerbosityInfo, false},
		{OutputTiming, VerbosityDebug, true},
		{OutputLayout, VerbosityDebug, false},
		{OutputLayout, VerbosityTrace, true},
		{OutputCategory(99), VerbosityDebug, false},
	}
	for _, tt := range tests {
		t.Run(CategoryName(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldOutput(tt.verbosity, tt.category))
		})
	}
}

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "timing", CategoryName(OutputTiming))
	assert.Equal(t, "unknown", CategoryName(OutputCategory(99)))
}
