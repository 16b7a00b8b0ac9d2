package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
		wantLevel  zapcore.Level
	}{
		{"JSON output mode", true, 0, zapcore.WarnLevel},
		{"Console output mode", false, 1, zapcore.InfoLevel},
		{"Console debug mode", false, 2, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			assert.True(t, Logger.Desugar().Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, Logger.Desugar().Core().Enabled(tt.wantLevel-1))
			}

			Cleanup()
		})
	}
}

func TestHelpersTolerateNilLogger(t *testing.T) {
	Logger = nil
	assert.NotPanics(t, func() {
		Infow("info", FieldCount, 1)
		Debugw("debug")
		Warnw("warn")
		Errorw("error")
		Cleanup()
	})
	require.NoError(t, Initialize(false, 0))
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(VerbosityUser))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(VerbosityInfo))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityDebug))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))

	assert.False(t, ShouldLogTrace(VerbosityDebug))
	assert.True(t, ShouldLogTrace(VerbosityTrace))
	assert.Equal(t, "Debug (-vv)", LevelName(2))
	assert.Equal(t, "Trace (-vvv)", LevelName(9))
}
