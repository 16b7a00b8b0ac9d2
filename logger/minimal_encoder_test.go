package logger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// The minimal encoder must never silently discard log fields.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder(false)

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2024, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "bind",
		Message:    "Resolved registry",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String(FieldTarget, "gles2.0"), "target=gles2.0"},
		{zap.Int(FieldCommands, 142), "commands=142"},
		{zap.Bool("partial", true), "partial=true"},
		{zap.Float64("ratio", 0.5), "ratio=0.5"},
		{zap.Strings("extensions", []string{"GL_EXT_a", "GL_EXT_b"}), "extensions=[GL_EXT_a GL_EXT_b]"},
		{zap.Int64(FieldDurationMS, 12), "duration_ms=12ms"},
		{zap.Error(nil), ""},
	}

	var fields []zapcore.Field
	for _, tf := range testFields {
		fields = append(fields, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, fields)
	require.NoError(t, err)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "13:04:35  bind  Resolved registry  "), out)
	for _, tf := range testFields {
		if tf.mustFind != "" {
			assert.Contains(t, out, tf.mustFind)
		}
	}
	assert.NotContains(t, out, "\x1b[", "color disabled encoder must not emit ANSI codes")
}

func TestMinimalEncoderLevels(t *testing.T) {
	encoder := newMinimalEncoder(false)
	for level, want := range map[zapcore.Level]string{
		zapcore.DebugLevel: "DEBUG",
		zapcore.WarnLevel:  "WARN",
		zapcore.ErrorLevel: "ERROR",
	} {
		buf, err := encoder.EncodeEntry(zapcore.Entry{Level: level, Message: "m"}, nil)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), want)
	}

	buf, err := encoder.EncodeEntry(zapcore.Entry{Level: zapcore.InfoLevel, Message: "m"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "INFO")
}

func TestMinimalEncoderColor(t *testing.T) {
	encoder := newMinimalEncoder(true)
	buf, err := encoder.EncodeEntry(zapcore.Entry{Level: zapcore.WarnLevel, Message: "careful"}, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), colorReset)

	clone := encoder.Clone().(*minimalEncoder)
	assert.True(t, clone.color)
}
