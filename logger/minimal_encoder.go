package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// Everforest Dark palette, trimmed to what the encoder uses
var palette = struct {
	fg        string
	timestamp string
	component string
	value     string
	yellow    string
	red       string
	redBg     string
	yellowBg  string
}{
	fg:        "\x1b[38;5;223m",
	timestamp: "\x1b[38;5;107m",
	component: "\x1b[38;5;208m",
	value:     "\x1b[38;5;108m",
	yellow:    "\x1b[38;5;179m",
	red:       "\x1b[38;5;167m",
	redBg:     "\x1b[48;5;52m",
	yellowBg:  "\x1b[48;5;58m",
}

var bufferPool = buffer.NewPool()

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  bind  Resolved registry  target=gles2.0 commands=142"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	color           bool
}

func newMinimalEncoder(color bool) *minimalEncoder {
	// Create a base JSON encoder for field serialization (internal use only)
	baseEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	return &minimalEncoder{
		Encoder: baseEncoder,
		color:   color,
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		color:   enc.color,
	}
}

func (enc *minimalEncoder) paint(color, s string) string {
	if !enc.color || s == "" {
		return s
	}
	return color + s + colorReset
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	final.AppendString(enc.paint(palette.timestamp, ent.Time.Format("15:04:05")))

	// Level: only show for non-info entries
	if lvl := enc.levelString(ent.Level); lvl != "" {
		final.AppendString("  ")
		final.AppendString(lvl)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(enc.paint(palette.component, ent.LoggerName))
	}

	final.AppendString("  ")
	final.AppendString(enc.paint(palette.fg, ent.Message))

	if len(fields) > 0 {
		final.AppendString("  ")
		final.AppendString(enc.formatFields(fields))
	}

	final.AppendString("\n")
	return final, nil
}

// levelString returns bold + colored + background for WARN/ERROR, a plain tag for DEBUG
func (enc *minimalEncoder) levelString(level zapcore.Level) string {
	switch level {
	case zapcore.InfoLevel:
		return ""
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.WarnLevel:
		if !enc.color {
			return "WARN"
		}
		return colorBold + palette.yellowBg + palette.yellow + "WARN" + colorReset
	default:
		if !enc.color {
			return level.CapitalString()
		}
		return colorBold + palette.redBg + palette.red + level.CapitalString() + colorReset
	}
}

// getFieldValue extracts the value from a zap field, handling every field type
// by letting the field encode itself into a map encoder.
func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.SkipType:
		return ""
	}

	m := zapcore.NewMapObjectEncoder()
	field.AddTo(m)
	val, ok := m.Fields[field.Key]
	if !ok || val == nil {
		return ""
	}
	return fmt.Sprintf("%v", val)
}

// formatFields renders fields as sorted key=value pairs.
// duration_ms gets an "ms" suffix.
func (enc *minimalEncoder) formatFields(fields []zapcore.Field) string {
	sorted := make([]zapcore.Field, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	parts := make([]string, 0, len(sorted))
	for _, field := range sorted {
		val := getFieldValue(field)
		if val == "" {
			continue
		}
		if field.Key == FieldDurationMS {
			val += "ms"
		}
		parts = append(parts, field.Key+"="+enc.paint(palette.value, val))
	}
	return strings.Join(parts, " ")
}
