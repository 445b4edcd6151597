package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the ANSI colors a theme assigns to each slot of a log line.
type palette struct {
	fg        string
	time      string
	component string
	id        string
	number    string
	symbol    string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

// Gruvbox Dark (warm, muted, easy on eyes)
var gruvbox = palette{
	fg:        "\x1b[38;5;223m",
	time:      "\x1b[38;5;108m",
	component: "\x1b[38;5;208m",
	id:        "\x1b[38;5;109m",
	number:    "\x1b[38;5;175m",
	symbol:    "\x1b[38;5;142m",
	warn:      "\x1b[38;5;214m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;88m",
}

// Everforest Dark (natural forest greens)
var everforest = palette{
	fg:        "\x1b[38;5;223m",
	time:      "\x1b[38;5;107m",
	component: "\x1b[38;5;108m",
	id:        "\x1b[38;5;109m",
	number:    "\x1b[38;5;108m",
	symbol:    "\x1b[38;5;108m",
	warn:      "\x1b[38;5;179m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;52m",
}

var currentTheme = "everforest"

// SetTheme configures the color scheme for console log output.
func SetTheme(theme string) {
	if theme == "everforest" || theme == "gruvbox" {
		currentTheme = theme
	}
}

func colors() palette {
	if currentTheme == "gruvbox" {
		return gruvbox
	}
	return everforest
}

// storeSymbols are the subsystem glyphs highlighted inside log messages.
var storeSymbols = []string{"⛁", "≣", "▦", "✶", "⌘", "⇉", "⧩", "◍"}

// colorizeSymbols wraps any subsystem glyph in the theme's symbol color.
func colorizeSymbols(text string, p palette) string {
	for _, s := range storeSymbols {
		text = strings.ReplaceAll(text, s, p.symbol+s+colorReset)
	}
	return text
}

// minimalEncoder implements a calm, compact console encoder with theme support.
// Format: "13:04:35  store  ≣ List created  clinical-findings"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
	buf             *buffer.Buffer
}

func newMinimalEncoder() *minimalEncoder {
	baseEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return &minimalEncoder{
		Encoder: baseEncoder,
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		buf:     buffer.NewPool().Get(),
	}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	p := colors()
	final := buffer.NewPool().Get()

	final.AppendString(p.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only shown for WARN/ERROR, bold with background
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level, p))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(p.component)
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(p.fg)
	final.AppendString(colorizeSymbols(ent.Message, p))
	final.AppendString(colorReset)

	if len(fields) > 0 {
		final.AppendString("  ")
		final.AppendString(extractFieldValues(fields, p))
	}

	final.AppendString("\n")
	return final, nil
}

func levelColorString(level zapcore.Level, p palette) string {
	switch level {
	case zapcore.WarnLevel:
		return colorBold + p.warnBg + p.warn + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + p.errBg + p.err + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + p.errBg + p.err + level.CapitalString() + colorReset
	default:
		return ""
	}
}

// abbreviateName shortens component names: store.legolist -> s.legolist
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// getFieldValue extracts the value from a zap field, handling common types.
func getFieldValue(field zapcore.Field) string {
	if field.Type == zapcore.StringType {
		return field.String
	}

	switch field.Type {
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.BoolType:
		if field.Integer == 1 {
			return "true"
		}
		return "false"
	}

	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

// extractFieldValues renders just the values of known fields, colorized.
// Input: {"list": "findings", "count": 19, "duration_ms": 3}
// Output: "findings 19 3ms" (with colored IDs and numbers)
func extractFieldValues(fields []zapcore.Field, p palette) string {
	var values []string

	for _, field := range fields {
		val := getFieldValue(field)
		if val == "" {
			continue
		}
		switch field.Key {
		case FieldList, FieldListUUID, FieldLegoUUID, FieldStampUUID, FieldUniqueID, FieldConcept:
			values = append(values, p.id+val+colorReset)
		case FieldCount, FieldCacheSize, FieldPncsID:
			values = append(values, p.number+val+colorReset)
		case FieldDurationMS:
			values = append(values, p.number+val+colorReset+"ms")
		case FieldError:
			values = append(values, p.err+val+colorReset)
		}
	}

	if len(values) == 0 {
		return ""
	}
	return strings.Join(values, " ")
}
