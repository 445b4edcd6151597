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

func encode(t *testing.T, ent zapcore.Entry, fields ...zapcore.Field) string {
	t.Helper()
	enc := newMinimalEncoder()
	buf, err := enc.EncodeEntry(ent, fields)
	require.NoError(t, err)
	return buf.String()
}

func TestMinimalEncoder_Layout(t *testing.T) {
	out := encode(t, zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2026, 3, 1, 13, 4, 35, 0, time.UTC),
		LoggerName: "store.legolist",
		Message:    "≣ List created",
	}, zap.String(FieldList, "clinical-findings"))

	assert.Contains(t, out, "13:04:35")
	assert.Contains(t, out, "s.legolist")
	assert.Contains(t, out, "List created")
	assert.Contains(t, out, "clinical-findings")
	assert.NotContains(t, out, "INFO", "info level marker should be suppressed")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestMinimalEncoder_WarnAndErrorLevels(t *testing.T) {
	warn := encode(t, zapcore.Entry{Level: zapcore.WarnLevel, Message: "careful"})
	assert.Contains(t, warn, "WARN")

	errOut := encode(t, zapcore.Entry{Level: zapcore.ErrorLevel, Message: "boom"})
	assert.Contains(t, errOut, "ERROR")
}

func TestMinimalEncoder_FieldValues(t *testing.T) {
	out := encode(t, zapcore.Entry{
		Level:   zapcore.InfoLevel,
		Message: "filter complete",
	},
		zap.Int(FieldCount, 19),
		zap.Int64(FieldDurationMS, 3),
	)

	assert.Contains(t, out, "19")
	assert.Contains(t, out, "3ms")
}

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "store", abbreviateName("store"))
	assert.Equal(t, "s.legolist", abbreviateName("store.legolist"))
	assert.Equal(t, "f.cache.memo", abbreviateName("filter.cache.memo"))
}
