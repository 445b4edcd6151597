package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestPackageLevelHelpersAreNilSafe(t *testing.T) {
	// The package init installs a no-op logger; helpers must not panic
	// even before Initialize is called.
	assert.NotPanics(t, func() {
		Info("hello")
		Infof("hello %s", "world")
		Infow("hello", FieldCount, 1)
		Warnw("careful", FieldList, "x")
		Errorw("boom", FieldError, "nope")
		Debugw("detail")
		DBInfow("migration applied", FieldCount, 2)
		ListInfow("list created", FieldList, "findings")
		FilterWarnw("hierarchy lookup failed")
		Cleanup()
	})
}

func TestInitialize(t *testing.T) {
	defer func() { Reset() }()

	assert.NoError(t, Initialize(false))
	assert.NotNil(t, Logger)
	assert.False(t, JSONOutput)

	assert.NoError(t, Initialize(true))
	assert.True(t, JSONOutput)
}

// Reset restores the no-op logger; used between tests.
func Reset() {
	Logger = nil
	JSONOutput = false
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(2))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
}

func TestSetTheme(t *testing.T) {
	SetTheme("gruvbox")
	assert.Equal(t, "gruvbox", currentTheme)
	SetTheme("nonexistent")
	assert.Equal(t, "gruvbox", currentTheme)
	SetTheme("everforest")
	assert.Equal(t, "everforest", currentTheme)
}
