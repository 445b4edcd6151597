package logger

import (
	"github.com/openterm/legostore/sym"
	"go.uber.org/zap"
)

// Symbol-aware logging helpers.
// These functions log with the symbol as a structured field, not in the message.
//
// Usage:
//
//	// Instead of:
//	logger.Infow(sym.DB + " Migration applied", "version", v)
//
//	// Use:
//	logger.DBInfow("Migration applied", "version", v)
//
// This makes logs queryable by symbol and keeps messages clean.

// DBInfow logs an info message with the DB symbol (⛁)
func DBInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.DB}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// DBDebugw logs a debug message with the DB symbol (⛁)
func DBDebugw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.DB}, keysAndValues...)
		Logger.Debugw(msg, fields...)
	}
}

// ListInfow logs an info message with the List symbol (≣)
func ListInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.List}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// LegoInfow logs an info message with the Lego symbol (▦)
func LegoInfow(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Lego}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// FilterWarnw logs a warning message with the Filter symbol (⧩)
func FilterWarnw(msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, sym.Filter}, keysAndValues...)
		Logger.Warnw(msg, fields...)
	}
}

// WithSymbol returns a logger with the given symbol as a field.
// For ad-hoc symbol usage not covered by the helpers above.
func WithSymbol(symbol string) *zap.SugaredLogger {
	return Logger.With(FieldSymbol, symbol)
}

// SymbolInfow logs with any symbol - for dynamic symbol usage
func SymbolInfow(symbol, msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		fields := append([]interface{}{FieldSymbol, symbol}, keysAndValues...)
		Logger.Infow(msg, fields...)
	}
}

// Instance logger wrappers. Use these when a component carries its own
// *zap.SugaredLogger rather than using the global Logger.

// AddDBSymbol wraps a logger with the DB symbol (⛁)
func AddDBSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.DB)
}

// AddListSymbol wraps a logger with the List symbol (≣)
func AddListSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.List)
}

// AddIterSymbol wraps a logger with the Iter symbol (⇉)
func AddIterSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.Iter)
}

// AddFilterSymbol wraps a logger with the Filter symbol (⧩)
func AddFilterSymbol(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.With(FieldSymbol, sym.Filter)
}
