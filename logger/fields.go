package logger

import "go.uber.org/zap"

// Standard field names for consistent structured logging across legostore.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity
	FieldList      = "list"
	FieldListUUID  = "list_uuid"
	FieldLegoUUID  = "lego_uuid"
	FieldStampUUID = "stamp_uuid"
	FieldUniqueID  = "unique_id"
	FieldPncsID    = "pncs_id"
	FieldPncsValue = "pncs_value"
	FieldConcept   = "concept"

	// Components
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount     = "count"
	FieldCacheSize = "cache_size"

	// Symbol marker (⛁, ≣, ▦, etc.)
	FieldSymbol = "symbol"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	st, err := store.New(database, store.StampDefaults{}, logger.ComponentLogger("store"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context fields.
//
// Example:
//
//	listLogger := logger.ChildLogger(baseLogger, logger.FieldList, name)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
