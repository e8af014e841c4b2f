// Package logger provides the zerolog backed implementation of the core
// logger. Every record carries the service name and the emitting component.
package logger

import corelogger "github.com/kilianp07/evswap/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger discards all records.
type NopLogger = corelogger.NopLogger

// ServiceName is attached to every record.
const ServiceName = "evswap"

// New returns a Logger for the given component. The output format follows
// APP_ENV and the minimum level LOG_LEVEL.
func New(component string) Logger {
	return NewWithOptions(component, OptionsFromEnv())
}
