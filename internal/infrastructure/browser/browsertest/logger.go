package browsertest

import "satellite-agent/internal/application/port/output"

var _ output.LoggerPort = (*NopLogger)(nil)

// NopLogger discards everything; handy for wiring use cases in tests.
type NopLogger struct{}

func (NopLogger) Debug(msg string, args ...any) {}
func (NopLogger) Info(msg string, args ...any)  {}
func (NopLogger) Warn(msg string, args ...any)  {}
func (NopLogger) Error(msg string, args ...any) {}

func (n NopLogger) WithField(key string, value any) output.LoggerPort { return n }

func (NopLogger) Close() error { return nil }
