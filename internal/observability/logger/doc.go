// Package logger wraps zap with a process-wide singleton, a context
// carrier for request-scoped loggers, and typed field helpers so call
// sites stay consistent about field names.
package logger
