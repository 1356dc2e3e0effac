// Package rlog defines the logging sink the concurrency core forwards
// uncaught task panics, assertion failures, and abandoned-future
// diagnostics to: an interface plus a couple of concrete adapters, so the
// rest of the module never hard-codes a specific logging library.
//
// The Logger/Entry/Level shape is grounded on eventloop's logging.go
// (Logger, LogEntry, LogLevel, NewWriterLogger); the zerolog and logrus
// adapters plug the same Entry into real third-party loggers.
package rlog
