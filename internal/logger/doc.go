// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for the CLI and the HTTP surface.
// Console encoding suits interactive use; json encoding suits log collection.
//
// # Context Awareness
//
// Every HTTP request carries a RayID (request ID). WithRayID extracts it from
// a Fiber context and attaches it to the log entry, so all logs of one check
// can be correlated with the reconciliation run they triggered.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Check failed", zap.Error(err))
package logger
