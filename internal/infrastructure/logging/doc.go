// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Every component (operator, extensions manager, HTTP server) receives a
// named child logger, so entries can be filtered by the "logger" field.
//
// Example Usage:
//
//	logger := logging.NewFromLevel("info", false)
//	ops := filesystem.New(opts, logger.Component("filesystem"))
//	logger.Info("Server starting", zap.String("port", "8000"))
package logging
