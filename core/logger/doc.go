// Package logger builds the application's zap logger.
//
// Level "debug" selects zap's development preset, anything else the production
// one; Format picks json or console encoding. WithRayID attaches the request's
// RayID from a Fiber context so all log lines of one request can be correlated.
//
// # Usage
//
//	log, err := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Merge failed", zap.Error(err))
package logger
