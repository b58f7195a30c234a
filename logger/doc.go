// Package logger provides structured logging on top of zerolog.
//
// It supports JSON and console output, level configuration from YAML or the
// LOG_LEVEL and DEBUG environment variables, component-scoped loggers and
// request-scoped loggers that carry the request, trace and span ids.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("aligner").WithContext(ctx)
//	log.Info("alignment complete", logger.Fields("segments", 12))
package logger
