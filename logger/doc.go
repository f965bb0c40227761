// Package logger provides structured logging for httpkit using zerolog.
//
// Libraries in this module never log through a global: callers hand a
// *Logger to the components that need one (interceptor.Logging, the
// middleware client builder). Components that receive none use Nop().
//
// # Configuration
//
//	logger:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&logger.Config{Level: "debug"}, "httpkit")
//	log.WithComponent("retry").Info("retrying", logger.Fields("attempt", 2))
package logger
