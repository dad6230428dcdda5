// Package logging provides structured logging built on zap.
//
// Production configuration emits JSON to stdout; development configuration
// emits colorized console output with stacktraces enabled.
package logging
