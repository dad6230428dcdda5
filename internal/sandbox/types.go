package sandbox

import (
	"time"
)

// Config defines runtime configuration.
type Config struct {
	Timeout                time.Duration // script execution timeout
	InnerHeight            float64       // reported viewport height
	EnableConsole          bool          // capture console.log/warn/error
	EnableResizeObserver   bool          // expose the ResizeObserver shim
	EnableMutationObserver bool          // expose the MutationObserver shim
	MaxCallStack           int
}

// DefaultConfig returns the standard runtime configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:                5 * time.Second,
		InnerHeight:            640,
		EnableConsole:          true,
		EnableResizeObserver:   true,
		EnableMutationObserver: true,
		MaxCallStack:           1024,
	}
}

// Result holds the outcome of loading a script into a document.
type Result struct {
	Console  []LogEntry    // captured console output
	Duration time.Duration // execution time
	Error    error         // execution error, if any
}

// LogEntry represents one captured console call.
type LogEntry struct {
	Level   string // log, warn, error, info
	Message string
	Time    time.Time
}
