// Package logger provides verbose logging for notevault.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to trace vault loading, indexing and search.
// Errors are printed regardless of verbosity.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(always bool, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if always || verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(false, "[DEBUG] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(false, "[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(false, "[WARN] ", format, args...)
}

// Error prints an error message unconditionally.
func Error(format string, args ...any) {
	logf(true, "[ERROR] ", format, args...)
}

// Component is a logger that tags every line with a component name,
// e.g. "[DEBUG] worker: applied upsert".
type Component struct {
	name string
}

// For returns a logger for the named component.
func For(name string) Component {
	return Component{name: name}
}

// Debug prints a tagged debug message if verbose mode is enabled.
func (c Component) Debug(format string, args ...any) {
	logf(false, "[DEBUG] "+c.name+": ", format, args...)
}

// Info prints a tagged informational message if verbose mode is enabled.
func (c Component) Info(format string, args ...any) {
	logf(false, "[INFO] "+c.name+": ", format, args...)
}

// Warn prints a tagged warning if verbose mode is enabled.
func (c Component) Warn(format string, args ...any) {
	logf(false, "[WARN] "+c.name+": ", format, args...)
}

// Error prints a tagged error unconditionally.
func (c Component) Error(format string, args ...any) {
	logf(true, "[ERROR] "+c.name+": ", format, args...)
}
