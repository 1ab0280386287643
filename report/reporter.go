package report

import (
	"os"
	"sync"

	"github.com/pterm/pterm"
)

// Reporter displays diagnostics according to a log level and counts the
// errors it has seen.  It is safe for concurrent use.
type Reporter struct {
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The number of errors reported so far.
	errorCount int
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors (default).
	LogLevelVerbose        // Also displays phase timings and outputs.
)

// LogLevelNames maps the command-line names of the log levels to their values.
var LogLevelNames = map[string]int{
	"silent":  LogLevelSilent,
	"error":   LogLevelError,
	"verbose": LogLevelVerbose,
}

// rep is the global reporter instance.
var rep = newReporter(LogLevelError)

func newReporter(logLevel int) *Reporter {
	return &Reporter{
		m:        &sync.Mutex{},
		logLevel: logLevel,
	}
}

// InitReporter initializes the global reporter to the given log level.  Any
// previously counted errors are discarded.  Colored output is disabled when the
// NO_COLOR environment variable is set.
func InitReporter(logLevel int) {
	rep = newReporter(logLevel)

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		pterm.DisableColor()
	}
}

// ErrorCount returns the number of errors reported since InitReporter.
func ErrorCount() int {
	rep.m.Lock()
	defer rep.m.Unlock()

	return rep.errorCount
}
