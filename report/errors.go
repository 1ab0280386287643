package report

import (
	"fmt"
	"os"
	"time"
)

// TextSpan is a region of source text.  Lines and columns are zero-indexed and
// the end position is exclusive.
type TextSpan struct {
	StartLine, StartCol int
	EndLine, EndCol     int
}

// NewSpanOver returns the span from the start of start to the end of end.
// Either may be nil.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	if start == nil {
		return end
	} else if end == nil {
		return start
	}

	return &TextSpan{start.StartLine, start.StartCol, end.EndLine, end.EndCol}
}

func (ts *TextSpan) String() string {
	if ts == nil {
		return "?"
	}

	return fmt.Sprintf("%d:%d", ts.StartLine+1, ts.StartCol+1)
}

// -----------------------------------------------------------------------------

// LocalCompileError is an error in the source file being compiled.  The file
// itself is known to whoever reports the error.
type LocalCompileError struct {
	Message string

	// Span may be nil for errors without a position (eg. a missing `main`).
	Span *TextSpan
}

func (lce *LocalCompileError) Error() string {
	if lce.Span == nil {
		return lce.Message
	}

	return lce.Span.String() + ": " + lce.Message
}

// Raise formats a compile error at span.  Phases panic with the result and
// recover it in CatchErrors.
func Raise(span *TextSpan, format string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Message: fmt.Sprintf(format, args...), Span: span}
}

// CatchErrors must be deferred by the entry point of a phase: it turns a raised
// LocalCompileError into the phase's returned error.  Other panics propagate.
func CatchErrors(err *error) {
	x := recover()
	if x == nil {
		return
	}

	lce, ok := x.(*LocalCompileError)
	if !ok {
		panic(x)
	}

	*err = lce
}

// -----------------------------------------------------------------------------

// ReportICE displays an internal compiler error and exits.  An ICE signals a
// bug in bcc itself, so it is shown at every log level.
func ReportICE(message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	displayICE(fmt.Sprintf(message, args...))
	os.Exit(-1)
}

// ReportFatal displays an error that stops the compiler and exits with status
// 1.
func ReportFatal(message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++
	if rep.logLevel != LogLevelSilent {
		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportCompileError displays an error in the user's source.  The source text
// under span is read back from absPath for the excerpt; reprPath is the path
// shown in the header.  A nil span omits the position and the excerpt.
func ReportCompileError(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++
	if rep.logLevel != LogLevelSilent {
		displayCompileMessage(absPath, reprPath, span, fmt.Sprintf(message, args...))
	}
}

// ReportStdError displays a Go error tied to a file, such as a failure to read
// it.
func ReportStdError(reprPath string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++
	if rep.logLevel != LogLevelSilent {
		displayStdError(reprPath, err)
	}
}

// ReportPhase displays the time taken by a finished phase (verbose only).
func ReportPhase(phase string, start time.Time) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel == LogLevelVerbose {
		displayPhase(phase, time.Since(start))
	}
}

// ReportInfo displays a tagged message (verbose only).
func ReportInfo(tag, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel == LogLevelVerbose {
		displayInfo(tag, fmt.Sprintf(message, args...))
	}
}

// ReportCompilationFailed displays the summary line of a failed compilation.
func ReportCompilationFailed() {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel != LogLevelSilent {
		displayCompilationFailed(rep.errorCount)
	}
}
