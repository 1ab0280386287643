package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

var (
	ErrorColorFG = pterm.FgRed
	ErrorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG  = pterm.FgLightGreen
	InfoStyleBG  = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
)

// out is where all diagnostics are written.
var out io.Writer = os.Stderr

// displayICE prints an internal compiler error.
func displayICE(message string) {
	fmt.Fprint(out, "bcc: ", ErrorStyleBG.Sprint("internal compiler error:"), " ", message, "\n")
	fmt.Fprint(out, "This error was not supposed to happen: please open an issue.\n\n")
}

// displayFatal prints an error that stops the compiler.
func displayFatal(message string) {
	fmt.Fprint(out, "bcc: ", ErrorColorFG.Sprint("error:"), " ", message, "\n")
}

// displayCompileMessage displays an error in the source followed by the
// excerpt of source text it covers.
func displayCompileMessage(absPath, reprPath string, span *TextSpan, message string) {
	styledLabel := ErrorColorFG.Sprint("error:")

	if span == nil {
		fmt.Fprintf(out, "%s: %s %s\n", reprPath, styledLabel, message)
	} else {
		fmt.Fprintf(out, "%s:%d:%d: %s %s\n", reprPath, span.StartLine+1, span.StartCol+1, styledLabel, message)
		displaySourceText(absPath, span)
	}
}

// displayStdError prints a Go error prefixed with the file it concerns.
func displayStdError(reprPath string, err error) {
	fmt.Fprintf(out, "%s: %s %s\n", reprPath, ErrorColorFG.Sprint("error:"), err)
}

// displayPhase displays a finished compilation phase and its duration.
func displayPhase(phase string, elapsed time.Duration) {
	fmt.Fprintf(out, "%s %-10s (%.3fs)\n", InfoStyleBG.Sprint("Done"), phase, elapsed.Seconds())
}

// displayInfo displays an informational message.
func displayInfo(tag, message string) {
	fmt.Fprint(out, InfoStyleBG.Sprint(tag), " ", InfoColorFG.Sprint(message), "\n")
}

// displayCompilationFailed displays the closing message for a failed
// compilation.
func displayCompilationFailed(errorCount int) {
	fmt.Fprintf(out, "bcc: %s compilation failed (%d %s)\n",
		ErrorColorFG.Sprint("error:"), errorCount, plural(errorCount, "error"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}

	return word + "s"
}

// -----------------------------------------------------------------------------

// displaySourceText prints the source lines under span with the spanned text
// underlined.
func displaySourceText(absPath string, span *TextSpan) {
	file, err := os.Open(absPath)
	if err != nil {
		// The source may not be on disk (eg. compiled from memory): the
		// position printed in the header has to suffice.
		return
	}
	defer file.Close()

	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if sc.Err() != nil || len(lines) == 0 {
		return
	}

	// common indentation is stripped from the excerpt
	minIndent := math.MaxInt
	for _, line := range lines {
		lineIndent := len(line) - len(strings.TrimLeft(line, " "))
		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		fmt.Fprintf(out, lineNumFmtStr, i+span.StartLine+1)
		fmt.Fprintln(out, line[minIndent:])
		fmt.Fprint(out, strings.Repeat(" ", maxLineNumLen), " | ")

		// Underlining starts at the start column on the first line and
		// continues from the line's indentation on every other line.
		prefix := 0
		if i == 0 {
			prefix = span.StartCol - minIndent
		}

		end := len(line) - minIndent
		if i == len(lines)-1 {
			end = span.EndCol - minIndent
		}

		count := end - prefix
		if prefix < 0 {
			prefix = 0
		}
		if count < 1 {
			count = 1
		}

		fmt.Fprint(out, strings.Repeat(" ", prefix))
		fmt.Fprintln(out, ErrorColorFG.Sprint(strings.Repeat("^", count)))
	}

	fmt.Fprintln(out)
}
