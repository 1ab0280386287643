package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

// capture redirects diagnostics into a buffer for the duration of the test.
func capture(t *testing.T, logLevel int) *bytes.Buffer {
	t.Setenv("NO_COLOR", "1")
	InitReporter(logLevel)

	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })

	return &buf
}

func TestCompileErrorExcerpt(t *testing.T) {
	buf := capture(t, LogLevelError)

	path := filepath.Join(t.TempDir(), "t.b")
	be.Err(t, os.WriteFile(path, []byte("main() {\n\treturn (y);\n}\n"), 0644), nil)

	span := &TextSpan{StartLine: 1, StartCol: 12, EndLine: 1, EndCol: 13}
	ReportCompileError(path, "t.b", span, "undefined variable: `%s`", "y")
	ReportCompilationFailed()

	want := "t.b:2:13: error: undefined variable: `y`\n" +
		"2 | return (y);\n" +
		"  | " + "        " + "^\n" +
		"\n" +
		"bcc: error: compilation failed (1 error)\n"
	be.Equal(t, buf.String(), want)
	be.Equal(t, ErrorCount(), 1)
}

func TestCompileErrorWithoutSpan(t *testing.T) {
	buf := capture(t, LogLevelError)

	ReportCompileError("/nowhere/t.b", "t.b", nil, "no entry point")
	be.Equal(t, buf.String(), "t.b: error: no entry point\n")
}

func TestSilentLevelStillCounts(t *testing.T) {
	buf := capture(t, LogLevelSilent)

	ReportStdError("t.b", errors.New("unreadable"))
	ReportInfo("Output", "a.out")
	ReportCompilationFailed()

	be.Equal(t, buf.Len(), 0)
	be.Equal(t, ErrorCount(), 1)
}

func TestVerboseInfo(t *testing.T) {
	buf := capture(t, LogLevelVerbose)

	ReportInfo("Output", "%s.ll", "prog")
	be.True(t, bytes.Contains(buf.Bytes(), []byte("prog.ll")))
}

func TestNewSpanOver(t *testing.T) {
	a := &TextSpan{StartLine: 0, StartCol: 2, EndLine: 0, EndCol: 4}
	b := &TextSpan{StartLine: 3, StartCol: 1, EndLine: 3, EndCol: 9}

	be.Equal(t, NewSpanOver(a, b), &TextSpan{StartLine: 0, StartCol: 2, EndLine: 3, EndCol: 9})
	be.Equal(t, NewSpanOver(nil, b), b)
	be.Equal(t, NewSpanOver(a, nil), a)
}

func TestCatchErrors(t *testing.T) {
	phase := func() (err error) {
		defer CatchErrors(&err)
		panic(Raise(&TextSpan{StartLine: 4, StartCol: 0}, "bad %s", "thing"))
	}

	err := phase()
	be.Err(t, err, "5:1: bad thing")

	var lce *LocalCompileError
	be.True(t, errors.As(err, &lce))
	be.Equal(t, lce.Message, "bad thing")
}

func TestCatchErrorsRepanics(t *testing.T) {
	defer func() {
		be.Equal(t, recover(), "boom")
	}()

	func() (err error) {
		defer CatchErrors(&err)
		panic("boom")
	}()
}
