package mdcase

import (
	"testing"

	"github.com/nalgeon/be"
)

const doc = "# Programs\n" +
	"\n" +
	"Prose before the first test may hold untagged blocks:\n" +
	"\n" +
	"```\n" +
	"not a test\n" +
	"```\n" +
	"\n" +
	"## Test: echo\n" +
	"\n" +
	"```b\n" +
	"main() putchar(getchar());\n" +
	"```\n" +
	"\n" +
	"```stdin\n" +
	"x\n" +
	"```\n" +
	"\n" +
	"```stdout\n" +
	"x\n" +
	"```\n" +
	"\n" +
	"## Test: exit code\n" +
	"\n" +
	"```b\n" +
	"main() return (3);\n" +
	"```\n" +
	"\n" +
	"```exit\n" +
	"3\n" +
	"```\n" +
	"\n" +
	"```compile-error\n" +
	"```\n"

func TestExtract(t *testing.T) {
	cases, err := Extract([]byte(doc))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	echo := cases[0]
	be.Equal(t, echo.Name, "echo")
	be.Equal(t, echo.Input, "main() putchar(getchar());\n")
	be.Equal(t, echo.Line, 12)
	be.Equal(t, echo.Stdin, "x\n")
	be.Equal(t, echo.Assertions, []Assertion{{Type: AssertionTypeStdout, Content: "x"}})

	exit := cases[1]
	be.Equal(t, exit.Name, "exit code")
	be.Equal(t, exit.Stdin, "")
	be.Equal(t, len(exit.Assertions), 2)
	be.Equal(t, exit.Assertions[0], Assertion{Type: AssertionTypeExit, Content: "3"})
	be.Equal(t, exit.Assertions[1].Type, AssertionTypeCompileError)
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"fence outside test", "```b\nmain();\n```\n", "b fence found outside of test case"},
		{"unknown fence", "## Test: t\n\n```b\nmain();\n```\n\n```wasm\n```\n", "unknown fence language 'wasm'"},
		{"no input", "## Test: t\n\n```exit\n0\n```\n", "test 't' has no input fence"},
		{"no assertions", "## Test: t\n\n```b\nmain();\n```\n", "test 't' has no assertion fences"},
		{"two inputs", "## Test: t\n\n```b\na();\n```\n\n```b\nb();\n```\n", "multiple input fences"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract([]byte(tt.doc))
			be.Err(t, err, tt.msg)
		})
	}
}
