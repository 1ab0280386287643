// Package mdcase extracts compiler test cases from Markdown documents.  A test
// case starts at a heading of the form "Test: <name>" and holds one `b` fence
// with the program and any number of assertion fences.
package mdcase

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputFence is the language of the fence holding the program under test.
const InputFence = "b"

// AssertionType represents the type of assertion code fence in a test
type AssertionType string

const (
	AssertionTypeStdout       AssertionType = "stdout"
	AssertionTypeExit         AssertionType = "exit"
	AssertionTypeCompileError AssertionType = "compile-error"
	AssertionTypeAST          AssertionType = "ast"
	AssertionTypeStdin        AssertionType = "stdin"
)

// Assertion represents a single assertion of a test case
type Assertion struct {
	Type    AssertionType
	Content string
}

// TestCase represents a complete test case extracted from Markdown
type TestCase struct {
	Name       string // The test name from the heading (after "Test: ")
	Line       int    // The line of the input fence
	Input      string // The program
	Stdin      string // The data read by the program (if any)
	Assertions []Assertion
}

// Extract parses a Markdown document and extracts all test cases
func Extract(markdown []byte) ([]TestCase, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var cases []TestCase
	var current *TestCase

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, markdown)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}

			if current != nil {
				if err := validate(current); err != nil {
					return ast.WalkStop, err
				}
				cases = append(cases, *current)
			}

			current = &TestCase{Name: strings.TrimPrefix(heading, "Test: ")}
		case *ast.FencedCodeBlock:
			language := string(n.Language(markdown))
			line := lineOf(n, markdown)

			if current == nil {
				// untagged blocks are prose examples
				if language != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", line, language)
				}

				return ast.WalkContinue, nil
			}

			content := fenceContent(n, markdown)

			switch {
			case language == InputFence:
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences found in test '%s'", line, current.Name)
				}

				current.Input = content
				current.Line = line
			case language == string(AssertionTypeStdin):
				current.Stdin = content
			case isAssertionFence(language):
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(language),
					Content: strings.TrimRight(content, "\n"),
				})
			case language != "":
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, language, current.Name)
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if current != nil {
		if err := validate(current); err != nil {
			return nil, err
		}
		cases = append(cases, *current)
	}

	return cases, nil
}

// nodeText extracts the plain text content of a node
func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}

		return ast.WalkContinue, nil
	})

	return buf.String()
}

// fenceContent extracts the content of a fenced code block
func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer

	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}

	return buf.String()
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionTypeStdout, AssertionTypeExit, AssertionTypeCompileError, AssertionTypeAST:
		return true
	}

	return false
}

// validate ensures a test case has an input and at least one assertion
func validate(tc *TestCase) error {
	if tc.Input == "" {
		return fmt.Errorf("test '%s' has no input fence", tc.Name)
	}

	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", tc.Name)
	}

	return nil
}

// lineOf returns the line number of the first line of a node's content
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}

	return bytes.Count(source[:node.Lines().At(0).Start], []byte("\n")) + 1
}
