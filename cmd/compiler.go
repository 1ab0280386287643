package cmd

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"bcc/ast"
	"bcc/llvm"
	"bcc/lower"
	"bcc/profile"
	"bcc/report"
	"bcc/syntax"

	"github.com/llir/llvm/ir"
)

// Compiler represents the state of compiling a single source file.
type Compiler struct {
	// srcAbsPath is the absolute path to the source file.
	srcAbsPath string

	// reprPath is the path to the source file as it is displayed to the user.
	reprPath string

	// profile is the build profile of the compiler.
	profile *profile.BuildProfile

	// tools holds the paths to the external LLVM tools.
	tools profile.Tools
}

// NewCompiler creates a new compiler for the source file at srcPath.
func NewCompiler(srcPath string, prof *profile.BuildProfile, tools profile.Tools) *Compiler {
	// calculate the absolute path to the source file.
	srcAbsPath, err := filepath.Abs(srcPath)
	if err != nil {
		report.ReportFatal("error calculating absolute path: %s", err)
	}

	return &Compiler{
		srcAbsPath: srcAbsPath,
		reprPath:   srcPath,
		profile:    prof,
		tools:      tools,
	}
}

// Analyze runs the front end of the compiler: the source file is parsed into
// a registry of definitions.  It returns false if any errors were reported.
func (c *Compiler) Analyze() (*ast.Registry, bool) {
	start := time.Now()

	file, err := os.Open(c.srcAbsPath)
	if err != nil {
		report.ReportStdError(c.reprPath, err)
		return nil, false
	}
	defer file.Close()

	reg, err := syntax.Parse(bufio.NewReader(file))
	if err != nil {
		c.reportError(err)
		return nil, false
	}

	report.ReportPhase("Parsing", start)
	return reg, true
}

// Lower lowers a registry into an LLVM module.  It returns false if any errors
// were reported.
func (c *Compiler) Lower(reg *ast.Registry) (*ir.Module, bool) {
	start := time.Now()

	b := llvm.NewBuilder(filepath.Base(c.reprPath))
	if err := lower.Lower(reg, b); err != nil {
		c.reportError(err)
		return nil, false
	}

	report.ReportPhase("Lowering", start)
	return b.Module(), true
}

// reportError reports an error returned by a compilation phase.
func (c *Compiler) reportError(err error) {
	var lce *report.LocalCompileError
	if errors.As(err, &lce) {
		report.ReportCompileError(c.srcAbsPath, c.reprPath, lce.Span, "%s", lce.Message)
	} else {
		report.ReportStdError(c.reprPath, err)
	}
}

// compile runs the parsing and lowering phases.  Compilation failure is
// reported before it returns false.
func (c *Compiler) compile() (mod *ir.Module, ok bool) {
	reg, ok := c.Analyze()
	if ok {
		mod, ok = c.Lower(reg)
	}

	if !ok {
		report.ReportCompilationFailed()
	}

	return
}

// -----------------------------------------------------------------------------

// buildModule parses and lowers the source read from src into a module.  It
// does not report any errors.
func buildModule(name string, src io.Reader) (*ir.Module, error) {
	reg, err := syntax.Parse(src)
	if err != nil {
		return nil, err
	}

	b := llvm.NewBuilder(name)
	if err := lower.Lower(reg, b); err != nil {
		return nil, err
	}

	return b.Module(), nil
}
