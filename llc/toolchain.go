// Package llc drives the external LLVM toolchain: `opt` runs the optimization
// pipeline over textual LLVM IR, `llc` compiles it to assembly or object files
// and `clang` links object files into an executable.
package llc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/llir/llvm/ir"
	"golang.org/x/sys/execabs"
)

// FileType is the kind of file the code generator produces.
type FileType int

// Enumeration of code generation file types.
const (
	AssemblyFile FileType = iota
	ObjectFile
)

// OptLevel is the optimization level of a build.
type OptLevel int

// Enumeration of optimization levels.
const (
	OptNone       OptLevel = iota // no optimization passes
	OptLess                       // -O1
	OptDefault                    // -O2
	OptAggressive                 // -O3
	OptSize                       // -Os
	OptMinSize                    // -Oz
)

// passArg returns the `opt` pipeline selected by the level.
func (lvl OptLevel) passArg() string {
	switch lvl {
	case OptSize:
		return "-Os"
	case OptMinSize:
		return "-Oz"
	}

	return fmt.Sprintf("-O%d", lvl)
}

// codeGenArg returns the `llc` code generation level.  llc has no size
// levels: size optimization is done by the passes.
func (lvl OptLevel) codeGenArg() string {
	if lvl > OptAggressive {
		return "-O2"
	}

	return fmt.Sprintf("-O%d", lvl)
}

// Toolchain is the set of external tools used to produce native output.
type Toolchain struct {
	// OptPath is the path to (or name of) the `opt` executable.
	OptPath string

	// LLCPath is the path to (or name of) the `llc` executable.
	LLCPath string

	// ClangPath is the path to (or name of) the `clang` executable used to
	// link.
	ClangPath string

	// Triple is the target triple.  The host is targeted when it is empty.
	Triple string
}

// NewToolchain creates a toolchain using the given tool paths.  Empty paths
// default to looking the tools up in the PATH.
func NewToolchain(optPath, llcPath, clangPath, triple string) *Toolchain {
	if optPath == "" {
		optPath = "opt"
	}

	if llcPath == "" {
		llcPath = "llc"
	}

	if clangPath == "" {
		clangPath = "clang"
	}

	return &Toolchain{OptPath: optPath, LLCPath: llcPath, ClangPath: clangPath, Triple: triple}
}

// OptimizeModule writes the textual IR of mod to outputPath after running the
// optimization pipeline of level over it.  Without optimization opt is not
// run at all.
func (tc *Toolchain) OptimizeModule(mod *ir.Module, outputPath string, level OptLevel) error {
	if level == OptNone {
		return writeIR(mod, outputPath)
	}

	irPath := outputPath + ".in.ll"
	if err := writeIR(mod, irPath); err != nil {
		return err
	}
	defer os.Remove(irPath)

	return run(tc.OptPath, tc.optArgs(irPath, outputPath, level))
}

// CompileModule compiles mod to outputPath.  The textual IR is written next to
// the output file, optimized when level asks for it and removed once llc has
// finished.
func (tc *Toolchain) CompileModule(mod *ir.Module, outputPath string, ft FileType, level OptLevel) error {
	irPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".ll"
	if irPath == outputPath {
		irPath += ".ll"
	}

	if err := tc.OptimizeModule(mod, irPath, level); err != nil {
		return err
	}
	defer os.Remove(irPath)

	return run(tc.LLCPath, tc.compileArgs(irPath, outputPath, ft, level))
}

// Link links the object files into the executable outputPath.  Link objects
// given by the user are passed along to the linker unchanged.
func (tc *Toolchain) Link(outputPath string, objFilePaths ...string) error {
	return run(tc.ClangPath, tc.linkArgs(outputPath, objFilePaths))
}

func writeIR(mod *ir.Module, path string) error {
	if err := os.WriteFile(path, []byte(mod.String()), 0644); err != nil {
		return fmt.Errorf("failed to write IR file: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

// optArgs returns the arguments passed to opt.
func (tc *Toolchain) optArgs(irPath, outputPath string, level OptLevel) []string {
	args := []string{level.passArg(), "-S"}
	if tc.Triple != "" {
		args = append(args, "-mtriple="+tc.Triple)
	}

	return append(args, "-o", outputPath, irPath)
}

// compileArgs returns the arguments passed to llc.
func (tc *Toolchain) compileArgs(irPath, outputPath string, ft FileType, level OptLevel) []string {
	args := []string{level.codeGenArg()}

	if ft == ObjectFile {
		args = append(args, "-filetype=obj")
	} else {
		args = append(args, "-filetype=asm")
	}

	if tc.Triple != "" {
		args = append(args, "-mtriple="+tc.Triple)
	}

	return append(args, "-o", outputPath, irPath)
}

// linkArgs returns the arguments passed to clang.
func (tc *Toolchain) linkArgs(outputPath string, objFilePaths []string) []string {
	var args []string
	if tc.Triple != "" {
		args = append(args, "--target="+tc.Triple)
	}

	args = append(args, "-o", outputPath)
	return append(args, objFilePaths...)
}

// run runs a tool reporting its error output on failure.
func run(tool string, args []string) error {
	cmd := execabs.Command(tool, args...)

	stderrBuff := bytes.Buffer{}
	cmd.Stderr = &stderrBuff

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// we were able to run the tool but it failed: its output says why
			return fmt.Errorf("%s failed:\n%s", tool, strings.TrimSpace(stderrBuff.String()))
		}

		return fmt.Errorf("failed to run %s: %w", tool, err)
	}

	return nil
}
