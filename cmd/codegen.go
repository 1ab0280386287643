package cmd

import (
	"os"
	"path/filepath"
	"time"

	"bcc/llc"
	"bcc/profile"
	"bcc/report"

	"github.com/llir/llvm/ir"
)

// CodeGen produces the output selected by the build profile from mod.
func (c *Compiler) CodeGen(mod *ir.Module) {
	start := time.Now()

	tc := llc.NewToolchain(c.tools.Opt, c.tools.LLC, c.tools.Clang, c.profile.TargetTriple)
	level := llc.OptLevel(c.profile.OptLevel)

	if dir := filepath.Dir(c.profile.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			report.ReportFatal("failed to create output directory: %s", err)
		}
	}

	switch c.profile.OutputFormat {
	case profile.FormatLLVM:
		if err := tc.OptimizeModule(mod, c.profile.OutputPath, level); err != nil {
			report.ReportFatal("failed to write output to file `%s`: %s", c.profile.OutputPath, err)
		}
	case profile.FormatASM:
		if err := tc.CompileModule(mod, c.profile.OutputPath, llc.AssemblyFile, level); err != nil {
			report.ReportFatal("failed to compile module: %s", err)
		}
	case profile.FormatObject:
		if err := tc.CompileModule(mod, c.profile.OutputPath, llc.ObjectFile, level); err != nil {
			report.ReportFatal("failed to compile module: %s", err)
		}
	case profile.FormatBin:
		c.buildExecutable(tc, mod, level)
	default:
		report.ReportICE("unknown output format: %d", c.profile.OutputFormat)
	}

	report.ReportPhase("Generating", start)
	report.ReportInfo("Output", c.profile.OutputPath)
}

// buildExecutable compiles mod to an object file in a temporary directory and
// links it with the profile's link objects.
func (c *Compiler) buildExecutable(tc *llc.Toolchain, mod *ir.Module, level llc.OptLevel) {
	tempDir, err := os.MkdirTemp("", "bcc")
	if err != nil {
		report.ReportFatal("failed to create temporary directory: %s", err)
	}
	defer os.RemoveAll(tempDir)

	base := filepath.Base(c.srcAbsPath)
	objFilePath := filepath.Join(tempDir, base[:len(base)-len(filepath.Ext(base))]+".o")

	if err := tc.CompileModule(mod, objFilePath, llc.ObjectFile, level); err != nil {
		report.ReportFatal("failed to compile module: %s", err)
	}

	objFilePaths := append([]string{objFilePath}, c.profile.LinkObjects...)
	if err := tc.Link(c.profile.OutputPath, objFilePaths...); err != nil {
		report.ReportFatal("link error: %s", err)
	}
}
