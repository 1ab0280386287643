package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"bcc/ast"
	"bcc/common"
	"bcc/interp"
	"bcc/profile"
	"bcc/report"

	"github.com/ComedicChimera/olive"
)

// Execute runs the main `bcc` application and exits with its exit code.
func Execute() {
	os.Exit(Main())
}

// Main runs the `bcc` application and returns its exit code.
func Main() int {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("bcc", "bcc is a compiler for the B programming language", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "verbose"})
	logLvlArg.SetDefaultValue("error")

	buildCmd := cli.AddSubcommand("build", "compile a source file", true)
	buildCmd.AddPrimaryArg("file", "the path to the source file to build", true)
	buildCmd.AddStringArg("output", "o", "the path to write the output to", false)
	buildCmd.AddSelectorArg("emit", "e", "the kind of output to produce", false, []string{"exe", "obj", "asm", "llvm"})
	buildCmd.AddSelectorArg("opt", "O", "the optimization level (4 optimizes for size, 5 for minimal size)", false, []string{"0", "1", "2", "3", "4", "5"})
	buildCmd.AddStringArg("profile", "p", "the name of the profile to build", false)

	runCmd := cli.AddSubcommand("run", "interpret a source file", true)
	runCmd.AddPrimaryArg("file", "the path to the source file to run", true)

	irCmd := cli.AddSubcommand("ir", "print the LLVM IR of a source file", true)
	irCmd.AddPrimaryArg("file", "the path to the source file", true)

	astCmd := cli.AddSubcommand("ast", "print the syntax tree of a source file", true)
	astCmd.AddPrimaryArg("file", "the path to the source file", true)

	cli.AddSubcommand("version", "print the bcc version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "usage error: %s\n", err)
		return 2
	}

	report.InitReporter(report.LogLevelNames[result.Arguments["loglevel"].(string)])

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		return execBuildCommand(subResult)
	case "run":
		return execRunCommand(subResult)
	case "ir":
		return execIRCommand(subResult)
	case "ast":
		return execASTCommand(subResult)
	case "version":
		fmt.Printf("bcc v%s\n", common.BccVersion)
	}

	return 0
}

// execBuildCommand executes the build subcommand.
func execBuildCommand(result *olive.ArgParseResult) int {
	srcPath, _ := result.PrimaryArg()

	prof, tools, err := selectProfile(srcPath, result)
	if err != nil {
		report.ReportFatal("%s", err)
	}

	c := NewCompiler(srcPath, prof, tools)
	mod, ok := c.compile()
	if !ok {
		return 1
	}

	c.CodeGen(mod)
	return 0
}

// execRunCommand executes the run subcommand: the program is interpreted and
// the low byte of the result of `main` is the exit code.
func execRunCommand(result *olive.ArgParseResult) int {
	srcPath, _ := result.PrimaryArg()

	c := NewCompiler(srcPath, nil, profile.Tools{})
	mod, ok := c.compile()
	if !ok {
		return 1
	}

	stdout := bufio.NewWriter(os.Stdout)
	code, err := interp.Run(mod, bufio.NewReader(os.Stdin), stdout)
	if err != nil {
		report.ReportFatal("%s", err)
	}

	return int(code & 0xff)
}

// execIRCommand executes the ir subcommand.
func execIRCommand(result *olive.ArgParseResult) int {
	srcPath, _ := result.PrimaryArg()

	c := NewCompiler(srcPath, nil, profile.Tools{})
	mod, ok := c.compile()
	if !ok {
		return 1
	}

	fmt.Print(mod.String())
	return 0
}

// execASTCommand executes the ast subcommand.
func execASTCommand(result *olive.ArgParseResult) int {
	srcPath, _ := result.PrimaryArg()

	c := NewCompiler(srcPath, nil, profile.Tools{})
	reg, ok := c.Analyze()
	if !ok {
		report.ReportCompilationFailed()
		return 1
	}

	if err := ast.Fprint(os.Stdout, reg); err != nil {
		report.ReportFatal("failed to print syntax tree: %s", err)
	}

	return 0
}

// -----------------------------------------------------------------------------

// selectProfile determines the build profile for srcPath.  The profile file
// next to the source file is consulted first; the command line arguments
// override whichever profile was chosen.
func selectProfile(srcPath string, result *olive.ArgParseResult) (*profile.BuildProfile, profile.Tools, error) {
	config, err := profile.Load(filepath.Dir(srcPath))
	if err != nil {
		return nil, profile.Tools{}, err
	}

	selectedProfile := ""
	if profArgVal, ok := result.Arguments["profile"]; ok {
		selectedProfile = profArgVal.(string)
	}

	prof := &profile.BuildProfile{OutputFormat: profile.FormatBin}
	var tools profile.Tools
	if config != nil {
		tools = config.Tools

		selected, err := config.Select(selectedProfile)
		if err != nil {
			return nil, tools, err
		}

		if selected != nil {
			*prof = *selected
		}
	} else if selectedProfile != "" {
		return nil, tools, fmt.Errorf("no %s found for profile `%s`", common.ProfileFileName, selectedProfile)
	}

	if outArgVal, ok := result.Arguments["output"]; ok {
		prof.OutputPath = outArgVal.(string)
	}

	if emitArgVal, ok := result.Arguments["emit"]; ok {
		prof.OutputFormat = profile.FormatNames[emitArgVal.(string)]
	}

	if optArgVal, ok := result.Arguments["opt"]; ok {
		prof.OptLevel, _ = strconv.Atoi(optArgVal.(string))
	}

	prof.Complete(srcPath)
	return prof, tools, nil
}
