// Package profile loads build profiles from the optional `bcc.toml` file that
// sits next to the source file being compiled.
package profile

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"bcc/common"

	"github.com/pelletier/go-toml"
)

// BuildProfile represents the profile the compiler will use to build.
type BuildProfile struct {
	// Name is the name of the profile.  The profile synthesized when there is
	// no profile file is unnamed.
	Name string

	// OutputPath is the path to the final output file.
	OutputPath string

	// OutputFormat is the type of output the compiler should produce.  This
	// should be one of the enumerated formats (prefixed `Format`).
	OutputFormat int

	// OptLevel is the optimization level: 0 to 3, 4 for size and 5 for
	// minimal size.
	OptLevel int

	// TargetTriple is the target triple to compile for.  The host is targeted
	// when it is empty.
	TargetTriple string

	// LinkObjects is the list of additional objects and libraries to be linked
	// into the final executable.  These are absolute paths.
	LinkObjects []string
}

// Available Output Formats
const (
	FormatBin    = iota // Executable
	FormatObject        // Unlinked Object File
	FormatASM           // Assembly
	FormatLLVM          // LLVM
)

// FormatNames maps the names of output formats to their enumerated values.
var FormatNames = map[string]int{
	"exe":  FormatBin,
	"obj":  FormatObject,
	"asm":  FormatASM,
	"llvm": FormatLLVM,
}

// FormatExts maps the enumerated output formats to the extension of the
// default output path.
var FormatExts = map[int]string{
	FormatBin:    "",
	FormatObject: ".o",
	FormatASM:    ".s",
	FormatLLVM:   ".ll",
}

// MaxOptLevel is the highest supported optimization level.
const MaxOptLevel = 5

// Tools holds the paths of the external LLVM tools.  Empty paths mean the
// tools are looked up in the PATH.
type Tools struct {
	Opt   string
	LLC   string
	Clang string
}

// Config is a loaded profile file.
type Config struct {
	// Dir is the directory containing the profile file.
	Dir string

	Profiles []*BuildProfile
	Tools    Tools

	// defaultProfile is the profile marked as default or nil.
	defaultProfile *BuildProfile
}

// -----------------------------------------------------------------------------

// tomlFile represents the profile file as it is encoded in TOML
type tomlFile struct {
	Profiles []*tomlProfile `toml:"profiles"`
	Tools    *tomlTools     `toml:"tools"`
}

// tomlProfile represents a profile as it is encoded in TOML
type tomlProfile struct {
	Name         string   `toml:"name"`
	OutputPath   string   `toml:"output"`
	Emit         string   `toml:"emit"`
	OptLevel     int      `toml:"opt-level"`
	TargetTriple string   `toml:"target-triple,omitempty"`
	LinkObjects  []string `toml:"link-objects,omitempty"`
	DefaultProf  bool     `toml:"default"` // in absence of a selected profile, choose this profile
}

// tomlTools represents the tool paths as they are encoded in TOML
type tomlTools struct {
	Opt   string `toml:"opt"`
	LLC   string `toml:"llc"`
	Clang string `toml:"clang"`
}

// Load loads the profile file in dir.  A missing file is not an error: the
// returned config is nil.
func Load(dir string) (*Config, error) {
	// open file
	f, err := os.Open(filepath.Join(dir, common.ProfileFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, err
	}
	defer f.Close()

	// unmarshal the contents
	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return parse(dir, buff)
}

// parse decodes and validates the contents of a profile file.
func parse(dir string, buff []byte) (*Config, error) {
	tf := &tomlFile{}
	if err := toml.Unmarshal(buff, tf); err != nil {
		return nil, fmt.Errorf("%s: %w", common.ProfileFileName, err)
	}

	config := &Config{Dir: dir}
	if tf.Tools != nil {
		config.Tools = Tools{Opt: tf.Tools.Opt, LLC: tf.Tools.LLC, Clang: tf.Tools.Clang}
	}

	names := make(map[string]struct{})
	for _, tp := range tf.Profiles {
		prof, err := convertProfile(dir, tp)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", common.ProfileFileName, err)
		}

		if _, ok := names[prof.Name]; ok {
			return nil, fmt.Errorf("%s: multiple profiles named `%s`", common.ProfileFileName, prof.Name)
		}
		names[prof.Name] = struct{}{}

		if tp.DefaultProf {
			if config.defaultProfile != nil {
				return nil, fmt.Errorf(
					"%s: profiles `%s` and `%s` are both marked as default",
					common.ProfileFileName, config.defaultProfile.Name, prof.Name,
				)
			}

			config.defaultProfile = prof
		}

		config.Profiles = append(config.Profiles, prof)
	}

	return config, nil
}

// convertProfile validates a TOML profile and converts it to a build profile.
// Relative paths are resolved against dir.
func convertProfile(dir string, tp *tomlProfile) (*BuildProfile, error) {
	if tp.Name == "" {
		return nil, errors.New("profile is missing a name")
	}

	prof := &BuildProfile{
		Name:         tp.Name,
		OptLevel:     tp.OptLevel,
		TargetTriple: tp.TargetTriple,
	}

	if tp.Emit == "" {
		prof.OutputFormat = FormatBin
	} else if format, ok := FormatNames[tp.Emit]; ok {
		prof.OutputFormat = format
	} else {
		return nil, fmt.Errorf("profile `%s` has invalid emit format `%s`", tp.Name, tp.Emit)
	}

	if tp.OptLevel < 0 || tp.OptLevel > MaxOptLevel {
		return nil, fmt.Errorf("profile `%s` has invalid opt-level %d: must be between 0 and %d", tp.Name, tp.OptLevel, MaxOptLevel)
	}

	if tp.OutputPath != "" {
		prof.OutputPath = resolve(dir, tp.OutputPath)
	}

	for _, obj := range tp.LinkObjects {
		prof.LinkObjects = append(prof.LinkObjects, resolve(dir, obj))
	}

	return prof, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}

// -----------------------------------------------------------------------------

// Select selects the profile with the given name or the default profile if
// name is empty.  When name is empty and no profile is marked as default, the
// returned profile is nil.
func (c *Config) Select(name string) (*BuildProfile, error) {
	if name == "" {
		return c.defaultProfile, nil
	}

	for _, prof := range c.Profiles {
		if prof.Name == name {
			return prof, nil
		}
	}

	return nil, fmt.Errorf("%s in %s has no profile `%s`", common.ProfileFileName, c.Dir, name)
}

// Default returns the profile used to compile srcPath when no profile is
// selected: an executable named after the source file with no optimization.
func Default(srcPath string) *BuildProfile {
	prof := &BuildProfile{OutputFormat: FormatBin}
	prof.Complete(srcPath)
	return prof
}

// Complete fills in the output path of prof if it has none.  The output path
// is the source path with its extension replaced by the output format's.
func (prof *BuildProfile) Complete(srcPath string) {
	if prof.OutputPath != "" {
		return
	}

	prof.OutputPath = strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + FormatExts[prof.OutputFormat]
	if prof.OutputPath == srcPath {
		prof.OutputPath += ".out"
	}
}
