// Package cc drives a C compiler, accumulating sources, include paths and
// preprocessor defines, and compiling them into a static library.
package cc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qiniu/x/log"
	"github.com/xyproto/env/v2"
	"golang.org/x/sys/execabs"
)

// Define is a preprocessor definition. A define without a value (HasValue
// false) is emitted as a bare -DNAME flag.
type Define struct {
	Name     string
	Value    string
	HasValue bool
}

func (d Define) String() string {
	if d.HasValue {
		return d.Name + "=" + d.Value
	}
	return d.Name
}

// Error is a structured toolchain error.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Build accumulates a compiler invocation plan. Setters only record state;
// nothing touches the toolchain until Tool or Compile is called.
// Defines are kept in insertion order and never deduplicated.
type Build struct {
	files       []string
	includeDirs []string
	defines     []Define
	std         string
	warnings    bool
	host        string
	target      string
	outDir      string
	debug       bool
	optLevel    uint
	optSet      bool
	tool        *Tool
}

// NewBuild returns an empty invocation plan targeting the current triple.
func NewBuild() *Build {
	return &Build{target: CurrentTriple()}
}

// File adds a source file to be compiled.
func (b *Build) File(path string) *Build {
	b.files = append(b.files, path)
	return b
}

// Include adds an include directory.
func (b *Build) Include(dir string) *Build {
	b.includeDirs = append(b.includeDirs, dir)
	return b
}

// DefineFlag adds a valueless preprocessor define.
func (b *Build) DefineFlag(name string) *Build {
	b.defines = append(b.defines, Define{Name: name})
	return b
}

// Define adds a preprocessor define with the given value, inserted verbatim.
func (b *Build) Define(name, value string) *Build {
	b.defines = append(b.defines, Define{Name: name, Value: value, HasValue: true})
	return b
}

// Std requests a C standard dialect (e.g. "gnu99", "c89").
func (b *Build) Std(std string) *Build {
	b.std = std
	return b
}

// Warnings toggles the full warning set for the compilation.
func (b *Build) Warnings(enabled bool) *Build {
	b.warnings = enabled
	return b
}

// Host sets the host triple assumed by this plan.
func (b *Build) Host(triple string) *Build {
	b.host = triple
	return b
}

// Target sets the target triple. The target influences compiler selection
// when CC is not set, so changing it invalidates a previously probed tool.
func (b *Build) Target(triple string) *Build {
	b.target = triple
	b.tool = nil
	return b
}

// OutDir sets the directory where object files and the static library land.
func (b *Build) OutDir(dir string) *Build {
	b.outDir = dir
	return b
}

// Debug toggles emission of debug information.
func (b *Build) Debug(enabled bool) *Build {
	b.debug = enabled
	return b
}

// OptLevel sets the optimization level. The meaning of the number is
// compiler-defined.
func (b *Build) OptLevel(level uint) *Build {
	b.optLevel = level
	b.optSet = true
	return b
}

// Files returns the accumulated source files in insertion order.
func (b *Build) Files() []string { return b.files }

// IncludeDirs returns the accumulated include directories.
func (b *Build) IncludeDirs() []string { return b.includeDirs }

// Defines returns the accumulated defines in insertion order, duplicates
// included.
func (b *Build) Defines() []Define { return b.defines }

// StdFlag returns the requested C standard, or "" if none was requested.
func (b *Build) StdFlag() string { return b.std }

// WarningsEnabled reports whether the full warning set was requested.
func (b *Build) WarningsEnabled() bool { return b.warnings }

// Tool probes for the compiler to use and reports its family. The result is
// cached for the lifetime of the plan. The CC environment variable overrides
// compiler selection; otherwise cl is used for MSVC targets and cc elsewhere.
func (b *Build) Tool() (Tool, error) {
	if b.tool != nil {
		return *b.tool, nil
	}
	name := env.Str("CC")
	if name == "" {
		if strings.Contains(b.target, "msvc") {
			name = "cl"
		} else {
			name = "cc"
		}
	}
	path, err := execabs.LookPath(name)
	if err != nil {
		return Tool{}, &Error{Op: "detect compiler", Err: err}
	}
	t := Tool{path: path, family: classify(name)}
	b.tool = &t
	return t, nil
}

// Compile compiles every accumulated file and archives the objects into a
// static library named after output (libNAME.a, or NAME.lib under MSVC)
// inside the out dir. The plan is not consumed; Compile may be called again.
func (b *Build) Compile(output string) error {
	tool, err := b.Tool()
	if err != nil {
		return err
	}
	outDir := b.outDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return &Error{Op: "create out dir", Err: err}
	}
	objs := make([]string, 0, len(b.files))
	for _, src := range b.files {
		obj := filepath.Join(outDir, objectName(src, tool.family))
		if err := run(tool.path, b.CompileArgs(tool.family, src, obj)); err != nil {
			return &Error{Op: "compile " + filepath.Base(src), Err: err}
		}
		objs = append(objs, obj)
	}
	lib := filepath.Join(outDir, StaticLibName(output, tool.family))
	if err := b.archive(tool.family, lib, objs); err != nil {
		return &Error{Op: "archive " + filepath.Base(lib), Err: err}
	}
	return nil
}

// CompileArgs renders the compiler arguments for one source file. It is a
// pure function of the plan so invocation plans can be inspected and tested
// without spawning a compiler.
func (b *Build) CompileArgs(family Family, src, obj string) []string {
	if family == Msvc || family == ClangCl {
		return b.msvcArgs(src, obj)
	}
	return b.gnuArgs(src, obj)
}

func (b *Build) gnuArgs(src, obj string) []string {
	args := []string{"-c", "-o", obj}
	if b.std != "" {
		args = append(args, "-std="+b.std)
	}
	for _, dir := range b.includeDirs {
		args = append(args, "-I"+dir)
	}
	for _, d := range b.defines {
		args = append(args, "-D"+d.String())
	}
	if b.warnings {
		args = append(args, "-Wall", "-Wextra")
	}
	if b.debug {
		args = append(args, "-g")
	}
	if b.optSet {
		args = append(args, fmt.Sprintf("-O%d", b.optLevel))
	}
	return append(args, src)
}

func (b *Build) msvcArgs(src, obj string) []string {
	args := []string{"/nologo", "/c", "/Fo" + obj}
	if b.std != "" {
		args = append(args, "/std:"+b.std)
	}
	for _, dir := range b.includeDirs {
		args = append(args, "/I"+dir)
	}
	for _, d := range b.defines {
		args = append(args, "/D"+d.String())
	}
	if b.warnings {
		args = append(args, "/W4")
	}
	if b.debug {
		args = append(args, "/Z7")
	}
	if b.optSet {
		switch {
		case b.optLevel == 0:
			args = append(args, "/Od")
		case b.optLevel == 1:
			args = append(args, "/O1")
		default:
			args = append(args, "/O2")
		}
	}
	return append(args, src)
}

func (b *Build) archive(family Family, lib string, objs []string) error {
	if family == Msvc || family == ClangCl {
		name := env.Str("AR", "lib.exe")
		args := append([]string{"/NOLOGO", "/OUT:" + lib}, objs...)
		return run(name, args)
	}
	name := env.Str("AR", "ar")
	return run(name, append([]string{"crs", lib}, objs...))
}

// StaticLibName returns the platform-conventional file name for a static
// library: NAME.lib under MSVC, libNAME.a everywhere else.
func StaticLibName(output string, family Family) string {
	if family == Msvc || family == ClangCl {
		return output + ".lib"
	}
	return "lib" + output + ".a"
}

func objectName(src string, family Family) string {
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if family == Msvc || family == ClangCl {
		return base + ".obj"
	}
	return base + ".o"
}

func run(name string, args []string) error {
	log.Debugf("run: %s %s", name, strings.Join(args, " "))
	cmd := execabs.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
