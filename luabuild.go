// Package luabuild configures a C toolchain to compile Lua 5.4 into a
// static library, adapting defines and C-standard selection to the target
// platform.
package luabuild

import (
	"fmt"
	"strings"

	"github.com/lunka/luabuild/platform"
	"github.com/lunka/luabuild/x/cc"
)

// Build is a compilation of Lua for one platform. It owns the underlying
// compiler invocation plan; every setter mutates that plan and returns the
// Build for chaining.
type Build struct {
	cc *cc.Build
}

// ForCurrent creates a Build for the platform resolved from the current
// target triple, panicking if no platform matches or setup fails.
func ForCurrent() *Build {
	p := platform.FromCurrentTriple()
	if p == nil {
		panic(fmt.Sprintf("couldn't determine platform for current target triple %q", cc.CurrentTriple()))
	}
	return New(p)
}

// New creates a Build for the given platform, panicking if setup failed.
//
// See TryNew for the non-panicking version.
func New(p platform.Platform) *Build {
	b, err := TryNew(p)
	if err != nil {
		panic(err.Error())
	}
	return b
}

// TryNew creates a Build for the given platform. The compiler is probed for
// its family, the platform's dialect for that family is requested if there
// is one, full warnings are enabled, and every platform define is applied
// valueless.
func TryNew(p platform.Platform) (*Build, error) {
	c := cc.NewBuild()
	tool, err := c.Tool()
	if err != nil {
		return nil, err
	}
	if std := p.Standards().For(tool.Family()); std != "" {
		c.Std(std)
	}
	c.Warnings(true)
	for _, define := range p.Defines() {
		c.DefineFlag(define)
	}
	return &Build{cc: c}, nil
}

// Wrap adopts an existing invocation plan without probing the toolchain or
// applying any platform settings. Useful when the caller has already
// prepared a plan, or in tests.
func Wrap(c *cc.Build) *Build {
	return &Build{cc: c}
}

// CC exposes the underlying invocation plan, for callers that need to
// inspect or extend it beyond what this builder covers.
func (b *Build) CC() *cc.Build { return b.cc }

// DefineFlag adds a valueless preprocessor define.
func (b *Build) DefineFlag(name string) *Build {
	b.cc.DefineFlag(name)
	return b
}

// DefineLiteral adds a define whose value is inserted verbatim. The caller
// is responsible for it being valid preprocessor text, e.g. a numeric
// literal or a sizeof expression.
func (b *Build) DefineLiteral(name, expr string) *Build {
	b.cc.Define(name, expr)
	return b
}

// DefineString adds a define whose value is text rendered as a quoted C
// string literal. Backslashes are doubled before quotes are escaped; in the
// other order the backslashes inserted for quotes would themselves get
// doubled.
func (b *Build) DefineString(name, text string) *Build {
	escaped := strings.ReplaceAll(text, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return b.DefineLiteral(name, `"`+escaped+`"`)
}

// Host sets the host triple assumed by this configuration.
func (b *Build) Host(triple string) *Build {
	b.cc.Host(triple)
	return b
}

// OutDir sets the directory where object files and the static library land.
func (b *Build) OutDir(dir string) *Build {
	b.cc.OutDir(dir)
	return b
}

// Include adds an include directory.
func (b *Build) Include(dir string) *Build {
	b.cc.Include(dir)
	return b
}

// Includes adds multiple include directories.
func (b *Build) Includes(dirs ...string) *Build {
	for _, dir := range dirs {
		b.cc.Include(dir)
	}
	return b
}

// DebugInfo sets whether debug information is emitted for this build.
func (b *Build) DebugInfo(emit bool) *Build {
	b.cc.Debug(emit)
	return b
}

// OptLevel sets the semi-arbitrary optimization level for the generated
// object files.
func (b *Build) OptLevel(level uint) *Build {
	b.cc.OptLevel(level)
	return b
}

// CompatLua53 enables compatibility with Lua 5.3.
func (b *Build) CompatLua53() *Build {
	return b.DefineFlag("LUA_COMPAT_5_3")
}

// CompatMathLib includes several deprecated functions in the math library.
func (b *Build) CompatMathLib() *Build {
	return b.DefineFlag("LUA_COMPAT_MATH_LIB")
}

// CompatLtLe emulates the __le metamethod using __lt.
func (b *Build) CompatLtLe() *Build {
	return b.DefineFlag("LUA_COMPAT_LT_LE")
}

// APIChecks enables several consistency checks in the C API.
func (b *Build) APIChecks() *Build {
	return b.DefineFlag("LUA_USE_APICHECK")
}

// LuaLibPath sets the default path Lua uses to look for Lua libraries.
func (b *Build) LuaLibPath(path string) *Build {
	return b.DefineString("LUA_PATH_DEFAULT", path)
}

// LuaCLibPath sets the default path Lua uses to look for C libraries.
func (b *Build) LuaCLibPath(path string) *Build {
	return b.DefineString("LUA_CPATH_DEFAULT", path)
}

// DirSeparator sets the directory separator for require submodules.
func (b *Build) DirSeparator(sep string) *Build {
	return b.DefineString("LUA_DIRSEP", sep)
}

// UnicodeIdentifiers enables Unicode identifiers. The define is not part of
// luaconf.h's documented surface; lctype.c checks it when building the
// identifier character table.
func (b *Build) UnicodeIdentifiers() *Build {
	return b.DefineFlag("LUA_UCID")
}

// Compile runs the compiler, producing a static library named output, and
// panics if compilation fails.
//
// See TryCompile for the non-panicking version.
func (b *Build) Compile(output string) {
	if err := b.TryCompile(output); err != nil {
		panic(err.Error())
	}
}

// TryCompile runs the compiler, producing a static library named output.
// The underlying plan is not consumed; the Build stays usable.
func (b *Build) TryCompile(output string) error {
	return b.cc.Compile(output)
}
