// Package platform maps target platforms to the preprocessor defines and C
// standard dialects Lua's configuration header expects.
package platform

import (
	"strings"

	"github.com/lunka/luabuild/x/cc"
)

// Standards holds one optional C dialect per compiler family. An empty
// field means no dialect is requested and the compiler default applies.
type Standards struct {
	GNU     string
	Clang   string
	MSVC    string
	ClangCl string
}

// DefaultStandards returns the dialects requested by most platforms:
// gnu99 for gcc-compatible compilers and c99 for cl.exe.
func DefaultStandards() Standards {
	return Standards{GNU: "gnu99", Clang: "gnu99", MSVC: "c99", ClangCl: "gnu99"}
}

// For selects the dialect for the given compiler family. Exactly one field
// is consulted; there is no fallback across families.
func (s Standards) For(family cc.Family) string {
	switch family {
	case cc.Gnu:
		return s.GNU
	case cc.Clang:
		return s.Clang
	case cc.Msvc:
		return s.MSVC
	case cc.ClangCl:
		return s.ClangCl
	}
	return ""
}

// Platform describes what a target needs from the Lua build: unconditional
// preprocessor defines and per-family C dialects.
type Platform interface {
	Defines() []string
	Standards() Standards
}

// Desc is a concrete Platform. Use NewDesc to build custom platforms not
// covered by the predefined set.
type Desc struct {
	defines []string
	stds    Standards
}

// NewDesc returns a Platform with the given defines and standards.
func NewDesc(defines []string, stds Standards) *Desc {
	return &Desc{defines: defines, stds: stds}
}

func (d *Desc) Defines() []string    { return d.defines }
func (d *Desc) Standards() Standards { return d.stds }

// The known platforms. FreeBSD deliberately shares LUA_USE_LINUX with Linux:
// luaconf.h's Linux branch is what the FreeBSD libc expects, and the
// distinction matters only to the header's #if guards, not to this layer.
var (
	AIX     = NewDesc([]string{"LUA_USE_POSIX", "LUA_USE_DLOPEN"}, DefaultStandards())
	BSD     = NewDesc([]string{"LUA_USE_POSIX", "LUA_USE_DLOPEN"}, DefaultStandards())
	C89     = NewDesc([]string{"LUA_USE_POSIX", "LUA_USE_DLOPEN"}, Standards{GNU: "c89", Clang: "c89", ClangCl: "c89"})
	FreeBSD = NewDesc([]string{"LUA_USE_LINUX"}, DefaultStandards())
	IOS     = NewDesc([]string{"LUA_USE_IOS"}, DefaultStandards())
	Linux   = NewDesc([]string{"LUA_USE_LINUX"}, DefaultStandards())
	MacOSX  = NewDesc([]string{"LUA_USE_MACOSX"}, DefaultStandards())
	MinGW   = NewDesc([]string{"LUA_BUILD_AS_DLL"}, DefaultStandards())
	POSIX   = NewDesc([]string{"LUA_USE_POSIX"}, DefaultStandards())
	Solaris = NewDesc([]string{"LUA_USE_POSIX", "LUA_USE_DLOPEN", "_REENTRANT"}, DefaultStandards())
	Windows = NewDesc([]string{"LUA_USE_WINDOWS"}, DefaultStandards())
)

// Known lists the predefined platforms by name, for display purposes.
var Known = []struct {
	Name     string
	Platform Platform
}{
	{"aix", AIX},
	{"bsd", BSD},
	{"c89", C89},
	{"freebsd", FreeBSD},
	{"ios", IOS},
	{"linux", Linux},
	{"macosx", MacOSX},
	{"mingw", MinGW},
	{"posix", POSIX},
	{"solaris", Solaris},
	{"windows", Windows},
}

// FromCurrentTriple resolves the platform for the triple the build is
// running for. Returns nil when the triple matches no known platform.
func FromCurrentTriple() Platform {
	return FromTargetTriple(cc.CurrentTriple())
}

// FromTargetTriple resolves a target triple to a known platform, first
// match wins. Returns nil when nothing matches; the caller decides whether
// to fall back to an explicit platform or fail.
func FromTargetTriple(target string) Platform {
	switch {
	case strings.Contains(target, "linux"):
		return Linux
	case strings.HasSuffix(target, "bsd"):
		return FreeBSD
	case strings.HasSuffix(target, "apple-darwin"):
		return MacOSX
	case strings.HasSuffix(target, "apple-ios"):
		return IOS
	case strings.Contains(target, "solaris"):
		return Solaris
	case strings.Contains(target, "windows"):
		return Windows
	}
	return nil
}
