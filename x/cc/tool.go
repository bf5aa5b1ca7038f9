package cc

import (
	"path/filepath"
	"strings"
)

// Family classifies a compiler by the command-line convention it speaks.
type Family int

const (
	// Gnu covers gcc and anything speaking its flag dialect.
	Gnu Family = iota
	// Clang covers clang in its default gcc-compatible mode.
	Clang
	// Msvc covers cl.exe.
	Msvc
	// ClangCl covers clang-cl, clang in cl.exe compatibility mode.
	ClangCl
)

func (f Family) String() string {
	switch f {
	case Gnu:
		return "gnu"
	case Clang:
		return "clang"
	case Msvc:
		return "msvc"
	case ClangCl:
		return "clang-cl"
	}
	return "unknown"
}

// Tool is a located compiler executable and its detected family.
type Tool struct {
	path   string
	family Family
}

// Path returns the resolved path of the compiler executable.
func (t Tool) Path() string { return t.path }

// Family returns the detected compiler family.
func (t Tool) Family() Family { return t.family }

// IsLikeGnu reports whether the tool takes gcc-style flags.
func (t Tool) IsLikeGnu() bool { return t.family == Gnu }

// IsLikeClang reports whether the tool is clang in gcc-compatible mode.
func (t Tool) IsLikeClang() bool { return t.family == Clang }

// IsLikeMsvc reports whether the tool takes cl.exe-style flags.
func (t Tool) IsLikeMsvc() bool { return t.family == Msvc }

// IsLikeClangCl reports whether the tool is clang in cl.exe mode.
func (t Tool) IsLikeClangCl() bool { return t.family == ClangCl }

// classify derives the family from the executable name. Vendor prefixes
// such as x86_64-linux-gnu-gcc and a trailing .exe are handled; a name
// matching nothing known is assumed to take gcc-style flags.
func classify(name string) Family {
	base := strings.ToLower(filepath.Base(name))
	base = strings.TrimSuffix(base, ".exe")
	switch {
	case base == "clang-cl" || strings.HasSuffix(base, "-clang-cl"):
		return ClangCl
	case base == "cl":
		return Msvc
	case strings.HasPrefix(base, "clang") || strings.HasSuffix(base, "-clang") || strings.HasSuffix(base, "-clang++"):
		return Clang
	default:
		return Gnu
	}
}
