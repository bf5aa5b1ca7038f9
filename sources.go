package luabuild

import (
	"os"
	"path/filepath"
	"strings"
)

// The Lua distribution's executable front ends. They carry a main function
// and must never be linked into an embeddable library.
var entryPoints = []string{"lua.c", "luac.c"}

// AddBundledSrc adds every source file of a bundled Lua tree, panicking if
// an error occurs while reading the directory contents.
//
// See TryAddBundledSrc for the non-panicking version.
func (b *Build) AddBundledSrc(root string) *Build {
	s, err := b.TryAddBundledSrc(root)
	if err != nil {
		panic(err.Error())
	}
	return s
}

// TryAddBundledSrc adds every source file of a bundled Lua tree: root must
// contain an include directory (registered as an include path, never
// compiled) and a src directory, every regular file of which is added
// uncritically. The tree is trusted to contain only compilable sources.
// Subdirectories are not descended into; both known layouts are flat.
//
// A bundled tree may carry LuaConf's guard definitions in its luaconf.h;
// a stock distribution does not. See LuaConf.
func (b *Build) TryAddBundledSrc(root string) (*Build, error) {
	src := filepath.Join(root, "src")
	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, err
	}
	b.Include(filepath.Join(root, "include"))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		b.cc.File(filepath.Join(src, entry.Name()))
	}
	return b, nil
}

// AddLuaSrc adds all Lua source files found in root, panicking if an error
// occurs while reading the directory contents.
//
// See TryAddLuaSrc for the non-panicking version.
func (b *Build) AddLuaSrc(root string) *Build {
	s, err := b.TryAddLuaSrc(root)
	if err != nil {
		panic(err.Error())
	}
	return s
}

// TryAddLuaSrc adds all Lua source files found in root, which must be a
// directory containing both sources (*.c) and headers (*.h), laid out like
// a stock Lua distribution. Only regular .c files are added; lua.c and
// luac.c are skipped. The directory is not searched recursively.
func (b *Build) TryAddLuaSrc(root string) (*Build, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".c") || isEntryPoint(name) {
			continue
		}
		b.cc.File(filepath.Join(root, name))
	}
	return b, nil
}

func isEntryPoint(name string) bool {
	for _, ep := range entryPoints {
		if name == ep {
			return true
		}
	}
	return false
}
