// Package luadist locates bundled Lua source trees on disk.
package luadist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

// Root returns the path of the newest bundled Lua tree under dir. Bundled
// trees are directories named lua-<version>; versions are compared as
// semantic versions and the highest wins.
func Root(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var best, bestVer string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, ok := strings.CutPrefix(entry.Name(), "lua-")
		if !ok || !semver.IsValid("v"+v) {
			continue
		}
		if best == "" || semver.Compare("v"+v, bestVer) > 0 {
			best = entry.Name()
			bestVer = "v" + v
		}
	}
	if best == "" {
		return "", fmt.Errorf("no bundled lua-<version> tree under %s", dir)
	}
	return filepath.Join(dir, best), nil
}

// Version extracts the Lua version from a bundled tree path, e.g. "5.4.8"
// from ".../lua-5.4.8". Returns "" when the path does not name a bundled
// tree.
func Version(root string) string {
	v, ok := strings.CutPrefix(filepath.Base(root), "lua-")
	if !ok || !semver.IsValid("v"+v) {
		return ""
	}
	return v
}
