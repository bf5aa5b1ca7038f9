package cc

import (
	"runtime"

	"github.com/xyproto/env/v2"
)

// CurrentTriple returns the target triple for the running build. The TARGET
// environment variable takes precedence; otherwise the triple is synthesized
// from the Go runtime's OS and architecture.
func CurrentTriple() string {
	if t := env.Str("TARGET"); t != "" {
		return t
	}
	return tripleFor(runtime.GOOS, runtime.GOARCH)
}

func tripleFor(goos, goarch string) string {
	arch := goarch
	switch goarch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	case "386":
		arch = "i686"
	case "ppc64":
		arch = "powerpc64"
	case "ppc64le":
		arch = "powerpc64le"
	}
	switch goos {
	case "linux":
		return arch + "-unknown-linux-gnu"
	case "darwin":
		return arch + "-apple-darwin"
	case "ios":
		return arch + "-apple-ios"
	case "windows":
		return arch + "-pc-windows-msvc"
	case "freebsd", "netbsd", "openbsd", "dragonfly":
		return arch + "-unknown-" + goos
	case "solaris", "illumos":
		return arch + "-pc-solaris"
	case "aix":
		return arch + "-ibm-aix"
	default:
		return arch + "-unknown-" + goos
	}
}
