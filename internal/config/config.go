// Package config loads the luabuild.hcl build manifest and maps it onto a
// build configuration.
package config

import (
	"fmt"
	"runtime"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"

	"github.com/lunka/luabuild"
	"github.com/lunka/luabuild/platform"
)

// Source selects where Lua sources come from: the bundled tree or an
// arbitrary Lua distribution directory.
type Source struct {
	Bundled bool   `hcl:"bundled,optional"`
	Dir     string `hcl:"dir,optional"`
}

// Features mirrors the named feature methods of luabuild.Build.
type Features struct {
	CompatLua53        bool   `hcl:"compat_lua_5_3,optional"`
	CompatMathLib      bool   `hcl:"compat_math_lib,optional"`
	CompatLtLe         bool   `hcl:"compat_lt_le,optional"`
	APIChecks          bool   `hcl:"api_checks,optional"`
	LuaLibPath         string `hcl:"lua_lib_path,optional"`
	LuaCLibPath        string `hcl:"lua_c_lib_path,optional"`
	DirSeparator       string `hcl:"dir_separator,optional"`
	UnicodeIdentifiers bool   `hcl:"unicode_identifiers,optional"`
}

// Conf mirrors luabuild.LuaConf.
type Conf struct {
	NoNumberToString bool   `hcl:"no_number_to_string,optional"`
	NoStringToNumber bool   `hcl:"no_string_to_number,optional"`
	ExtraSpace       string `hcl:"extra_space,optional"`
	IDSize           string `hcl:"id_size,optional"`
}

// Config is the decoded build manifest.
type Config struct {
	Target    string    `hcl:"target,optional"`
	Host      string    `hcl:"host,optional"`
	OutDir    string    `hcl:"out_dir,optional"`
	Output    string    `hcl:"output,optional"`
	OptLevel  *int      `hcl:"opt_level,optional"`
	DebugInfo bool      `hcl:"debug_info,optional"`
	Includes  []string  `hcl:"includes,optional"`
	Source    *Source   `hcl:"source,block"`
	Features  *Features `hcl:"features,block"`
	Conf      *Conf     `hcl:"conf,block"`
}

// Load reads and decodes a manifest file.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, evalContext(), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse decodes manifest source. The filename picks the syntax (.hcl or
// .json) and shows up in diagnostics.
func Parse(filename string, src []byte) (*Config, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, src, evalContext(), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// evalContext exposes the build host's os and arch to manifest expressions,
// so manifests can say e.g. debug_info = os == "windows".
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"os":   cty.StringVal(runtime.GOOS),
			"arch": cty.StringVal(runtime.GOARCH),
		},
	}
}

// Platform resolves the manifest's platform: the explicit target if set,
// otherwise the current triple. An unresolvable target is an error here;
// there is nothing for a manifest-driven build to fall back to.
func (c *Config) Platform() (platform.Platform, error) {
	if c.Target != "" {
		p := platform.FromTargetTriple(c.Target)
		if p == nil {
			return nil, fmt.Errorf("no known platform for target triple %q", c.Target)
		}
		return p, nil
	}
	p := platform.FromCurrentTriple()
	if p == nil {
		return nil, fmt.Errorf("no known platform for the current target triple; set target in the manifest")
	}
	return p, nil
}

// Apply maps every decoded setting onto the build.
func (c *Config) Apply(b *luabuild.Build) *luabuild.Build {
	if c.Host != "" {
		b.Host(c.Host)
	}
	if c.OutDir != "" {
		b.OutDir(c.OutDir)
	}
	if c.OptLevel != nil {
		b.OptLevel(uint(*c.OptLevel))
	}
	b.DebugInfo(c.DebugInfo)
	for _, dir := range c.Includes {
		b.Include(dir)
	}
	if f := c.Features; f != nil {
		if f.CompatLua53 {
			b.CompatLua53()
		}
		if f.CompatMathLib {
			b.CompatMathLib()
		}
		if f.CompatLtLe {
			b.CompatLtLe()
		}
		if f.APIChecks {
			b.APIChecks()
		}
		if f.LuaLibPath != "" {
			b.LuaLibPath(f.LuaLibPath)
		}
		if f.LuaCLibPath != "" {
			b.LuaCLibPath(f.LuaCLibPath)
		}
		if f.DirSeparator != "" {
			b.DirSeparator(f.DirSeparator)
		}
		if f.UnicodeIdentifiers {
			b.UnicodeIdentifiers()
		}
	}
	if c.Conf != nil {
		b.Conf(&luabuild.LuaConf{
			NoNumberToString: c.Conf.NoNumberToString,
			NoStringToNumber: c.Conf.NoStringToNumber,
			ExtraSpace:       c.Conf.ExtraSpace,
			IDSize:           c.Conf.IDSize,
		})
	}
	return b
}

// OutputName returns the library name to produce, defaulting to "lua".
func (c *Config) OutputName() string {
	if c.Output != "" {
		return c.Output
	}
	return "lua"
}
