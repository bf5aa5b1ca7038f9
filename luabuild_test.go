package luabuild

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/lunka/luabuild/platform"
	"github.com/lunka/luabuild/x/cc"
)

func newTestBuild() *Build {
	return &Build{cc: cc.NewBuild()}
}

// unquoteC interprets a C string literal the way the compiler would, so the
// escaping tests can assert a true round trip.
func unquoteC(t *testing.T, lit string) string {
	t.Helper()
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		t.Fatalf("not a string literal: %q", lit)
	}
	body := lit[1 : len(lit)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' {
			i++
			if i == len(body) {
				t.Fatalf("dangling backslash in literal: %q", lit)
			}
		}
		sb.WriteByte(body[i])
	}
	return sb.String()
}

func lastDefine(t *testing.T, b *Build) cc.Define {
	t.Helper()
	defines := b.cc.Defines()
	if len(defines) == 0 {
		t.Fatal("no defines were added")
	}
	return defines[len(defines)-1]
}

func TestDefineStringEscaping(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{`/usr/share/lua/5.4/?.lua`, `"/usr/share/lua/5.4/?.lua"`},
		{`C:\path"with"quotes`, `"C:\\path\"with\"quotes"`},
		{`\`, `"\\"`},
		{`"`, `"\""`},
		{`\"`, `"\\\""`},
		{``, `""`},
	}
	for _, tt := range tests {
		b := newTestBuild()
		b.DefineString("LUA_PATH_DEFAULT", tt.text)
		d := lastDefine(t, b)
		if d.Value != tt.want {
			t.Errorf("DefineString(%q) value = %s, want %s", tt.text, d.Value, tt.want)
		}
		if got := unquoteC(t, d.Value); got != tt.text {
			t.Errorf("round trip of %q through %s = %q", tt.text, d.Value, got)
		}
	}
}

func TestNamedFeatureDefines(t *testing.T) {
	tests := []struct {
		name   string
		method func(*Build) *Build
		define string
	}{
		{"CompatLua53", (*Build).CompatLua53, "LUA_COMPAT_5_3"},
		{"CompatMathLib", (*Build).CompatMathLib, "LUA_COMPAT_MATH_LIB"},
		{"CompatLtLe", (*Build).CompatLtLe, "LUA_COMPAT_LT_LE"},
		{"APIChecks", (*Build).APIChecks, "LUA_USE_APICHECK"},
		{"UnicodeIdentifiers", (*Build).UnicodeIdentifiers, "LUA_UCID"},
	}
	for _, tt := range tests {
		b := newTestBuild()
		if got := tt.method(b); got != b {
			t.Errorf("%s did not return the receiver", tt.name)
		}
		d := lastDefine(t, b)
		if d.Name != tt.define || d.HasValue {
			t.Errorf("%s added %+v, want flag %s", tt.name, d, tt.define)
		}
	}

	b := newTestBuild()
	b.LuaLibPath("/usr/share/lua/?.lua")
	if d := lastDefine(t, b); d.Name != "LUA_PATH_DEFAULT" || !d.HasValue {
		t.Errorf("LuaLibPath added %+v", d)
	}
	b.LuaCLibPath("/usr/lib/lua/?.so")
	if d := lastDefine(t, b); d.Name != "LUA_CPATH_DEFAULT" || !d.HasValue {
		t.Errorf("LuaCLibPath added %+v", d)
	}
	b.DirSeparator(`\`)
	if d := lastDefine(t, b); d.Name != "LUA_DIRSEP" || d.Value != `"\\"` {
		t.Errorf("DirSeparator added %+v", d)
	}
}

func TestDuplicateFlagsAreKept(t *testing.T) {
	b := newTestBuild()
	b.CompatLua53().CompatLua53()
	count := 0
	for _, d := range b.cc.Defines() {
		if d.Name == "LUA_COMPAT_5_3" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("LUA_COMPAT_5_3 appears %d times, want 2", count)
	}

	// Duplicate defines of the same symbol with no value are harmless to
	// the compiler, so the plan must keep them rather than deduplicate.
	args := b.cc.CompileArgs(cc.Gnu, "a.c", "a.o")
	seen := 0
	for _, a := range args {
		if a == "-DLUA_COMPAT_5_3" {
			seen++
		}
	}
	if seen != 2 {
		t.Errorf("rendered args contain the flag %d times, want 2: %v", seen, args)
	}
}

func TestConfFieldIndependence(t *testing.T) {
	b := newTestBuild()
	b.Conf(&LuaConf{ExtraSpace: "sizeof(void*)"})
	defines := b.cc.Defines()
	if len(defines) != 1 {
		t.Fatalf("Conf with only ExtraSpace added %d defines, want 1: %v", len(defines), defines)
	}
	if defines[0].Name != "LUNKA_EXTRASPACE" || defines[0].Value != "sizeof(void*)" {
		t.Errorf("unexpected define %+v", defines[0])
	}

	b = newTestBuild()
	b.Conf(&LuaConf{})
	if got := b.cc.Defines(); len(got) != 0 {
		t.Errorf("empty Conf added defines: %v", got)
	}

	b = newTestBuild()
	b.Conf(&LuaConf{
		NoNumberToString: true,
		NoStringToNumber: true,
		ExtraSpace:       "8",
		IDSize:           "60",
	})
	var names []string
	for _, d := range b.cc.Defines() {
		names = append(names, d.Name)
	}
	want := []string{"LUNKA_NOCVTN2S", "LUNKA_NOCVTS2N", "LUNKA_EXTRASPACE", "LUNKA_IDSIZE"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("full Conf defines = %v, want %v", names, want)
	}
}

func TestTryAddLuaSrc(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"foo.c", "bar.h", "lua.c", "luac.c"} {
		if err := os.WriteFile(filepath.Join(root, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	b := newTestBuild()
	if _, err := b.TryAddLuaSrc(root); err != nil {
		t.Fatalf("TryAddLuaSrc: %v", err)
	}
	want := []string{filepath.Join(root, "foo.c")}
	if got := b.cc.Files(); !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}
}

func TestTryAddBundledSrc(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "include"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "include", "lua.h"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"lapi.c", "lapi.h", "lauxlib.c"} {
		if err := os.WriteFile(filepath.Join(root, "src", name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	b := newTestBuild()
	if _, err := b.TryAddBundledSrc(root); err != nil {
		t.Fatalf("TryAddBundledSrc: %v", err)
	}

	// Every regular file under src is added, headers included; the tree
	// is trusted.
	files := b.cc.Files()
	if len(files) != 3 {
		t.Fatalf("files = %v, want 3 entries", files)
	}
	for _, f := range files {
		if filepath.Dir(f) != filepath.Join(root, "src") {
			t.Errorf("file outside src was added: %s", f)
		}
	}

	includes := b.cc.IncludeDirs()
	if len(includes) != 1 || includes[0] != filepath.Join(root, "include") {
		t.Errorf("include dirs = %v, want [%s]", includes, filepath.Join(root, "include"))
	}
}

func TestSourceAssemblyErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	b := newTestBuild()
	if _, err := b.TryAddLuaSrc(missing); err == nil {
		t.Error("TryAddLuaSrc on missing dir succeeded")
	}
	if got := b.cc.Files(); len(got) != 0 {
		t.Errorf("failed assembly still added files: %v", got)
	}

	b = newTestBuild()
	if _, err := b.TryAddBundledSrc(missing); err == nil {
		t.Error("TryAddBundledSrc on missing dir succeeded")
	}
	if got := b.cc.IncludeDirs(); len(got) != 0 {
		t.Errorf("failed bundled assembly still registered includes: %v", got)
	}
}

func TestAddLuaSrcPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("AddLuaSrc on missing dir did not panic")
		}
	}()
	newTestBuild().AddLuaSrc(filepath.Join(t.TempDir(), "nope"))
}

func TestFluentSettersReturnReceiver(t *testing.T) {
	b := newTestBuild()
	if b.Host("x86_64-unknown-linux-gnu").OutDir("out").Include("inc").
		Includes("a", "b").DebugInfo(true).OptLevel(2) != b {
		t.Error("a scalar setter did not return the receiver")
	}
	if got := b.cc.IncludeDirs(); !reflect.DeepEqual(got, []string{"inc", "a", "b"}) {
		t.Errorf("include dirs = %v", got)
	}
}

func TestTryNewAppliesPlatform(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a unix shell script standing in for a compiler")
	}
	fake := filepath.Join(t.TempDir(), "gcc")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CC", fake)

	b, err := TryNew(platform.Solaris)
	if err != nil {
		t.Fatalf("TryNew: %v", err)
	}
	if got := b.cc.StdFlag(); got != "gnu99" {
		t.Errorf("std = %q, want gnu99", got)
	}
	if !b.cc.WarningsEnabled() {
		t.Error("warnings not enabled")
	}
	var names []string
	for _, d := range b.cc.Defines() {
		names = append(names, d.Name)
	}
	want := []string{"LUA_USE_POSIX", "LUA_USE_DLOPEN", "_REENTRANT"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("defines = %v, want %v", names, want)
	}
}

func TestTryNewNoCompiler(t *testing.T) {
	t.Setenv("CC", "definitely-not-a-compiler-on-this-machine")
	if _, err := TryNew(platform.Linux); err == nil {
		t.Fatal("TryNew with bogus CC succeeded")
	}
}
