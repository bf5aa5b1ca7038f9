package luabuild

// LuaConf carries additional Lua configuration that cannot be expressed as
// plain command-line defines, because luaconf.h assigns the corresponding
// LUA_* macros unconditionally.
//
// A stock Lua source distribution cannot react to these settings. The
// bundled tree's luaconf.h must contain, preferably in its local
// configuration section, a guarded definition for each field, e.g.:
//
//	#if defined(LUNKA_NOCVTS2N)
//	#define LUA_NOCVTS2N
//	#endif
//
//	#if defined(LUNKA_EXTRASPACE)
//	#define LUA_EXTRASPACE LUNKA_EXTRASPACE
//	#endif
type LuaConf struct {
	// NoNumberToString disables automatic coercion from numbers to
	// strings. Corresponds to LUNKA_NOCVTN2S for LUA_NOCVTN2S.
	NoNumberToString bool

	// NoStringToNumber disables automatic coercion from strings to
	// numbers. Corresponds to LUNKA_NOCVTS2N for LUA_NOCVTS2N.
	NoStringToNumber bool

	// ExtraSpace is the size of the raw memory area associated with a Lua
	// state with very fast access, as a literal C expression ("" leaves
	// the default). Corresponds to LUNKA_EXTRASPACE for LUA_EXTRASPACE.
	ExtraSpace string

	// IDSize is the maximum size for the description of the source of a
	// function in debug information, as a literal C expression ("" leaves
	// the default). Corresponds to LUNKA_IDSIZE for LUA_IDSIZE.
	IDSize string
}

// Conf applies a LuaConf to this build. Each field is independent: unset
// fields add nothing.
func (b *Build) Conf(conf *LuaConf) *Build {
	if conf.NoNumberToString {
		b.DefineFlag("LUNKA_NOCVTN2S")
	}
	if conf.NoStringToNumber {
		b.DefineFlag("LUNKA_NOCVTS2N")
	}
	if conf.ExtraSpace != "" {
		b.DefineLiteral("LUNKA_EXTRASPACE", conf.ExtraSpace)
	}
	if conf.IDSize != "" {
		b.DefineLiteral("LUNKA_IDSIZE", conf.IDSize)
	}
	return b
}
