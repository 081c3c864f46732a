package ext

// Binding is a loaded [Language] tagged with who owns it: [EngineOwned]
// descriptors were synthesized by the engine and are released by it,
// [ModuleOwned] descriptors belong to the module.
type Binding interface {
	Language() *Language
	binding()
}

// EngineOwned is a descriptor synthesized by the engine.
type EngineOwned struct{ Lang *Language }

// ModuleOwned is a descriptor supplied by the module.
type ModuleOwned struct{ Lang *Language }

func (b EngineOwned) Language() *Language { return b.Lang }
func (b ModuleOwned) Language() *Language { return b.Lang }

func (EngineOwned) binding() {}
func (ModuleOwned) binding() {}

// Release drops the tables of an engine-owned descriptor. Module-owned
// descriptors are left untouched.
func Release(b Binding) {
	switch b := b.(type) {
	case EngineOwned:
		if b.Lang != nil {
			clear(b.Lang.Simple)
			b.Lang.Simple = nil
			b.Lang.Calls = nil
		}

	case ModuleOwned:
	}
}
