// Package ext defines the contract between the pl2 engine and extension
// modules, and loads modules by id.
//
// A module supplies a [Language]: handler tables, lifecycle hooks and an
// optional fallback. The engine obtains a [Module] from a [Loader] when a
// script runs "language <id> <version>", then calls [Resolve] to bind the
// module's entry point:
//
//	LoadLanguageExtension      func(semver.Version) (*ext.Language, error)
//	EasyLoadLanguageExtension  func() []string
//
// The easy entry point lists command names; each name is bound to the
// module symbol "EL" + name of type func([]string).
//
// Modules come from a [Registry] of statically linked modules or from Go
// plugins found by a [PluginLoader]. [Loaders] chains several loaders.
package ext
