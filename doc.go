// File: lixenwraith/cascade/doc.go

// Package cascade provides layered configuration resolution with
// file-backed persistence. An application has nested scopes (system,
// per-runner, per-game, plus a not-yet-persisted temporary scope); each
// scope's settings transparently fall back to the parent's value when
// unset, while local overrides and local deletions never touch the
// parent.
//
// Features:
//   - Ordered, immutable option catalogs with defaults, validators,
//     custom getters, per-read transforms, and cascading sub-dictionaries
//   - One-time cache construction over the catalog chain; reads never
//     re-walk ancestors
//   - One YAML (or TOML/JSON, by extension) file per scope instance,
//     written atomically in catalog order
//   - Scope composition facade assembling System → Runner → Game chains,
//     including one-way promotion of temporary game configs
//   - Typed accessors and mapstructure-based struct decoding of the
//     resolved view
//   - Opt-in fsnotify reload-on-change watching
//   - Expression-compiled validators and transforms (expr-lang)
//
// Quick Start:
//
//	system := cascade.MustCatalog(
//	    cascade.Option{Name: "resolution", Default: "native"},
//	)
//	registry := cascade.NewMapRegistry()
//	registry.Add("wine", runnerOptions, gameOptions)
//
//	stack, err := cascade.NewBuilder().
//	    WithSystemOptions(system).
//	    WithRegistry(registry).
//	    WithPaths(cascade.Paths{Root: dir}).
//	    ForGame("wine", gameID).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, _ := stack.Active().Read("resolution") // cascades to system
//	_ = stack.Active().Write("resolution", "1920x1080")
//	_ = stack.Save()
//
// Concurrency:
// The engine is single-threaded. All operations are blocking
// memory or file accesses with no background work; nothing starts unless
// Watch is explicitly called, and callers needing cross-goroutine access
// must synchronize externally. Scope files carry no lock: one process
// owns a given file at a time, and Reload is the only way to observe
// external changes.
package cascade
