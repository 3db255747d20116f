// File: lixenwraith/cascade/registry.go
package cascade

import "fmt"

// RunnerRegistry supplies the option catalogs a runner integration
// declares: its own runner-scope options and the per-game options it
// exposes. Implementations are external collaborators; MapRegistry is a
// ready-made in-memory one.
type RunnerRegistry interface {
	RunnerOptions(slug string) (*Catalog, error)
	GameOptions(slug string) (*Catalog, error)
}

type runnerCatalogs struct {
	runner *Catalog
	game   *Catalog
}

// MapRegistry is a RunnerRegistry backed by a plain map.
type MapRegistry struct {
	runners map[string]runnerCatalogs
}

// NewMapRegistry returns an empty registry.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{runners: make(map[string]runnerCatalogs)}
}

// Add registers the catalogs for slug, replacing any previous entry.
// Nil catalogs are valid and mean no declared options for that sub-scope.
func (r *MapRegistry) Add(slug string, runnerOptions, gameOptions *Catalog) {
	r.runners[slug] = runnerCatalogs{runner: runnerOptions, game: gameOptions}
}

// RunnerOptions returns the runner-scope catalog for slug.
func (r *MapRegistry) RunnerOptions(slug string) (*Catalog, error) {
	rc, ok := r.runners[slug]
	if !ok {
		return nil, fmt.Errorf("unknown runner %q", slug)
	}
	return rc.runner, nil
}

// GameOptions returns the per-game catalog for slug.
func (r *MapRegistry) GameOptions(slug string) (*Catalog, error) {
	rc, ok := r.runners[slug]
	if !ok {
		return nil, fmt.Errorf("unknown runner %q", slug)
	}
	return rc.game, nil
}
