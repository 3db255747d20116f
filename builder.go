// File: lixenwraith/cascade/builder.go
package cascade

import (
	"fmt"
	"log/slog"
)

// Builder provides a fluent interface for assembling a scope Stack.
// The target level follows from the identifiers supplied: no identifiers
// builds a system-only stack, a runner slug adds the runner level, and a
// game config id (or TempID) adds the game level on top.
type Builder struct {
	registry      RunnerRegistry
	paths         Paths
	systemOptions *Catalog
	logger        *slog.Logger
	runnerSlug    string
	gameID        string
	err           error
}

// NewBuilder creates a new stack builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithRegistry sets the runner registry consulted for runner and game
// option catalogs. Required for any level above system.
func (b *Builder) WithRegistry(registry RunnerRegistry) *Builder {
	b.registry = registry
	return b
}

// WithPaths sets the configuration file layout.
func (b *Builder) WithPaths(paths Paths) *Builder {
	b.paths = paths
	return b
}

// WithSystemOptions sets the system-wide option catalog.
func (b *Builder) WithSystemOptions(catalog *Catalog) *Builder {
	b.systemOptions = catalog
	return b
}

// WithLogger sets the logger used by the stack facade.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// ForRunner targets the runner level for slug.
func (b *Builder) ForRunner(slug string) *Builder {
	if slug == "" {
		b.err = fmt.Errorf("runner slug cannot be empty")
		return b
	}
	b.runnerSlug = slug
	return b
}

// ForGame targets the game level: the config identified by configID,
// parented by slug's runner level. Pass TempID for a game that has not
// been created yet.
func (b *Builder) ForGame(slug, configID string) *Builder {
	if configID == "" {
		b.err = fmt.Errorf("game config id cannot be empty")
		return b
	}
	b.ForRunner(slug)
	b.gameID = configID
	return b
}

// ForTempGame targets a temporary, memory-only game level for slug.
func (b *Builder) ForTempGame(slug string) *Builder {
	return b.ForGame(slug, TempID)
}

// Build assembles the stack, loading each level's backing file. A
// missing file yields an empty level; a malformed one fails the build.
func (b *Builder) Build() (*Stack, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.paths.Root == "" {
		return nil, fmt.Errorf("config paths are required")
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Stack{
		level:      LevelSystem,
		runnerSlug: b.runnerSlug,
		gameID:     b.gameID,
		paths:      b.paths,
		logger:     logger,
	}

	var err error
	s.system, err = NewFileConfig(b.systemOptions, b.paths.System(), nil)
	if err != nil {
		return nil, fmt.Errorf("system level: %w", err)
	}

	if b.runnerSlug == "" {
		return s, nil
	}

	if b.registry == nil {
		return nil, fmt.Errorf("runner registry is required for runner and game levels")
	}
	runnerCatalog, err := b.registry.RunnerOptions(b.runnerSlug)
	if err != nil {
		return nil, fmt.Errorf("runner options for %q: %w", b.runnerSlug, err)
	}
	s.runner, err = NewFileConfig(runnerCatalog, b.paths.Runner(b.runnerSlug), s.system.Config)
	if err != nil {
		return nil, fmt.Errorf("runner level: %w", err)
	}
	s.level = LevelRunner

	if b.gameID == "" {
		return s, nil
	}

	gameCatalog, err := b.registry.GameOptions(b.runnerSlug)
	if err != nil {
		return nil, fmt.Errorf("game options for %q: %w", b.runnerSlug, err)
	}
	if b.gameID == TempID {
		s.temp = NewConfig(gameCatalog, nil, s.runner.Config)
		s.level = LevelTemp
	} else {
		s.game, err = NewFileConfig(gameCatalog, b.paths.Game(b.gameID), s.runner.Config)
		if err != nil {
			return nil, fmt.Errorf("game level: %w", err)
		}
		s.level = LevelGame
	}

	return s, nil
}

// MustBuild is like Build but panics on error. Intended for program
// initialization where a broken config layout is fatal.
func (b *Builder) MustBuild() *Stack {
	s, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("cascade: stack build failed: %v", err))
	}
	return s
}
