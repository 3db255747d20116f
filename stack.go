// File: lixenwraith/cascade/stack.go
package cascade

import (
	"fmt"
	"log/slog"
	"os"
)

// Level identifies one layer of the configuration hierarchy.
type Level int

const (
	// LevelUnknown guards against misconfiguration so call sites can
	// detect missing level metadata.
	LevelUnknown Level = iota
	// LevelSystem is the system-wide root scope.
	LevelSystem
	// LevelRunner is a runner integration's scope, parented by system.
	LevelRunner
	// LevelGame is a persisted game's scope, parented by its runner.
	LevelGame
	// LevelTemp is a not-yet-persisted game scope, parented by its runner.
	LevelTemp
)

func (l Level) String() string {
	switch l {
	case LevelSystem:
		return "system"
	case LevelRunner:
		return "runner"
	case LevelGame:
		return "game"
	case LevelTemp:
		return "temp"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string representation into the corresponding
// Level. Returns LevelUnknown for unrecognised values.
func ParseLevel(value string) Level {
	switch value {
	case "system", "SYSTEM":
		return LevelSystem
	case "runner", "RUNNER":
		return LevelRunner
	case "game", "GAME":
		return LevelGame
	case "temp", "TEMP":
		return LevelTemp
	default:
		return LevelUnknown
	}
}

// Stack is the assembled scope chain for one runner and game: System as
// the root, Runner parented by System, and Game (or a temporary,
// memory-only game level) parented by Runner. The stack exposes
// level-addressed accessors and delegates persistence to the active
// level.
type Stack struct {
	level      Level
	runnerSlug string
	gameID     string

	system *FileConfig
	runner *FileConfig
	game   *FileConfig
	temp   *Config

	paths  Paths
	logger *slog.Logger
}

// Level returns the stack's target level.
func (s *Stack) Level() Level {
	return s.level
}

// RunnerSlug returns the runner identifier, empty at system level.
func (s *Stack) RunnerSlug() string {
	return s.runnerSlug
}

// GameID returns the game config id: empty below game level, TempID
// until a temporary game is promoted.
func (s *Stack) GameID() string {
	return s.gameID
}

// System returns the system level, present in every stack.
func (s *Stack) System() *FileConfig {
	return s.system
}

// Runner returns the runner level, nil in a system-only stack.
func (s *Stack) Runner() *FileConfig {
	return s.runner
}

// Game returns the persisted game level, nil below game level and while
// the game is still temporary.
func (s *Stack) Game() *FileConfig {
	return s.game
}

// Active returns the config of the stack's target level. All reads and
// writes for "the current scope" go through it.
func (s *Stack) Active() *Config {
	switch s.level {
	case LevelRunner:
		return s.runner.Config
	case LevelGame:
		return s.game.Config
	case LevelTemp:
		return s.temp
	default:
		return s.system.Config
	}
}

// levelConfig resolves an explicitly addressed level.
func (s *Stack) levelConfig(level Level) (*Config, error) {
	switch level {
	case LevelSystem:
		return s.system.Config, nil
	case LevelRunner:
		if s.runner == nil {
			return nil, fmt.Errorf("stack has no runner level")
		}
		return s.runner.Config, nil
	case LevelGame:
		if s.game == nil {
			return nil, fmt.Errorf("stack has no game level")
		}
		return s.game.Config, nil
	case LevelTemp:
		if s.temp == nil {
			return nil, fmt.Errorf("stack has no temporary game level")
		}
		return s.temp, nil
	default:
		return nil, fmt.Errorf("invalid level %q", level)
	}
}

// Defaults returns the merged name-to-default table for level.
func (s *Stack) Defaults(level Level) (map[string]any, error) {
	c, err := s.levelConfig(level)
	if err != nil {
		return nil, err
	}
	return c.Defaults(), nil
}

// Definitions returns every option recognized at level, in catalog-chain
// declaration order. Used by listing and UI code.
func (s *Stack) Definitions(level Level) ([]Option, error) {
	c, err := s.levelConfig(level)
	if err != nil {
		return nil, err
	}
	names := c.DefinedNames()
	options := make([]Option, 0, len(names))
	for _, name := range names {
		if opt, ok := c.Definition(name); ok {
			options = append(options, opt)
		}
	}
	return options, nil
}

// ConfigPath returns the backing file path for level, empty for levels
// without a persisted identity.
func (s *Stack) ConfigPath(level Level) string {
	switch level {
	case LevelSystem:
		return s.system.Path()
	case LevelRunner:
		if s.runner != nil {
			return s.runner.Path()
		}
	case LevelGame:
		if s.game != nil {
			return s.game.Path()
		}
	}
	return ""
}

// AssignGameID promotes the temporary game level into a permanently
// identified one. The new game level inherits the temporary level's
// local store, catalog, and parent; the file is written on the next
// Save. Promotion is one-way and one-time: calling this on a stack that
// already has a permanent id returns ErrIdentifierAssigned.
func (s *Stack) AssignGameID(configID string) error {
	if configID == "" || configID == TempID {
		return fmt.Errorf("invalid game config id %q", configID)
	}
	if s.level != LevelTemp || s.temp == nil {
		return fmt.Errorf("%w: %q", ErrIdentifierAssigned, s.gameID)
	}

	s.game = newFileConfigFromData(s.temp.catalog, s.paths.Game(configID), s.temp.data, s.temp.parent)
	s.temp = nil
	s.gameID = configID
	s.level = LevelGame
	s.logger.Debug("assigned game config id", "id", configID, "path", s.game.Path())
	return nil
}

// Save persists the active level's local store. A temporary game level
// has no backing file and returns ErrNoBackingFile.
func (s *Stack) Save() error {
	switch s.level {
	case LevelRunner:
		return s.runner.Save()
	case LevelGame:
		return s.game.Save()
	case LevelTemp:
		return fmt.Errorf("%w: temporary game config", ErrNoBackingFile)
	default:
		return s.system.Save()
	}
}

// Remove deletes the game level's backing file, if one exists. It is a
// no-op for stacks without a persisted game level.
func (s *Stack) Remove() error {
	if s.game == nil {
		return nil
	}
	path := s.game.Path()
	if _, err := os.Stat(path); err != nil {
		s.logger.Debug("no config file to remove", "path", path)
		return nil
	}
	if err := s.game.Remove(); err != nil {
		return err
	}
	s.logger.Debug("removed config file", "path", path)
	return nil
}
