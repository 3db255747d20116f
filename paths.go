// File: lixenwraith/cascade/paths.go
package cascade

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultExt is the scope file extension used when Paths.Ext is empty.
const DefaultExt = ".yml"

// Paths derives the backing file location for every scope instance:
// a fixed system file, one file per runner slug under runners/, and one
// file per game config id under games/.
type Paths struct {
	// Root is the configuration directory.
	Root string

	// Ext is the scope file extension, including the dot. It selects the
	// on-disk format (.yml/.yaml, .toml, .json). Empty means DefaultExt.
	Ext string
}

// DefaultPaths roots the layout in the user's config directory
// (XDG_CONFIG_HOME on Linux) under appName.
func DefaultPaths(appName string) (Paths, error) {
	if appName == "" {
		return Paths{}, fmt.Errorf("app name cannot be empty")
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("cannot determine user config directory: %w", err)
	}
	return Paths{Root: filepath.Join(base, appName)}, nil
}

func (p Paths) ext() string {
	if p.Ext == "" {
		return DefaultExt
	}
	return p.Ext
}

// System returns the system scope's file path.
func (p Paths) System() string {
	return filepath.Join(p.Root, "system"+p.ext())
}

// Runner returns the file path for a runner scope.
func (p Paths) Runner(slug string) string {
	return filepath.Join(p.Root, "runners", slug+p.ext())
}

// Game returns the file path for a game scope, addressed by config id.
func (p Paths) Game(configID string) string {
	return filepath.Join(p.Root, "games", configID+p.ext())
}

// Ensure creates the configuration directory tree.
func (p Paths) Ensure() error {
	if p.Root == "" {
		return fmt.Errorf("config root cannot be empty")
	}
	for _, dir := range []string{
		p.Root,
		filepath.Join(p.Root, "runners"),
		filepath.Join(p.Root, "games"),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory '%s': %w", dir, err)
		}
	}
	return nil
}
