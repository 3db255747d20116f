// File: lixenwraith/cascade/file.go
package cascade

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig is a Config whose local store is persisted to a structured
// text file. File identity is fixed at construction: one file per system
// scope, one per runner slug, one per game config id.
type FileConfig struct {
	*Config
	path    string
	watcher *fileWatcher
}

// NewFileConfig loads path into a new config layered over parent.
// A missing file yields an empty local store, not an error, so freshly
// created scopes start clean. A present-but-unparsable file returns
// ErrMalformedFile.
func NewFileConfig(catalog *Catalog, path string, parent *Config) (*FileConfig, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	return &FileConfig{
		Config: NewConfig(catalog, data, parent),
		path:   path,
	}, nil
}

// newFileConfigFromData binds an already-populated store to path without
// touching the file. Used by promotion, where the temporary level's
// store must survive verbatim.
func newFileConfigFromData(catalog *Catalog, path string, data map[string]any, parent *Config) *FileConfig {
	return &FileConfig{
		Config: NewConfig(catalog, data, parent),
		path:   path,
	}
}

// Path returns the backing file path.
func (f *FileConfig) Path() string {
	return f.path
}

// Reload re-reads the backing file and swaps it in via Replace, so
// descendant chains and materialized sub-views stay correct. This is the
// only way to observe external changes to the file.
func (f *FileConfig) Reload() error {
	data, err := readConfigFile(f.path)
	if err != nil {
		return err
	}
	f.Replace(data)
	return nil
}

// Save serializes the local store only, never resolved or cascaded
// values, using an atomic temp-file write. YAML output is ordered by
// catalog declaration order, with undeclared keys sorted last.
func (f *FileConfig) Save() error {
	out, err := f.encode()
	if err != nil {
		return fmt.Errorf("failed to marshal config for %q: %w", f.path, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary config file: %w", err)
	}
	defer os.Remove(tempFile.Name()) // Clean up temp file if rename fails

	if _, err := tempFile.Write(out); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temp config file '%s': %w", tempFile.Name(), err)
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temp config file '%s': %w", tempFile.Name(), err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp config file '%s': %w", tempFile.Name(), err)
	}

	if err := os.Rename(tempFile.Name(), f.path); err != nil {
		return fmt.Errorf("failed to rename temp file to '%s': %w", f.path, err)
	}

	if err := os.Chmod(f.path, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on config file '%s': %w", f.path, err)
	}

	return nil
}

// Remove deletes the backing file. A missing file is not an error.
func (f *FileConfig) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove config file '%s': %w", f.path, err)
	}
	return nil
}

// saveOrder lists the local store's keys with declared names first, in
// catalog-chain order, then any leftover keys sorted.
func (f *FileConfig) saveOrder() []string {
	seen := make(map[string]bool, len(f.data))
	keys := make([]string, 0, len(f.data))
	for _, name := range f.DefinedNames() {
		if _, ok := f.data[name]; ok {
			seen[name] = true
			keys = append(keys, name)
		}
	}
	extra := make([]string, 0, len(f.data))
	for k := range f.data {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

func (f *FileConfig) encode() ([]byte, error) {
	switch detectFormat(f.path) {
	case formatTOML:
		return toml.Marshal(f.data)
	case formatJSON:
		return json.MarshalIndent(f.data, "", "  ")
	default:
		return encodeOrderedYAML(f.data, f.saveOrder())
	}
}

// encodeOrderedYAML builds an explicit mapping node so output key order
// is deterministic; yaml.Marshal of a plain map would sort keys instead.
func encodeOrderedYAML(data map[string]any, order []string) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range order {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(data[key]); err != nil {
			return nil, fmt.Errorf("cannot encode value for key %q: %w", key, err)
		}
		root.Content = append(root.Content, keyNode, valNode)
	}
	return yaml.Marshal(root)
}

type fileFormat int

const (
	formatYAML fileFormat = iota
	formatTOML
	formatJSON
)

// detectFormat picks the codec from the file extension. YAML is the
// default for unknown extensions.
func detectFormat(path string) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".conf":
		return formatTOML
	case ".json":
		return formatJSON
	default:
		return formatYAML
	}
}

// readConfigFile parses path into a flat mapping. Missing file yields an
// empty mapping; a present file that fails to parse is ErrMalformedFile
// so a broken file is never silently treated as empty and clobbered by
// the next save.
func readConfigFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	data := make(map[string]any)
	switch detectFormat(path) {
	case formatTOML:
		if err := toml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("%w: '%s': %w", ErrMalformedFile, path, err)
		}
	case formatJSON:
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &data); err != nil {
				return nil, fmt.Errorf("%w: '%s': %w", ErrMalformedFile, path, err)
			}
		}
	default:
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("%w: '%s': %w", ErrMalformedFile, path, err)
		}
	}
	if data == nil {
		data = make(map[string]any)
	}
	return data, nil
}
