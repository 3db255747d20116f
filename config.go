// File: lixenwraith/cascade/config.go
package cascade

import (
	"errors"
	"fmt"
)

// Config binds a local value store to an option Catalog and an optional
// parent Config. Reads resolve through special getters and merged
// defaults; writes pass merged validators and land in the local store
// only.
//
// Resolution caches are built once at construction by walking the
// catalog chain root-first, so a catalog must not change while any
// Config built from it is alive. A Config and every view it materializes
// are owned by a single goroutine; callers sharing one across goroutines
// must synchronize externally.
type Config struct {
	catalog *Catalog
	parent  *Config

	data  map[string]any
	proxy *Proxy

	// Merged caches, child entries shadow ancestor entries of the same name.
	defaults   map[string]any
	validators map[string]ValidateFunc
	getters    map[string]GetterFunc

	// Materialized cascading sub-views, one per key for the life of the
	// config.
	subViews map[string]*Proxy
}

// NewConfig constructs a config over data (allocated if nil) with an
// optional parent. The catalog may be nil for a scope with no declared
// options.
func NewConfig(catalog *Catalog, data map[string]any, parent *Config) *Config {
	if data == nil {
		data = make(map[string]any)
	}
	c := &Config{
		catalog:  catalog,
		parent:   parent,
		data:     data,
		subViews: make(map[string]*Proxy),
	}
	var parentLookup Lookup
	if parent != nil {
		parentLookup = storeLookup{parent}
	}
	c.proxy = NewProxy(data, parentLookup)
	c.buildCaches()
	return c
}

// catalogChain returns every catalog from the root scope down to this
// one, root first, so that merge passes let the more specific level
// shadow the root on name collision.
func (c *Config) catalogChain() []*Catalog {
	if c.parent == nil {
		return []*Catalog{c.catalog}
	}
	return append(c.parent.catalogChain(), c.catalog)
}

// buildCaches runs the one-time merge pass over the catalog chain,
// producing flat lookup tables so reads never re-walk the chain.
func (c *Config) buildCaches() {
	c.defaults = make(map[string]any)
	c.validators = make(map[string]ValidateFunc)
	c.getters = make(map[string]GetterFunc)

	for _, cat := range c.catalogChain() {
		if cat == nil {
			continue
		}
		for _, name := range cat.names {
			opt := cat.index[name]
			if opt.Default != nil {
				c.defaults[name] = opt.Default
			}
			if opt.Validate != nil {
				c.validators[name] = opt.Validate
			}
			switch {
			case opt.Getter != nil:
				c.getters[name] = opt.Getter
			case opt.Cascading:
				c.getters[name] = cascadeGetter
			case opt.Transform != nil:
				transform := opt.Transform
				c.getters[name] = func(cfg *Config, key string) (any, error) {
					return cfg.transformRead(key, transform)
				}
			}
		}
	}
}

// Parent returns the parent config, nil at the root scope.
func (c *Config) Parent() *Config {
	return c.parent
}

// Catalog returns this level's own catalog, excluding ancestors.
func (c *Config) Catalog() *Catalog {
	return c.catalog
}

// Raw returns the local store itself, excluding anything inherited.
// Mutating it bypasses validation; persistence serializes exactly this.
func (c *Config) Raw() map[string]any {
	return c.data
}

// Read resolves name through its special getter if one is registered,
// otherwise through the cascaded store. A miss falls back to the merged
// default; without one, Read returns ErrKeyNotFound.
func (c *Config) Read(name string) (any, error) {
	if getter, ok := c.getters[name]; ok {
		v, err := getter(c, name)
		if err != nil {
			if errors.Is(err, ErrKeyNotFound) {
				if d, ok := c.defaults[name]; ok {
					return d, nil
				}
			}
			return nil, err
		}
		return v, nil
	}
	if v, ok := c.proxy.Get(name); ok {
		return v, nil
	}
	if d, ok := c.defaults[name]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, name)
}

// ReadOr never fails; it returns fallback when Read cannot resolve name.
func (c *Config) ReadOr(name string, fallback any) any {
	v, err := c.Read(name)
	if err != nil {
		return fallback
	}
	return v
}

// ReadRaw resolves name through its special getter if any, but performs
// no default fallback. Used to distinguish an explicitly absent key from
// a defaulted one.
func (c *Config) ReadRaw(name string) (any, error) {
	if getter, ok := c.getters[name]; ok {
		return getter(c, name)
	}
	if v, ok := c.proxy.Get(name); ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, name)
}

// Get implements Lookup with fully resolved reads.
func (c *Config) Get(key string) (any, bool) {
	v, err := c.Read(key)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Contains reports whether key is present in the local store or any
// ancestor store. Defaults never count as presence.
func (c *Config) Contains(key string) bool {
	return c.proxy.Contains(key)
}

// Write stores value for name in the local store. If a validator is
// registered anywhere in the catalog chain and rejects value, Write
// returns ErrValidation and stores nothing.
func (c *Config) Write(name string, value any) error {
	if validate, ok := c.validators[name]; ok && !validate(c, name, value) {
		return fmt.Errorf("%w: key %q", ErrValidation, name)
	}
	c.proxy.Set(name, value)
	return nil
}

// Delete removes name from the local store only. Deleting a key that is
// not locally present returns ErrKeyNotFound, even when an ancestor has
// it. After a successful delete an ancestor value for the same name
// becomes visible again.
func (c *Config) Delete(name string) error {
	if !c.proxy.Delete(name) {
		return fmt.Errorf("%w: %q not in local store", ErrKeyNotFound, name)
	}
	return nil
}

// Merge bulk-updates the local store, overwriting unconditionally.
// Validators are bypassed: this is the trusted load path for persisted
// data.
func (c *Config) Merge(values map[string]any) {
	for k, v := range values {
		c.proxy.Set(k, v)
	}
}

// Replace swaps the entire local store for newData, repointing the proxy
// so descendant chains keep resolving through the new store, and
// repointing every materialized cascading sub-view at the corresponding
// nested map in newData. Exists to support reloading a scope's persisted
// file without reconstructing the chain.
func (c *Config) Replace(newData map[string]any) {
	if newData == nil {
		newData = make(map[string]any)
	}
	c.data = newData
	c.proxy.local = newData
	for key, view := range c.subViews {
		nested, _ := newData[key].(map[string]any)
		if nested == nil {
			nested = make(map[string]any)
			newData[key] = nested
		}
		view.local = nested
	}
}

// SubView returns the cascading view of name's nested mapping: this
// level's nested map layered over the parent's view of the same name,
// recursively. The nested map is created on first access and the view is
// cached, so there is exactly one materialized view per name for the
// life of the config.
func (c *Config) SubView(name string) *Proxy {
	if view, ok := c.subViews[name]; ok {
		return view
	}
	nested, _ := c.data[name].(map[string]any)
	if nested == nil {
		nested = make(map[string]any)
		c.data[name] = nested
	}
	var parent Lookup
	if c.parent != nil {
		parent = c.parent.SubView(name)
	}
	view := NewProxy(nested, parent)
	c.subViews[name] = view
	return view
}

// cascadeGetter is the built-in getter for options declared Cascading.
func cascadeGetter(c *Config, key string) (any, error) {
	return c.SubView(key), nil
}

// transformRead applies transform to the raw cascaded value of key.
// The result is deliberately not cached: a transform sees the raw value
// currently winning the cascade, which changes across writes, unlike the
// identity-stable cascading sub-views.
func (c *Config) transformRead(key string, transform TransformFunc) (any, error) {
	if raw, ok := c.rawCascade(key); ok {
		return transform(c, key, raw), nil
	}
	if d, ok := c.defaults[key]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
}

// rawCascade walks the store chain without invoking getters, so a value
// stored at an ancestor is transformed once, at the reading level.
func (c *Config) rawCascade(key string) (any, bool) {
	if v, ok := c.data[key]; ok {
		return v, true
	}
	if c.parent != nil {
		return c.parent.rawCascade(key)
	}
	return nil, false
}

// storeLookup exposes a config's raw store chain as a Lookup, with no
// getters and no defaults. A child's proxy delegates misses to this
// rather than to the parent's resolving Read: ancestor getters are
// already merged into the reading level's getter cache, and defaults
// apply exactly once, from the reading level's merged cache, where
// child catalog entries shadow ancestor entries.
type storeLookup struct {
	c *Config
}

func (s storeLookup) Get(key string) (any, bool) {
	return s.c.rawCascade(key)
}

func (s storeLookup) Contains(key string) bool {
	return s.c.proxy.Contains(key)
}

// Defaults returns a copy of the merged name-to-default table for this
// level, ancestors included, child catalogs shadowing parents.
func (c *Config) Defaults() map[string]any {
	out := make(map[string]any, len(c.defaults))
	for k, v := range c.defaults {
		out[k] = v
	}
	return out
}

// DefinedNames returns every option name recognized at this level, in
// catalog-chain declaration order, root catalog first, without
// duplicates.
func (c *Config) DefinedNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, cat := range c.catalogChain() {
		for _, name := range cat.Names() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Definition returns the full declaration for name, searching this
// level's catalog first and then ancestors.
func (c *Config) Definition(name string) (Option, bool) {
	if opt, ok := c.catalog.Lookup(name); ok {
		return opt, true
	}
	if c.parent != nil {
		return c.parent.Definition(name)
	}
	return Option{}, false
}
