// File: lixenwraith/cascade/catalog.go
package cascade

import "fmt"

// ValidateFunc checks a value before Write stores it. Returning false
// rejects the write with ErrValidation.
type ValidateFunc func(c *Config, key string, value any) bool

// GetterFunc produces the value for a key with custom resolution logic.
// Returning an error that wraps ErrKeyNotFound triggers the default
// fallback in Read.
type GetterFunc func(c *Config, key string) (any, error)

// TransformFunc rewrites the raw cascaded value of a key on every read.
type TransformFunc func(c *Config, key string, value any) any

// Option declares one recognized configuration key for a scope.
// At most one of Getter, Cascading, or Transform may be set; none of
// them means plain storage.
type Option struct {
	// Name is the key, unique within a catalog. Declaration order is
	// significant for iteration and serialization, not for lookup.
	Name string

	// Default is returned by Read when the key misses everywhere in the
	// cascade. A nil Default means no default.
	Default any

	// Validate guards writes at any level that inherits this catalog.
	Validate ValidateFunc

	// Getter replaces the standard cascaded lookup entirely.
	Getter GetterFunc

	// Cascading marks the value as a nested mapping that cascades
	// independently of the containing config.
	Cascading bool

	// Transform rewrites the raw cascaded value on each read.
	Transform TransformFunc
}

// behaviorCount returns how many special behaviors are set.
func (o Option) behaviorCount() int {
	n := 0
	if o.Getter != nil {
		n++
	}
	if o.Cascading {
		n++
	}
	if o.Transform != nil {
		n++
	}
	return n
}

// Catalog is an ordered, immutable table of option declarations for one
// scope type. A catalog must not be modified once any Config has been
// built from it, as resolution caches are computed once and never
// revalidated.
type Catalog struct {
	names []string
	index map[string]Option
}

// NewCatalog builds a catalog from options in declaration order.
// Duplicate names or options with more than one special behavior are
// rejected.
func NewCatalog(options ...Option) (*Catalog, error) {
	c := &Catalog{
		names: make([]string, 0, len(options)),
		index: make(map[string]Option, len(options)),
	}
	for _, opt := range options {
		if opt.Name == "" {
			return nil, fmt.Errorf("option name cannot be empty")
		}
		if _, exists := c.index[opt.Name]; exists {
			return nil, fmt.Errorf("duplicate option name %q", opt.Name)
		}
		if opt.behaviorCount() > 1 {
			return nil, fmt.Errorf("option %q: only one of getter, cascading, transform may be set", opt.Name)
		}
		c.names = append(c.names, opt.Name)
		c.index[opt.Name] = opt
	}
	return c, nil
}

// MustCatalog is like NewCatalog but panics on error. Intended for
// package-level catalog declarations.
func MustCatalog(options ...Option) *Catalog {
	c, err := NewCatalog(options...)
	if err != nil {
		panic(fmt.Sprintf("cascade: invalid catalog: %v", err))
	}
	return c
}

// Names returns the option names in declaration order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Lookup returns the declaration for name.
func (c *Catalog) Lookup(name string) (Option, bool) {
	if c == nil {
		return Option{}, false
	}
	opt, ok := c.index[name]
	return opt, ok
}

// Len returns the number of declared options.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}
