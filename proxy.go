// File: lixenwraith/cascade/proxy.go
package cascade

// Lookup is the read side of a layered key-value store. It is implemented
// by *Proxy for plain chained maps and by *Config for fully resolving
// reads through an option catalog.
type Lookup interface {
	// Get returns the value for key, reporting whether it was found.
	Get(key string) (any, bool)

	// Contains reports whether key is present locally or in any ancestor.
	// Defaults do not count as presence.
	Contains(key string) bool
}

// Proxy layers a mutable local store over an optional parent Lookup.
// Reads fall through to the parent when the local store misses; writes
// and deletes only ever touch the local store.
type Proxy struct {
	local  map[string]any
	parent Lookup
}

// NewProxy wraps local (allocated if nil) over parent. A nil parent
// yields a plain single-level store.
func NewProxy(local map[string]any, parent Lookup) *Proxy {
	if local == nil {
		local = make(map[string]any)
	}
	return &Proxy{local: local, parent: parent}
}

// Get returns the local value for key if present, otherwise delegates to
// the parent chain.
func (p *Proxy) Get(key string) (any, bool) {
	if v, ok := p.local[key]; ok {
		return v, true
	}
	if p.parent != nil {
		return p.parent.Get(key)
	}
	return nil, false
}

// Contains reports whether key exists locally or anywhere up the chain.
func (p *Proxy) Contains(key string) bool {
	if _, ok := p.local[key]; ok {
		return true
	}
	return p.parent != nil && p.parent.Contains(key)
}

// GetOr returns the cascaded value for key, or fallback when absent.
func (p *Proxy) GetOr(key string, fallback any) any {
	if v, ok := p.Get(key); ok {
		return v
	}
	return fallback
}

// Set writes key into the local store. The parent is never modified.
func (p *Proxy) Set(key string, value any) {
	p.local[key] = value
}

// Delete removes key from the local store only and reports whether it
// was locally present. A key that exists only in an ancestor is not
// deletable from here; deletion never masks ancestor visibility.
func (p *Proxy) Delete(key string) bool {
	if _, ok := p.local[key]; !ok {
		return false
	}
	delete(p.local, key)
	return true
}

// Flatten materializes the chained view into a single map. Ancestor
// entries are applied first so local entries shadow them. Only *Proxy
// parents can be enumerated; other Lookup parents are skipped.
func (p *Proxy) Flatten() map[string]any {
	var out map[string]any
	if parent, ok := p.parent.(*Proxy); ok {
		out = parent.Flatten()
	} else {
		out = make(map[string]any, len(p.local))
	}
	for k, v := range p.local {
		out[k] = v
	}
	return out
}
