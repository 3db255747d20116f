// FILE: lixenwraith/cascade/decode.go
package cascade

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Decode materializes the fully resolved view of this config (every
// defined name, cascaded and defaulted) and decodes it into target,
// which must be a non-nil pointer. Cascading sub-views are flattened.
// Field mapping uses `yaml` struct tags, matching the scope file format.
func (c *Config) Decode(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode target must be non-nil pointer, got %T", target)
	}

	resolved := make(map[string]any)
	for _, name := range c.DefinedNames() {
		val, err := c.Read(name)
		if err != nil {
			continue // absent and no default
		}
		resolved[name] = materialize(val)
	}

	return decodeMap(resolved, target)
}

// DecodeKey resolves a single name and decodes its mapping value into
// target. The value must resolve to a mapping or a cascading sub-view.
func (c *Config) DecodeKey(name string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode target must be non-nil pointer, got %T", target)
	}

	val, err := c.Read(name)
	if err != nil {
		return err
	}

	section, ok := materialize(val).(map[string]any)
	if !ok {
		return fmt.Errorf("key %q refers to non-map value (type %T)", name, val)
	}
	return decodeMap(section, target)
}

// materialize flattens cascading sub-views into plain maps for decoding.
func materialize(val any) any {
	if view, ok := val.(*Proxy); ok {
		return view.Flatten()
	}
	return val
}

func decodeMap(section map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(section); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	return nil
}
