// FILE: lixenwraith/cascade/config_test.go
package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nonNegative(c *Config, key string, value any) bool {
	switch v := value.(type) {
	case int:
		return v >= 0
	case int64:
		return v >= 0
	case float64:
		return v >= 0
	default:
		return false
	}
}

// newTestChain builds a System -> Runner -> Game config chain with the
// catalog shapes the tests exercise.
func newTestChain(t *testing.T) (system, runner, game *Config) {
	t.Helper()

	systemCatalog := MustCatalog(
		Option{Name: "resolution", Default: "native"},
		Option{Name: "speed", Default: 10, Validate: nonNegative},
		Option{Name: "env", Cascading: true},
		Option{Name: "scaled", Transform: func(c *Config, key string, value any) any {
			return value.(int) * 2
		}},
	)
	runnerCatalog := MustCatalog(
		Option{Name: "wine-version", Default: "9.0"},
	)
	gameCatalog := MustCatalog(
		Option{Name: "args"},
	)

	system = NewConfig(systemCatalog, nil, nil)
	runner = NewConfig(runnerCatalog, nil, system)
	game = NewConfig(gameCatalog, nil, runner)
	return system, runner, game
}

// TestCascadeResolution tests read fall-through across the scope chain.
func TestCascadeResolution(t *testing.T) {
	t.Run("SystemDefaultVisibleAtGameLevel", func(t *testing.T) {
		system, _, game := newTestChain(t)

		v, err := game.Read("resolution")
		require.NoError(t, err)
		assert.Equal(t, "native", v)

		sv, err := system.Read("resolution")
		require.NoError(t, err)
		assert.Equal(t, sv, v)
	})

	t.Run("LocalOverrideShadowsAncestors", func(t *testing.T) {
		system, _, game := newTestChain(t)

		require.NoError(t, game.Write("resolution", "1920x1080"))
		v, err := game.Read("resolution")
		require.NoError(t, err)
		assert.Equal(t, "1920x1080", v)

		// The system level is untouched.
		sv, err := system.Read("resolution")
		require.NoError(t, err)
		assert.Equal(t, "native", sv)
	})

	t.Run("IntermediateLevelWins", func(t *testing.T) {
		_, runner, game := newTestChain(t)

		require.NoError(t, runner.Write("resolution", "800x600"))
		v, err := game.Read("resolution")
		require.NoError(t, err)
		assert.Equal(t, "800x600", v)
	})

	t.Run("MissWithoutDefault", func(t *testing.T) {
		_, _, game := newTestChain(t)

		_, err := game.Read("args")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrKeyNotFound)

		_, err = game.Read("never-declared")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("ReadOrNeverFails", func(t *testing.T) {
		_, _, game := newTestChain(t)
		assert.Equal(t, "-windowed", game.ReadOr("args", "-windowed"))
		assert.Equal(t, "native", game.ReadOr("resolution", "ignored"))
	})

	t.Run("ReadRawSkipsDefaults", func(t *testing.T) {
		_, _, game := newTestChain(t)

		_, err := game.ReadRaw("resolution")
		assert.ErrorIs(t, err, ErrKeyNotFound)

		require.NoError(t, game.Write("resolution", "1024x768"))
		v, err := game.ReadRaw("resolution")
		require.NoError(t, err)
		assert.Equal(t, "1024x768", v)
	})

	t.Run("AncestorDefaultsNeverLeakThroughTheChain", func(t *testing.T) {
		_, _, game := newTestChain(t)

		// "wine-version" is declared at runner level with a default.
		// The game level serves it from its own merged cache; the store
		// chain itself stays empty.
		_, err := game.ReadRaw("wine-version")
		assert.ErrorIs(t, err, ErrKeyNotFound)
		_, err = game.ReadRaw("resolution")
		assert.ErrorIs(t, err, ErrKeyNotFound)

		v, err := game.Read("wine-version")
		require.NoError(t, err)
		assert.Equal(t, "9.0", v)
	})

	t.Run("ContainsExcludesDefaults", func(t *testing.T) {
		_, runner, game := newTestChain(t)

		assert.False(t, game.Contains("resolution"))
		require.NoError(t, runner.Write("resolution", "800x600"))
		assert.True(t, game.Contains("resolution"))
		assert.False(t, runner.Parent().Contains("resolution"))
	})
}

// TestWriteLocality tests that mutation at one level never touches
// ancestor stores.
func TestWriteLocality(t *testing.T) {
	system, runner, game := newTestChain(t)

	require.NoError(t, game.Write("resolution", "1920x1080"))

	assert.Empty(t, system.Raw())
	assert.Empty(t, runner.Raw())
	assert.Equal(t, "1920x1080", game.Raw()["resolution"])
}

// TestDelete tests local-only deletion and cascade re-exposure.
func TestDelete(t *testing.T) {
	t.Run("ReExposesAncestorValue", func(t *testing.T) {
		_, runner, game := newTestChain(t)

		require.NoError(t, runner.Write("resolution", "800x600"))
		require.NoError(t, game.Write("resolution", "1920x1080"))

		require.NoError(t, game.Delete("resolution"))
		v, err := game.Read("resolution")
		require.NoError(t, err)
		assert.Equal(t, "800x600", v)

		// Runner store was not touched by the game-level delete.
		assert.Equal(t, "800x600", runner.Raw()["resolution"])
	})

	t.Run("LocallyAbsentIsAnError", func(t *testing.T) {
		_, runner, game := newTestChain(t)

		require.NoError(t, runner.Write("resolution", "800x600"))
		// Visible through the cascade, but not locally present.
		assert.True(t, game.Contains("resolution"))
		err := game.Delete("resolution")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("FallsBackToDefaultAfterDelete", func(t *testing.T) {
		_, _, game := newTestChain(t)

		require.NoError(t, game.Write("resolution", "1920x1080"))
		require.NoError(t, game.Delete("resolution"))

		v, err := game.Read("resolution")
		require.NoError(t, err)
		assert.Equal(t, "native", v)
	})
}

// TestValidation tests validator inheritance along the catalog chain.
func TestValidation(t *testing.T) {
	t.Run("RejectedWriteStoresNothing", func(t *testing.T) {
		_, _, game := newTestChain(t)

		err := game.Write("speed", -5)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)

		// Pre-write state survives: the default is still served.
		v, err := game.Read("speed")
		require.NoError(t, err)
		assert.Equal(t, 10, v)
		assert.False(t, game.Contains("speed"))
	})

	t.Run("RejectedWriteKeepsPriorValue", func(t *testing.T) {
		_, _, game := newTestChain(t)

		require.NoError(t, game.Write("speed", 33))
		assert.ErrorIs(t, game.Write("speed", -1), ErrValidation)

		v, err := game.Read("speed")
		require.NoError(t, err)
		assert.Equal(t, 33, v)
	})

	t.Run("ValidatorInheritedFromRootCatalog", func(t *testing.T) {
		// "speed" is declared at system level; the game level still
		// enforces its validator.
		_, runner, game := newTestChain(t)
		assert.ErrorIs(t, game.Write("speed", -7), ErrValidation)
		assert.ErrorIs(t, runner.Write("speed", -7), ErrValidation)
	})

	t.Run("MergeBypassesValidation", func(t *testing.T) {
		_, _, game := newTestChain(t)

		game.Merge(map[string]any{"speed": -99, "extra": true})
		v, err := game.Read("speed")
		require.NoError(t, err)
		assert.Equal(t, -99, v)
		assert.Equal(t, true, game.Raw()["extra"])
	})
}

// TestCascadingSubdict tests the built-in cascading sub-dictionary
// getter.
func TestCascadingSubdict(t *testing.T) {
	t.Run("LayersOverParentSubdict", func(t *testing.T) {
		system, _, game := newTestChain(t)

		system.SubView("env").Set("PATH", "/usr/bin")
		system.SubView("env").Set("LANG", "C")

		v, err := game.Read("env")
		require.NoError(t, err)
		view, ok := v.(*Proxy)
		require.True(t, ok)

		path, ok := view.Get("PATH")
		require.True(t, ok)
		assert.Equal(t, "/usr/bin", path)

		view.Set("PATH", "/opt/bin")
		path, _ = view.Get("PATH")
		assert.Equal(t, "/opt/bin", path)

		// The system-level nested map is untouched.
		sysPath, _ := system.SubView("env").Get("PATH")
		assert.Equal(t, "/usr/bin", sysPath)
	})

	t.Run("MaterializedOncePerKey", func(t *testing.T) {
		_, _, game := newTestChain(t)

		first, err := game.Read("env")
		require.NoError(t, err)
		second, err := game.Read("env")
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("NestedMapCreatedOnFirstAccess", func(t *testing.T) {
		system, _, _ := newTestChain(t)

		assert.NotContains(t, system.Raw(), "env")
		system.SubView("env")
		assert.Contains(t, system.Raw(), "env")
	})
}

// TestTransform tests the built-in transform getter.
func TestTransform(t *testing.T) {
	t.Run("AppliedToRawCascadedValue", func(t *testing.T) {
		_, runner, game := newTestChain(t)

		// Stored at runner level, transformed once at the reading level.
		require.NoError(t, runner.Write("scaled", 21))
		v, err := game.Read("scaled")
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("RecomputedEveryRead", func(t *testing.T) {
		_, _, game := newTestChain(t)

		require.NoError(t, game.Write("scaled", 1))
		v, _ := game.Read("scaled")
		assert.Equal(t, 2, v)

		require.NoError(t, game.Write("scaled", 5))
		v, _ = game.Read("scaled")
		assert.Equal(t, 10, v)
	})

	t.Run("AbsentEverywhereIsAMiss", func(t *testing.T) {
		_, _, game := newTestChain(t)
		_, err := game.Read("scaled")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}

// TestCustomGetter tests explicit getter resolution and its default
// fallback on a key-not-found failure.
func TestCustomGetter(t *testing.T) {
	calls := 0
	catalog := MustCatalog(
		Option{
			Name:    "computed",
			Default: "fallback",
			Getter: func(c *Config, key string) (any, error) {
				calls++
				return nil, ErrKeyNotFound
			},
		},
	)
	cfg := NewConfig(catalog, nil, nil)

	v, err := cfg.Read("computed")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)
	assert.Equal(t, 1, calls)

	// ReadRaw performs no default fallback.
	_, err = cfg.ReadRaw("computed")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

// TestReplace tests local store swapping during reloads.
func TestReplace(t *testing.T) {
	t.Run("DescendantsSeeNewStore", func(t *testing.T) {
		_, runner, game := newTestChain(t)

		require.NoError(t, runner.Write("resolution", "800x600"))
		runner.Replace(map[string]any{"resolution": "2560x1440"})

		v, err := game.Read("resolution")
		require.NoError(t, err)
		assert.Equal(t, "2560x1440", v)
	})

	t.Run("CachedSubViewsRepointed", func(t *testing.T) {
		system, _, _ := newTestChain(t)

		view := system.SubView("env")
		view.Set("PATH", "/usr/bin")

		system.Replace(map[string]any{"env": map[string]any{"PATH": "/fresh"}})

		// Same view instance, new backing map.
		assert.Same(t, view, system.SubView("env"))
		path, ok := view.Get("PATH")
		require.True(t, ok)
		assert.Equal(t, "/fresh", path)
	})

	t.Run("NilReplaceYieldsEmptyStore", func(t *testing.T) {
		system, _, _ := newTestChain(t)
		system.Replace(nil)
		assert.Empty(t, system.Raw())
	})
}

// TestIntrospection tests defaults and definition listing.
func TestIntrospection(t *testing.T) {
	t.Run("MergedDefaults", func(t *testing.T) {
		_, runner, game := newTestChain(t)

		defaults := game.Defaults()
		assert.Equal(t, "native", defaults["resolution"])
		assert.Equal(t, "9.0", defaults["wine-version"])
		assert.Equal(t, 10, defaults["speed"])

		// Runner does not see game-only declarations... but sees system's.
		rd := runner.Defaults()
		assert.Equal(t, "native", rd["resolution"])
	})

	t.Run("DefinedNamesRootFirst", func(t *testing.T) {
		_, _, game := newTestChain(t)
		assert.Equal(t,
			[]string{"resolution", "speed", "env", "scaled", "wine-version", "args"},
			game.DefinedNames())
	})

	t.Run("ChildCatalogShadowsParent", func(t *testing.T) {
		parentCat := MustCatalog(Option{Name: "shared", Default: "parent"})
		childCat := MustCatalog(Option{Name: "shared", Default: "child"})
		parent := NewConfig(parentCat, nil, nil)
		child := NewConfig(childCat, nil, parent)

		v, err := child.Read("shared")
		require.NoError(t, err)
		assert.Equal(t, "child", v)

		opt, ok := child.Definition("shared")
		require.True(t, ok)
		assert.Equal(t, "child", opt.Default)

		// The parent still resolves its own default.
		pv, _ := parent.Read("shared")
		assert.Equal(t, "parent", pv)

		// The shadowing default keeps winning further down the chain.
		grandchild := NewConfig(nil, nil, child)
		gv, err := grandchild.Read("shared")
		require.NoError(t, err)
		assert.Equal(t, "child", gv)
	})
}
