package effects

// OverrideKind distinguishes the four author intents a per-item
// property override can carry. The declaration format historically let
// authors write nothing, `false`, `true`, or a table; the compiler
// models that as an explicit variant instead of sentinel values.
type OverrideKind uint8

const (
	// Inherit: the key is absent from the item; the default applies.
	Inherit OverrideKind = iota
	// Disabled: the author wrote `false`; the property is off no matter
	// what the default says.
	Disabled
	// Enabled: the author wrote `true`; take the default's shape if the
	// default was a table, otherwise a bare enabled marker.
	Enabled
	// Replace: any other value. Tables deep-merge over a table default
	// with the override winning per key; scalars replace outright.
	Replace
)

type Override struct {
	Kind  OverrideKind
	Value any
}

// ParseOverride classifies a raw decoded YAML value. present is false
// when the key did not appear in the item at all.
func ParseOverride(v any, present bool) Override {
	if !present {
		return Override{Kind: Inherit}
	}
	switch t := v.(type) {
	case bool:
		if t {
			return Override{Kind: Enabled}
		}
		return Override{Kind: Disabled}
	default:
		return Override{Kind: Replace, Value: v}
	}
}

// Merge resolves an override against a property default. The second
// result reports whether the property is enabled at all; the first is
// its effective value when enabled. Pure: inputs are not mutated.
func Merge(def any, o Override) (any, bool) {
	switch o.Kind {
	case Inherit:
		return def, def != nil
	case Disabled:
		return nil, false
	case Enabled:
		if m, ok := def.(map[string]any); ok {
			return copyMap(m), true
		}
		return true, true
	case Replace:
		if om, ok := o.Value.(map[string]any); ok {
			if dm, ok := def.(map[string]any); ok {
				return deepMerge(dm, om), true
			}
			return copyMap(om), true
		}
		return o.Value, true
	}
	return nil, false
}

// deepMerge layers override keys over defaults, recursing into nested
// tables. Neither input is mutated.
func deepMerge(def, over map[string]any) map[string]any {
	out := copyMap(def)
	for k, ov := range over {
		if dm, ok := out[k].(map[string]any); ok {
			if om, ok := ov.(map[string]any); ok {
				out[k] = deepMerge(dm, om)
				continue
			}
		}
		out[k] = ov
	}
	return out
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
