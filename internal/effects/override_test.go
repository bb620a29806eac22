package effects

import (
	"reflect"
	"testing"
)

func TestParseOverride(t *testing.T) {
	if o := ParseOverride(nil, false); o.Kind != Inherit {
		t.Fatalf("absent key must inherit")
	}
	if o := ParseOverride(false, true); o.Kind != Disabled {
		t.Fatalf("false must disable")
	}
	if o := ParseOverride(true, true); o.Kind != Enabled {
		t.Fatalf("true must enable")
	}
	if o := ParseOverride(map[string]any{"x": 1}, true); o.Kind != Replace {
		t.Fatalf("table must replace")
	}
	if o := ParseOverride("center", true); o.Kind != Replace {
		t.Fatalf("scalar must replace")
	}
}

func TestMerge(t *testing.T) {
	def := map[string]any{"scale": 1.5, "nested": map[string]any{"a": 1, "b": 2}}

	// Inherit takes the default; a nil default means the property is off.
	if v, on := Merge(def, Override{Kind: Inherit}); !on || !reflect.DeepEqual(v, def) {
		t.Fatalf("inherit = %v, %t", v, on)
	}
	if _, on := Merge(nil, Override{Kind: Inherit}); on {
		t.Fatalf("inherit of nil default must be off")
	}

	if _, on := Merge(def, Override{Kind: Disabled}); on {
		t.Fatalf("disabled must be off regardless of default")
	}

	// Enabled over a table default copies the table; over a scalar it is
	// a bare marker.
	v, on := Merge(def, Override{Kind: Enabled})
	if !on || !reflect.DeepEqual(v, def) {
		t.Fatalf("enabled = %v, %t", v, on)
	}
	if v, on := Merge("thin", Override{Kind: Enabled}); !on || v != true {
		t.Fatalf("enabled over scalar = %v, %t", v, on)
	}

	// Replace deep-merges tables, override winning per key.
	v, on = Merge(def, Override{Kind: Replace, Value: map[string]any{
		"scale":  2.0,
		"nested": map[string]any{"b": 9},
	}})
	if !on {
		t.Fatalf("replace must be on")
	}
	want := map[string]any{"scale": 2.0, "nested": map[string]any{"a": 1, "b": 9}}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("replace = %v, want %v", v, want)
	}

	// Scalar replacement is outright.
	if v, on := Merge(def, Override{Kind: Replace, Value: "left"}); !on || v != "left" {
		t.Fatalf("scalar replace = %v, %t", v, on)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	def := map[string]any{"nested": map[string]any{"a": 1}}
	over := Override{Kind: Replace, Value: map[string]any{"nested": map[string]any{"a": 2}}}
	Merge(def, over)
	if def["nested"].(map[string]any)["a"] != 1 {
		t.Fatalf("default mutated by merge")
	}
	if over.Value.(map[string]any)["nested"].(map[string]any)["a"] != 2 {
		t.Fatalf("override mutated by merge")
	}
}
