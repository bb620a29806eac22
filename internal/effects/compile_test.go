package effects

import (
	"errors"
	"testing"
)

func auraDecl() Declaration {
	return Declaration{
		Name:     "brain_freeze",
		Versions: []string{"wrath"},
		SpellID:  57761,
		Class:    ClassAura,
		Triggers: map[string]bool{"aura": true},
		Overlay:  map[string]any{"texture": "brain_freeze"},
	}
}

func TestCompileDefaults(t *testing.T) {
	n, err := Compile(auraDecl(), VersionWrath)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(n.Overlays) != 1 {
		t.Fatalf("got %d overlays, want 1", len(n.Overlays))
	}
	o := n.Overlays[0]
	if o.Ref.Texture != "brain_freeze" {
		t.Fatalf("texture = %q", o.Ref.Texture)
	}
	if o.Ref.Position != "center" || o.Ref.Scale != 1.0 || !o.Ref.Pulse {
		t.Fatalf("overlay defaults not applied: %+v", o.Ref)
	}
	if o.Ref.Color != [3]uint8{255, 255, 255} {
		t.Fatalf("color default = %v", o.Ref.Color)
	}
	if o.Cond.Stacks != 0 {
		t.Fatalf("stacks default = %d, want 0 (any)", o.Cond.Stacks)
	}
	if !n.Triggers.Has(triggerNames["aura"]) {
		t.Fatalf("aura trigger not set")
	}
}

func TestCompileValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Declaration)
		field  string
	}{
		{"empty name", func(d *Declaration) { d.Name = "" }, "name"},
		{"no versions", func(d *Declaration) { d.Versions = nil }, "versions"},
		{"bad version", func(d *Declaration) { d.Versions = []string{"vanilla"} }, "versions"},
		{"no spell id", func(d *Declaration) { d.SpellID = 0 }, "spell_id"},
		{"negative talent", func(d *Declaration) { d.TalentID = -1 }, "talent"},
		{"unknown trigger", func(d *Declaration) { d.Triggers = map[string]bool{"mana": true} }, "triggers"},
		{"no triggers", func(d *Declaration) { d.Triggers = map[string]bool{"aura": false} }, "triggers"},
		{"unknown class", func(d *Declaration) { d.Class = "beam" }, "class"},
		{"no overlays", func(d *Declaration) { d.Overlay = nil }, "overlays"},
		{"bad position", func(d *Declaration) { d.Overlay["position"] = "middle" }, "overlays[0].position"},
		{"bad scale", func(d *Declaration) { d.Overlay["scale"] = 0.0 }, "overlays[0].scale"},
		{"bad color", func(d *Declaration) { d.Overlay["color"] = []any{1, 2} }, "overlays[0].color"},
	}
	for _, c := range cases {
		d := auraDecl()
		c.mutate(&d)
		_, err := Compile(d, VersionWrath)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: err = %v, want ValidationError", c.name, err)
		}
		if verr.Field != c.field {
			t.Fatalf("%s: field = %q, want %q", c.name, verr.Field, c.field)
		}
	}
}

func TestCompileEraNameOnly(t *testing.T) {
	d := Declaration{
		Name:      "clearcasting",
		Versions:  []string{"era"},
		SpellName: "Clearcasting",
		Class:     ClassAura,
		Triggers:  map[string]bool{"aura": true},
		Overlay:   map[string]any{"texture": "clearcasting"},
	}
	n, err := Compile(d, VersionEra)
	if err != nil {
		t.Fatalf("era name-only declaration must compile: %v", err)
	}
	if n.SpellName != "Clearcasting" {
		t.Fatalf("spell name lost: %q", n.SpellName)
	}

	// Without a display name there is nothing to match events on.
	d.SpellName = ""
	if _, err := Compile(d, VersionEra); err == nil {
		t.Fatalf("era declaration with no id and no name must fail")
	}

	// The same shape is invalid outside the legacy version.
	d.Versions = []string{"wrath"}
	if _, err := Compile(d, VersionWrath); err == nil {
		t.Fatalf("missing spell id must fail outside era")
	}
}

func TestCompileStackPolarity(t *testing.T) {
	d := auraDecl()
	d.Overlays = []any{
		map[string]any{"stacks": 5},
		map[string]any{"stacks": 0},
	}
	if _, err := Compile(d, VersionWrath); err == nil {
		t.Fatalf("positive stacks mixed with 0 must be rejected")
	}

	d = auraDecl()
	d.Overlays = []any{
		map[string]any{"stacks": 3},
		map[string]any{"stacks": 5},
	}
	n, err := Compile(d, VersionWrath)
	if err != nil {
		t.Fatalf("uniform positive stacks must compile: %v", err)
	}
	if n.Overlays[0].Cond.Stacks != 3 || n.Overlays[1].Cond.Stacks != 5 {
		t.Fatalf("item stacks not applied: %+v", n.Overlays)
	}

	// 0 (any) and -1 (absent) may coexist.
	d = auraDecl()
	d.Overlays = []any{
		map[string]any{"stacks": 0},
		map[string]any{"stacks": -1, "texture": "faded"},
	}
	if _, err := Compile(d, VersionWrath); err != nil {
		t.Fatalf("0 and -1 must be allowed together: %v", err)
	}
}

func TestCompileItemOverrides(t *testing.T) {
	d := auraDecl()
	d.Overlay = map[string]any{"texture": "base", "scale": 2.0, "pulse": true}
	d.Overlays = []any{
		map[string]any{},
		map[string]any{"texture": "alt", "pulse": false, "position": "left"},
	}
	n, err := Compile(d, VersionWrath)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	first, second := n.Overlays[0].Ref, n.Overlays[1].Ref
	if first.Texture != "base" || first.Scale != 2.0 || !first.Pulse {
		t.Fatalf("empty item must inherit the default block: %+v", first)
	}
	if second.Texture != "alt" || second.Position != "left" || second.Pulse {
		t.Fatalf("item overrides not applied: %+v", second)
	}
	if second.Scale != 2.0 {
		t.Fatalf("untouched keys must still inherit: %+v", second)
	}
}

func TestCompileVersionIndexedBlocks(t *testing.T) {
	d := auraDecl()
	d.Versions = []string{"era", "wrath"}
	d.Overlay = map[string]any{
		"wrath": map[string]any{"texture": "new_art"},
		"era":   map[string]any{"texture": "old_art"},
	}
	d.SpellName = "Brain Freeze"

	n, err := Compile(d, VersionWrath)
	if err != nil {
		t.Fatalf("Compile wrath: %v", err)
	}
	if n.Overlays[0].Ref.Texture != "new_art" {
		t.Fatalf("wrath block not selected: %q", n.Overlays[0].Ref.Texture)
	}

	n, err = Compile(d, VersionEra)
	if err != nil {
		t.Fatalf("Compile era: %v", err)
	}
	if n.Overlays[0].Ref.Texture != "old_art" {
		t.Fatalf("era block not selected: %q", n.Overlays[0].Ref.Texture)
	}

	// Version-indexed overlays list.
	d = auraDecl()
	d.Overlays = map[string]any{
		"wrath": []any{
			map[string]any{"texture": "one"},
			map[string]any{"texture": "two"},
		},
	}
	d.Overlay = nil
	n, err = Compile(d, VersionWrath)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(n.Overlays) != 2 || n.Overlays[1].Ref.Texture != "two" {
		t.Fatalf("version-indexed list not flattened: %+v", n.Overlays)
	}
}

func TestCompileCounter(t *testing.T) {
	d := Declaration{
		Name:     "riposte",
		Versions: []string{"wrath"},
		SpellID:  14251,
		Class:    ClassCounter,
		Triggers: map[string]bool{"usable": true},
	}
	if _, err := Compile(d, VersionWrath); err == nil {
		t.Fatalf("counter without buttons must fail")
	}

	d.Button = map[string]any{}
	n, err := Compile(d, VersionWrath)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !n.Counter {
		t.Fatalf("counter flag not set")
	}
	if len(n.Buttons) != 1 || n.Buttons[0].Ref.SpellID != 14251 {
		t.Fatalf("button must default to the effect's spell id: %+v", n.Buttons)
	}
	if !n.Buttons[0].Cond.Usable {
		t.Fatalf("usable condition must default to true")
	}
}

func TestCompileConditionDerivation(t *testing.T) {
	d := Declaration{
		Name:     "decimation",
		Versions: []string{"wrath"},
		SpellID:  63167,
		Class:    ClassAura,
		Triggers: map[string]bool{"aura": true, "resource": true},
		Overlay:  map[string]any{"texture": "decimation", "resource": 1},
	}
	n, err := Compile(d, VersionWrath)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	c := n.Overlays[0].Cond
	if c.Resource != 1 {
		t.Fatalf("default block resource not applied: %d", c.Resource)
	}
	if c.Stacks != 0 {
		t.Fatalf("global stack default not applied: %d", c.Stacks)
	}
}
