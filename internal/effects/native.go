package effects

import (
	"fmt"

	"github.com/Amanthuul/spellactivationoverlay/internal/engine"
)

// ValidationError aborts one declaration. No partial side effects: a
// declaration either registers completely or not at all.
type ValidationError struct {
	Effect string
	Field  string
	Msg    string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("effect %q: %s", e.Effect, e.Msg)
	}
	return fmt.Sprintf("effect %q: %s: %s", e.Effect, e.Field, e.Msg)
}

// TriggerSet is the set of dimensions an effect expects signals for.
type TriggerSet uint8

func (s TriggerSet) Has(d engine.Dimension) bool { return s&(1<<d) != 0 }

func (s *TriggerSet) add(d engine.Dimension) { *s |= 1 << d }

func (s TriggerSet) empty() bool { return s == 0 }

var triggerNames = map[string]engine.Dimension{
	"aura":     engine.DimAuraStacks,
	"usable":   engine.DimActionUsable,
	"talented": engine.DimTalented,
	"resource": engine.DimResource,
}

// Conditions are the per-item dimension values an overlay or button is
// keyed on. Only the dimensions in the effect's trigger set matter.
type Conditions struct {
	Stacks   int
	Usable   bool
	Talented bool
	Resource int
}

// Global condition defaults, applied when neither the item nor the
// default block names a value.
func defaultConditions() Conditions {
	return Conditions{
		Stacks:   0,
		Usable:   true,
		Talented: true,
		Resource: engine.MaxResource,
	}
}

// Key builds the condition key for one item under the effect's trigger
// set. Values are already validated, so Set cannot fail here.
func (c Conditions) Key(triggers TriggerSet) engine.Key {
	var k engine.Key
	if triggers.Has(engine.DimAuraStacks) {
		_ = k.Set(engine.DimAuraStacks, c.Stacks)
	}
	if triggers.Has(engine.DimActionUsable) {
		_ = k.Set(engine.DimActionUsable, boolToInt(c.Usable))
	}
	if triggers.Has(engine.DimTalented) {
		_ = k.Set(engine.DimTalented, boolToInt(c.Talented))
	}
	if triggers.Has(engine.DimResource) {
		_ = k.Set(engine.DimResource, c.Resource)
	}
	return k
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Native is the compiler's normalized registration record. Immutable
// once registered.
type Native struct {
	Name       string
	Versions   GameVersion
	SpellID    int32
	SpellName  string
	TalentID   int32
	Triggers   TriggerSet
	Overlays   []OverlayDef
	Buttons    []ButtonDef
	Counter    bool
	CombatOnly bool
	Minor      bool
}

type OverlayDef struct {
	Ref  engine.OverlayRef
	Cond Conditions
}

type ButtonDef struct {
	Ref  engine.ButtonRef
	Cond Conditions
}
