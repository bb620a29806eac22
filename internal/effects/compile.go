package effects

import (
	"fmt"

	"github.com/Amanthuul/spellactivationoverlay/internal/engine"
)

// Effect classes.
const (
	ClassAura               = "aura"
	ClassCounter            = "counter"
	ClassCounterWithOverlay = "counter_with_overlay"
)

var knownPositions = map[string]bool{
	"top": true, "bottom": true, "left": true, "right": true,
	"center": true, "top_left": true, "top_right": true,
	"bottom_left": true, "bottom_right": true,
}

// Compile validates and normalizes one declaration for one game
// version. It has no side effects; registration happens in the
// compiler once the whole record is known good.
func Compile(d Declaration, version GameVersion) (*Native, error) {
	fail := func(field, msg string, args ...any) (*Native, error) {
		return nil, &ValidationError{Effect: d.Name, Field: field, Msg: fmt.Sprintf(msg, args...)}
	}

	if d.Name == "" {
		return fail("name", "must not be empty")
	}
	declared, err := ParseVersions(d.Versions)
	if err != nil {
		return fail("versions", "%v", err)
	}
	if declared == 0 {
		return fail("versions", "must name at least one game version")
	}
	if d.SpellID <= 0 && len(d.Links) == 0 {
		// The legacy version may declare by display name alone; the
		// numeric id is linked later from the first aura event.
		if version != VersionEra {
			return fail("spell_id", "must be a positive spell id")
		}
		if d.SpellName == "" {
			return fail("spell_name", "required when no spell id is resolvable")
		}
	}
	if d.TalentID < 0 {
		return fail("talent", "must be a positive talent id")
	}

	var triggers TriggerSet
	for name, on := range d.Triggers {
		dim, ok := triggerNames[name]
		if !ok {
			return fail("triggers", "unknown trigger %q", name)
		}
		if on {
			triggers.add(dim)
		}
	}
	if triggers.empty() {
		return fail("triggers", "must enable at least one trigger dimension")
	}

	switch d.Class {
	case ClassAura, ClassCounter, ClassCounterWithOverlay:
	default:
		return fail("class", "unknown class %q", d.Class)
	}

	n := &Native{
		Name:       d.Name,
		Versions:   declared,
		SpellID:    d.SpellID,
		SpellName:  d.SpellName,
		TalentID:   d.TalentID,
		Triggers:   triggers,
		Counter:    d.Class == ClassCounter || d.Class == ClassCounterWithOverlay,
		CombatOnly: d.CombatOnly,
		Minor:      d.Minor,
	}

	overlayDefault := selectBlock(d.Overlay, version)
	overlayItems, err := flattenItems(d.Overlays, version)
	if err != nil {
		return fail("overlays", "%v", err)
	}
	if len(overlayItems) == 0 && overlayDefault != nil {
		overlayItems = []map[string]any{{}}
	}
	for i, item := range overlayItems {
		def, verr := compileOverlay(d.Name, i, overlayDefault, item, triggers)
		if verr != nil {
			return nil, verr
		}
		n.Overlays = append(n.Overlays, def)
	}

	buttonDefault := selectBlock(d.Button, version)
	buttonItems, err := flattenItems(d.Buttons, version)
	if err != nil {
		return fail("buttons", "%v", err)
	}
	if len(buttonItems) == 0 && buttonDefault != nil {
		buttonItems = []map[string]any{{}}
	}
	for i, item := range buttonItems {
		def, verr := compileButton(d.Name, i, buttonDefault, item, triggers, d.SpellID)
		if verr != nil {
			return nil, verr
		}
		n.Buttons = append(n.Buttons, def)
	}

	if d.Class == ClassCounter && len(n.Buttons) == 0 {
		return fail("buttons", "counter effects must declare at least one button")
	}
	if d.Class != ClassCounter && len(n.Overlays) == 0 {
		return fail("overlays", "non-counter effects must declare at least one overlay")
	}

	if err := checkStackPolarity(d.Name, n); err != nil {
		return nil, err
	}
	return n, nil
}

// checkStackPolarity enforces uniform trigger intent: an effect keyed
// on exact positive counts may not also key on "any" (0) or "absent"
// (-1) — those would fight over the same wildcard machinery.
func checkStackPolarity(name string, n *Native) error {
	if !n.Triggers.Has(engine.DimAuraStacks) {
		return nil
	}
	var hasPositive, hasZero, hasNegative bool
	note := func(s int) {
		switch {
		case s > 0:
			hasPositive = true
		case s == 0:
			hasZero = true
		default:
			hasNegative = true
		}
	}
	for _, o := range n.Overlays {
		note(o.Cond.Stacks)
	}
	for _, b := range n.Buttons {
		note(b.Cond.Stacks)
	}
	if hasPositive && (hasZero || hasNegative) {
		return &ValidationError{Effect: name, Field: "stacks",
			Msg: "exact positive stack counts cannot mix with 0 (any) or -1 (absent) in one effect"}
	}
	return nil
}

func compileOverlay(effect string, idx int, def, item map[string]any, triggers TriggerSet) (OverlayDef, *ValidationError) {
	var out OverlayDef
	field := func(f string) string { return fmt.Sprintf("overlays[%d].%s", idx, f) }
	fail := func(f, msg string, args ...any) (OverlayDef, *ValidationError) {
		return out, &ValidationError{Effect: effect, Field: field(f), Msg: fmt.Sprintf(msg, args...)}
	}

	texture, ok := resolveString(def, item, "texture")
	if !ok || texture == "" {
		return fail("texture", "must be a non-empty string")
	}
	position, ok := resolveString(def, item, "position")
	if !ok {
		position = "center"
	}
	if !knownPositions[position] {
		return fail("position", "unknown position %q", position)
	}
	scale, ok := resolveFloat(def, item, "scale")
	if !ok {
		scale = 1.0
	}
	if scale <= 0 || scale > 10 {
		return fail("scale", "must be in (0, 10], got %v", scale)
	}
	color, ok, err := resolveColor(def, item, "color")
	if err != nil {
		return fail("color", "%v", err)
	}
	if !ok {
		color = [3]uint8{255, 255, 255}
	}
	pulse, ok := resolveBool(def, item, "pulse")
	if !ok {
		pulse = true
	}

	cond, verr := resolveConditions(effect, field(""), def, item, triggers)
	if verr != nil {
		return out, verr
	}

	out = OverlayDef{
		Ref: engine.OverlayRef{
			Texture:  texture,
			Position: position,
			Scale:    scale,
			Color:    color,
			Pulse:    pulse,
		},
		Cond: cond,
	}
	return out, nil
}

func compileButton(effect string, idx int, def, item map[string]any, triggers TriggerSet, fallbackSpell int32) (ButtonDef, *ValidationError) {
	var out ButtonDef
	fail := func(f, msg string, args ...any) (ButtonDef, *ValidationError) {
		return out, &ValidationError{Effect: effect,
			Field: fmt.Sprintf("buttons[%d].%s", idx, f), Msg: fmt.Sprintf(msg, args...)}
	}

	spell, ok := resolveInt(def, item, "spell_id")
	if !ok {
		spell = int(fallbackSpell)
	}
	if spell <= 0 {
		return fail("spell_id", "must be a positive spell id")
	}

	cond, verr := resolveConditions(effect, fmt.Sprintf("buttons[%d]", idx), def, item, triggers)
	if verr != nil {
		return out, verr
	}

	out = ButtonDef{Ref: engine.ButtonRef{SpellID: int32(spell)}, Cond: cond}
	return out, nil
}

// resolveConditions derives the item's dimension values: item override,
// then the default block, then the dimension's own global default.
func resolveConditions(effect, field string, def, item map[string]any, triggers TriggerSet) (Conditions, *ValidationError) {
	cond := defaultConditions()

	if triggers.Has(engine.DimAuraStacks) {
		if v, ok := resolveInt(def, item, "stacks"); ok {
			if v < engine.MinStacks || v > engine.MaxStacks {
				return cond, &ValidationError{Effect: effect, Field: field + "stacks",
					Msg: fmt.Sprintf("stack count %d out of range [%d, %d]", v, engine.MinStacks, engine.MaxStacks)}
			}
			cond.Stacks = v
		}
	}
	if triggers.Has(engine.DimActionUsable) {
		if v, ok := resolveBool(def, item, "usable"); ok {
			cond.Usable = v
		}
	}
	if triggers.Has(engine.DimTalented) {
		if v, ok := resolveBool(def, item, "talented"); ok {
			cond.Talented = v
		}
	}
	if triggers.Has(engine.DimResource) {
		if v, ok := resolveInt(def, item, "resource"); ok {
			if v < 0 || v > engine.MaxResource {
				return cond, &ValidationError{Effect: effect, Field: field + "resource",
					Msg: fmt.Sprintf("resource count %d out of range [0, %d]", v, engine.MaxResource)}
			}
			cond.Resource = v
		}
	}
	return cond, nil
}

// resolve* apply the three-valued override semantics for one property
// and coerce the effective value.

func resolveRaw(def, item map[string]any, key string) (any, bool) {
	var dv any
	if def != nil {
		dv = def[key]
	}
	iv, present := item[key]
	return Merge(dv, ParseOverride(iv, present))
}

func resolveString(def, item map[string]any, key string) (string, bool) {
	v, on := resolveRaw(def, item, key)
	if !on {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func resolveBool(def, item map[string]any, key string) (bool, bool) {
	v, on := resolveRaw(def, item, key)
	if !on {
		// Disabled is a definite "false", distinct from unset.
		if _, present := item[key]; present {
			return false, true
		}
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func resolveInt(def, item map[string]any, key string) (int, bool) {
	v, on := resolveRaw(def, item, key)
	if !on {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case float64:
		return int(t), true
	}
	return 0, false
}

func resolveFloat(def, item map[string]any, key string) (float64, bool) {
	v, on := resolveRaw(def, item, key)
	if !on {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	return 0, false
}

func resolveColor(def, item map[string]any, key string) ([3]uint8, bool, error) {
	var c [3]uint8
	v, on := resolveRaw(def, item, key)
	if !on {
		return c, false, nil
	}
	list, ok := v.([]any)
	if !ok || len(list) != 3 {
		return c, false, fmt.Errorf("must be a [r, g, b] triple")
	}
	for i, e := range list {
		n, ok := e.(int)
		if !ok || n < 0 || n > 255 {
			return c, false, fmt.Errorf("component %d must be an integer in [0, 255]", i)
		}
		c[i] = uint8(n)
	}
	return c, true, nil
}
