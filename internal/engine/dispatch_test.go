package engine

import (
	"testing"

	"github.com/Amanthuul/spellactivationoverlay/internal/protocol"
)

func TestDispatchUnknownSpellDropped(t *testing.T) {
	p := &fakePresenter{}
	r := NewRegistry(p, testLogger())
	d := NewDispatcher(r, testLogger())

	code := d.Apply(protocol.EventMsg{Kind: protocol.EventAura, SpellID: 11111, Stacks: 1})
	if code != protocol.ErrUnknownSpell {
		t.Fatalf("code = %q, want %q", code, protocol.ErrUnknownSpell)
	}
	p.expect(t)
	if len(r.Buckets()) != 0 {
		t.Fatalf("an unknown spell must not create a bucket")
	}
}

func TestDispatchAura(t *testing.T) {
	p := &fakePresenter{}
	r := NewRegistry(p, testLogger())
	d := NewDispatcher(r, testLogger())

	b, _ := r.GetOrCreate("fingers_of_frost", 44544)
	b.Gate.Require(DimAuraStacks)
	b.RegisterDisplay(mustKey(t, map[Dimension]int{DimAuraStacks: 0}), overlayDisplay("frozen_fingers"))

	if code := d.Apply(protocol.EventMsg{Kind: protocol.EventAura, SpellID: 44544, Stacks: 2}); code != "" {
		t.Fatalf("code = %q, want accepted", code)
	}
	p.expect(t, "show_overlay fingers_of_frost frozen_fingers suppress=false")
}

func TestDispatchAuraLinksIDByName(t *testing.T) {
	p := &fakePresenter{}
	r := NewRegistry(p, testLogger())
	d := NewDispatcher(r, testLogger())

	// Declared by name only, the legacy way.
	b, _ := r.GetOrCreate("Clearcasting", 0)
	b.Gate.Require(DimAuraStacks)
	b.RegisterDisplay(mustKey(t, map[Dimension]int{DimAuraStacks: 0}), overlayDisplay("clearcasting"))

	if code := d.Apply(protocol.EventMsg{Kind: protocol.EventAura, SpellID: 12536, SpellName: "Clearcasting", Stacks: 0}); code != "" {
		t.Fatalf("code = %q, want accepted", code)
	}
	// The id learned from the event now resolves without the name.
	if code := d.Apply(protocol.EventMsg{Kind: protocol.EventAura, SpellID: 12536, Stacks: -1}); code != "" {
		t.Fatalf("id learned at event time must resolve, got %q", code)
	}
	p.expect(t,
		"show_overlay Clearcasting clearcasting suppress=false",
		"hide_overlay Clearcasting clearcasting")
}

func TestDispatchUntrackedDimensionIgnored(t *testing.T) {
	p := &fakePresenter{}
	r := NewRegistry(p, testLogger())
	d := NewDispatcher(r, testLogger())

	b, _ := r.GetOrCreate("brain_freeze", 57761)
	b.Gate.Require(DimAuraStacks)
	b.RegisterDisplay(mustKey(t, map[Dimension]int{DimAuraStacks: 0}), overlayDisplay("brain_freeze"))

	d.Apply(protocol.EventMsg{Kind: protocol.EventAura, SpellID: 57761, Stacks: 2})
	p.expect(t, "show_overlay brain_freeze brain_freeze suppress=false")
	p.reset()

	// A usability signal for a spell that only tracks its aura must not
	// touch the key: the overlay stays up.
	d.Apply(protocol.EventMsg{Kind: protocol.EventUsable, SpellID: 57761, Enabled: false})
	d.Apply(protocol.EventMsg{Kind: protocol.EventTalent, SpellID: 57761, Enabled: true})
	p.expect(t)

	// And aura events keep working afterwards.
	d.Apply(protocol.EventMsg{Kind: protocol.EventAura, SpellID: 57761, Stacks: -1})
	p.expect(t, "hide_overlay brain_freeze brain_freeze")
	p.reset()
	d.Apply(protocol.EventMsg{Kind: protocol.EventAura, SpellID: 57761, Stacks: 1})
	p.expect(t, "show_overlay brain_freeze brain_freeze suppress=false")
}

func TestDispatchResourceBroadcast(t *testing.T) {
	p := &fakePresenter{}
	r := NewRegistry(p, testLogger())
	d := NewDispatcher(r, testLogger())

	tracked, _ := r.GetOrCreate("decimation", 63167)
	tracked.Gate.Require(DimResource)
	tracked.RegisterDisplay(mustKey(t, map[Dimension]int{DimResource: 1}), overlayDisplay("decimation"))

	untracked, _ := r.GetOrCreate("brain_freeze", 57761)
	untracked.Gate.Require(DimAuraStacks)
	untracked.RegisterDisplay(mustKey(t, map[Dimension]int{DimAuraStacks: 0}), overlayDisplay("brain_freeze"))

	if code := d.Apply(protocol.EventMsg{Kind: protocol.EventResource, Count: 1}); code != "" {
		t.Fatalf("code = %q, want accepted", code)
	}
	p.expect(t, "show_overlay decimation decimation suppress=false")

	// The bucket that never required the resource stays untouched.
	if _, informed := untracked.CurrentKey(); informed {
		t.Fatalf("resource broadcast must skip buckets that do not track it")
	}
}

func TestDispatchCombatRefresh(t *testing.T) {
	p := &fakePresenter{}
	r := NewRegistry(p, testLogger())
	d := NewDispatcher(r, testLogger())

	b, _ := r.GetOrCreate("riposte", 14251)
	b.CombatOnly = true
	b.Gate.Require(DimActionUsable)
	b.RegisterDisplay(mustKey(t, map[Dimension]int{DimActionUsable: 1}), overlayDisplay("riposte"))

	d.Apply(protocol.EventMsg{Kind: protocol.EventUsable, SpellID: 14251, Enabled: true})
	p.reset()

	d.Apply(protocol.EventMsg{Kind: protocol.EventCombat, InCombat: true})
	p.expect(t, "show_overlay riposte riposte suppress=true")
	if !d.InCombat() {
		t.Fatalf("combat flag not stored")
	}

	// Repeating the same combat state must not redraw.
	p.reset()
	d.Apply(protocol.EventMsg{Kind: protocol.EventCombat, InCombat: true})
	p.expect(t)
}

func TestDispatchUnknownKind(t *testing.T) {
	r := NewRegistry(&fakePresenter{}, testLogger())
	d := NewDispatcher(r, testLogger())
	if code := d.Apply(protocol.EventMsg{Kind: "WEATHER"}); code != protocol.ErrProtoBadRequest {
		t.Fatalf("code = %q, want %q", code, protocol.ErrProtoBadRequest)
	}
}
