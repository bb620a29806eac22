package engine

import (
	"log/slog"

	"github.com/Amanthuul/spellactivationoverlay/internal/protocol"
)

// Dispatcher routes game-state events onto buckets. It is the single
// place that decides what happens to updates for spells with no bucket:
// they are dropped with a debug log line, never buffered.
type Dispatcher struct {
	reg *Registry
	log *slog.Logger

	inCombat bool
}

func NewDispatcher(reg *Registry, log *slog.Logger) *Dispatcher {
	return &Dispatcher{reg: reg, log: log}
}

func (d *Dispatcher) InCombat() bool { return d.inCombat }

// Apply runs one event to completion on the caller's thread. The
// returned code is empty on success or one of the protocol error codes
// when the event was dropped or degraded.
func (d *Dispatcher) Apply(ev protocol.EventMsg) string {
	switch ev.Kind {
	case protocol.EventAura:
		b, ok := d.reg.GetBySpellOrName(ev.SpellID, ev.SpellName)
		if !ok {
			d.dropUnknown(ev)
			return protocol.ErrUnknownSpell
		}
		// Legacy version: the aura event is the first time the numeric
		// id is known for a name-declared bucket.
		if _, byID := d.reg.GetBySpellID(ev.SpellID); !byID {
			d.reg.LinkSpellID(ev.SpellID, b)
		}
		b.SetAuraStacks(ev.Stacks)
	case protocol.EventUsable:
		b, ok := d.reg.GetBySpellOrName(ev.SpellID, ev.SpellName)
		if !ok {
			d.dropUnknown(ev)
			return protocol.ErrUnknownSpell
		}
		b.SetActionUsable(ev.Enabled)
	case protocol.EventTalent:
		b, ok := d.reg.GetBySpellOrName(ev.SpellID, ev.SpellName)
		if !ok {
			d.dropUnknown(ev)
			return protocol.ErrUnknownSpell
		}
		b.SetTalented(ev.Enabled)
	case protocol.EventResource:
		// The resource is a property of the player, not of one spell:
		// broadcast to every bucket that tracks it.
		for _, b := range d.reg.Buckets() {
			if b.Gate.Required(DimResource) {
				b.SetResource(ev.Count)
			}
		}
	case protocol.EventCombat:
		if d.inCombat == ev.InCombat {
			return ""
		}
		d.inCombat = ev.InCombat
		for _, b := range d.reg.Buckets() {
			if b.CombatOnly {
				b.Refresh()
			}
		}
	default:
		d.log.Warn("unknown event kind", "kind", ev.Kind)
		return protocol.ErrProtoBadRequest
	}
	return ""
}

func (d *Dispatcher) dropUnknown(ev protocol.EventMsg) {
	d.log.Debug("event for untracked spell dropped",
		"kind", ev.Kind, "spell_id", ev.SpellID, "spell_name", ev.SpellName)
}
