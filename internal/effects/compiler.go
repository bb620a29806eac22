package effects

import (
	"fmt"
	"log/slog"

	"github.com/Amanthuul/spellactivationoverlay/internal/engine"
)

// MetadataSource resolves spell and talent metadata. Misses are never
// fatal: the effect proceeds without the optional linkage.
type MetadataSource interface {
	SpellName(id int32) (string, bool)
	TalentCoord(id int32) (engine.TalentCoord, bool)
}

// GameState queries the live game for initial dimension values when a
// bucket registers. Each query reports ok=false when the value is not
// yet available, leaving the trigger gate closed for that dimension.
type GameState interface {
	AuraState(spellID int32, name string) (stacks int, ok bool)
	ActionUsable(spellID int32) (usable bool, ok bool)
	TalentRank(talentID int32) (rank int, ok bool)
	ResourceCount() (count int, ok bool)
}

// Compiler turns declarations into live buckets and displays. It has a
// two-state lifecycle: declarations arriving before OnReady queue up
// and drain, in original order, exactly once the readiness signal
// fires. Dimension pushes for a spell whose bucket does not exist yet
// are a no-op; after the drain each bucket is primed from GameState, so
// early state is recovered by query rather than replay.
type Compiler struct {
	version GameVersion
	reg     *engine.Registry
	meta    MetadataSource
	state   GameState // may be nil
	log     *slog.Logger

	ready      bool
	queue      []Declaration
	registered map[string]bool
}

func NewCompiler(version GameVersion, reg *engine.Registry, meta MetadataSource, state GameState, log *slog.Logger) *Compiler {
	return &Compiler{
		version:    version,
		reg:        reg,
		meta:       meta,
		state:      state,
		log:        log,
		registered: map[string]bool{},
	}
}

func (c *Compiler) Ready() bool { return c.ready }

// Declare registers one effect, or queues it when the readiness signal
// has not fired yet. Queued declarations report their outcome through
// the log once drained. A declaration for a version other than the
// running one is skipped silently.
func (c *Compiler) Declare(d Declaration) error {
	if !c.ready {
		c.queue = append(c.queue, d)
		return nil
	}
	return c.register(d)
}

// OnReady flips the one-shot gate and drains the queue in declaration
// order. Failures are logged per declaration and do not stop the drain.
func (c *Compiler) OnReady() {
	if c.ready {
		return
	}
	c.ready = true
	queued := c.queue
	c.queue = nil
	for _, d := range queued {
		if err := c.register(d); err != nil {
			c.log.Error("deferred effect rejected", "effect", d.Name, "error", err)
		}
	}
}

func (c *Compiler) register(d Declaration) error {
	if !d.AppliesTo(c.version) {
		c.log.Debug("effect skipped for this game version", "effect", d.Name)
		return nil
	}

	if len(d.Links) > 0 {
		return c.registerGroup(d)
	}

	n, err := Compile(d, c.version)
	if err != nil {
		c.log.Error("effect rejected", "effect", d.Name, "error", err)
		return err
	}
	c.install(n)
	return nil
}

// registerGroup expands a linked-effect group: every id shares the
// declaration's visuals, the last id is the options-bearing master and
// all others are minor. A master failure aborts the group; minor
// failures are logged and skipped.
func (c *Compiler) registerGroup(d Declaration) error {
	master := d.Links[len(d.Links)-1]

	md := d
	md.Links = nil
	md.SpellID = master
	mn, err := Compile(md, c.version)
	if err != nil {
		c.log.Error("linked group master rejected, group dropped", "effect", d.Name, "error", err)
		return err
	}
	c.install(mn)

	for _, id := range d.Links[:len(d.Links)-1] {
		sd := d
		sd.Links = nil
		sd.SpellID = id
		sd.Name = fmt.Sprintf("%s_%d", d.Name, id)
		sd.Minor = true
		sn, err := Compile(sd, c.version)
		if err != nil {
			c.log.Error("linked group member rejected, skipped", "effect", sd.Name, "error", err)
			continue
		}
		c.install(sn)
	}
	return nil
}

// install creates or overwrites the bucket for a compiled record and
// wires its gate, displays, and talent linkage.
func (c *Compiler) install(n *Native) {
	b, created := c.reg.GetOrCreate(n.Name, n.SpellID)
	if !created {
		if c.registered[n.Name] {
			c.log.Warn("effect re-declared, overwriting", "effect", n.Name)
		}
		b.ResetRegistrations()
	}
	c.registered[n.Name] = true

	b.CombatOnly = n.CombatOnly
	b.Minor = n.Minor

	// On the legacy version events match by spell display name: link
	// the declared name, or the metadata name when the id resolves.
	if c.version == VersionEra {
		if n.SpellName != "" {
			c.reg.LinkName(n.SpellName, b)
		} else if dn, ok := c.meta.SpellName(n.SpellID); ok {
			c.reg.LinkName(dn, b)
		} else {
			c.log.Warn("spell name not found, era name matching unavailable",
				"effect", n.Name, "spell_id", n.SpellID)
		}
	}

	for dim := engine.DimAuraStacks; dim <= engine.DimResource; dim++ {
		if n.Triggers.Has(dim) {
			b.Gate.Require(dim)
		}
	}

	if n.TalentID > 0 {
		if coord, ok := c.meta.TalentCoord(n.TalentID); ok {
			b.SetTalentCoord(coord)
		} else {
			c.log.Warn("talent not found, effect proceeds without linkage",
				"effect", n.Name, "talent", n.TalentID)
		}
	}

	// Overlays and buttons sharing a condition key share one display.
	for _, o := range n.Overlays {
		key := o.Cond.Key(n.Triggers)
		d, ok := b.DisplayFor(key)
		if !ok {
			d = &Display{}
			b.RegisterDisplay(key, d)
		}
		d.Overlays = append(d.Overlays, o.Ref)
	}
	for _, bt := range n.Buttons {
		key := bt.Cond.Key(n.Triggers)
		d, ok := b.DisplayFor(key)
		if !ok {
			d = &Display{}
			b.RegisterDisplay(key, d)
		}
		d.Buttons = append(d.Buttons, bt.Ref)
	}

	b.SyncInformed()
	c.prime(b, n)
}

// Display is re-exported so pack-level callers do not import engine for
// the common case.
type Display = engine.Display

// prime seeds the bucket from the live game state. Unavailable values
// leave their gate dimension uninformed.
func (c *Compiler) prime(b *engine.Bucket, n *Native) {
	if c.state == nil {
		return
	}
	if n.Triggers.Has(engine.DimAuraStacks) {
		if stacks, ok := c.state.AuraState(b.SpellID, b.Name); ok {
			b.SetAuraStacks(stacks)
		}
	}
	if n.Triggers.Has(engine.DimActionUsable) {
		if usable, ok := c.state.ActionUsable(b.SpellID); ok {
			b.SetActionUsable(usable)
		}
	}
	if n.Triggers.Has(engine.DimTalented) {
		if rank, ok := c.state.TalentRank(n.TalentID); ok {
			b.SetTalented(rank > 0)
		}
	}
	if n.Triggers.Has(engine.DimResource) {
		if count, ok := c.state.ResourceCount(); ok {
			b.SetResource(count)
		}
	}
}
