package engine

import "log/slog"

// Sentinels for dimension values that have never been pushed. Chosen
// outside every dimension's domain so the first real update always
// differs from the stored value.
const (
	stacksUnset   = int8(-128)
	boolUnset     = int8(-1)
	resourceUnset = int8(-1)
)

// TalentCoord is the talent-tree position resolved for a talent-gated
// effect, cached here for the options layer.
type TalentCoord struct {
	Tab   int
	Index int
}

// Bucket holds everything the engine knows about one tracked spell: the
// current value of each pushed dimension, the trigger gate, the
// displays registered per condition key, and the key currently shown.
// All methods run on the single event thread; there is no locking.
type Bucket struct {
	Name       string
	SpellID    int32
	CombatOnly bool
	Minor      bool

	Gate TriggerGate

	presenter Presenter
	log       *slog.Logger

	stacks   int8
	usable   int8
	talented int8
	resource int8

	cur          Key
	curSet       bool
	displayed    Key
	displayedSet bool

	// True until a display keyed on a positive stack count registers.
	stackAgnostic bool

	displays map[Key]*Display

	talentCoord    TalentCoord
	talentResolved bool
}

func newBucket(name string, spellID int32, p Presenter, log *slog.Logger) *Bucket {
	return &Bucket{
		Name:          name,
		SpellID:       spellID,
		presenter:     p,
		log:           log,
		stacks:        stacksUnset,
		usable:        boolUnset,
		talented:      boolUnset,
		resource:      resourceUnset,
		stackAgnostic: true,
		displays:      map[Key]*Display{},
	}
}

// RegisterDisplay binds a display to an exact key. A second registration
// for the same key replaces the first with a warning. A positive stack
// count on the key flips the bucket to the stack-aware path.
func (b *Bucket) RegisterDisplay(key Key, d *Display) {
	if _, dup := b.displays[key]; dup {
		b.log.Warn("display re-registered", "bucket", b.Name, "key", key.Describe())
	}
	d.Key = key
	b.displays[key] = d
	if n, ok := key.Stacks(); ok && n > 0 {
		b.stackAgnostic = false
	}
}

func (b *Bucket) DisplayFor(key Key) (*Display, bool) {
	d, ok := b.displays[key]
	return d, ok
}

func (b *Bucket) StackAgnostic() bool { return b.stackAgnostic }

// CurrentKey reports the last computed key, which may not be displayed
// yet while the trigger gate is closed.
func (b *Bucket) CurrentKey() (Key, bool) { return b.cur, b.curSet }

func (b *Bucket) DisplayedKey() (Key, bool) { return b.displayed, b.displayedSet }

func (b *Bucket) SetTalentCoord(c TalentCoord) {
	b.talentCoord = c
	b.talentResolved = true
}

func (b *Bucket) TalentCoord() (TalentCoord, bool) {
	return b.talentCoord, b.talentResolved
}

// resetRegistrations clears displays and gate requirements so a
// re-declared effect can overwrite the bucket (last writer wins).
// Current dimension values survive: the signals already arrived.
func (b *Bucket) ResetRegistrations() {
	if b.displayedSet {
		if !b.stackAgnostic && b.displayed.Class() == StackExact {
			b.hideAt(b.displayed.Wildcard())
		}
		b.hideAt(b.displayed)
	}
	b.displays = map[Key]*Display{}
	b.stackAgnostic = true
	b.Gate = TriggerGate{}
	b.talentResolved = false
	b.displayedSet = false
	b.curSet = false
}

// The setters ignore updates for dimensions the bucket never required:
// only tracked dimensions may enter the key.

func (b *Bucket) SetAuraStacks(n int) {
	if !b.Gate.Required(DimAuraStacks) {
		return
	}
	if n < MinStacks || n > MaxStacks {
		b.reportDomain(DimAuraStacks, n)
		return
	}
	if b.stacks != stacksUnset && int(b.stacks) == n {
		return
	}
	b.stacks = int8(n)
	b.Gate.Inform(DimAuraStacks)
	b.applyKey()
}

func (b *Bucket) SetActionUsable(usable bool) {
	if !b.Gate.Required(DimActionUsable) {
		return
	}
	v := int8(0)
	if usable {
		v = 1
	}
	if b.usable == v {
		return
	}
	b.usable = v
	b.Gate.Inform(DimActionUsable)
	b.applyKey()
}

func (b *Bucket) SetTalented(talented bool) {
	if !b.Gate.Required(DimTalented) {
		return
	}
	v := int8(0)
	if talented {
		v = 1
	}
	if b.talented == v {
		return
	}
	b.talented = v
	b.Gate.Inform(DimTalented)
	b.applyKey()
}

func (b *Bucket) SetResource(n int) {
	if !b.Gate.Required(DimResource) {
		return
	}
	if n < 0 || n > MaxResource {
		b.reportDomain(DimResource, n)
		return
	}
	if b.resource != resourceUnset && int(b.resource) == n {
		return
	}
	b.resource = int8(n)
	b.Gate.Inform(DimResource)
	b.applyKey()
}

func (b *Bucket) reportDomain(d Dimension, v int) {
	err := &DomainError{Dim: d, Value: v}
	b.log.Error("dimension update dropped", "bucket", b.Name, "error", err)
}

// recomputeKey builds the key from every tracked dimension that has
// reported at least once. Dimensions the effect never asked to track
// stay inactive no matter what was pushed, so stray signals cannot
// change the key. On a stack-agnostic bucket every positive count
// collapses to 0, so all "present" states share one key.
func (b *Bucket) recomputeKey() Key {
	var k Key
	if b.Gate.Required(DimAuraStacks) && b.stacks != stacksUnset {
		s := int(b.stacks)
		if b.stackAgnostic && s > 0 {
			s = 0
		}
		_ = k.Set(DimAuraStacks, s)
	}
	if b.Gate.Required(DimActionUsable) && b.usable != boolUnset {
		_ = k.Set(DimActionUsable, int(b.usable))
	}
	if b.Gate.Required(DimTalented) && b.talented != boolUnset {
		_ = k.Set(DimTalented, int(b.talented))
	}
	if b.Gate.Required(DimResource) && b.resource != resourceUnset {
		_ = k.Set(DimResource, int(b.resource))
	}
	return k
}

// applyKey recomputes the key and diffs it against what is shown.
//
// The stored key is updated even while the gate is closed, so the first
// decision after the gate opens uses the latest state rather than a
// stale snapshot.
func (b *Bucket) applyKey() {
	k := b.recomputeKey()
	if b.curSet && k == b.cur {
		return
	}
	b.cur = k
	b.curSet = true
	if !b.Gate.FullyInformed() {
		return
	}
	if b.stackAgnostic {
		b.applyAgnostic()
	} else {
		b.applyStackAware()
	}
}

// applyAgnostic is the fast path when no display cares about an exact
// stack count: hide whatever is shown, show whatever matches.
func (b *Bucket) applyAgnostic() {
	swapped := false
	if b.displayedSet {
		if d, ok := b.displays[b.displayed]; ok {
			d.Hide(b.presenter, b.Name)
			swapped = true
		}
	}
	if d, ok := b.displays[b.cur]; ok {
		d.Show(b.presenter, b.Name, TransitionHint{SuppressPulse: swapped})
	}
	b.displayed = b.cur
	b.displayedSet = true
}

// applyStackAware manages the wildcard display alongside exact-count
// displays. The wildcard is logically shown whenever the aura is
// present, and the two may share one visual owner, so ordering matters:
// never hide the wildcard while the ability stays visible.
func (b *Bucket) applyStackAware() {
	prevClass := StackAbsent
	if b.displayedSet {
		prevClass = b.displayed.Class()
	}
	newClass := b.cur.Class()

	wildKey := b.cur.Wildcard()

	switch newClass {
	case StackAbsent:
		switch prevClass {
		case StackAny:
			b.hideAt(b.displayed)
		case StackExact:
			b.hideAt(b.displayed.Wildcard())
			b.hideAt(b.displayed)
		}
		b.displayedSet = false
		return

	case StackAny:
		switch prevClass {
		case StackAbsent:
			b.showAt(b.cur, TransitionHint{})
		case StackAny:
			// Same class, different key: another dimension changed.
			b.hideAt(b.displayed)
			b.showAt(b.cur, TransitionHint{SuppressPulse: true})
		case StackExact:
			b.hideAt(b.displayed)
			if b.displayed.Wildcard() != wildKey {
				b.hideAt(b.displayed.Wildcard())
				b.showAt(wildKey, TransitionHint{SuppressPulse: true})
			}
			// Otherwise the wildcard stays as it is.
		}

	case StackExact:
		switch prevClass {
		case StackAbsent:
			b.showAt(wildKey, TransitionHint{})
			b.showAt(b.cur, TransitionHint{})
		case StackAny:
			if b.displayed != wildKey {
				b.hideAt(b.displayed)
				b.showAt(wildKey, TransitionHint{SuppressPulse: true})
			}
			b.showAt(b.cur, TransitionHint{})
		case StackExact:
			b.hideAt(b.displayed)
			if b.displayed.Wildcard() != wildKey {
				b.hideAt(b.displayed.Wildcard())
			}
			// Re-show even when unchanged: some visual owners tie the
			// wildcard's visibility to the exact key's lifecycle.
			b.showAt(wildKey, TransitionHint{SuppressPulse: true})
			b.showAt(b.cur, TransitionHint{})
		}
	}

	b.displayed = b.cur
	b.displayedSet = true
}

// SyncInformed re-informs the gate from every dimension that already
// holds a value, then reapplies the key. Needed after registrations are
// rebuilt: the stored values survive the reset but the gate does not,
// and the setters skip unchanged values.
func (b *Bucket) SyncInformed() {
	if b.stacks != stacksUnset {
		b.Gate.Inform(DimAuraStacks)
	}
	if b.usable != boolUnset {
		b.Gate.Inform(DimActionUsable)
	}
	if b.talented != boolUnset {
		b.Gate.Inform(DimTalented)
	}
	if b.resource != resourceUnset {
		b.Gate.Inform(DimResource)
	}
	b.applyKey()
}

// Refresh re-applies the displayed state without changing it, for cases
// where an external reason (combat toggle) requires a redraw.
func (b *Bucket) Refresh() {
	if !b.displayedSet || !b.Gate.FullyInformed() {
		return
	}
	hint := TransitionHint{SuppressPulse: true}
	if !b.stackAgnostic && b.displayed.Class() == StackExact {
		b.showAt(b.displayed.Wildcard(), hint)
	}
	b.showAt(b.displayed, hint)
}

func (b *Bucket) showAt(key Key, hint TransitionHint) {
	if d, ok := b.displays[key]; ok {
		d.Show(b.presenter, b.Name, hint)
	}
}

func (b *Bucket) hideAt(key Key) {
	if d, ok := b.displays[key]; ok {
		d.Hide(b.presenter, b.Name)
	}
}
