package engine

import (
	"fmt"
	"strings"
)

// Dimension is one independent axis of game state tracked for a spell.
type Dimension uint8

const (
	DimAuraStacks Dimension = iota
	DimActionUsable
	DimTalented
	DimResource

	dimCount
)

// Value domains per dimension. Stacks use -1 for "aura absent" and 0 for
// "aura present, count irrelevant".
const (
	MinStacks   = -1
	MaxStacks   = 99
	MaxResource = 3
)

func (d Dimension) String() string {
	switch d {
	case DimAuraStacks:
		return "aura"
	case DimActionUsable:
		return "usable"
	case DimTalented:
		return "talented"
	case DimResource:
		return "resource"
	}
	return fmt.Sprintf("dim(%d)", uint8(d))
}

// DomainError reports a dimension value outside its allowed range. The
// offending update is dropped; surrounding state is unaffected.
type DomainError struct {
	Dim   Dimension
	Value int
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("value %d out of range for dimension %s", e.Value, e.Dim)
}

// StackClass partitions a key's stack field into the three trigger
// intents that drive the show/hide matrix.
type StackClass uint8

const (
	StackAbsent StackClass = iota // aura missing (stacks == -1)
	StackAny                      // present, count irrelevant (stacks == 0)
	StackExact                    // present with an exact positive count
)

func (c StackClass) String() string {
	switch c {
	case StackAbsent:
		return "absent"
	case StackAny:
		return "any"
	case StackExact:
		return "exact"
	}
	return "unknown"
}

// Key is the canonical composite of the active dimensions' current
// values for one bucket. Keys are compared only for equality, and only
// against keys from the same bucket. Inactive fields stay zero-valued,
// so Go struct equality is the comparison.
type Key struct {
	active   uint8
	stacks   int8
	usable   bool
	talented bool
	resource uint8
}

// Set records a value for a dimension and marks it active. Booleans are
// encoded as 0/1. Returns a DomainError for out-of-range values and
// leaves the key untouched.
func (k *Key) Set(d Dimension, v int) error {
	switch d {
	case DimAuraStacks:
		if v < MinStacks || v > MaxStacks {
			return &DomainError{Dim: d, Value: v}
		}
		k.stacks = int8(v)
	case DimActionUsable, DimTalented:
		if v != 0 && v != 1 {
			return &DomainError{Dim: d, Value: v}
		}
		if d == DimActionUsable {
			k.usable = v == 1
		} else {
			k.talented = v == 1
		}
	case DimResource:
		if v < 0 || v > MaxResource {
			return &DomainError{Dim: d, Value: v}
		}
		k.resource = uint8(v)
	default:
		return &DomainError{Dim: d, Value: v}
	}
	k.active |= 1 << d
	return nil
}

func (k Key) IsActive(d Dimension) bool { return k.active&(1<<d) != 0 }

func (k Key) Equals(o Key) bool { return k == o }

// Stacks returns the stack value and whether the stack dimension is
// active on this key.
func (k Key) Stacks() (int, bool) {
	return int(k.stacks), k.IsActive(DimAuraStacks)
}

// Wildcard returns a copy with the stack count forced to 0 ("any
// stacks"), or the key unchanged if stacks are not active.
func (k Key) Wildcard() Key {
	if k.IsActive(DimAuraStacks) {
		k.stacks = 0
	}
	return k
}

// Class reports the stack class of the key. Keys without an active
// stack dimension never drive the stack-aware path and classify as any.
func (k Key) Class() StackClass {
	if !k.IsActive(DimAuraStacks) {
		return StackAny
	}
	switch {
	case k.stacks < 0:
		return StackAbsent
	case k.stacks == 0:
		return StackAny
	}
	return StackExact
}

// Pack flattens the key into a single integer: stacks biased by one into
// 7 bits, one bit each for usable/talented, 2 bits of resource, then the
// active mask. Stable within a session; never persisted.
func (k Key) Pack() uint32 {
	var v uint32
	if k.IsActive(DimAuraStacks) {
		v |= uint32(int(k.stacks)+1) & 0x7f
	}
	if k.usable {
		v |= 1 << 7
	}
	if k.talented {
		v |= 1 << 8
	}
	v |= uint32(k.resource) << 9
	v |= uint32(k.active) << 11
	return v
}

// Describe renders the key deterministically for diagnostics.
func (k Key) Describe() string {
	if k.active == 0 {
		return "key{}"
	}
	parts := make([]string, 0, int(dimCount))
	if k.IsActive(DimAuraStacks) {
		parts = append(parts, fmt.Sprintf("aura=%d", k.stacks))
	}
	if k.IsActive(DimActionUsable) {
		parts = append(parts, fmt.Sprintf("usable=%t", k.usable))
	}
	if k.IsActive(DimTalented) {
		parts = append(parts, fmt.Sprintf("talented=%t", k.talented))
	}
	if k.IsActive(DimResource) {
		parts = append(parts, fmt.Sprintf("resource=%d", k.resource))
	}
	return "key{" + strings.Join(parts, " ") + "}"
}
