package engine

import (
	"log/slog"
	"sort"
)

// Registry is the process-wide lookup from spell identity to bucket.
// Names are the primary identity; spell ids index into the same
// buckets. On the legacy game version a spell id learned after
// declaration is linked as a second entry aliasing the one bucket,
// never a second instance.
type Registry struct {
	presenter Presenter
	log       *slog.Logger

	byName map[string]*Bucket
	byID   map[int32]*Bucket
	all    []*Bucket
}

func NewRegistry(p Presenter, log *slog.Logger) *Registry {
	return &Registry{
		presenter: p,
		log:       log,
		byName:    map[string]*Bucket{},
		byID:      map[int32]*Bucket{},
	}
}

// GetOrCreate returns the bucket for name, creating it lazily. The
// second result reports whether a new bucket was created. A name hit
// with a different spell id moves the id index to the new id, so a
// re-declaration cannot leave a stale entry behind.
func (r *Registry) GetOrCreate(name string, spellID int32) (*Bucket, bool) {
	if b, ok := r.byName[name]; ok {
		if spellID > 0 && spellID != b.SpellID {
			if prev, ok := r.byID[b.SpellID]; ok && prev == b {
				delete(r.byID, b.SpellID)
			}
			r.byID[spellID] = b
			b.SpellID = spellID
		}
		return b, false
	}
	b := newBucket(name, spellID, r.presenter, r.log)
	r.byName[name] = b
	if spellID > 0 {
		r.byID[spellID] = b
	}
	r.all = append(r.all, b)
	return b, true
}

// LinkSpellID registers an extra id entry for an existing bucket, used
// when the legacy version resolves a numeric id only at event time.
func (r *Registry) LinkSpellID(id int32, b *Bucket) {
	if id <= 0 {
		return
	}
	if prev, ok := r.byID[id]; ok && prev != b {
		r.log.Warn("spell id relinked", "spell_id", id, "from", prev.Name, "to", b.Name)
	}
	r.byID[id] = b
}

// LinkName registers an extra name entry for an existing bucket. The
// legacy version matches combat-log events by spell display name, which
// differs from the effect name the bucket was created under.
func (r *Registry) LinkName(name string, b *Bucket) {
	if name == "" {
		return
	}
	if prev, ok := r.byName[name]; ok && prev != b {
		r.log.Warn("name relinked", "name", name, "from", prev.Name, "to", b.Name)
	}
	r.byName[name] = b
}

func (r *Registry) GetByName(name string) (*Bucket, bool) {
	b, ok := r.byName[name]
	return b, ok
}

func (r *Registry) GetBySpellID(id int32) (*Bucket, bool) {
	b, ok := r.byID[id]
	return b, ok
}

// GetBySpellOrName looks up by id first and falls back to the display
// name for the legacy version where ids are not resolvable up front.
func (r *Registry) GetBySpellOrName(id int32, name string) (*Bucket, bool) {
	if b, ok := r.byID[id]; ok {
		return b, true
	}
	if name == "" {
		return nil, false
	}
	b, ok := r.byName[name]
	return b, ok
}

// Buckets returns every bucket ordered by name. Alias entries do not
// duplicate their bucket here.
func (r *Registry) Buckets() []*Bucket {
	out := make([]*Bucket, len(r.all))
	copy(out, r.all)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
