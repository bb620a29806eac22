package effects

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Declaration is one human-authored effect as it appears in a pack
// file. Overlay/button blocks stay loosely typed: they may be keyed
// directly by content or by game-version name, and their items carry
// per-key overrides that the compiler resolves.
type Declaration struct {
	Name       string          `yaml:"name"`
	Versions   []string        `yaml:"versions"`
	SpellID    int32           `yaml:"spell_id"`
	SpellName  string          `yaml:"spell_name,omitempty"` // era fallback identity
	Class      string          `yaml:"class"` // "aura", "counter", "counter_with_overlay"
	Links      []int32         `yaml:"links,omitempty"`
	Triggers   map[string]bool `yaml:"triggers"`
	TalentID   int32           `yaml:"talent,omitempty"`
	CombatOnly bool            `yaml:"combat_only,omitempty"`
	Minor      bool            `yaml:"minor,omitempty"`

	Overlay  map[string]any `yaml:"overlay,omitempty"`
	Overlays any            `yaml:"overlays,omitempty"`
	Button   map[string]any `yaml:"button,omitempty"`
	Buttons  any            `yaml:"buttons,omitempty"`
}

// AppliesTo reports whether the declaration targets the running game
// version. Invalid or empty version lists count as applicable so the
// failure surfaces through validation instead of a silent skip.
func (d Declaration) AppliesTo(v GameVersion) bool {
	declared, err := ParseVersions(d.Versions)
	if err != nil || declared == 0 {
		return true
	}
	return declared.Has(v)
}

// LoadDir reads every .yaml pack under dir in name order. Each file
// holds a list of declarations. The digest covers the concatenated raw
// bytes so clients can detect stale packs.
func LoadDir(dir string) ([]Declaration, string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, "", err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	var decls []Declaration
	var concat bytes.Buffer
	for _, p := range files {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, "", err
		}
		concat.Write(raw)
		concat.WriteByte('\n')

		var fileDecls []Declaration
		if err := yaml.Unmarshal(raw, &fileDecls); err != nil {
			return nil, "", fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		decls = append(decls, fileDecls...)
	}
	sum := sha256.Sum256(concat.Bytes())
	return decls, hex.EncodeToString(sum[:]), nil
}

// isVersionKeyed reports whether a map's keys are all game-version
// names, i.e. the block is version-indexed rather than direct content.
func isVersionKeyed(m map[string]any) bool {
	if len(m) == 0 {
		return false
	}
	for k := range m {
		if _, err := ParseVersion(k); err != nil {
			return false
		}
	}
	return true
}

// selectBlock resolves a possibly version-indexed mapping to the block
// for the running version. A direct block passes through unchanged; a
// version-indexed block without a matching entry resolves to nil.
func selectBlock(m map[string]any, v GameVersion) map[string]any {
	if m == nil || !isVersionKeyed(m) {
		return m
	}
	for name, sub := range m {
		flavor, err := ParseVersion(name)
		if err != nil || !v.Has(flavor) {
			continue
		}
		block, _ := sub.(map[string]any)
		return block
	}
	return nil
}

// flattenItems resolves a possibly version-indexed list property into
// the flat item list for the running version. Accepted shapes: a plain
// list, a version-indexed map of lists, or a version-indexed map of
// single blocks.
func flattenItems(v any, version GameVersion) ([]map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case []any:
		return itemList(t)
	case map[string]any:
		if !isVersionKeyed(t) {
			return nil, fmt.Errorf("list property must be a list or version-indexed block")
		}
		for name, sub := range t {
			flavor, err := ParseVersion(name)
			if err != nil || !version.Has(flavor) {
				continue
			}
			switch st := sub.(type) {
			case []any:
				return itemList(st)
			case map[string]any:
				return []map[string]any{st}, nil
			default:
				return nil, fmt.Errorf("version block %q has unexpected shape", name)
			}
		}
		return nil, nil
	}
	return nil, fmt.Errorf("list property has unexpected type %T", v)
}

func itemList(raw []any) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(raw))
	for i, it := range raw {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("item %d is not a mapping", i)
		}
		out = append(out, m)
	}
	return out, nil
}
