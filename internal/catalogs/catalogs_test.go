package catalogs

import (
	"os"
	"path/filepath"
	"testing"
)

const spellsJSON = `[
  {"id": 57761, "name": "Brain Freeze"},
  {"id": 12536, "name": "Clearcasting", "icon": "spell_shadow_manaburn"}
]`

const talentsJSON = `[
  {"id": 2211, "name": "Brain Freeze", "tab": 2, "index": 13}
]`

func writeConfigs(t *testing.T, spells, talents string) string {
	t.Helper()
	dir := t.TempDir()
	if spells != "" {
		if err := os.WriteFile(filepath.Join(dir, "spells.json"), []byte(spells), 0o644); err != nil {
			t.Fatalf("write spells: %v", err)
		}
	}
	if talents != "" {
		if err := os.WriteFile(filepath.Join(dir, "talents.json"), []byte(talents), 0o644); err != nil {
			t.Fatalf("write talents: %v", err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfigs(t, spellsJSON, talentsJSON)
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if name, ok := c.SpellName(57761); !ok || name != "Brain Freeze" {
		t.Fatalf("SpellName(57761) = %q, %t", name, ok)
	}
	if _, ok := c.SpellName(1); ok {
		t.Fatalf("unknown spell must miss")
	}
	coord, ok := c.TalentCoord(2211)
	if !ok || coord.Tab != 2 || coord.Index != 13 {
		t.Fatalf("TalentCoord(2211) = %+v, %t", coord, ok)
	}
	if c.Spells.Digest == "" || c.Talents.Digest == "" {
		t.Fatalf("digests must be set")
	}
	if c.Spells.Digest == c.Talents.Digest {
		t.Fatalf("different content must not share a digest")
	}
}

func TestLoadTalentsOptional(t *testing.T) {
	dir := writeConfigs(t, spellsJSON, "")
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("missing talents.json must not fail: %v", err)
	}
	if _, ok := c.TalentCoord(2211); ok {
		t.Fatalf("empty talent catalog must miss")
	}
	if c.Talents.Digest == "" {
		t.Fatalf("empty catalog still needs a digest")
	}
}

func TestLoadRejectsBadSpells(t *testing.T) {
	for name, content := range map[string]string{
		"missing":     "",
		"bad json":    "{",
		"zero id":     `[{"id": 0, "name": "x"}]`,
		"empty name":  `[{"id": 5, "name": ""}]`,
		"negative id": `[{"id": -3, "name": "x"}]`,
	} {
		dir := writeConfigs(t, content, talentsJSON)
		if _, err := Load(dir); err == nil {
			t.Fatalf("%s: Load must fail", name)
		}
	}
}
