// Package catalogs loads the spell and talent metadata the compiler
// resolves declarations against. Plain JSON files with sha256 digests
// so clients can detect drift.
package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Amanthuul/spellactivationoverlay/internal/engine"
)

type Catalogs struct {
	Spells  SpellCatalog
	Talents TalentCatalog
}

type SpellCatalog struct {
	Defs   map[int32]SpellDef
	Digest string
}

type SpellDef struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

type TalentCatalog struct {
	Defs   map[int32]TalentDef
	Digest string
}

type TalentDef struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Tab   int    `json:"tab"`
	Index int    `json:"index"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadSpells(filepath.Join(configDir, "spells.json"), &c.Spells); err != nil {
		return nil, err
	}
	if err := loadTalents(filepath.Join(configDir, "talents.json"), &c.Talents); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadSpells(path string, out *SpellCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []SpellDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("spells.json: %w", err)
	}
	out.Defs = map[int32]SpellDef{}
	for _, d := range defs {
		if d.ID <= 0 {
			return fmt.Errorf("spells.json: non-positive id %d", d.ID)
		}
		if d.Name == "" {
			return fmt.Errorf("spells.json: spell %d has empty name", d.ID)
		}
		out.Defs[d.ID] = d
	}
	return nil
}

func loadTalents(path string, out *TalentCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		// Talents are optional metadata; effects degrade to a logged
		// lookup miss without them.
		if os.IsNotExist(err) {
			out.Digest = sha256Hex(nil)
			out.Defs = map[int32]TalentDef{}
			return nil
		}
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []TalentDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("talents.json: %w", err)
	}
	out.Defs = map[int32]TalentDef{}
	for _, d := range defs {
		if d.ID <= 0 {
			return fmt.Errorf("talents.json: non-positive id %d", d.ID)
		}
		out.Defs[d.ID] = d
	}
	return nil
}

// SpellName implements effects.MetadataSource.
func (c *Catalogs) SpellName(id int32) (string, bool) {
	d, ok := c.Spells.Defs[id]
	if !ok {
		return "", false
	}
	return d.Name, true
}

// TalentCoord implements effects.MetadataSource.
func (c *Catalogs) TalentCoord(id int32) (engine.TalentCoord, bool) {
	d, ok := c.Talents.Defs[id]
	if !ok {
		return engine.TalentCoord{}, false
	}
	return engine.TalentCoord{Tab: d.Tab, Index: d.Index}, true
}
