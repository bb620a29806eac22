package effects

import (
	"fmt"
	"strings"
)

// GameVersion is a bit set of the game flavors an effect applies to.
type GameVersion uint8

const (
	VersionEra GameVersion = 1 << iota
	VersionWrath
	VersionCata
)

var versionNames = map[string]GameVersion{
	"era":   VersionEra,
	"wrath": VersionWrath,
	"cata":  VersionCata,
}

// ParseVersion resolves a single version name.
func ParseVersion(name string) (GameVersion, error) {
	v, ok := versionNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown game version %q", name)
	}
	return v, nil
}

// ParseVersions folds a declaration's version list into one flag set.
func ParseVersions(names []string) (GameVersion, error) {
	var out GameVersion
	for _, n := range names {
		v, err := ParseVersion(n)
		if err != nil {
			return 0, err
		}
		out |= v
	}
	return out, nil
}

func (v GameVersion) Has(flavor GameVersion) bool { return v&flavor != 0 }

func (v GameVersion) String() string {
	var parts []string
	for _, name := range []string{"era", "wrath", "cata"} {
		if v.Has(versionNames[name]) {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
