package models

import (
	"fmt"
	"strings"
)

type Unit string

const (
	UnitPill      Unit = "pill"
	UnitTablet    Unit = "tablet"
	UnitCapsule   Unit = "capsule"
	UnitML        Unit = "ml"
	UnitMG        Unit = "mg"
	UnitG         Unit = "g"
	UnitSpray     Unit = "spray"
	UnitPatch     Unit = "patch"
	UnitInjection Unit = "injection"
)

// Units lists every supported unit in display order.
var Units = []Unit{
	UnitPill,
	UnitTablet,
	UnitCapsule,
	UnitML,
	UnitMG,
	UnitG,
	UnitSpray,
	UnitPatch,
	UnitInjection,
}

func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

// ParseUnit accepts a unit name case-insensitively; plural forms like "pills" are also accepted.
func ParseUnit(s string) (Unit, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if u := Unit(name); u.Valid() {
		return u, nil
	}
	if u := Unit(strings.TrimSuffix(name, "s")); u.Valid() {
		return u, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// Plural returns the unit label for the given amount, e.g. "2 tablets" or "5 ml".
func (u Unit) Plural(amount float64) string {
	switch u {
	case UnitML, UnitMG, UnitG:
		return string(u)
	}
	if amount == 1 {
		return string(u)
	}
	return string(u) + "s"
}
