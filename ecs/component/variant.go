package component

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownVariant = errors.New("component: unknown projectile variant")

// Variant is the closed set of projectile kinds. Each maps to one effect.
type Variant uint8

const (
	VariantNone Variant = iota
	VariantBlast
	VariantPiercer
	VariantCluster
	VariantSticky
	VariantHeavyImpact
	VariantDrilling
	VariantRicochet
)

var variantNames = [...]string{
	VariantNone:        "none",
	VariantBlast:       "blast",
	VariantPiercer:     "piercer",
	VariantCluster:     "cluster",
	VariantSticky:      "sticky",
	VariantHeavyImpact: "heavy_impact",
	VariantDrilling:    "drilling",
	VariantRicochet:    "ricochet",
}

// Aliases accepted from older level files.
var variantAliases = map[string]Variant{
	"blast_bomb":     VariantBlast,
	"piercer_bomb":   VariantPiercer,
	"cluster_bomb":   VariantCluster,
	"sticky_bomb":    VariantSticky,
	"shatterer":      VariantHeavyImpact,
	"shatterer_bomb": VariantHeavyImpact,
	"heavyimpact":    VariantHeavyImpact,
	"driller":        VariantDrilling,
	"driller_bomb":   VariantDrilling,
	"ricochet_bomb":  VariantRicochet,
}

// Variants lists every playable variant in launcher order.
func Variants() []Variant {
	return []Variant{
		VariantBlast,
		VariantPiercer,
		VariantCluster,
		VariantSticky,
		VariantHeavyImpact,
		VariantDrilling,
		VariantRicochet,
	}
}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return fmt.Sprintf("variant(%d)", uint8(v))
}

// ParseVariant resolves a variant name, case-insensitively.
func ParseVariant(s string) (Variant, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range variantNames {
		if i != int(VariantNone) && name == key {
			return Variant(i), nil
		}
	}
	if v, ok := variantAliases[key]; ok {
		return v, nil
	}
	return VariantNone, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// Valid reports whether v is a playable variant.
func (v Variant) Valid() bool {
	return v > VariantNone && v <= VariantRicochet
}

// Deferred variants do not explode on contact and keep processing contacts
// after their first hit within a tick.
func (v Variant) Deferred() bool {
	switch v {
	case VariantSticky, VariantDrilling, VariantRicochet:
		return true
	}
	return false
}

// Explosive variants fire their effect when they touch another projectile.
func (v Variant) Explosive() bool {
	switch v {
	case VariantBlast, VariantPiercer, VariantCluster, VariantHeavyImpact:
		return true
	}
	return false
}

// ChainsExplosiveBlocks reports whether a direct hit on an explosive block
// sets the block off before the variant's own effect.
func (v Variant) ChainsExplosiveBlocks() bool {
	return v == VariantBlast || v == VariantHeavyImpact
}

// BouncesOffSpringy reports whether a springy block deflects this variant.
func (v Variant) BouncesOffSpringy() bool {
	return v != VariantSticky && v != VariantRicochet
}
