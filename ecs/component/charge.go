package component

import "github.com/jakecoffman/cp"

type ChargeKind uint8

const (
	ChargeSticky ChargeKind = iota + 1
	ChargeDrill
)

func (k ChargeKind) String() string {
	switch k {
	case ChargeSticky:
		return "sticky"
	case ChargeDrill:
		return "drill"
	}
	return "unknown"
}

// Charge marks a placed projectile that waits for a remote trigger. Only
// Armed charges are considered by the broadcaster, and Triggered is set
// exactly once.
type Charge struct {
	Kind             ChargeKind
	Position         cp.Vector
	DetonationRadius float64
	BlastRadius      float64
	Armed            bool
	Triggered        bool
}

var ChargeComponent = NewComponent[Charge]()
