package component

import (
	"time"

	"github.com/jakecoffman/cp"
)

type DrillPhase uint8

const (
	DrillAttached DrillPhase = iota
	DrillDrilling
	DrillDormant
	DrillTriggered
)

func (p DrillPhase) String() string {
	switch p {
	case DrillAttached:
		return "attached"
	case DrillDrilling:
		return "drilling"
	case DrillDormant:
		return "dormant"
	case DrillTriggered:
		return "triggered"
	}
	return "unknown"
}

// DrillState tracks one drilling pass. Head is the logical tip and moves
// independently of how often the body is repositioned.
type DrillState struct {
	Phase               DrillPhase
	Head                cp.Vector
	Direction           cp.Vector
	Elapsed             time.Duration
	Total               time.Duration
	StepInterval        time.Duration
	StepDistance        float64
	Steps               int
	Target              uint64
	TargetHalfWidth     float64
	Completed           bool
	ExternallyTriggered bool
	StartedAt           time.Duration

	StepToken     uint64
	DurationToken uint64
}

var DrillStateComponent = NewComponent[DrillState]()
