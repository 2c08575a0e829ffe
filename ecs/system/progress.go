package system

import (
	"log/slog"

	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
	"github.com/milk9111/bombbreaker/registry"
)

const defaultTargetPercent = 85

// ProgressSystem recounts cleared blocks each tick and decides the level
// outcome once nothing launched is still resolving.
type ProgressSystem struct {
	dispatcher *Dispatcher
	registry   *registry.Registry
	listener   Listener
}

func NewProgressSystem(d *Dispatcher, reg *registry.Registry, listener Listener) *ProgressSystem {
	if reg == nil {
		reg = registry.Default()
	}
	return &ProgressSystem{dispatcher: d, registry: reg, listener: orNop(listener)}
}

func (s *ProgressSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	root, ok := w.First(component.LevelProgressComponent.Kind())
	if !ok {
		return
	}
	prog, _ := ecs.Get(w, root, component.LevelProgressComponent.Kind())

	cleared := 0
	ecs.ForEach(w, component.BlockComponent.Kind(), func(_ ecs.Entity, b *component.Block) {
		if !b.Active && s.registry.IsDestructible(b.Type) {
			cleared++
		}
	})
	percent := Percent(cleared, prog.Total)
	if cleared != prog.Cleared || percent != prog.Percent {
		prog.Cleared = cleared
		changed := percent != prog.Percent
		prog.Percent = percent
		if changed {
			s.listener.LevelProgressChanged(percent)
		}
	}

	if prog.Outcome != component.LevelInProgress || s.dispatcher.Busy(w) {
		return
	}

	target := prog.Target
	if target <= 0 {
		target = defaultTargetPercent
	}
	remaining := 0
	if a, ok := ecs.Get(w, root, component.ArsenalComponent.Kind()); ok {
		remaining = a.Remaining()
	}

	switch {
	case percent >= 100:
		prog.Outcome = component.LevelWon
	case remaining > 0:
		return
	case percent >= target:
		prog.Outcome = component.LevelWon
	default:
		prog.Outcome = component.LevelLost
	}
	if prog.Outcome == component.LevelWon {
		prog.Stars = Stars(percent)
	}
	slog.Info("level finished", "outcome", prog.Outcome.String(), "percent", percent, "stars", prog.Stars)
	s.listener.LevelFinished(prog.Outcome)
}

// Percent is the floored share of cleared destructible blocks. A level with
// nothing to clear counts as complete.
func Percent(cleared, total int) int {
	if total <= 0 {
		return 100
	}
	if cleared >= total {
		return 100
	}
	return cleared * 100 / total
}

// Stars rates a cleared percentage.
func Stars(percent int) int {
	switch {
	case percent >= 100:
		return 3
	case percent >= 92:
		return 2
	case percent >= 85:
		return 1
	}
	return 0
}
