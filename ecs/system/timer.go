package system

import (
	"time"

	"github.com/milk9111/bombbreaker/ecs"
)

// TimerSystem advances the world clock by one tick and runs due callbacks.
type TimerSystem struct {
	tick time.Duration
}

func NewTimerSystem(tick time.Duration) *TimerSystem {
	if tick <= 0 {
		tick = time.Second / 60
	}
	return &TimerSystem{tick: tick}
}

func (s *TimerSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	w.Timers().Advance(s.tick)
}
