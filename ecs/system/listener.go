package system

import (
	"log/slog"

	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
)

//go:generate go tool mockgen -destination=./mocks/listener_mock.go -package=mocks . Listener

// Listener receives gameplay events from the effect and dispatch systems.
// Callbacks run on the simulation goroutine.
type Listener interface {
	BlockDestroyed(e ecs.Entity, block component.Block)
	ProjectileConsumed(variant component.Variant)
	LevelProgressChanged(percent int)
	LevelFinished(outcome component.LevelOutcome)
}

// Listeners fans events out in order.
type Listeners []Listener

func (ls Listeners) BlockDestroyed(e ecs.Entity, block component.Block) {
	for _, l := range ls {
		l.BlockDestroyed(e, block)
	}
}

func (ls Listeners) ProjectileConsumed(variant component.Variant) {
	for _, l := range ls {
		l.ProjectileConsumed(variant)
	}
}

func (ls Listeners) LevelProgressChanged(percent int) {
	for _, l := range ls {
		l.LevelProgressChanged(percent)
	}
}

func (ls Listeners) LevelFinished(outcome component.LevelOutcome) {
	for _, l := range ls {
		l.LevelFinished(outcome)
	}
}

type nopListener struct{}

func (nopListener) BlockDestroyed(ecs.Entity, component.Block) {}
func (nopListener) ProjectileConsumed(component.Variant) {}
func (nopListener) LevelProgressChanged(int) {}
func (nopListener) LevelFinished(component.LevelOutcome) {}

func orNop(l Listener) Listener {
	if l == nil {
		return nopListener{}
	}
	return l
}

// LogListener writes events to a structured logger.
type LogListener struct {
	Logger *slog.Logger
}

func (l LogListener) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

func (l LogListener) BlockDestroyed(e ecs.Entity, block component.Block) {
	l.logger().Debug("block destroyed", "entity", e.String(), "type", block.Type.String())
}

func (l LogListener) ProjectileConsumed(variant component.Variant) {
	l.logger().Debug("projectile consumed", "variant", variant.String())
}

func (l LogListener) LevelProgressChanged(percent int) {
	l.logger().Debug("level progress", "percent", percent)
}

func (l LogListener) LevelFinished(outcome component.LevelOutcome) {
	l.logger().Debug("level finished", "outcome", outcome.String())
}
