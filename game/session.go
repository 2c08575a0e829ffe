// Package game ties the ECS world, the physics space and the effect systems
// into a playable level session.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/bombbreaker/ecs"
	"github.com/milk9111/bombbreaker/ecs/component"
	"github.com/milk9111/bombbreaker/ecs/entity"
	"github.com/milk9111/bombbreaker/ecs/system"
	"github.com/milk9111/bombbreaker/prefabs"
	"github.com/milk9111/bombbreaker/registry"
)

var (
	ErrNoActiveProjectile = errors.New("game: no active projectile")
	ErrNoShotsRemaining   = errors.New("game: no shots remaining")
	ErrAlreadyLaunched    = entity.ErrAlreadyLaunched
	ErrTickLimit          = errors.New("game: tick limit reached")
)

// Options configures a session. Zero values pick the stock tuning and block
// table.
type Options struct {
	Tuning   *component.Tuning
	Registry *registry.Registry
	Seed     uint64
	Listener system.Listener
}

// Session is one level being played. It is not safe for concurrent use;
// separate sessions share nothing and may run in parallel.
type Session struct {
	world    *ecs.World
	level    *entity.Level
	tuning   component.Tuning
	registry *registry.Registry

	physics    *system.PhysicsSystem
	effects    *system.Effects
	dispatcher *system.Dispatcher
	scheduler  *ecs.Scheduler

	ticks    int
	launched int
}

// NewSession builds the level described by spec and loads the first shot.
func NewSession(spec prefabs.LevelSpec, opts Options) (*Session, error) {
	tuning := component.DefaultTuning()
	if opts.Tuning != nil {
		tuning = *opts.Tuning
	}
	reg := opts.Registry
	if reg == nil {
		reg = registry.Default()
	}

	w := ecs.NewWorld()
	lvl, err := entity.BuildLevel(w, reg, tuning, spec)
	if err != nil {
		return nil, fmt.Errorf("game: new session: %w", err)
	}

	s := &Session{
		world:    w,
		level:    lvl,
		tuning:   tuning,
		registry: reg,
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5deece66d))
	s.effects = system.NewEffects(reg, tuning, rng, opts.Listener)
	s.dispatcher = system.NewDispatcher(s.effects, s, opts.Listener)
	s.physics = system.NewPhysicsSystem(tuning.Gravity)
	s.scheduler = ecs.NewScheduler(
		s.physics,
		s.dispatcher,
		system.NewExpirySystem(s.dispatcher),
		system.NewTimerSystem(tuning.TickDuration),
		system.NewProgressSystem(s.dispatcher, reg, opts.Listener),
		system.NewTTLSystem(),
	)

	if err := s.dispatcher.Reload(w); err != nil {
		return nil, fmt.Errorf("game: new session: load first shot: %w", err)
	}
	return s, nil
}

// LoadSession reads a named level from prefabs and starts a session on it.
func LoadSession(name string, opts Options) (*Session, error) {
	spec, err := prefabs.LoadLevel(name)
	if err != nil {
		return nil, err
	}
	return NewSession(spec, opts)
}

// LoadNext creates an unlaunched projectile of the next available variant at
// the launcher.
func (s *Session) LoadNext(w *ecs.World) (ecs.Entity, error) {
	a := s.arsenal()
	v, ok := a.Next()
	if !ok {
		return 0, ErrNoShotsRemaining
	}
	a.Selected = v
	return entity.NewProjectile(w, s.level.Launcher, v, s.tuning)
}

// ShotsRemaining counts unlaunched bombs, including one waiting in the
// launcher.
func (s *Session) ShotsRemaining(*ecs.World) int {
	return s.arsenal().Remaining()
}

// Step advances the simulation by one tick.
func (s *Session) Step() {
	s.scheduler.Update(s.world)
	s.ticks++
}

// ActiveProjectile returns the projectile in the launcher slot or in flight.
func (s *Session) ActiveProjectile() (ecs.Entity, bool) {
	return s.dispatcher.Active(s.world)
}

// LaunchActiveProjectile fires the loaded projectile along direction. Power
// is clamped to the tuning's maximum.
func (s *Session) LaunchActiveProjectile(direction cp.Vector, power float64) error {
	e, ok := s.ActiveProjectile()
	if !ok {
		if s.ShotsRemaining(s.world) == 0 {
			return ErrNoShotsRemaining
		}
		return ErrNoActiveProjectile
	}
	p, ok := ecs.Get(s.world, e, component.ProjectileComponent.Kind())
	if !ok {
		return ErrNoActiveProjectile
	}
	if p.Launched {
		return fmt.Errorf("game: launch %s: %w", p.Variant, ErrAlreadyLaunched)
	}
	a := s.arsenal()
	if a.Counts[p.Variant] <= 0 {
		return fmt.Errorf("game: launch %s: %w", p.Variant, ErrNoShotsRemaining)
	}

	impulse := entity.LaunchImpulse(direction, power, s.tuning.MaxLaunchPower)
	if err := entity.Launch(s.world, e, impulse, s.world.Timers().Now()); err != nil {
		return fmt.Errorf("game: launch %s: %w", p.Variant, err)
	}
	a.Counts[p.Variant]--
	s.launched++
	slog.Debug("projectile launched", "variant", p.Variant.String(), "power", power, "left", a.Remaining())
	return nil
}

// Select makes v the variant loaded next. An unlaunched projectile of another
// variant in the launcher is swapped out.
func (s *Session) Select(v component.Variant) error {
	if !v.Valid() {
		return fmt.Errorf("game: select: %w: %d", component.ErrUnknownVariant, v)
	}
	a := s.arsenal()
	if a.Counts[v] <= 0 {
		return fmt.Errorf("game: select %s: %w", v, ErrNoShotsRemaining)
	}
	a.Selected = v

	e, ok := s.ActiveProjectile()
	if !ok {
		return nil
	}
	p, ok := ecs.Get(s.world, e, component.ProjectileComponent.Kind())
	if !ok || p.Launched || p.Variant == v {
		return nil
	}
	return s.Reload()
}

// Reload swaps an unlaunched projectile for a fresh one of the selected
// variant, or loads one if the launcher is empty and no reload is pending.
func (s *Session) Reload() error {
	if err := s.dispatcher.Reload(s.world); err != nil {
		return fmt.Errorf("game: reload: %w", err)
	}
	return nil
}

// Progress returns a copy of the level counters.
func (s *Session) Progress() component.LevelProgress {
	p, ok := ecs.Get(s.world, s.level.Root, component.LevelProgressComponent.Kind())
	if !ok {
		return component.LevelProgress{}
	}
	return *p
}

// Done reports whether the level has been won or lost.
func (s *Session) Done() bool {
	return s.Progress().Outcome != component.LevelInProgress
}

// Arsenal returns a copy of the remaining bombs.
func (s *Session) Arsenal() component.Arsenal {
	a := s.arsenal()
	counts := make(map[component.Variant]int, len(a.Counts))
	for v, n := range a.Counts {
		counts[v] = n
	}
	return component.Arsenal{Counts: counts, Selected: a.Selected}
}

func (s *Session) World() *ecs.World { return s.world }
func (s *Session) Space() *cp.Space { return s.physics.Space() }
func (s *Session) Level() *entity.Level { return s.level }
func (s *Session) Tuning() component.Tuning { return s.tuning }
func (s *Session) Effects() *system.Effects { return s.effects }
func (s *Session) Ticks() int { return s.ticks }
func (s *Session) Now() time.Duration { return s.world.Timers().Now() }
func (s *Session) Busy() bool { return s.dispatcher.Busy(s.world) }
func (s *Session) Registry() *registry.Registry { return s.registry }

func (s *Session) arsenal() *component.Arsenal {
	a, ok := ecs.Get(s.world, s.level.Root, component.ArsenalComponent.Kind())
	if !ok {
		return &component.Arsenal{}
	}
	if a.Counts == nil {
		a.Counts = make(map[component.Variant]int)
	}
	return a
}

// Shot is a scripted launch: an angle in degrees, clockwise from +X in screen
// space, and a power.
type Shot struct {
	Angle float64 `json:"angle"`
	Power float64 `json:"power"`
}

// Direction converts the angle into a unit vector.
func (s Shot) Direction() cp.Vector {
	return cp.ForAngle(s.Angle * math.Pi / 180)
}

// DefaultShot lobs up and to the right at most of the maximum power.
func DefaultShot(tuning component.Tuning) Shot {
	return Shot{Angle: -35, Power: tuning.MaxLaunchPower * 0.8}
}

// Result summarizes a finished or abandoned session.
type Result struct {
	Level    string                 `json:"level"`
	Outcome  component.LevelOutcome `json:"-"`
	Status   string                 `json:"outcome"`
	Percent  int                    `json:"percent"`
	Stars    int                    `json:"stars"`
	Cleared  int                    `json:"cleared"`
	Total    int                    `json:"total"`
	Launched int                    `json:"launched"`
	Ticks    int                    `json:"ticks"`
	SimTime  time.Duration          `json:"sim_time"`
}

func (r Result) String() string {
	return fmt.Sprintf("%s: %s %d%% (%d/%d) stars=%d shots=%d ticks=%d",
		r.Level, r.Status, r.Percent, r.Cleared, r.Total, r.Stars, r.Launched, r.Ticks)
}

// Result snapshots the current state.
func (s *Session) Result() Result {
	p := s.Progress()
	return Result{
		Level:    s.level.Name,
		Outcome:  p.Outcome,
		Status:   p.Outcome.String(),
		Percent:  p.Percent,
		Stars:    p.Stars,
		Cleared:  p.Cleared,
		Total:    p.Total,
		Launched: s.launched,
		Ticks:    s.ticks,
		SimTime:  s.Now(),
	}
}

// Play runs the session headless until the level finishes. Each loaded
// projectile is launched with the next shot from shots, cycling; an empty
// list uses DefaultShot. It stops with ErrTickLimit after maxTicks.
func (s *Session) Play(ctx context.Context, shots []Shot, maxTicks int) (Result, error) {
	if len(shots) == 0 {
		shots = []Shot{DefaultShot(s.tuning)}
	}
	next := 0
	for !s.Done() {
		if s.ticks >= maxTicks {
			return s.Result(), fmt.Errorf("game: play %s: %w", s.level.Name, ErrTickLimit)
		}
		if s.ticks%60 == 0 {
			if err := ctx.Err(); err != nil {
				return s.Result(), err
			}
		}
		if e, ok := s.ActiveProjectile(); ok {
			if p, ok := ecs.Get(s.world, e, component.ProjectileComponent.Kind()); ok && !p.Launched {
				shot := shots[next%len(shots)]
				next++
				if err := s.LaunchActiveProjectile(shot.Direction(), shot.Power); err != nil {
					return s.Result(), err
				}
			}
		}
		s.Step()
	}
	return s.Result(), nil
}
