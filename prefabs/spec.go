package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/milk9111/bombbreaker/ecs/component"
	"github.com/milk9111/bombbreaker/registry"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// VariantPhysicsSpec is the YAML form of component.VariantPhysics.
type VariantPhysicsSpec struct {
	Density     float64 `yaml:"density"`
	FrictionAir float64 `yaml:"friction_air"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
}

// TuningSpec mirrors component.Tuning. Omitted keys keep their defaults.
type TuningSpec struct {
	TickDuration time.Duration `yaml:"tick_duration"`
	Gravity      float64       `yaml:"gravity"`

	Projectile struct {
		Radius         float64                       `yaml:"radius"`
		DisplaySize    float64                       `yaml:"display_size"`
		Depth          int                           `yaml:"depth"`
		MaxLaunchPower float64                       `yaml:"max_launch_power"`
		Physics        map[string]VariantPhysicsSpec `yaml:"physics"`
	} `yaml:"projectile"`

	BlockSize float64 `yaml:"block_size"`

	Blast struct {
		Radius float64 `yaml:"radius"`
	} `yaml:"blast"`

	Piercer struct {
		Length        float64       `yaml:"length"`
		Step          float64       `yaml:"step"`
		PointRadius   float64       `yaml:"point_radius"`
		TriggerEvery  float64       `yaml:"trigger_every"`
		TriggerRadius float64       `yaml:"trigger_radius"`
		SegmentDelay  time.Duration `yaml:"segment_delay"`
	} `yaml:"piercer"`

	Cluster struct {
		PrimaryRadius   float64       `yaml:"primary_radius"`
		SecondaryRadius float64       `yaml:"secondary_radius"`
		MinSecondaries  int           `yaml:"min_secondaries"`
		MaxSecondaries  int           `yaml:"max_secondaries"`
		MinOffset       float64       `yaml:"min_offset"`
		MaxOffset       float64       `yaml:"max_offset"`
		DelayPerUnit    time.Duration `yaml:"delay_per_unit"`
	} `yaml:"cluster"`

	Sticky struct {
		DetonationRadius float64 `yaml:"detonation_radius"`
	} `yaml:"sticky"`

	HeavyImpact struct {
		Radius        float64 `yaml:"radius"`
		TriggerRadius float64 `yaml:"trigger_radius"`
	} `yaml:"heavy_impact"`

	ExplosiveBlock struct {
		Radius float64 `yaml:"radius"`
	} `yaml:"explosive_block"`

	Ricochet struct {
		Radius     float64       `yaml:"radius"`
		Fuse       time.Duration `yaml:"fuse"`
		FuseRadius float64       `yaml:"fuse_radius"`
	} `yaml:"ricochet"`

	Bounce struct {
		Restitution float64 `yaml:"restitution"`
		JitterMin   float64 `yaml:"jitter_min"`
		JitterMax   float64 `yaml:"jitter_max"`
		Push        float64 `yaml:"push"`
	} `yaml:"bounce"`

	Drill struct {
		StepDistance     float64       `yaml:"step_distance"`
		StepInterval     time.Duration `yaml:"step_interval"`
		Duration         time.Duration `yaml:"duration"`
		BlastRadius      float64       `yaml:"blast_radius"`
		DetonationRadius float64       `yaml:"detonation_radius"`
	} `yaml:"drill"`

	NextShotDelay time.Duration `yaml:"next_shot_delay"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	MarkerFrames  int           `yaml:"marker_frames"`
}

// NewTuningSpec returns the spec form of the default tuning.
func NewTuningSpec() TuningSpec {
	return TuningSpecFrom(component.DefaultTuning())
}

// TuningSpecFrom converts runtime tuning back to its YAML form.
func TuningSpecFrom(t component.Tuning) TuningSpec {
	var s TuningSpec
	s.TickDuration = t.TickDuration
	s.Gravity = t.Gravity
	s.Projectile.Radius = t.ProjectileRadius
	s.Projectile.DisplaySize = t.DisplaySize
	s.Projectile.Depth = t.Depth
	s.Projectile.MaxLaunchPower = t.MaxLaunchPower
	s.Projectile.Physics = make(map[string]VariantPhysicsSpec, len(t.Physics))
	for v, p := range t.Physics {
		s.Projectile.Physics[v.String()] = VariantPhysicsSpec(p)
	}
	s.BlockSize = t.BlockSize
	s.Blast.Radius = t.BlastRadius
	s.Piercer.Length = t.PiercerLength
	s.Piercer.Step = t.PiercerStep
	s.Piercer.PointRadius = t.PiercerPointRadius
	s.Piercer.TriggerEvery = t.PiercerTriggerEvery
	s.Piercer.TriggerRadius = t.PiercerTriggerRadius
	s.Piercer.SegmentDelay = t.PiercerSegmentDelay
	s.Cluster.PrimaryRadius = t.ClusterPrimaryRadius
	s.Cluster.SecondaryRadius = t.ClusterSecondaryRadius
	s.Cluster.MinSecondaries = t.ClusterMinSecondaries
	s.Cluster.MaxSecondaries = t.ClusterMaxSecondaries
	s.Cluster.MinOffset = t.ClusterMinOffset
	s.Cluster.MaxOffset = t.ClusterMaxOffset
	s.Cluster.DelayPerUnit = t.ClusterDelayPerUnit
	s.Sticky.DetonationRadius = t.StickyDetonationRadius
	s.HeavyImpact.Radius = t.HeavyImpactRadius
	s.HeavyImpact.TriggerRadius = t.HeavyImpactTriggerRadius
	s.ExplosiveBlock.Radius = t.ExplosiveBlockRadius
	s.Ricochet.Radius = t.RicochetRadius
	s.Ricochet.Fuse = t.RicochetFuse
	s.Ricochet.FuseRadius = t.RicochetFuseRadius
	s.Bounce.Restitution = t.Restitution
	s.Bounce.JitterMin = t.JitterMin
	s.Bounce.JitterMax = t.JitterMax
	s.Bounce.Push = t.BouncePush
	s.Drill.StepDistance = t.DrillStepDistance
	s.Drill.StepInterval = t.DrillStepInterval
	s.Drill.Duration = t.DrillDuration
	s.Drill.BlastRadius = t.DrillBlastRadius
	s.Drill.DetonationRadius = t.DrillDetonationRadius
	s.NextShotDelay = t.NextShotDelay
	s.IdleTimeout = t.IdleTimeout
	s.MarkerFrames = t.MarkerFrames
	return s
}

// Tuning converts the spec into runtime tuning.
func (s TuningSpec) Tuning() (component.Tuning, error) {
	t := component.Tuning{
		TickDuration:             s.TickDuration,
		Gravity:                  s.Gravity,
		ProjectileRadius:         s.Projectile.Radius,
		DisplaySize:              s.Projectile.DisplaySize,
		Depth:                    s.Projectile.Depth,
		MaxLaunchPower:           s.Projectile.MaxLaunchPower,
		Physics:                  make(map[component.Variant]component.VariantPhysics, len(s.Projectile.Physics)),
		BlockSize:                s.BlockSize,
		BlastRadius:              s.Blast.Radius,
		PiercerLength:            s.Piercer.Length,
		PiercerStep:              s.Piercer.Step,
		PiercerPointRadius:       s.Piercer.PointRadius,
		PiercerTriggerEvery:      s.Piercer.TriggerEvery,
		PiercerTriggerRadius:     s.Piercer.TriggerRadius,
		PiercerSegmentDelay:      s.Piercer.SegmentDelay,
		ClusterPrimaryRadius:     s.Cluster.PrimaryRadius,
		ClusterSecondaryRadius:   s.Cluster.SecondaryRadius,
		ClusterMinSecondaries:    s.Cluster.MinSecondaries,
		ClusterMaxSecondaries:    s.Cluster.MaxSecondaries,
		ClusterMinOffset:         s.Cluster.MinOffset,
		ClusterMaxOffset:         s.Cluster.MaxOffset,
		ClusterDelayPerUnit:      s.Cluster.DelayPerUnit,
		StickyDetonationRadius:   s.Sticky.DetonationRadius,
		HeavyImpactRadius:        s.HeavyImpact.Radius,
		HeavyImpactTriggerRadius: s.HeavyImpact.TriggerRadius,
		ExplosiveBlockRadius:     s.ExplosiveBlock.Radius,
		RicochetRadius:           s.Ricochet.Radius,
		RicochetFuse:             s.Ricochet.Fuse,
		RicochetFuseRadius:       s.Ricochet.FuseRadius,
		Restitution:              s.Bounce.Restitution,
		JitterMin:                s.Bounce.JitterMin,
		JitterMax:                s.Bounce.JitterMax,
		BouncePush:               s.Bounce.Push,
		DrillStepDistance:        s.Drill.StepDistance,
		DrillStepInterval:        s.Drill.StepInterval,
		DrillDuration:            s.Drill.Duration,
		DrillBlastRadius:         s.Drill.BlastRadius,
		DrillDetonationRadius:    s.Drill.DetonationRadius,
		NextShotDelay:            s.NextShotDelay,
		IdleTimeout:              s.IdleTimeout,
		MarkerFrames:             s.MarkerFrames,
	}
	for name, p := range s.Projectile.Physics {
		v, err := component.ParseVariant(name)
		if err != nil {
			return component.Tuning{}, fmt.Errorf("prefabs: tuning physics: %w", err)
		}
		t.Physics[v] = component.VariantPhysics(p)
	}
	if t.TickDuration <= 0 {
		return component.Tuning{}, fmt.Errorf("prefabs: tuning: tick_duration must be positive")
	}
	if t.JitterMin > t.JitterMax {
		return component.Tuning{}, fmt.Errorf("prefabs: tuning: jitter_min %.3f exceeds jitter_max %.3f", t.JitterMin, t.JitterMax)
	}
	if t.ClusterMinSecondaries > t.ClusterMaxSecondaries {
		return component.Tuning{}, fmt.Errorf("prefabs: tuning: cluster min_secondaries exceeds max_secondaries")
	}
	return t, nil
}

// LoadTuning reads a tuning file on top of the defaults.
func LoadTuning(filename string) (component.Tuning, error) {
	data, err := Load(filename)
	if err != nil {
		return component.Tuning{}, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	spec := NewTuningSpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return component.Tuning{}, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec.Tuning()
}

// BlockTypeSpec is one entry of blocks.yaml.
type BlockTypeSpec struct {
	HitPoints    int       `yaml:"hit_points"`
	Destructible *bool     `yaml:"destructible"`
	Armored      bool      `yaml:"armored"`
	Color        YAMLColor `yaml:"color"`
}

// BlocksSpec is the block type table keyed by type name.
type BlocksSpec struct {
	Types map[string]BlockTypeSpec `yaml:"types"`
}

// Registry builds a block registry from the table.
func (s BlocksSpec) Registry() (*registry.Registry, error) {
	overrides := make(map[component.BlockType]registry.Entry, len(s.Types))
	for name, spec := range s.Types {
		t, err := component.ParseBlockType(name)
		if err != nil {
			return nil, fmt.Errorf("prefabs: blocks: %w", err)
		}
		destructible := true
		if spec.Destructible != nil {
			destructible = *spec.Destructible
		}
		overrides[t] = registry.Entry{HitPoints: spec.HitPoints, Destructible: destructible, Armored: spec.Armored}
	}
	r, err := registry.New(overrides)
	if err != nil {
		return nil, fmt.Errorf("prefabs: blocks: %w", err)
	}
	return r, nil
}

// Colors returns the configured debug color per block type.
func (s BlocksSpec) Colors() map[component.BlockType]color.Color {
	out := make(map[component.BlockType]color.Color, len(s.Types))
	for name, spec := range s.Types {
		t, err := component.ParseBlockType(name)
		if err != nil || spec.Color.Color == nil {
			continue
		}
		out[t] = spec.Color.Color
	}
	return out
}

func LoadBlocksSpec(filename string) (BlocksSpec, error) {
	return LoadSpec[BlocksSpec](filename)
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// BlockSpec places a single block by center point.
type BlockSpec struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Type string  `yaml:"type"`
}

// GridSpec lays out blocks from rows of characters, one cell per block. The
// legend maps characters to block type names; '.' and ' ' are empty.
type GridSpec struct {
	Origin PointSpec         `yaml:"origin"`
	Rows   []string          `yaml:"rows"`
	Legend map[string]string `yaml:"legend"`
}

// LevelSpec describes one playable level.
type LevelSpec struct {
	Name          string         `yaml:"name"`
	Width         float64        `yaml:"width"`
	Height        float64        `yaml:"height"`
	TargetPercent int            `yaml:"target_percent"`
	BlockSize     float64        `yaml:"block_size"`
	Launcher      PointSpec      `yaml:"launcher"`
	Arsenal       map[string]int `yaml:"arsenal"`
	Select        string         `yaml:"select"`
	Blocks        []BlockSpec    `yaml:"blocks"`
	Grid          *GridSpec      `yaml:"grid"`
	Layout        string         `yaml:"layout"`
	Seed          int64          `yaml:"seed"`
}

const defaultTargetPercent = 85

var defaultLegend = map[string]string{
	"S": "standard",
	"R": "reinforced",
	"E": "explosive",
	"I": "indestructible",
	"B": "springy",
}

// LoadLevel reads levels/<name>.yaml.
func LoadLevel(name string) (LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec](levelPath(name))
	if err != nil {
		return LevelSpec{}, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(strings.TrimPrefix(levelPath(name), "levels/"), ".yaml")
	}
	if spec.TargetPercent <= 0 {
		spec.TargetPercent = defaultTargetPercent
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return LevelSpec{}, fmt.Errorf("prefabs: level %s: width and height must be positive", spec.Name)
	}
	return spec, nil
}

// ArsenalCounts parses the arsenal map into variant counts.
func (s LevelSpec) ArsenalCounts() (map[component.Variant]int, error) {
	out := make(map[component.Variant]int, len(s.Arsenal))
	for name, n := range s.Arsenal {
		v, err := component.ParseVariant(name)
		if err != nil {
			return nil, fmt.Errorf("prefabs: level %s arsenal: %w", s.Name, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("prefabs: level %s arsenal: negative count %d for %s", s.Name, n, v)
		}
		out[v] += n
	}
	return out, nil
}

// PlacedBlock is a resolved block position and type.
type PlacedBlock struct {
	X    float64
	Y    float64
	Type component.BlockType
}

// ResolveBlocks merges explicit blocks, the grid and the layout script output.
func (s LevelSpec) ResolveBlocks(blockSize float64) ([]PlacedBlock, error) {
	if s.BlockSize > 0 {
		blockSize = s.BlockSize
	}
	var out []PlacedBlock
	add := func(b BlockSpec, origin string) error {
		t, err := component.ParseBlockType(b.Type)
		if err != nil {
			return fmt.Errorf("prefabs: level %s %s: %w", s.Name, origin, err)
		}
		out = append(out, PlacedBlock{X: b.X, Y: b.Y, Type: t})
		return nil
	}

	for _, b := range s.Blocks {
		if err := add(b, "blocks"); err != nil {
			return nil, err
		}
	}

	if s.Grid != nil {
		legend := s.Grid.Legend
		if len(legend) == 0 {
			legend = defaultLegend
		}
		for row, line := range s.Grid.Rows {
			for col, ch := range line {
				if ch == '.' || ch == ' ' {
					continue
				}
				name, ok := legend[string(ch)]
				if !ok {
					return nil, fmt.Errorf("prefabs: level %s grid row %d: no legend entry for %q", s.Name, row, ch)
				}
				b := BlockSpec{
					X:    s.Grid.Origin.X + float64(col)*blockSize + blockSize/2,
					Y:    s.Grid.Origin.Y + float64(row)*blockSize + blockSize/2,
					Type: name,
				}
				if err := add(b, "grid"); err != nil {
					return nil, err
				}
			}
		}
	}

	if s.Layout != "" {
		scripted, err := RunLayoutScript(s.Layout, LayoutParams{Width: s.Width, Height: s.Height, BlockSize: blockSize, Seed: s.Seed})
		if err != nil {
			return nil, fmt.Errorf("prefabs: level %s: %w", s.Name, err)
		}
		for _, b := range scripted {
			if err := add(b, "layout"); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or a CSS color name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if !strings.HasPrefix(value.Value, "#") {
		named, ok := colornames.Map[strings.ToLower(value.Value)]
		if !ok {
			return fmt.Errorf("unknown color name: %s", value.Value)
		}
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
