package component

import "time"

// VariantPhysics is the fixed material tuple of one projectile variant.
type VariantPhysics struct {
	Density     float64
	FrictionAir float64
	Restitution float64
	Friction    float64
}

// Tuning collects every gameplay constant the effect systems read.
type Tuning struct {
	TickDuration time.Duration
	Gravity      float64

	ProjectileRadius float64
	DisplaySize      float64
	Depth            int
	MaxLaunchPower   float64
	Physics          map[Variant]VariantPhysics

	BlockSize float64

	BlastRadius float64

	PiercerLength        float64
	PiercerStep          float64
	PiercerPointRadius   float64
	PiercerTriggerEvery  float64
	PiercerTriggerRadius float64
	PiercerSegmentDelay  time.Duration

	ClusterPrimaryRadius   float64
	ClusterSecondaryRadius float64
	ClusterMinSecondaries  int
	ClusterMaxSecondaries  int
	ClusterMinOffset       float64
	ClusterMaxOffset       float64
	ClusterDelayPerUnit    time.Duration

	StickyDetonationRadius float64

	HeavyImpactRadius        float64
	HeavyImpactTriggerRadius float64

	ExplosiveBlockRadius float64

	RicochetRadius     float64
	RicochetFuse       time.Duration
	RicochetFuseRadius float64

	Restitution float64
	JitterMin   float64
	JitterMax   float64
	BouncePush  float64

	DrillStepDistance     float64
	DrillStepInterval     time.Duration
	DrillDuration         time.Duration
	DrillBlastRadius      float64
	DrillDetonationRadius float64

	NextShotDelay time.Duration
	IdleTimeout   time.Duration

	MarkerFrames int
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		TickDuration: time.Second / 60,
		Gravity:      0.3,

		ProjectileRadius: 30,
		DisplaySize:      60,
		Depth:            12,
		MaxLaunchPower:   20,
		Physics:          DefaultVariantPhysics(),

		BlockSize: 15,

		BlastRadius: 150,

		PiercerLength:        300,
		PiercerStep:          10,
		PiercerPointRadius:   30,
		PiercerTriggerEvery:  50,
		PiercerTriggerRadius: 60,

		ClusterPrimaryRadius:   100,
		ClusterSecondaryRadius: 70,
		ClusterMinSecondaries:  3,
		ClusterMaxSecondaries:  5,
		ClusterMinOffset:       70,
		ClusterMaxOffset:       220,
		ClusterDelayPerUnit:    2 * time.Millisecond,

		StickyDetonationRadius: 440,

		HeavyImpactRadius:        250,
		HeavyImpactTriggerRadius: 300,

		ExplosiveBlockRadius: 200,

		RicochetRadius:     40,
		RicochetFuse:       5 * time.Second,
		RicochetFuseRadius: 150,

		Restitution: 0.95,
		JitterMin:   0.9,
		JitterMax:   1.1,
		BouncePush:  5,

		DrillStepDistance:     10,
		DrillStepInterval:     100 * time.Millisecond,
		DrillDuration:         3 * time.Second,
		DrillBlastRadius:      250,
		DrillDetonationRadius: 250,

		NextShotDelay: time.Second,
		IdleTimeout:   15 * time.Second,

		MarkerFrames: 30,
	}
}

// DefaultVariantPhysics returns the material tuple of every variant.
func DefaultVariantPhysics() map[Variant]VariantPhysics {
	base := VariantPhysics{Density: 0.0003, FrictionAir: 0.001, Restitution: 0.9, Friction: 0.01}
	with := func(density, air float64) VariantPhysics {
		p := base
		p.Density = density
		p.FrictionAir = air
		return p
	}
	piercer := with(0.0005, 0.0008)
	piercer.Friction = 0.002
	return map[Variant]VariantPhysics{
		VariantBlast:       base,
		VariantPiercer:     piercer,
		VariantCluster:     with(0.0002, 0.001),
		VariantSticky:      with(0.0003, 0.001),
		VariantHeavyImpact: with(0.0004, 0.0009),
		VariantDrilling:    with(0.0004, 0.0008),
		VariantRicochet:    {Density: 0.0003, FrictionAir: 0.0005, Restitution: 1.0, Friction: 0.001},
	}
}

// PhysicsFor returns the tuple for v, falling back to Blast's.
func (t Tuning) PhysicsFor(v Variant) VariantPhysics {
	if p, ok := t.Physics[v]; ok {
		return p
	}
	if p, ok := t.Physics[VariantBlast]; ok {
		return p
	}
	return DefaultVariantPhysics()[VariantBlast]
}
