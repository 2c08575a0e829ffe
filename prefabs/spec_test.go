package prefabs

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/bombbreaker/ecs/component"
	"gopkg.in/yaml.v3"
)

// useDisk points DiskRoot at a temp dir holding files, keyed by prefab path.
func useDisk(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	old := DiskRoot
	DiskRoot = root
	t.Cleanup(func() { DiskRoot = old })
	return root
}

func embeddedOnly(t *testing.T) {
	t.Helper()
	old := DiskRoot
	DiskRoot = ""
	t.Cleanup(func() { DiskRoot = old })
}

func TestEmbeddedTuningMatchesDefaults(t *testing.T) {
	embeddedOnly(t)

	got, err := LoadTuning("tuning.yaml")
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}
	want := component.DefaultTuning()
	if got.BlastRadius != want.BlastRadius || got.StickyDetonationRadius != want.StickyDetonationRadius {
		t.Fatalf("radii = %v/%v, want %v/%v", got.BlastRadius, got.StickyDetonationRadius, want.BlastRadius, want.StickyDetonationRadius)
	}
	if got.DrillStepInterval != 100*time.Millisecond || got.RicochetFuse != 5*time.Second {
		t.Fatalf("durations = %v/%v", got.DrillStepInterval, got.RicochetFuse)
	}
	if len(got.Physics) != len(component.Variants()) {
		t.Fatalf("physics entries = %d, want one per variant", len(got.Physics))
	}
}

func TestTuningOverridesKeepDefaults(t *testing.T) {
	useDisk(t, map[string]string{
		"tuning.yaml": "blast:\n  radius: 90\nnext_shot_delay: 250ms\n",
	})

	got, err := LoadTuning("tuning.yaml")
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}
	def := component.DefaultTuning()
	if got.BlastRadius != 90 || got.NextShotDelay != 250*time.Millisecond {
		t.Fatalf("overrides not applied: radius=%v delay=%v", got.BlastRadius, got.NextShotDelay)
	}
	if got.HeavyImpactRadius != def.HeavyImpactRadius || got.TickDuration != def.TickDuration {
		t.Fatalf("omitted keys lost their defaults")
	}
}

func TestTuningValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "zero tick", body: "tick_duration: 0s\n"},
		{name: "jitter", body: "bounce:\n  jitter_min: 1.2\n  jitter_max: 1.0\n"},
		{name: "cluster counts", body: "cluster:\n  min_secondaries: 6\n  max_secondaries: 2\n"},
		{name: "unknown variant", body: "projectile:\n  physics:\n    laser: {density: 1}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useDisk(t, map[string]string{"tuning.yaml": tt.body})
			if _, err := LoadTuning("tuning.yaml"); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestTuningSpecRoundTrip(t *testing.T) {
	def := component.DefaultTuning()
	got, err := TuningSpecFrom(def).Tuning()
	if err != nil {
		t.Fatalf("tuning: %v", err)
	}
	if got.ClusterDelayPerUnit != def.ClusterDelayPerUnit || got.DrillDuration != def.DrillDuration || got.Physics[component.VariantRicochet] != def.Physics[component.VariantRicochet] {
		t.Fatalf("round trip changed tuning")
	}
}

func TestBlocksRegistry(t *testing.T) {
	embeddedOnly(t)

	spec, err := LoadBlocksSpec("blocks.yaml")
	if err != nil {
		t.Fatalf("load blocks: %v", err)
	}
	reg, err := spec.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if reg.IsDestructible(component.BlockIndestructible) {
		t.Fatalf("indestructible blocks must not be destructible")
	}
	if reg.HitPoints(component.BlockReinforced) != 2 || !reg.IsArmored(component.BlockReinforced) {
		t.Fatalf("reinforced entry wrong")
	}
	colors := spec.Colors()
	if got := color.NRGBAModel.Convert(colors[component.BlockExplosive]).(color.NRGBA); got != (color.NRGBA{R: 0xdd, G: 0x33, B: 0x33, A: 0xff}) {
		t.Fatalf("explosive color = %v", got)
	}

	bad := BlocksSpec{Types: map[string]BlockTypeSpec{"glass": {HitPoints: 1}}}
	if _, err := bad.Registry(); !errors.Is(err, component.ErrUnknownBlockType) {
		t.Fatalf("err = %v, want ErrUnknownBlockType", err)
	}
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: `"#102030"`, want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}},
		{in: `"#10203040"`, want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{in: `Red`, want: color.NRGBA{R: 0xff, A: 0xff}},
		{in: `"#123"`, wantErr: true},
		{in: `"#zz2030"`, wantErr: true},
		{in: `notacolor`, wantErr: true},
		{in: `[1, 2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tt.in), &c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := color.NRGBAModel.Convert(c.Color).(color.NRGBA); got != tt.want {
				t.Fatalf("color = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadLevelDefaults(t *testing.T) {
	useDisk(t, map[string]string{
		"levels/bare.yaml": "width: 400\nheight: 300\narsenal: {blast: 1}\n",
		"levels/flat.yaml": "name: flat\nwidth: 0\nheight: 300\n",
	})

	spec, err := LoadLevel("bare")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Name != "bare" || spec.TargetPercent != 85 {
		t.Fatalf("defaults not applied: %+v", spec)
	}

	if _, err := LoadLevel("levels/flat.yaml"); err == nil {
		t.Fatalf("zero width should be rejected")
	}
	if _, err := LoadLevel("nope"); err == nil {
		t.Fatalf("missing level should error")
	}
}

func TestLevelNamesMergesDisk(t *testing.T) {
	useDisk(t, map[string]string{"levels/extra.yml": "width: 1\nheight: 1\n", "levels/notes.txt": "x"})

	names, err := LevelNames()
	if err != nil {
		t.Fatalf("level names: %v", err)
	}
	want := map[string]bool{"chain": false, "checker": false, "extra": false, "pyramid": false, "tutorial": false}
	for _, n := range names {
		if _, ok := want[n]; !ok {
			t.Fatalf("unexpected level %q in %v", n, names)
		}
		want[n] = true
	}
	for n, seen := range want {
		if !seen {
			t.Fatalf("level %q missing from %v", n, names)
		}
	}
}

func TestArsenalCounts(t *testing.T) {
	spec := LevelSpec{Name: "a", Arsenal: map[string]int{"blast": 2, "heavy_impact": 1}}
	got, err := spec.ArsenalCounts()
	if err != nil {
		t.Fatalf("arsenal: %v", err)
	}
	if got[component.VariantBlast] != 2 || got[component.VariantHeavyImpact] != 1 {
		t.Fatalf("counts = %v", got)
	}

	for _, bad := range []map[string]int{{"laser": 1}, {"blast": -1}} {
		if _, err := (LevelSpec{Arsenal: bad}).ArsenalCounts(); err == nil {
			t.Fatalf("arsenal %v should be rejected", bad)
		}
	}
}

func TestResolveGrid(t *testing.T) {
	spec := LevelSpec{
		Name:   "grid",
		Blocks: []BlockSpec{{X: 5, Y: 5, Type: "springy"}},
		Grid: &GridSpec{
			Origin: PointSpec{X: 100, Y: 200},
			Rows:   []string{"S.R", " EI"},
		},
	}
	got, err := spec.ResolveBlocks(10)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []PlacedBlock{
		{X: 5, Y: 5, Type: component.BlockSpringy},
		{X: 105, Y: 205, Type: component.BlockStandard},
		{X: 125, Y: 205, Type: component.BlockReinforced},
		{X: 115, Y: 215, Type: component.BlockExplosive},
		{X: 125, Y: 215, Type: component.BlockIndestructible},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("block %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestResolveGridLegendAndBlockSize(t *testing.T) {
	spec := LevelSpec{
		Name:      "legend",
		BlockSize: 20,
		Grid: &GridSpec{
			Rows:   []string{"xo"},
			Legend: map[string]string{"x": "explosive", "o": "standard"},
		},
	}
	got, err := spec.ResolveBlocks(10)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 2 || got[1].X != 30 || got[0].Type != component.BlockExplosive {
		t.Fatalf("got %+v", got)
	}

	spec.Grid.Rows = []string{"xz"}
	if _, err := spec.ResolveBlocks(10); err == nil {
		t.Fatalf("unknown legend character should error")
	}

	spec.Grid = nil
	spec.Blocks = []BlockSpec{{Type: "glass"}}
	if _, err := spec.ResolveBlocks(10); !errors.Is(err, component.ErrUnknownBlockType) {
		t.Fatalf("err = %v, want ErrUnknownBlockType", err)
	}
}
