package prefabs

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/milk9111/bombbreaker/ecs/component"
)

func TestPyramidLayout(t *testing.T) {
	embeddedOnly(t)

	blocks, err := RunLayoutScript("pyramid.tengo", LayoutParams{Width: 1024, Height: 720, BlockSize: 15})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if len(blocks) != 110 {
		t.Fatalf("blocks = %d, want 110", len(blocks))
	}

	first := blocks[0]
	if math.Abs(first.X-471.9) > 1e-6 || first.Y != 680 || first.Type != "reinforced" {
		t.Fatalf("first block = %+v", first)
	}

	explosive := 0
	for _, b := range blocks {
		if b.Type == "explosive" {
			explosive++
			if b.Y != 680 {
				t.Fatalf("explosive off the bottom row: %+v", b)
			}
		}
	}
	if explosive != 4 {
		t.Fatalf("explosive blocks = %d, want 4", explosive)
	}
}

func TestCheckerLayoutIsSeeded(t *testing.T) {
	embeddedOnly(t)

	params := LayoutParams{Width: 1024, Height: 640, BlockSize: 15, Seed: 11}
	a, err := RunLayoutScript("scripts/checker.tengo", params)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	b, err := RunLayoutScript("checker.tengo", params)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if len(a) != 16*12 || len(a) != len(b) {
		t.Fatalf("blocks = %d/%d, want %d", len(a), len(b), 16*12)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("block %d differs between runs with the same seed: %+v vs %+v", i, a[i], b[i])
		}
		if _, err := component.ParseBlockType(a[i].Type); err != nil {
			t.Fatalf("block %d: %v", i, err)
		}
	}
}

func TestLayoutScriptErrors(t *testing.T) {
	useDisk(t, map[string]string{
		"scripts/scalar.tengo":  "blocks := 5\n",
		"scripts/broken.tengo":  "blocks := [\n",
		"scripts/badtype.tengo": `blocks := [{x: 1, y: 2, type: []}]` + "\n",
	})

	for _, name := range []string{"scalar.tengo", "broken.tengo", "badtype.tengo", "missing.tengo"} {
		t.Run(name, func(t *testing.T) {
			if _, err := RunLayoutScript(name, LayoutParams{}); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestLayoutScriptHonorsContext(t *testing.T) {
	useDisk(t, map[string]string{
		"scripts/spin.tengo": "for {}\nblocks := []\n",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := RunLayoutScriptContext(ctx, "spin.tengo", LayoutParams{}); err == nil {
		t.Fatalf("runaway script should be stopped")
	}
}

func TestResolveBlocksRunsLayout(t *testing.T) {
	embeddedOnly(t)

	spec, err := LoadLevel("pyramid")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	blocks, err := spec.ResolveBlocks(15)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(blocks) != 110 {
		t.Fatalf("blocks = %d, want 110", len(blocks))
	}
	for _, b := range blocks {
		if b.X < 0 || b.X > spec.Width || b.Y < 0 || b.Y > spec.Height {
			t.Fatalf("block outside level: %+v", b)
		}
	}
}
