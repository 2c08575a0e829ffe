package prefabs

import (
	"context"
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"gopkg.in/yaml.v3"
)

// LayoutParams are exposed to layout scripts as globals.
type LayoutParams struct {
	Width     float64
	Height    float64
	BlockSize float64
	Seed      int64
}

// layoutTimeout bounds a single script run so a runaway loop cannot stall
// level loading.
const layoutTimeout = 2 * time.Second

// RunLayoutScript runs a tengo script that must define a global `blocks`
// array of {x, y, type} maps.
func RunLayoutScript(name string, params LayoutParams) ([]BlockSpec, error) {
	ctx, cancel := context.WithTimeout(context.Background(), layoutTimeout)
	defer cancel()
	return RunLayoutScriptContext(ctx, name, params)
}

func RunLayoutScriptContext(ctx context.Context, name string, params LayoutParams) ([]BlockSpec, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", name, err)
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	_ = script.Add("width", params.Width)
	_ = script.Add("height", params.Height)
	_ = script.Add("block_size", params.BlockSize)
	_ = script.Add("seed", params.Seed)

	compiled, err := script.RunContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("layout %s: run: %w", name, err)
	}

	raw := compiled.Get("blocks")
	if raw.IsUndefined() || raw.ValueType() != "array" {
		return nil, fmt.Errorf("layout %s: global blocks must be an array, got %s", name, raw.ValueType())
	}

	blocks, err := decodeSpec[[]BlockSpec](raw.Array())
	if err != nil {
		return nil, fmt.Errorf("layout %s: decode blocks: %w", name, err)
	}
	return blocks, nil
}

// decodeSpec converts loosely typed values (script output, generic YAML) into
// a typed spec through a YAML round trip.
func decodeSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}
