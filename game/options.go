package game

import (
	"fmt"

	"github.com/milk9111/bombbreaker/prefabs"
)

// LoadOptions reads tuning.yaml and blocks.yaml from prefabs.
func LoadOptions(seed uint64) (Options, error) {
	tuning, err := prefabs.LoadTuning("tuning.yaml")
	if err != nil {
		return Options{}, fmt.Errorf("game: load options: %w", err)
	}
	blocks, err := prefabs.LoadBlocksSpec("blocks.yaml")
	if err != nil {
		return Options{}, fmt.Errorf("game: load options: %w", err)
	}
	reg, err := blocks.Registry()
	if err != nil {
		return Options{}, fmt.Errorf("game: load options: %w", err)
	}
	return Options{Tuning: &tuning, Registry: reg, Seed: seed}, nil
}
