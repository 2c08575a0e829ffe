package component

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownBlockType = errors.New("component: unknown block type")

type BlockType uint8

const (
	BlockStandard BlockType = iota
	BlockReinforced
	BlockExplosive
	BlockIndestructible
	BlockSpringy
)

var blockTypeNames = [...]string{
	BlockStandard:       "standard",
	BlockReinforced:     "reinforced",
	BlockExplosive:      "explosive",
	BlockIndestructible: "indestructible",
	BlockSpringy:        "springy",
}

var blockTypeAliases = map[string]BlockType{
	"strong":   BlockReinforced,
	"dynamite": BlockExplosive,
	"eternal":  BlockIndestructible,
	"bouncy":   BlockSpringy,
}

func BlockTypes() []BlockType {
	return []BlockType{BlockStandard, BlockReinforced, BlockExplosive, BlockIndestructible, BlockSpringy}
}

func (t BlockType) String() string {
	if int(t) < len(blockTypeNames) {
		return blockTypeNames[t]
	}
	return fmt.Sprintf("block(%d)", uint8(t))
}

// ParseBlockType resolves a block type name. An empty name is Standard.
func ParseBlockType(s string) (BlockType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return BlockStandard, nil
	}
	for i, name := range blockTypeNames {
		if name == key {
			return BlockType(i), nil
		}
	}
	if t, ok := blockTypeAliases[key]; ok {
		return t, nil
	}
	return BlockStandard, fmt.Errorf("%w: %q", ErrUnknownBlockType, s)
}

// Block is a static destructible cell. HitPoints only ever decrease; once
// Active is false the block loses its collider and is never matched again.
type Block struct {
	Type      BlockType
	HitPoints int
	Active    bool
	Size      float64
}

var BlockComponent = NewComponent[Block]()
