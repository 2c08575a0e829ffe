// Command schema writes JSON schemas for the prefab YAML files so editors can
// validate them.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/milk9111/bombbreaker/prefabs"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	colorType    = reflect.TypeOf(prefabs.YAMLColor{})
)

type target struct {
	file        string
	title       string
	description string
	value       any
}

var targets = []target{
	{
		file:        "level.schema.json",
		title:       "Level",
		description: "A level in prefabs/levels.",
		value:       new(prefabs.LevelSpec),
	},
	{
		file:        "tuning.schema.json",
		title:       "Tuning",
		description: "Gameplay constants in prefabs/tuning.yaml.",
		value:       new(prefabs.TuningSpec),
	},
	{
		file:        "blocks.schema.json",
		title:       "Block types",
		description: "The block type table in prefabs/blocks.yaml.",
		value:       new(prefabs.BlocksSpec),
	},
}

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write the schemas to")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	for _, t := range targets {
		if err := writeSchema(filepath.Join(outDir, t.file), buildSchema(t)); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", t.file, err)
			os.Exit(1)
		}
	}
}

func buildSchema(t target) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
		Mapper:                     mapType,
	}
	schema := reflector.Reflect(t.value)
	schema.Title = t.title
	schema.Description = t.description
	return schema
}

// mapType describes the types that YAML reads from strings.
func mapType(t reflect.Type) *jsonschema.Schema {
	switch t {
	case durationType:
		return &jsonschema.Schema{
			Type:        "string",
			Pattern:     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
			Description: "Go duration, for example 100ms or 1.5s.",
		}
	case colorType:
		return &jsonschema.Schema{
			Type:        "string",
			Description: "Hex color (#rrggbb or #rrggbbaa) or a CSS color name.",
		}
	}
	return nil
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
