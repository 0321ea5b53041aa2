package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"idle-battle-sim/internal/config"
)

type schemaFile struct {
	name        string
	title       string
	description string
	value       any
}

var files = []schemaFile{
	{"engine.schema.json", "Engine Settings", "Validates engine.yaml", new(config.Engine)},
	{"enemies.schema.json", "Enemy Catalog", "Validates enemies.yaml", new(config.Enemies)},
	{"player.schema.json", "Player Setup", "Validates player.yaml", new(config.Player)},
	{"profession.schema.json", "Profession Kit", "Validates professions/*.yaml (the `when` trees are checked by the loader)", new(config.Profession)},
}

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write the JSON schemas")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	for _, f := range files {
		schema := reflector.Reflect(f.value)
		schema.Title = f.title
		schema.Description = f.description
		if err := writeSchema(filepath.Join(outDir, f.name), schema); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write schema %s: %v\n", f.name, err)
			os.Exit(1)
		}
	}
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
