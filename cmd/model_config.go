package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/separk-1/mdp-intervention/sim"
)

// LoadModelSpec reads a model definition from a YAML or JSON file.
// Unknown keys are rejected so that a misspelled section is never ignored.
func LoadModelSpec(path string) (sim.ModelSpec, error) {
	var spec sim.ModelSpec
	data, err := os.ReadFile(path)
	if err != nil {
		return spec, fmt.Errorf("reading model file: %w", err)
	}
	if err := decodeStrict(data, &spec); err != nil {
		return spec, fmt.Errorf("parsing model file %s: %w", path, err)
	}
	return spec, nil
}

// LoadModel reads and validates a model file.
func LoadModel(path string) (*sim.Model, error) {
	spec, err := LoadModelSpec(path)
	if err != nil {
		return nil, err
	}
	m, err := sim.NewModel(spec)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return m, nil
}

// decodeStrict decodes YAML (and therefore JSON) with KnownFields(true).
func decodeStrict(data []byte, v any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(v)
}
