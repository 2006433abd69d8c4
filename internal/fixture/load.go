package fixture

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// LoadYAML reads and validates a YAML fixture. Unknown fields are rejected so
// typos in fixture files fail loudly instead of silently dropping data.
func LoadYAML(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}

	f.normalize()
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture %s: %w", path, err)
	}
	return &f, nil
}

// LoadCUE reads a CUE fixture, unifies it with the embedded #Fixture schema,
// and decodes it. Schema violations are reported before any decoding happens.
func LoadCUE(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	cctx := cuecontext.New()
	schema := cctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile fixture schema: %w", err)
	}

	val := cctx.CompileBytes(data, cue.Filename(path))
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Fixture")).Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("fixture %s does not satisfy schema: %w", path, err)
	}

	var f Fixture
	if err := unified.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", path, err)
	}

	f.normalize()
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture %s: %w", path, err)
	}
	return &f, nil
}
