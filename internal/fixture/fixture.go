// Package fixture loads world snapshots from YAML or CUE files.
//
// A fixture declares entities with their attribute sets plus labeled directed
// links, and can be applied to an in-memory world or imported into the SQLite
// store. CUE fixtures are validated against the embedded #Fixture schema
// before decoding; YAML fixtures rely on strict decoding plus Validate.
//
// All identifiers and attribute tokens are NFC-normalized on load, so
// fixtures authored with different Unicode compositions of the same name
// agree with each other and with query specifications.
package fixture

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sift/internal/query"
	"github.com/roach88/sift/internal/world"
)

// Entity declares one entity and its attribute set.
type Entity struct {
	ID    string   `yaml:"id" json:"id"`
	Attrs []string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
}

// Link declares a directed labeled link between two declared entities.
type Link struct {
	Kind string `yaml:"kind" json:"kind"`
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Fixture is a declarative world snapshot.
type Fixture struct {
	Name     string   `yaml:"name,omitempty" json:"name,omitempty"`
	Entities []Entity `yaml:"entities" json:"entities"`
	Links    []Link   `yaml:"links,omitempty" json:"links,omitempty"`
}

// Load reads a fixture file, dispatching on extension: .cue goes through the
// CUE loader, .yaml/.yml through the YAML loader.
func Load(path string) (*Fixture, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return LoadCUE(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported fixture format %q (want .cue, .yaml or .yml)", filepath.Ext(path))
	}
}

// Validate checks internal consistency: non-empty unique entity ids, and
// links whose endpoints and kinds are all declared. Fails on the first
// problem found.
func (f *Fixture) Validate() error {
	ids := make(map[string]struct{}, len(f.Entities))
	for i, e := range f.Entities {
		if e.ID == "" {
			return fmt.Errorf("entity %d: empty id", i)
		}
		if _, dup := ids[e.ID]; dup {
			return fmt.Errorf("entity %d: duplicate id %q", i, e.ID)
		}
		ids[e.ID] = struct{}{}
	}
	for i, l := range f.Links {
		if l.Kind == "" {
			return fmt.Errorf("link %d: empty kind", i)
		}
		if _, ok := ids[l.From]; !ok {
			return fmt.Errorf("link %d: unknown entity %q", i, l.From)
		}
		if _, ok := ids[l.To]; !ok {
			return fmt.Errorf("link %d: unknown entity %q", i, l.To)
		}
	}
	return nil
}

// Apply populates the world with the fixture's entities, attributes and
// links. The fixture must have been validated.
func (f *Fixture) Apply(w *world.World) {
	for _, e := range f.Entities {
		id := query.EntityID(e.ID)
		w.SpawnID(id)
		for _, a := range e.Attrs {
			w.Tag(id, query.Attr(a))
		}
	}
	for _, l := range f.Links {
		w.Link(l.Kind, query.EntityID(l.From), query.EntityID(l.To))
	}
}

// normalize applies NFC to every identifier and attribute token in place.
func (f *Fixture) normalize() {
	for i := range f.Entities {
		f.Entities[i].ID = norm.NFC.String(f.Entities[i].ID)
		for j, a := range f.Entities[i].Attrs {
			f.Entities[i].Attrs[j] = norm.NFC.String(a)
		}
	}
	for i := range f.Links {
		f.Links[i].Kind = norm.NFC.String(f.Links[i].Kind)
		f.Links[i].From = norm.NFC.String(f.Links[i].From)
		f.Links[i].To = norm.NFC.String(f.Links[i].To)
	}
}
