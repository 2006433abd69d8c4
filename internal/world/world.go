package world

import (
	"sort"

	"github.com/google/uuid"

	"github.com/roach88/sift/internal/query"
)

// World is an in-memory attribute store with a labeled link registry. It is
// the reference implementation of query.Source: attribute membership is held
// as per-attribute entity sets, links as kind-labeled directed pairs.
//
// World is not synchronized. Callers that mutate it while queries run must
// serialize externally; the expected pattern is mutate, evaluate, repeat.
type World struct {
	entities map[query.EntityID]struct{}
	attrs    map[query.Attr]map[query.EntityID]struct{}
	links    map[string]map[query.EntityID]map[query.EntityID]struct{}
}

// New creates an empty World.
func New() *World {
	return &World{
		entities: make(map[query.EntityID]struct{}),
		attrs:    make(map[query.Attr]map[query.EntityID]struct{}),
		links:    make(map[string]map[query.EntityID]map[query.EntityID]struct{}),
	}
}

// Spawn mints a new entity with a UUIDv7 id and registers it.
func (w *World) Spawn() query.EntityID {
	id := query.EntityID(uuid.Must(uuid.NewV7()).String())
	w.entities[id] = struct{}{}
	return id
}

// SpawnID registers an entity under a caller-chosen id. Used by fixtures and
// tests, where stable ids matter more than uniqueness guarantees.
func (w *World) SpawnID(id query.EntityID) {
	w.entities[id] = struct{}{}
}

// Destroy removes the entity, all its attributes, and every link touching it.
func (w *World) Destroy(id query.EntityID) {
	if _, ok := w.entities[id]; !ok {
		return
	}
	delete(w.entities, id)
	for _, set := range w.attrs {
		delete(set, id)
	}
	for _, byFrom := range w.links {
		delete(byFrom, id)
		for _, targets := range byFrom {
			delete(targets, id)
		}
	}
}

// Alive reports whether the entity is registered.
func (w *World) Alive(id query.EntityID) bool {
	_, ok := w.entities[id]
	return ok
}

// Tag attaches attributes to an entity. Unknown entities are ignored.
func (w *World) Tag(id query.EntityID, attrs ...query.Attr) {
	if _, ok := w.entities[id]; !ok {
		return
	}
	for _, a := range attrs {
		set := w.attrs[a]
		if set == nil {
			set = make(map[query.EntityID]struct{})
			w.attrs[a] = set
		}
		set[id] = struct{}{}
	}
}

// Untag detaches attributes from an entity.
func (w *World) Untag(id query.EntityID, attrs ...query.Attr) {
	for _, a := range attrs {
		if set := w.attrs[a]; set != nil {
			delete(set, id)
		}
	}
}

// HasAttr reports whether the entity holds the attribute.
func (w *World) HasAttr(id query.EntityID, a query.Attr) bool {
	_, ok := w.attrs[a][id]
	return ok
}

// Link records a directed link of the given kind from one entity to another.
func (w *World) Link(kind string, from, to query.EntityID) {
	byFrom := w.links[kind]
	if byFrom == nil {
		byFrom = make(map[query.EntityID]map[query.EntityID]struct{})
		w.links[kind] = byFrom
	}
	targets := byFrom[from]
	if targets == nil {
		targets = make(map[query.EntityID]struct{})
		byFrom[from] = targets
	}
	targets[to] = struct{}{}
}

// Unlink removes a directed link.
func (w *World) Unlink(kind string, from, to query.EntityID) {
	if byFrom := w.links[kind]; byFrom != nil {
		if targets := byFrom[from]; targets != nil {
			delete(targets, to)
		}
	}
}

// LinkTargets returns the entities the given entity links to via kind,
// sorted for deterministic iteration.
func (w *World) LinkTargets(kind string, from query.EntityID) []query.EntityID {
	targets := w.links[kind][from]
	if len(targets) == 0 {
		return nil
	}
	out := make([]query.EntityID, 0, len(targets))
	for id := range targets {
		out = append(out, id)
	}
	sortIDs(out)
	return out
}

// Lookup implements query.Source. An empty requirement list yields every
// registered entity. Results are sorted so repeated lookups over unchanged
// state produce identical sequences.
func (w *World) Lookup(reqs []query.Requirement) []query.EntityID {
	var positive, negative []query.Attr
	for _, r := range reqs {
		if r.Negated {
			negative = append(negative, r.Attr)
		} else {
			positive = append(positive, r.Attr)
		}
	}

	var out []query.EntityID
	if len(positive) == 0 {
		for id := range w.entities {
			if w.excluded(id, negative) {
				continue
			}
			out = append(out, id)
		}
	} else {
		// Iterate the smallest positive attribute set as the candidate pool.
		smallest := positive[0]
		for _, a := range positive[1:] {
			if len(w.attrs[a]) < len(w.attrs[smallest]) {
				smallest = a
			}
		}
		for id := range w.attrs[smallest] {
			if _, alive := w.entities[id]; !alive {
				continue
			}
			if !w.holdsAll(id, positive, smallest) || w.excluded(id, negative) {
				continue
			}
			out = append(out, id)
		}
	}

	if out == nil {
		return []query.EntityID{}
	}
	sortIDs(out)
	return out
}

func (w *World) holdsAll(id query.EntityID, attrs []query.Attr, skip query.Attr) bool {
	for _, a := range attrs {
		if a == skip {
			continue
		}
		if _, ok := w.attrs[a][id]; !ok {
			return false
		}
	}
	return true
}

func (w *World) excluded(id query.EntityID, negative []query.Attr) bool {
	for _, a := range negative {
		if _, ok := w.attrs[a][id]; ok {
			return true
		}
	}
	return false
}

func sortIDs(ids []query.EntityID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
