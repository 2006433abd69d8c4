package query

// Run evaluates the query against the world behind src and returns the
// surviving root entity ids, in the order the Source produced them. The
// result is never nil; no match yields an empty slice.
//
// Each call starts from a cleared evaluation state: node candidate sets are
// materialized lazily from src, narrowed bottom-up edge by edge, and the
// whole call terminates early with an empty result as soon as any
// intermediate set empties — under deepest-first ordering no later edge can
// revive a set a deeper edge proved empty.
//
// Run reuses the Query's scratch state across calls and therefore serializes
// internally. Callers that need concurrent evaluation should compile one
// Query per goroutine and share only the Source.
func (q *Query) Run(src Source) []EntityID {
	q.mu.Lock()
	defer q.mu.Unlock()

	clear(q.state)
	p := q.plan

	for _, e := range p.edges {
		parents := q.candidates(src, e.parent)
		children := q.candidates(src, e.child)

		// A leaf child feeds no deeper edge, so the first match per parent
		// suffices; otherwise every matching child must be collected.
		parents, children = narrow(src, parents, children, e.pred, !e.childHasEdges)
		q.state[e.parent] = parents
		q.state[e.child] = children

		if len(parents) == 0 || len(children) == 0 {
			return []EntityID{}
		}
	}

	final := q.state[p.root]
	out := make([]EntityID, len(final))
	copy(out, final)
	return out
}

// candidates returns the node's current candidate list, materializing it
// from the Source on first reference within this call.
func (q *Query) candidates(src Source, id nodeID) []EntityID {
	if list, ok := q.state[id]; ok {
		return list
	}
	list := src.Lookup(q.plan.nodes[id].reqs)
	q.state[id] = list
	return list
}

// narrow applies the existential pairwise filter: a parent survives iff at
// least one child satisfies match, and exactly the children that witnessed a
// surviving parent are kept. With shortCircuit set, scanning stops at the
// first witness per parent.
//
// Kept children are deduplicated — a child matching several parents appears
// once — and both output lists preserve their input order, so Source ordering
// flows through to results.
func narrow(src Source, parents, children []EntityID, match Predicate, shortCircuit bool) ([]EntityID, []EntityID) {
	matched := make(map[EntityID]struct{}, len(children))
	keptParents := parents[:0:0]

	for _, p := range parents {
		found := false
		for _, c := range children {
			if match(src, p, c) {
				found = true
				matched[c] = struct{}{}
				if shortCircuit {
					break
				}
			}
		}
		if found {
			keptParents = append(keptParents, p)
		}
	}

	keptChildren := children[:0:0]
	for _, c := range children {
		if _, ok := matched[c]; ok {
			keptChildren = append(keptChildren, c)
		}
	}
	return keptParents, keptChildren
}
