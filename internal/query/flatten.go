package query

// flatten orders edges for evaluation: a depth-first walk from the root
// records edges in visitation order, then the list is reversed, yielding a
// deepest-first sequence. For any two edges on a path from the root the
// descendant-side edge comes first, so every child set is fully narrowed
// before an ancestor edge consumes it. Computed once at compile time.
//
// The walk also annotates each edge with whether its child node has deeper
// edges of its own, which the executor uses to pick the per-parent
// short-circuit mode.
func flatten(edges []edge, root nodeID) ([]edge, error) {
	children := make(map[nodeID][]int, len(edges))
	for i, e := range edges {
		children[e.parent] = append(children[e.parent], i)
	}

	if len(children[root]) == 0 {
		// Compile only calls flatten with at least one edge, and every edge
		// hangs off the root's subtree, so an edge set that does not resolve
		// the root is a construction defect.
		return nil, &PlanError{Message: "root node has no edges in a non-empty edge set"}
	}

	ordered := make([]edge, 0, len(edges))
	var walk func(id nodeID)
	walk = func(id nodeID) {
		for _, i := range children[id] {
			e := edges[i]
			e.childHasEdges = len(children[e.child]) > 0
			ordered = append(ordered, e)
			walk(e.child)
		}
	}
	walk(root)

	if len(ordered) != len(edges) {
		return nil, &PlanError{Message: "edges unreachable from root"}
	}

	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}
	return ordered, nil
}
