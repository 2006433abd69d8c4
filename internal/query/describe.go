package query

import (
	"fmt"
	"sort"
	"strings"
)

// Describe renders the compiled plan in a stable textual form: the root, the
// node table, and the edge list in evaluation (bottom-up) order. Node ids and
// requirement order are deterministic for a given specification, so the
// rendering is suitable for golden-file comparison and diagnostics.
func (q *Query) Describe() string {
	p := q.plan

	ids := make([]nodeID, 0, len(p.nodes))
	for id := range p.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	fmt.Fprintf(&b, "root n%d\n", p.root)
	for _, id := range ids {
		n := p.nodes[id]
		fmt.Fprintf(&b, "node n%d [%s]\n", n.id, joinReqs(n.reqs))
	}
	for _, e := range p.edges {
		fmt.Fprintf(&b, "edge n%d -> n%d", e.parent, e.child)
		if !e.childHasEdges {
			b.WriteString(" (leaf child)")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func joinReqs(reqs []Requirement) string {
	parts := make([]string, len(reqs))
	for i, r := range reqs {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}
