package query

import "sync"

// nodeID is a synthetic node identifier, unique within one compiled plan.
// Ids come from a monotonic counter scoped to one compilation, so collisions
// are avoided by construction and ids are stable across recompilations of
// the same specification.
type nodeID int

// node pairs a synthetic id with the attribute requirements accumulated at
// one nesting level of the specification. A node with no requirements anchors
// its filters on the all-entities set.
type node struct {
	id   nodeID
	reqs []Requirement
}

// edge links a parent node to a child node via a relationship predicate.
// childHasEdges records whether the child is itself a parent of deeper edges;
// it controls the executor's per-parent short-circuit, not correctness.
type edge struct {
	pred          Predicate
	parent, child nodeID
	childHasEdges bool
}

// plan is the immutable compiled form of a specification: an acyclic tree of
// nodes with one designated root, plus the edge list pre-flattened in
// bottom-up evaluation order. Built once, read-only thereafter.
type plan struct {
	root  nodeID
	nodes map[nodeID]*node
	edges []edge
}

// Query is a compiled specification, reusable across unboundedly many Run
// calls. The embedded scratch state makes Run calls on the same Query
// mutually exclusive; see Run.
type Query struct {
	plan *plan

	mu    sync.Mutex
	state map[nodeID][]EntityID
}

// Compile turns a specification into an executable Query.
//
// Consecutive plain requirements at one nesting level accumulate onto that
// level's node. Each filter becomes a child node (holding the filter's own
// plain requirements) plus an edge carrying its predicate; nested filters
// recurse with the child as the new accumulation target, which is how the
// relationship target of one level becomes the relationship source of the
// next.
//
// Compile fails with a SpecError when the specification is empty, contains an
// invalid term, or contains no filter at all.
func Compile(terms ...Term) (*Query, error) {
	if len(terms) == 0 {
		return nil, newSpecError(ErrCodeEmptySpec, "specification has no terms")
	}

	b := &planBuilder{nodes: make(map[nodeID]*node)}
	root, err := b.compileLevel(terms)
	if err != nil {
		return nil, err
	}

	if len(b.edges) == 0 {
		return nil, newSpecError(ErrCodeNoFilter,
			"specification has no relationship filter; use a plain attribute lookup instead")
	}

	flat, err := flatten(b.edges, root)
	if err != nil {
		return nil, err
	}

	return &Query{
		plan: &plan{
			root:  root,
			nodes: b.nodes,
			edges: flat,
		},
		state: make(map[nodeID][]EntityID, len(b.nodes)),
	}, nil
}

// planBuilder is the transient compilation arena. Nodes are addressed by id
// so requirement accumulation targets an arena slot rather than a shared
// mutable object.
type planBuilder struct {
	nextID nodeID
	nodes  map[nodeID]*node
	edges  []edge
}

func (b *planBuilder) newNode() nodeID {
	id := b.nextID
	b.nextID++
	b.nodes[id] = &node{id: id}
	return id
}

// compileLevel materializes one nesting level: a fresh node accumulating the
// level's plain requirements, plus one edge per filter term. Returns the
// level's node id.
func (b *planBuilder) compileLevel(terms []Term) (nodeID, error) {
	id := b.newNode()
	cur := b.nodes[id]

	for i, t := range terms {
		switch tt := t.(type) {
		case Requirement:
			cur.reqs = append(cur.reqs, tt)
		case Filter:
			if tt.pred == nil {
				return 0, newSpecError(ErrCodeInvalidTerm,
					"term %d: filter has no predicate", i)
			}
			child, err := b.compileLevel(tt.terms)
			if err != nil {
				return 0, err
			}
			b.edges = append(b.edges, edge{pred: tt.pred, parent: id, child: child})
		case nil:
			return 0, newSpecError(ErrCodeInvalidTerm, "term %d: nil term", i)
		default:
			return 0, newSpecError(ErrCodeInvalidTerm,
				"term %d: unsupported term type %T", i, t)
		}
	}

	return id, nil
}
