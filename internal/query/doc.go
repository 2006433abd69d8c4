// Package query compiles nested relational entity specifications into
// immutable, reusable query plans and evaluates them against live world state.
//
// A specification is a flat list of terms: plain attribute requirements mixed
// with filters. A filter applies a caller-supplied relationship predicate to
// its own nested specification, recursively and without depth limit, which is
// what expresses chains such as "entities with A whose linked entity has B
// whose linked entity has C".
//
// The pipeline has two phases:
//
//	[terms] → Compile → *Query (plan: nodes + bottom-up edge list, built once)
//	*Query.Run(src)   → surviving root entity ids (per call, reads live state)
//
// Compilation walks the term tree once, producing one query node per nesting
// level (a synthetic id plus the level's accumulated attribute requirements)
// and one filter edge per filter (parent node, child node, predicate). Edges
// are then flattened deepest-first, because a child's candidate set must be
// narrowed before its parent consumes it.
//
// Execution lazily materializes each node's base candidate set from the
// Source, then walks the flattened edges applying the existential pairwise
// filter: a parent survives iff at least one child satisfies the predicate.
// Any empty intermediate set ends the call early with an empty result; under
// the strict bottom-up order no later edge can un-empty a set a deeper edge
// already proved empty.
//
// Error taxonomy:
//   - SpecError: caller mistakes, reported by Compile, never by Run.
//   - PlanError: internal invariant violations; unreachable given a correct
//     compiler, reported distinctly so they are never mistaken for bad input.
//
// A *Query is safe to reuse across unboundedly many Run calls. Run serializes
// internally; callers that want parallel evaluation compile one Query per
// goroutine.
package query
