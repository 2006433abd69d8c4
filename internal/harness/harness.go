// Package harness runs conformance scenarios against the query engine: each
// scenario loads a declarative world fixture, evaluates a list of query
// expressions, and checks the surviving entity ids against expectations.
// Golden files additionally pin the compiled plan structure, so an accidental
// change to compilation or flattening shows up as a golden diff even when
// results happen to agree.
package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/sift/internal/fixture"
	"github.com/roach88/sift/internal/query"
	"github.com/roach88/sift/internal/syntax"
	"github.com/roach88/sift/internal/world"
)

// Result is the outcome of one scenario run.
type Result struct {
	Name    string
	Queries []QueryResult
}

// QueryResult records one query's compiled plan and evaluation outcome.
type QueryResult struct {
	Name string
	Expr string
	Plan string
	Got  []query.EntityID
	Want []query.EntityID
	Pass bool
}

// Failures lists the names of queries whose results differed from their
// expectations.
func (r *Result) Failures() []string {
	var failed []string
	for _, qr := range r.Queries {
		if !qr.Pass {
			failed = append(failed, qr.Name)
		}
	}
	return failed
}

// Run executes a scenario: loads its fixture into a fresh world, then
// parses, compiles and evaluates each query in order. A malformed fixture or
// expression is a scenario error; a result mismatch is a recorded failure.
func Run(sc *Scenario) (*Result, error) {
	fx, err := fixture.Load(sc.fixturePath())
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	w := world.New()
	fx.Apply(w)

	result := &Result{Name: sc.Name}
	for _, qc := range sc.Queries {
		terms, err := syntax.Parse(qc.Expr)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: query %q: %w", sc.Name, qc.Name, err)
		}
		q, err := query.Compile(terms...)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: query %q: %w", sc.Name, qc.Name, err)
		}

		got := q.Run(w)
		want := make([]query.EntityID, len(qc.Want))
		for i, id := range qc.Want {
			want[i] = query.EntityID(id)
		}

		result.Queries = append(result.Queries, QueryResult{
			Name: qc.Name,
			Expr: qc.Expr,
			Plan: q.Describe(),
			Got:  got,
			Want: want,
			Pass: slices.Equal(got, want),
		})
	}
	return result, nil
}

// Snapshot renders the result in a stable textual form for golden-file
// comparison: per query, the expression, the compiled plan, and the ids that
// survived.
func (r *Result) Snapshot() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", r.Name)
	for _, qr := range r.Queries {
		fmt.Fprintf(&b, "query: %s\n", qr.Name)
		fmt.Fprintf(&b, "expr: %s\n", qr.Expr)
		b.WriteString("plan:\n")
		b.WriteString(qr.Plan)
		fmt.Fprintf(&b, "result: %v\n", qr.Got)
	}
	return []byte(b.String())
}
