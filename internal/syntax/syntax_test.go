package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/internal/query"
	"github.com/roach88/sift/internal/world"
)

func TestParse_PlainRequirements(t *testing.T) {
	terms, err := Parse("position, !dead, velocity")
	require.NoError(t, err)
	require.Len(t, terms, 3)

	assert.Equal(t, query.Has("position"), terms[0])
	assert.Equal(t, query.Not("dead"), terms[1])
	assert.Equal(t, query.Has("velocity"), terms[2])
}

func TestParse_ErrorCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"trailing comma", "a,"},
		{"bare negation", "!"},
		{"negated relation", "!near(a)"},
		{"unclosed relation", "near(a"},
		{"trailing garbage", "a)b"},
		{"shared without args", "~near"},
		{"inverse without args", "^near"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "offset")
		})
	}
}

// End-to-end: parsed expressions compile and evaluate exactly like terms
// built by hand.
func TestParse_CompilesAndRuns(t *testing.T) {
	w := world.New()
	chain := []struct {
		id   query.EntityID
		attr query.Attr
	}{
		{"e1", "A"}, {"e2", "B"}, {"e3", "C"},
	}
	for _, c := range chain {
		w.SpawnID(c.id)
		w.Tag(c.id, c.attr)
	}
	w.Link("parent-of", "e1", "e2")
	w.Link("parent-of", "e2", "e3")

	terms, err := Parse("A, parent-of(B, parent-of(C))")
	require.NoError(t, err)

	q, err := query.Compile(terms...)
	require.NoError(t, err)
	assert.Equal(t, []query.EntityID{"e1"}, q.Run(w))
}

func TestParse_InverseRelation(t *testing.T) {
	w := world.New()
	w.SpawnID("parent")
	w.SpawnID("child")
	w.Tag("parent", "adult")
	w.Tag("child", "minor")
	w.Link("child-of", "child", "parent")

	terms, err := Parse("adult, ^child-of(minor)")
	require.NoError(t, err)

	q, err := query.Compile(terms...)
	require.NoError(t, err)
	assert.Equal(t, []query.EntityID{"parent"}, q.Run(w))
}

func TestParse_SharedRelation(t *testing.T) {
	w := world.New()
	for _, id := range []query.EntityID{"s1", "s2", "hub"} {
		w.SpawnID(id)
	}
	w.Tag("s1", "unit")
	w.Tag("s2", "unit")
	w.Link("guards", "s1", "hub")
	w.Link("guards", "s2", "hub")

	terms, err := Parse("unit, ~guards(unit)")
	require.NoError(t, err)

	q, err := query.Compile(terms...)
	require.NoError(t, err)
	assert.Equal(t, []query.EntityID{"s1", "s2"}, q.Run(w))
}

func TestParse_EmptyRelationArgs(t *testing.T) {
	// "linked to anything" — the child node anchors on all entities.
	terms, err := Parse("A, near()")
	require.NoError(t, err)
	require.Len(t, terms, 2)

	_, err = query.Compile(terms...)
	require.NoError(t, err)
}

func TestParse_WhitespaceTolerant(t *testing.T) {
	terms, err := Parse("  A ,\n\tparent-of( B )  ")
	require.NoError(t, err)
	assert.Len(t, terms, 2)
}
