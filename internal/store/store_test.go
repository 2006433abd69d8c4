package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/internal/fixture"
	"github.com/roach88/sift/internal/query"
	"github.com/roach88/sift/internal/world"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_AppliesPragmasAndSchema(t *testing.T) {
	s := openTestStore(t)

	var fk int
	require.NoError(t, s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_IdempotentOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.AddEntity(context.Background(), "e1"))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	assert.Equal(t, []query.EntityID{"e1"}, s2.Lookup(nil))
}

func TestLookup_RequirementCombinations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []query.EntityID{"e1", "e2", "e3"} {
		require.NoError(t, s.AddEntity(ctx, id))
	}
	require.NoError(t, s.Tag(ctx, "e1", "pos", "vel"))
	require.NoError(t, s.Tag(ctx, "e2", "pos", "dead"))
	require.NoError(t, s.Tag(ctx, "e3", "vel"))

	tests := []struct {
		name string
		reqs []query.Requirement
		want []query.EntityID
	}{
		{"empty means all", nil, []query.EntityID{"e1", "e2", "e3"}},
		{"single positive", []query.Requirement{query.Has("pos")}, []query.EntityID{"e1", "e2"}},
		{"intersection", []query.Requirement{query.Has("pos"), query.Has("vel")}, []query.EntityID{"e1"}},
		{"with negation", []query.Requirement{query.Has("pos"), query.Not("dead")}, []query.EntityID{"e1"}},
		{"only negation", []query.Requirement{query.Not("dead")}, []query.EntityID{"e1", "e3"}},
		{"no match", []query.Requirement{query.Has("missing")}, []query.EntityID{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Lookup(tc.reqs))
			assert.NoError(t, s.Err())
		})
	}
}

func TestRemoveEntity_CascadesAttributesAndLinks(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddEntity(ctx, "e1"))
	require.NoError(t, s.AddEntity(ctx, "e2"))
	require.NoError(t, s.Tag(ctx, "e2", "pos"))
	require.NoError(t, s.Link(ctx, "near", "e1", "e2"))

	require.NoError(t, s.RemoveEntity(ctx, "e2"))

	assert.Empty(t, s.Lookup([]query.Requirement{query.Has("pos")}))
	assert.Empty(t, s.LinkTargets("near", "e1"))
	assert.NoError(t, s.Err())
}

func TestLinkTargets_Deterministic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []query.EntityID{"a", "b", "c"} {
		require.NoError(t, s.AddEntity(ctx, id))
	}
	require.NoError(t, s.Link(ctx, "near", "a", "c"))
	require.NoError(t, s.Link(ctx, "near", "a", "b"))

	assert.Equal(t, []query.EntityID{"b", "c"}, s.LinkTargets("near", "a"))

	require.NoError(t, s.Unlink(ctx, "near", "a", "b"))
	assert.Equal(t, []query.EntityID{"c"}, s.LinkTargets("near", "a"))
}

func TestImport_MatchesWorldSemantics(t *testing.T) {
	f := &fixture.Fixture{
		Entities: []fixture.Entity{
			{ID: "e1", Attrs: []string{"A"}},
			{ID: "e2", Attrs: []string{"B"}},
			{ID: "e3", Attrs: []string{"C"}},
		},
		Links: []fixture.Link{
			{Kind: "parent-of", From: "e1", To: "e2"},
			{Kind: "parent-of", From: "e2", To: "e3"},
		},
	}
	require.NoError(t, f.Validate())

	s := openTestStore(t)
	require.NoError(t, s.Import(context.Background(), f))

	w := world.New()
	f.Apply(w)

	hasChild := query.NewRelation(world.Linked("parent-of"))
	q, err := query.Compile(
		query.Has("A"),
		hasChild(query.Has("B"), hasChild(query.Has("C"))),
	)
	require.NoError(t, err)

	// The same compiled plan must produce identical results against the
	// SQLite snapshot and the in-memory world.
	assert.Equal(t, q.Run(w), q.Run(s))
	assert.Equal(t, []query.EntityID{"e1"}, q.Run(s))
	assert.NoError(t, s.Err())
}

func TestLookup_ErrorIsStickyAndClears(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Close())

	// Lookups against a closed database narrow to empty and record the
	// failure rather than panicking mid-evaluation.
	got := s.Lookup(nil)
	assert.Empty(t, got)
	assert.Error(t, s.Err())
	assert.NoError(t, s.Err())
}

func TestCompileLookup_ParameterizesEverything(t *testing.T) {
	stmt, params := compileLookup([]query.Requirement{
		query.Has("pos"), query.Has("vel"), query.Not("dead"),
	})

	assert.NotContains(t, stmt, "pos")
	assert.NotContains(t, stmt, "dead")
	assert.Equal(t, []any{"pos", "vel", "dead"}, params)
	assert.Contains(t, stmt, "INTERSECT")
	assert.Contains(t, stmt, "EXCEPT")
	assert.Contains(t, stmt, "ORDER BY id ASC COLLATE BINARY")
}
