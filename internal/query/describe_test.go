package query

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func describeGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestDescribe_Chain(t *testing.T) {
	rel := NewRelation(anyPair)

	q, err := Compile(Has("A"), rel(Has("B"), rel(Has("C"))))
	require.NoError(t, err)

	g := describeGoldie(t)
	g.Assert(t, "describe_chain", []byte(q.Describe()))
}

func TestDescribe_Siblings(t *testing.T) {
	rel := NewRelation(anyPair)

	q, err := Compile(
		Has("A"),
		Not("B"),
		rel(Has("C"), rel(Has("D"))),
		rel(Has("E")),
	)
	require.NoError(t, err)

	g := describeGoldie(t)
	g.Assert(t, "describe_siblings", []byte(q.Describe()))
}

func TestDescribe_AnchorRoot(t *testing.T) {
	rel := NewRelation(anyPair)

	q, err := Compile(rel(Has("B")))
	require.NoError(t, err)

	g := describeGoldie(t)
	g.Assert(t, "describe_anchor_root", []byte(q.Describe()))
}
