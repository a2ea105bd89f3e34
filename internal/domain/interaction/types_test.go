package interaction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInteractionType(t *testing.T) {
	tests := []struct {
		in   string
		want InteractionType
		ok   bool
	}{
		{"hbond", TypeHBond, true},
		{"Hydrogen Bond", TypeHBond, true},
		{"weak-hbond", TypeWeakHBond, true},
		{"halogen_bond", TypeHalogenBond, true},
		{"VDW_CLASH", TypeVdWClash, true},
		{"salt bridge", TypeIonic, true},
		{"metal", TypeMetalComplex, true},
		{"Pi-Cation", InteractionType("pi_cation"), true},
		{"  ", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseInteractionType(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Len(t, AllTypes(), 15)
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
		ok   bool
	}{
		{"A-R", TierCross, true},
		{"R-A", TierCross, true},
		{"A_B", TierCross, true},
		{"a/a", TierSameA, true},
		{"R-R", TierSameB, true},
		{"B:B", TierSameB, true},
		{"cross", TierCross, true},
		{"inter-chain", TierCross, true},
		{"intra_b", TierSameB, true},
		{"same_a", TierSameA, true},
		{"hbond", "", false},
		{"vdw_clash", "", false},
		{"A-R-B", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseTier(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDeriveTier(t *testing.T) {
	got, ok := DeriveTier("A", "R")
	assert.True(t, ok)
	assert.Equal(t, TierCross, got)

	got, _ = DeriveTier("a", "A")
	assert.Equal(t, TierSameA, got)

	got, _ = DeriveTier("B", "B")
	assert.Equal(t, TierSameB, got)

	_, ok = DeriveTier("A", "")
	assert.False(t, ok)
}

func TestTierSet(t *testing.T) {
	s := NewTierSet(TierCross, Tier("bogus"))
	assert.True(t, s.Has(TierCross))
	assert.False(t, s.Has(TierSameA))
	assert.False(t, s.Has(Tier("bogus")))

	s = s.With(TierSameA).Without(TierCross)
	assert.Equal(t, []Tier{TierSameA}, s.Tiers())
	assert.False(t, s.Empty())
	assert.True(t, TierSet(0).Empty())

	data, err := json.Marshal(NewTierSet(TierCross, TierSameB))
	require.NoError(t, err)
	assert.JSONEq(t, `["same_b","cross"]`, string(data))

	var decoded TierSet
	require.NoError(t, json.Unmarshal([]byte(`["A-A","inter","nonsense"]`), &decoded))
	assert.Equal(t, NewTierSet(TierSameA, TierCross), decoded)
}

func TestSortTypes(t *testing.T) {
	types := []InteractionType{"zeta", TypeWeakPolar, "alpha", TypeClash, TypeHBond}
	SortTypes(types)
	assert.Equal(t, []InteractionType{TypeClash, TypeHBond, TypeWeakPolar, "alpha", "zeta"}, types)
}

func TestLink_PairKeyAndDistance(t *testing.T) {
	a := Link{Source: "n2", Target: "n1"}
	b := Link{Source: "n1", Target: "n2"}
	assert.Equal(t, a.PairKey(), b.PairKey())
	assert.False(t, a.HasDistance())
	b.Distance = floatPtr(3)
	assert.True(t, b.HasDistance())
}

func TestGraphHelpers(t *testing.T) {
	var nilGraph *Graph
	assert.True(t, nilGraph.Empty())
	assert.Nil(t, nilGraph.NodeIndex())

	g := mixedGraph()
	assert.Len(t, g.NodeIndex(), 5)
	deg := Degrees(g.Links)
	assert.Equal(t, 2, deg["l1"])
	assert.Equal(t, 3, deg["r1"])
}

//Personal.AI order the ending
