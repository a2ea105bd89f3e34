package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/pkg/errors"
)

func nodes(labels ...string) []interaction.Node {
	out := make([]interaction.Node, len(labels))
	for i, l := range labels {
		out[i] = interaction.Node{ID: l, Label: l, Role: interaction.RoleOf(l)}
	}
	return out
}

func TestCompile_AtomRoundTrip(t *testing.T) {
	ns := nodes("A/1/LIG/C1/12", "R/153/SER/OG/45", "A/1/LIG/N2/7", "A/1/LIG/C1/12")

	expr, ok := Compile(ns, ModeAtom)
	require.True(t, ok)
	assert.Equal(t, "@12 or @45 or @7", expr)
}

func TestCompile_AtomSerialFromIDFallback(t *testing.T) {
	ns := []interaction.Node{
		{ID: "237:A.O:ASP:861", Label: "ASP 861 O"},
		{ID: "0", Label: "no serial here"},
	}
	expr, ok := Compile(ns, ModeAtom)
	require.True(t, ok)
	assert.Equal(t, "@237", expr)
}

func TestCompile_NothingResolves(t *testing.T) {
	for _, mode := range []Mode{ModeAtom, ModeResidue} {
		expr, ok := Compile(nodes("???", ""), mode)
		assert.False(t, ok, mode)
		assert.Empty(t, expr)
	}
	_, ok := Compile(nil, ModeAtom)
	assert.False(t, ok)
}

func TestCompile_UnknownMode(t *testing.T) {
	_, ok := Compile(nodes("A/1/LIG/C1/12"), Mode("chain"))
	assert.False(t, ok)
}

func TestCompile_ResidueDeduplicates(t *testing.T) {
	ns := nodes("R/153/SER/OG/76", "R/153/SER/N/77", "R/88/ASP", "237:A.O:ASP:861")

	expr, ok := Compile(ns, ModeResidue)
	require.True(t, ok)
	assert.Equal(t, ":R and resi 153 or :R and resi 88 or :A and resi 861", expr)
}

func TestResidueLabels(t *testing.T) {
	expr, ok := ResidueLabels([]string{"B/10", "B/10/GLY", "resi 42", "junk"})
	require.True(t, ok)
	assert.Equal(t, ":B and resi 10 or resi 42", expr)

	_, ok = ResidueLabels(nil)
	assert.False(t, ok)
}

func TestResidueFragment(t *testing.T) {
	assert.Equal(t, ":A and resi 3", ResidueFragment(interaction.AtomLabel{Chain: "A", ResNo: "3"}))
	assert.Equal(t, "resi 3", ResidueFragment(interaction.AtomLabel{ResNo: "3"}))
	assert.Empty(t, ResidueFragment(interaction.AtomLabel{Chain: "A"}))
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeAtom},
		{"ATOM", ModeAtom},
		{" residue ", ModeResidue},
		{"res", ModeResidue},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.True(t, got.Valid())
	}

	_, err := ParseMode("chain")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidMode))
}

//Personal.AI order the ending
