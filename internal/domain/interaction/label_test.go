package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  AtomLabel
	}{
		{"colon dialect", "237:A.O:ASP:861", AtomLabel{Serial: "237", Chain: "A", AtomName: "O", ResName: "ASP", ResNo: "861"}},
		{"slash dialect full", "R/153/SER/OG/76", AtomLabel{Chain: "R", ResNo: "153", ResName: "SER", AtomName: "OG", Serial: "76"}},
		{"slash dialect residue", "A/10/LIG", AtomLabel{Chain: "A", ResNo: "10", ResName: "LIG"}},
		{"slash dialect shortest", "A/10", AtomLabel{Chain: "A", ResNo: "10"}},
		{"colon non numeric discarded", "x:A.O:ASP:86b", AtomLabel{Chain: "A", AtomName: "O", ResName: "ASP"}},
		{"slash non numeric discarded", "R/abc/SER/OG/7x", AtomLabel{Chain: "R", ResName: "SER", AtomName: "OG"}},
		{"fallback residue and chain", "ASP861 chain B @42", AtomLabel{Serial: "42", Chain: "B", ResName: "ASP", ResNo: "861"}},
		{"fallback leading chain", "B:LYS 45", AtomLabel{Chain: "B", ResName: "LYS", ResNo: "45"}},
		{"fallback atom after dot", "A.CA serial=9", AtomLabel{Serial: "9", Chain: "A", AtomName: "CA"}},
		{"bare number yields nothing", "12", AtomLabel{}},
		{"garbage yields nothing", "garbage", AtomLabel{}},
		{"blank", "   ", AtomLabel{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLabel(tt.label))
		})
	}
}

func TestParseLabel_ColonNeedsFourFields(t *testing.T) {
	// Three colon fields fall through to the scanner.
	got := ParseLabel("A.O:ASP:861")
	assert.Empty(t, got.Serial)
	assert.Equal(t, "A", got.Chain)
}

func TestAtomLabel_FormatRoundTrip(t *testing.T) {
	a := AtomLabel{Chain: "A", ResNo: "10", ResName: "LIG", AtomName: "C1", Serial: "1"}
	assert.Equal(t, "A/10/LIG/C1/1", a.Format())
	assert.Equal(t, a, ParseLabel(a.Format()))

	short := AtomLabel{Chain: "B", ResNo: "12", ResName: "GLY"}
	assert.Equal(t, "B/12/GLY", short.Format())
	assert.Equal(t, short, ParseLabel(short.Format()))

	assert.Equal(t, "", AtomLabel{}.Format())
	assert.True(t, AtomLabel{}.IsZero())
}

func TestRoleOf(t *testing.T) {
	tests := map[string]string{
		"A/10/LIG/C1/1": "A",
		"R/55/SER/OG/2": "R",
		"10:A.N:ALA:3":  "A",
		"20:B.O:GLY:7":  "B",
		"lig_c1":        "L",
		"7-x":           "X",
		"12":            "",
		"":              "",
		"b/3/HOH/O/99":  "B",
		"1/3/HOH/O/99":  "H",
	}
	for label, want := range tests {
		assert.Equal(t, want, RoleOf(label), label)
	}
}

//Personal.AI order the ending
