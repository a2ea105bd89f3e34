package viewer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/internal/domain/selection"
	"github.com/turtacn/interactome/internal/domain/viewer"
)

func TestSignature_StableAndSensitive(t *testing.T) {
	base := input("@12 or @45", hbondPairs)
	sig := viewer.Signature(base)
	assert.NotEmpty(t, sig)

	same := input("@12 or @45", hbondPairs)
	assert.Equal(t, sig, viewer.Signature(same))

	variants := map[string]func(*viewer.SyncInput){
		"selection":  func(in *viewer.SyncInput) { in.Selection = "@12" },
		"mode":       func(in *viewer.SyncInput) { in.Mode = selection.ModeResidue },
		"link count": func(in *viewer.SyncInput) { in.LinkCount = 4 },
		"filters":    func(in *viewer.SyncInput) { in.Filters.Toggle(interaction.TypeIonic) },
		"tiers": func(in *viewer.SyncInput) {
			in.Filters.SetTiers(interaction.TypeHBond, interaction.NewTierSet(interaction.TierCross))
		},
		"pairs": func(in *viewer.SyncInput) { in.Pairs = append(in.Pairs, hydroPairs) },
	}
	for name, mutate := range variants {
		in := input("@12 or @45", hbondPairs)
		mutate(&in)
		assert.NotEqual(t, sig, viewer.Signature(in), name)
	}
}

func TestSignature_IgnoresInactiveTypeEntries(t *testing.T) {
	a := input("@1")
	b := input("@1")
	b.Filters.SetActive(interaction.TypeIonic, false)
	assert.Equal(t, viewer.Signature(a), viewer.Signature(b))
}

//Personal.AI order the ending
