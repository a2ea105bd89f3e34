// Package viewer keeps an external 3D molecular viewer in step with the
// filtered interaction graph.  The viewer is reached only through the narrow
// Viewer interface; the Synchronizer is its single writer.
package viewer

import (
	"context"

	"github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/internal/domain/selection"
)

// Handle identifies an installed representation.
type Handle string

// Kind is a representation type understood by the viewer.
type Kind string

const (
	KindBallAndStick Kind = "ball+stick"
	KindDistance     Kind = "distance"
	KindCartoon      Kind = "cartoon"
	KindLicorice     Kind = "licorice"
)

// Params configures one representation.  Sele and AtomPair are mutually
// exclusive in practice: highlights use Sele, distance lines use AtomPair.
type Params struct {
	Name      string               `json:"name,omitempty"`
	Sele      string               `json:"sele,omitempty"`
	AtomPair  []selection.AtomPair `json:"atomPair,omitempty"`
	Color     string               `json:"color,omitempty"`
	Opacity   float64              `json:"opacity,omitempty"`
	LabelSize float64              `json:"labelSize,omitempty"`
}

// Source locates a structure to load.
type Source struct {
	URL    string `json:"url"`
	Format string `json:"format,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Viewer is the capability set consumed from the external widget.
type Viewer interface {
	LoadStructure(ctx context.Context, src Source) error
	AddRepresentation(ctx context.Context, kind Kind, params Params) (Handle, error)
	RemoveRepresentation(ctx context.Context, h Handle) error
}

// HighlightName names the single highlight representation.
const HighlightName = "interaction-highlight"

var typeColors = map[interaction.InteractionType]string{
	interaction.TypeClash:        "#ff0000",
	interaction.TypeCovalent:     "#222222",
	interaction.TypeVdW:          "#9e9e9e",
	interaction.TypeVdWClash:     "#ff6f00",
	interaction.TypeProximal:     "#cfd8dc",
	interaction.TypeHBond:        "#1e88e5",
	interaction.TypeWeakHBond:    "#90caf9",
	interaction.TypeHalogenBond:  "#00897b",
	interaction.TypeIonic:        "#e53935",
	interaction.TypeMetalComplex: "#8e24aa",
	interaction.TypeAromatic:     "#43a047",
	interaction.TypeHydrophobic:  "#fdd835",
	interaction.TypeCarbonyl:     "#6d4c41",
	interaction.TypePolar:        "#f06292",
	interaction.TypeWeakPolar:    "#f8bbd0",
}

// DefaultColor is used for types without an assigned color.
const DefaultColor = "#607d8b"

// ColorFor returns the distance-line color of an interaction type.
func ColorFor(t interaction.InteractionType) string {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return DefaultColor
}

// HighlightParams returns the parameters of the highlight representation.
func HighlightParams(sele string) Params {
	return Params{Name: HighlightName, Sele: sele, Opacity: 1}
}

// DistanceParams returns the parameters of one per-type distance
// representation.
func DistanceParams(tp selection.TypePairs) Params {
	return Params{
		Name:      "interaction-" + string(tp.Type),
		AtomPair:  tp.Pairs,
		Color:     ColorFor(tp.Type),
		LabelSize: 0,
		Opacity:   1,
	}
}

//Personal.AI order the ending
