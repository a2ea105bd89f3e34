package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/turtacn/interactome/internal/domain/interaction"
)

// EdgePath is the drawable geometry of one link: a quadratic Bézier from
// (X1,Y1) to (X2,Y2) through control point (CX,CY).  Offset is the signed
// perpendicular displacement applied to the control point; straight edges
// have Offset 0 and the control point at the midpoint.
type EdgePath struct {
	Source string                      `json:"source"`
	Target string                      `json:"target"`
	Type   interaction.InteractionType `json:"type,omitempty"`
	Pair   interaction.Tier            `json:"pair,omitempty"`
	X1     float64                     `json:"x1"`
	Y1     float64                     `json:"y1"`
	X2     float64                     `json:"x2"`
	Y2     float64                     `json:"y2"`
	CX     float64                     `json:"cx"`
	CY     float64                     `json:"cy"`
	Offset float64                     `json:"offset"`
	D      string                      `json:"d"`
}

// ParallelOffset returns the perpendicular offset of the index-th of count
// parallel edges: (index - (count-1)/2) * spacing.  Offsets are symmetric
// around zero, so a pair of edges gets opposite signs.
func ParallelOffset(index, count int, spacing float64) float64 {
	if count <= 1 {
		return 0
	}
	return (float64(index) - float64(count-1)/2) * spacing
}

// EdgePaths computes one path per link whose endpoints both appear in
// positions.  Links sharing an unordered endpoint pair are fanned out with
// ParallelOffset, in link order.  The perpendicular is taken on the direction
// from the lexically smaller id to the larger one, so offsets of opposite sign
// bend to opposite sides whatever the direction of each link.
func EdgePaths(positions []Position, links []interaction.Link, spacing float64) []EdgePath {
	at := make(map[string]Position, len(positions))
	for _, p := range positions {
		at[p.ID] = p
	}

	counts := make(map[string]int)
	for _, l := range links {
		if _, ok := at[l.Source]; !ok {
			continue
		}
		if _, ok := at[l.Target]; !ok {
			continue
		}
		counts[l.PairKey()]++
	}

	seen := make(map[string]int, len(counts))
	out := make([]EdgePath, 0, len(links))
	for _, l := range links {
		src, ok1 := at[l.Source]
		dst, ok2 := at[l.Target]
		if !ok1 || !ok2 {
			continue
		}
		key := l.PairKey()
		idx := seen[key]
		seen[key]++
		offset := ParallelOffset(idx, counts[key], spacing)

		lo, hi := src, dst
		if l.Source > l.Target {
			lo, hi = dst, src
		}
		dx, dy := hi.X-lo.X, hi.Y-lo.Y
		length := math.Hypot(dx, dy)
		var px, py float64
		if length > 0 {
			px, py = -dy/length, dx/length
		}

		e := EdgePath{
			Source: l.Source, Target: l.Target, Type: l.Type, Pair: l.Pair,
			X1: src.X, Y1: src.Y, X2: dst.X, Y2: dst.Y,
			CX:     (src.X+dst.X)/2 + px*offset,
			CY:     (src.Y+dst.Y)/2 + py*offset,
			Offset: offset,
		}
		e.D = svgQuad(e)
		out = append(out, e)
	}
	return out
}

func svgQuad(e EdgePath) string {
	var b strings.Builder
	b.WriteString("M")
	writePoint(&b, e.X1, e.Y1)
	b.WriteString(" Q")
	writePoint(&b, e.CX, e.CY)
	b.WriteString(" ")
	writePoint(&b, e.X2, e.Y2)
	return b.String()
}

func writePoint(b *strings.Builder, x, y float64) {
	b.WriteString(strconv.FormatFloat(x, 'f', 2, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(y, 'f', 2, 64))
}

//Personal.AI order the ending
