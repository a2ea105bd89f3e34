package selection

import (
	"github.com/turtacn/interactome/internal/domain/interaction"
)

// AtomPair is a ["@a", "@b"] tuple for one distance line.
type AtomPair [2]string

// TypePairs groups the distance lines of one interaction type.
type TypePairs struct {
	Type  interaction.InteractionType `json:"type"`
	Pairs []AtomPair                  `json:"pairs"`
}

// AtomPairs builds per-type atom-pair lists for links whose both endpoints
// resolve to a serial.  Endpoints are looked up among nodes by id; an endpoint
// with no matching node is parsed as a label itself.  A pair appears once per
// type regardless of link direction.  Untyped links are skipped since nothing
// can style them.
func AtomPairs(nodes []interaction.Node, links []interaction.Link) map[interaction.InteractionType][]AtomPair {
	byID := make(map[string]interaction.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	serial := func(id string) string {
		if n, ok := byID[id]; ok {
			return NodeSerial(n)
		}
		return interaction.ParseLabel(id).Serial
	}

	out := make(map[interaction.InteractionType][]AtomPair)
	seen := make(map[interaction.InteractionType]map[AtomPair]struct{})
	for _, l := range links {
		if l.Type == "" {
			continue
		}
		a, b := serial(l.Source), serial(l.Target)
		if a == "" || b == "" {
			continue
		}
		key := AtomPair{"@" + a, "@" + b}
		if key[1] < key[0] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[l.Type] == nil {
			seen[l.Type] = make(map[AtomPair]struct{})
		}
		if _, dup := seen[l.Type][key]; dup {
			continue
		}
		seen[l.Type][key] = struct{}{}
		out[l.Type] = append(out[l.Type], AtomPair{"@" + a, "@" + b})
	}
	return out
}

// OrderedPairs flattens AtomPairs output into a slice ordered by type, known
// types first in their canonical order.
func OrderedPairs(pairs map[interaction.InteractionType][]AtomPair) []TypePairs {
	types := make([]interaction.InteractionType, 0, len(pairs))
	for t := range pairs {
		types = append(types, t)
	}
	interaction.SortTypes(types)

	out := make([]TypePairs, 0, len(types))
	for _, t := range types {
		if len(pairs[t]) == 0 {
			continue
		}
		out = append(out, TypePairs{Type: t, Pairs: pairs[t]})
	}
	return out
}

// CountPairs returns the total number of pairs across all types.
func CountPairs(pairs []TypePairs) int {
	n := 0
	for _, tp := range pairs {
		n += len(tp.Pairs)
	}
	return n
}

//Personal.AI order the ending
