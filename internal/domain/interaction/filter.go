package interaction

// FilterState is the user-driven view of which links are visible.  It is held
// for the lifetime of one graph view and only reset explicitly (SelectAll /
// ClearAll).
type FilterState struct {
	// Types maps each interaction type to its activation.  Absent means off.
	Types map[InteractionType]bool `json:"types"`

	// Tiers restricts a type to a tier set.  A type absent from the map is
	// unrestricted.
	Tiers map[InteractionType]TierSet `json:"tiers,omitempty"`

	// ProximalThreshold, when set, gates proximal links by distance instead of
	// by type activation (see Filter).
	ProximalThreshold *float64 `json:"proximal_threshold,omitempty"`

	// ShowIsolated keeps nodes that no passing link touches.
	ShowIsolated bool `json:"show_isolated"`
}

// NewFilterState returns a state with the given types active.
func NewFilterState(active ...InteractionType) FilterState {
	st := FilterState{Types: make(map[InteractionType]bool, len(active))}
	for _, t := range active {
		st.Types[t] = true
	}
	return st
}

// Clone returns a deep copy.
func (s FilterState) Clone() FilterState {
	out := FilterState{ShowIsolated: s.ShowIsolated}
	out.Types = make(map[InteractionType]bool, len(s.Types))
	for k, v := range s.Types {
		out.Types[k] = v
	}
	if len(s.Tiers) > 0 {
		out.Tiers = make(map[InteractionType]TierSet, len(s.Tiers))
		for k, v := range s.Tiers {
			out.Tiers[k] = v
		}
	}
	if s.ProximalThreshold != nil {
		out.ProximalThreshold = floatPtr(*s.ProximalThreshold)
	}
	return out
}

// Active reports whether t is switched on.
func (s FilterState) Active(t InteractionType) bool { return s.Types[t] }

// ActiveTypes lists active types in display order.  TypeUntyped is never
// listed.
func (s FilterState) ActiveTypes() []InteractionType {
	out := make([]InteractionType, 0, len(s.Types))
	for t, on := range s.Types {
		if on && t != TypeUntyped {
			out = append(out, t)
		}
	}
	SortTypes(out)
	return out
}

// SetActive switches t on or off.
func (s *FilterState) SetActive(t InteractionType, on bool) {
	if s.Types == nil {
		s.Types = make(map[InteractionType]bool)
	}
	s.Types[t] = on
}

// Toggle flips t.
func (s *FilterState) Toggle(t InteractionType) { s.SetActive(t, !s.Types[t]) }

// SelectAll activates every listed type, typically AllTypes() plus the types
// present in the current graph.
func (s *FilterState) SelectAll(types []InteractionType) {
	for _, t := range types {
		s.SetActive(t, true)
	}
}

// ClearAll deactivates every type.
func (s *FilterState) ClearAll() {
	for t := range s.Types {
		s.Types[t] = false
	}
}

// SetTiers restricts t to set.  An empty set hides every link of t.
func (s *FilterState) SetTiers(t InteractionType, set TierSet) {
	if s.Tiers == nil {
		s.Tiers = make(map[InteractionType]TierSet)
	}
	s.Tiers[t] = set
}

// ClearTiers lifts the restriction on t.
func (s *FilterState) ClearTiers(t InteractionType) { delete(s.Tiers, t) }

// RestrictAll restricts every listed type to set.
func (s *FilterState) RestrictAll(types []InteractionType, set TierSet) {
	for _, t := range types {
		s.SetTiers(t, set)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Census: per-type and per-tier occurrence over the unfiltered graph
// ─────────────────────────────────────────────────────────────────────────────

// Census records which types and tiers occur in a graph, independent of any
// filter.  The UI uses PresentPairsByType to disable tier toggles with no
// effect.
type Census struct {
	PresentPairsByType map[InteractionType]TierSet `json:"present_pairs_by_type"`
	TypeCounts         map[InteractionType]int     `json:"type_counts"`
	TierCounts         map[Tier]int                `json:"tier_counts"`
	HasDistances       bool                        `json:"has_distances"`
}

// Types lists the toggleable types present, in display order.  Untyped
// links are counted in TypeCounts but not listed.
func (c Census) Types() []InteractionType {
	out := make([]InteractionType, 0, len(c.TypeCounts))
	for t := range c.TypeCounts {
		if t != TypeUntyped {
			out = append(out, t)
		}
	}
	SortTypes(out)
	return out
}

// TakeCensus scans every link of g.  Missing pairs are derived from endpoint
// roles the same way Filter derives them.
func TakeCensus(g *Graph) Census {
	c := Census{
		PresentPairsByType: make(map[InteractionType]TierSet),
		TypeCounts:         make(map[InteractionType]int),
		TierCounts:         make(map[Tier]int),
	}
	if g == nil {
		return c
	}
	roles := roleIndex(g)
	for _, l := range g.Links {
		pair := effectivePair(l, roles)
		c.TypeCounts[l.Type]++
		if pair != "" {
			c.TierCounts[pair]++
			c.PresentPairsByType[l.Type] = c.PresentPairsByType[l.Type].With(pair)
		} else if _, ok := c.PresentPairsByType[l.Type]; !ok {
			c.PresentPairsByType[l.Type] = 0
		}
		if l.HasDistance() {
			c.HasDistances = true
		}
	}
	return c
}

// ─────────────────────────────────────────────────────────────────────────────
// Filter
// ─────────────────────────────────────────────────────────────────────────────

// FilterResult is the visible sub-graph plus occurrence statistics.
type FilterResult struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`

	// PresentPairsByType, TypeCounts and TierCounts describe the unfiltered
	// graph.
	PresentPairsByType map[InteractionType]TierSet `json:"present_pairs_by_type"`
	TypeCounts         map[InteractionType]int     `json:"type_counts"`
	TierCounts         map[Tier]int                `json:"tier_counts"`

	// VisibleTypeCounts counts passing links per type.
	VisibleTypeCounts map[InteractionType]int `json:"visible_type_counts"`
}

// Graph returns the visible sub-graph.
func (r FilterResult) Graph() *Graph { return &Graph{Nodes: r.Nodes, Links: r.Links} }

// Filter computes the visible sub-graph of g under st.
//
// A link passes when its type is active and either its type carries no tier
// restriction or its pair lies in that restriction.  Links lacking a pair get
// one derived from endpoint roles; a restricted type rejects links whose pair
// cannot be derived.  Untyped links have no activation of their own and pass
// whenever any type is active, subject only to a restriction on TypeUntyped.
//
// Proximal links are gated by ProximalThreshold instead of by activation when
// a threshold is set and at least one link in g carries a finite distance:
// such a link passes only with a distance at or below the threshold.  The two
// conditions never combine for the same link.
//
// With zero active types the result is empty regardless of the threshold.
// Visible nodes are those touched by a passing link, plus every other node
// when ShowIsolated is set; node order follows g.
func Filter(g *Graph, st FilterState) FilterResult {
	c := TakeCensus(g)
	res := FilterResult{
		Nodes:              []Node{},
		Links:              []Link{},
		PresentPairsByType: c.PresentPairsByType,
		TypeCounts:         c.TypeCounts,
		TierCounts:         c.TierCounts,
		VisibleTypeCounts:  make(map[InteractionType]int),
	}
	if g == nil || len(st.ActiveTypes()) == 0 {
		return res
	}

	roles := roleIndex(g)
	gateByDistance := st.ProximalThreshold != nil && c.HasDistances
	touched := make(map[string]bool)

	for _, l := range g.Links {
		pair := effectivePair(l, roles)

		var pass bool
		switch {
		case l.Type == TypeUntyped:
			pass = true
		case l.Type == TypeProximal && gateByDistance:
			pass = l.HasDistance() && *l.Distance <= *st.ProximalThreshold
		default:
			pass = st.Types[l.Type]
		}
		if pass {
			if set, restricted := st.Tiers[l.Type]; restricted {
				pass = pair != "" && set.Has(pair)
			}
		}
		if !pass {
			continue
		}

		l.Pair = pair
		res.Links = append(res.Links, l)
		res.VisibleTypeCounts[l.Type]++
		touched[l.Source] = true
		touched[l.Target] = true
	}

	for _, n := range g.Nodes {
		if st.ShowIsolated || touched[n.ID] {
			res.Nodes = append(res.Nodes, n)
		}
	}
	return res
}

func roleIndex(g *Graph) map[string]string {
	roles := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		roles[n.ID] = n.Role
	}
	return roles
}

func effectivePair(l Link, roles map[string]string) Tier {
	if l.Pair != "" {
		return l.Pair
	}
	t, _ := DeriveTier(roles[l.Source], roles[l.Target])
	return t
}

// SortedTypeCounts returns counts as (type, count) pairs in display order.
func SortedTypeCounts(counts map[InteractionType]int) []TypeCount {
	types := make([]InteractionType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	SortTypes(types)
	out := make([]TypeCount, 0, len(types))
	for _, t := range types {
		out = append(out, TypeCount{Type: t, Count: counts[t]})
	}
	return out
}

// TypeCount is one row of SortedTypeCounts.
type TypeCount struct {
	Type  InteractionType `json:"type"`
	Count int             `json:"count"`
}

//Personal.AI order the ending
