// Package interaction holds the canonical protein–ligand interaction graph and
// the pure functions that build and filter it: label parsing, shape-agnostic
// normalization of upstream JSON, and the filter engine.  Nothing in this
// package performs I/O; every function is deterministic for a given input.
package interaction

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// InteractionType
// ─────────────────────────────────────────────────────────────────────────────

// InteractionType names a contact class.  The fifteen known classes are listed
// below; any other non-empty string is carried through verbatim (lower-cased)
// so that upstream additions survive normalization.
type InteractionType string

const (
	TypeClash        InteractionType = "clash"
	TypeCovalent     InteractionType = "covalent"
	TypeVdW          InteractionType = "vdw"
	TypeVdWClash     InteractionType = "vdw_clash"
	TypeProximal     InteractionType = "proximal"
	TypeHBond        InteractionType = "hbond"
	TypeWeakHBond    InteractionType = "weak_hbond"
	TypeHalogenBond  InteractionType = "xbond"
	TypeIonic        InteractionType = "ionic"
	TypeMetalComplex InteractionType = "metal_complex"
	TypeAromatic     InteractionType = "aromatic"
	TypeHydrophobic  InteractionType = "hydrophobic"
	TypeCarbonyl     InteractionType = "carbonyl"
	TypePolar        InteractionType = "polar"
	TypeWeakPolar    InteractionType = "weak_polar"
)

// TypeUntyped marks a link whose payload carried no type.  It has no toggle:
// untyped links are visible whenever any type is active.
const TypeUntyped InteractionType = ""

var knownTypes = []InteractionType{
	TypeClash, TypeCovalent, TypeVdW, TypeVdWClash, TypeProximal,
	TypeHBond, TypeWeakHBond, TypeHalogenBond, TypeIonic, TypeMetalComplex,
	TypeAromatic, TypeHydrophobic, TypeCarbonyl, TypePolar, TypeWeakPolar,
}

var typeOrder = func() map[InteractionType]int {
	m := make(map[InteractionType]int, len(knownTypes))
	for i, t := range knownTypes {
		m[t] = i
	}
	return m
}()

// typeAliases maps the spellings seen in upstream payloads onto known classes.
// Keys are already folded by foldKey.
var typeAliases = map[string]InteractionType{
	"vanderwaals":          TypeVdW,
	"van_der_waals":        TypeVdW,
	"vdw_contact":          TypeVdW,
	"vdwclash":             TypeVdWClash,
	"van_der_waals_clash":  TypeVdWClash,
	"steric_clash":         TypeClash,
	"hydrogen_bond":        TypeHBond,
	"hydrogen_bonds":       TypeHBond,
	"h_bond":               TypeHBond,
	"hbonds":               TypeHBond,
	"weak_hydrogen_bond":   TypeWeakHBond,
	"weakhbond":            TypeWeakHBond,
	"weak_h_bond":          TypeWeakHBond,
	"halogen_bond":         TypeHalogenBond,
	"halogen":              TypeHalogenBond,
	"x_bond":               TypeHalogenBond,
	"salt_bridge":          TypeIonic,
	"ionic_bond":           TypeIonic,
	"metal":                TypeMetalComplex,
	"metal_coordination":   TypeMetalComplex,
	"metalcomplex":         TypeMetalComplex,
	"pi_stacking":          TypeAromatic,
	"pi_pi":                TypeAromatic,
	"hydrophobic_contact":  TypeHydrophobic,
	"carbonyl_interaction": TypeCarbonyl,
	"weakpolar":            TypeWeakPolar,
	"proximity":            TypeProximal,
	"contact":              TypeProximal,
}

// AllTypes returns the known interaction classes in display order.
func AllTypes() []InteractionType {
	out := make([]InteractionType, len(knownTypes))
	copy(out, knownTypes)
	return out
}

// IsKnown reports whether t is one of the fifteen known classes.
func (t InteractionType) IsKnown() bool {
	_, ok := typeOrder[t]
	return ok
}

func (t InteractionType) String() string { return string(t) }

// ParseInteractionType folds s and resolves aliases.  The boolean is false only
// for blank input; unknown names are returned verbatim in folded form.
func ParseInteractionType(s string) (InteractionType, bool) {
	k := foldKey(s)
	if k == "" {
		return "", false
	}
	if t := InteractionType(k); t.IsKnown() {
		return t, true
	}
	if t, ok := typeAliases[k]; ok {
		return t, true
	}
	return InteractionType(k), true
}

// SortTypes orders types by display order, unknown types last and
// alphabetically.
func SortTypes(types []InteractionType) {
	sort.SliceStable(types, func(i, j int) bool {
		oi, ki := typeOrder[types[i]]
		oj, kj := typeOrder[types[j]]
		switch {
		case ki && kj:
			return oi < oj
		case ki != kj:
			return ki
		default:
			return types[i] < types[j]
		}
	})
}

func foldKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_", "+", "_").Replace(s)
}

// ─────────────────────────────────────────────────────────────────────────────
// Tier
// ─────────────────────────────────────────────────────────────────────────────

// Tier is the chain-role relationship between a link's two endpoints.
type Tier string

const (
	TierSameA Tier = "same_a"
	TierSameB Tier = "same_b"
	TierCross Tier = "cross"
)

// AllTiers returns the three tiers in display order.
func AllTiers() []Tier { return []Tier{TierSameA, TierSameB, TierCross} }

func (t Tier) String() string { return string(t) }

// Valid reports whether t is one of the three tiers.
func (t Tier) Valid() bool {
	return t == TierSameA || t == TierSameB || t == TierCross
}

var tierSynonyms = map[string]Tier{
	"same_a":      TierSameA,
	"same_role_a": TierSameA,
	"intra_a":     TierSameA,
	"same_b":      TierSameB,
	"same_role_b": TierSameB,
	"intra_b":     TierSameB,
	"cross":       TierCross,
	"cross_role":  TierCross,
	"cross_chain": TierCross,
	"inter":       TierCross,
	"inter_chain": TierCross,
}

// ParseTier recognises tier names ("cross", "same_a", "inter_chain", …) and
// role-pair keys written as X-Y, X_Y, X/Y or X:Y where X and Y are role
// tokens ("A-R", "B_B").  Role pairs are mapped with DeriveTier.
func ParseTier(s string) (Tier, bool) {
	k := foldKey(s)
	if k == "" {
		return "", false
	}
	if t, ok := tierSynonyms[k]; ok {
		return t, true
	}
	parts := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == '-' || r == '_' || r == '/' || r == ':'
	})
	if len(parts) != 2 || !isRoleToken(parts[0]) || !isRoleToken(parts[1]) {
		return "", false
	}
	return DeriveTier(parts[0], parts[1])
}

func isRoleToken(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// DeriveTier maps two endpoint roles to a tier: different roles are cross,
// two "A" roles are same_a and any other equal pair is same_b.  Roles compare
// case-insensitively; an empty role yields false.
func DeriveTier(roleA, roleB string) (Tier, bool) {
	a, b := strings.ToUpper(roleA), strings.ToUpper(roleB)
	if a == "" || b == "" {
		return "", false
	}
	switch {
	case a != b:
		return TierCross, true
	case a == "A":
		return TierSameA, true
	default:
		return TierSameB, true
	}
}

// TierSet is a small bit set of tiers.  The zero value is the empty set.
type TierSet uint8

func tierBit(t Tier) TierSet {
	switch t {
	case TierSameA:
		return 1
	case TierSameB:
		return 2
	case TierCross:
		return 4
	}
	return 0
}

// NewTierSet builds a set from tiers; invalid tiers are ignored.
func NewTierSet(tiers ...Tier) TierSet {
	var s TierSet
	for _, t := range tiers {
		s |= tierBit(t)
	}
	return s
}

// Has reports membership.
func (s TierSet) Has(t Tier) bool {
	b := tierBit(t)
	return b != 0 && s&b != 0
}

// With returns s plus t.
func (s TierSet) With(t Tier) TierSet { return s | tierBit(t) }

// Without returns s minus t.
func (s TierSet) Without(t Tier) TierSet { return s &^ tierBit(t) }

// Empty reports whether s has no members.
func (s TierSet) Empty() bool { return s == 0 }

// Tiers lists the members in display order.
func (s TierSet) Tiers() []Tier {
	out := make([]Tier, 0, 3)
	for _, t := range AllTiers() {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// MarshalJSON encodes the set as an array of tier names.
func (s TierSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Tiers())
}

// UnmarshalJSON accepts an array of tier names or role-pair keys.
func (s *TierSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	var out TierSet
	for _, n := range names {
		if t, ok := ParseTier(n); ok {
			out = out.With(t)
		}
	}
	*s = out
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Graph
// ─────────────────────────────────────────────────────────────────────────────

// Node is an atom or residue vertex.  ID is unique within a Graph.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Role  string `json:"role"`
}

// Link is a typed contact between two node ids.  Empty Type or Pair means the
// field was absent; nil Distance or Angle means no finite value was supplied.
type Link struct {
	Source   string          `json:"source"`
	Target   string          `json:"target"`
	Type     InteractionType `json:"type,omitempty"`
	Distance *float64        `json:"distance,omitempty"`
	Angle    *float64        `json:"angle,omitempty"`
	Pair     Tier            `json:"pair,omitempty"`
}

// HasDistance reports whether the link carries a finite distance.
func (l Link) HasDistance() bool {
	return l.Distance != nil && !math.IsNaN(*l.Distance) && !math.IsInf(*l.Distance, 0)
}

// PairKey returns the unordered endpoint key shared by parallel links.
func (l Link) PairKey() string {
	if l.Source <= l.Target {
		return l.Source + "\x00" + l.Target
	}
	return l.Target + "\x00" + l.Source
}

// Graph is the canonical, shape-independent interaction graph.  It is rebuilt
// wholesale on every fetch and never mutated by downstream stages.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Empty reports whether g has neither nodes nor links.  A nil Graph is empty.
func (g *Graph) Empty() bool {
	return g == nil || (len(g.Nodes) == 0 && len(g.Links) == 0)
}

// NodeIndex maps node id to node.
func (g *Graph) NodeIndex() map[string]Node {
	if g == nil {
		return nil
	}
	idx := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		idx[n.ID] = n
	}
	return idx
}

// Degrees counts incident links per node id.  A self-loop counts twice.
func Degrees(links []Link) map[string]int {
	deg := make(map[string]int)
	for _, l := range links {
		deg[l.Source]++
		deg[l.Target]++
	}
	return deg
}

func floatPtr(v float64) *float64 { return &v }

func formatIndex(i int) string { return strconv.Itoa(i) }

//Personal.AI order the ending
