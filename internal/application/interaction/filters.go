package interaction

import (
	"math"

	domain "github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/pkg/errors"
)

// FilterUpdate is a batch of filter mutations applied in field order:
// SelectAll, ClearAll, Enable, Disable, Toggle, Tiers, proximal threshold,
// isolated nodes.  Type and tier names go through the domain parsers, so
// aliases such as "hydrogen_bond" or "A-R" are accepted.
type FilterUpdate struct {
	SelectAll bool     `json:"select_all,omitempty"`
	ClearAll  bool     `json:"clear_all,omitempty"`
	Enable    []string `json:"enable,omitempty"`
	Disable   []string `json:"disable,omitempty"`
	Toggle    []string `json:"toggle,omitempty"`

	// Tiers restricts each named type to the listed tiers.  An empty list
	// hides the type; a null value lifts the restriction.
	Tiers map[string][]string `json:"tiers,omitempty"`

	ProximalThreshold      *float64 `json:"proximal_threshold,omitempty"`
	ClearProximalThreshold bool     `json:"clear_proximal_threshold,omitempty"`
	ShowIsolated           *bool    `json:"show_isolated,omitempty"`
}

// Apply mutates st.  census supplies the types present in the current graph
// for SelectAll.  On error st is left untouched.
func (u FilterUpdate) Apply(st *domain.FilterState, census domain.Census) error {
	next := st.Clone()

	if u.SelectAll {
		next.SelectAll(append(domain.AllTypes(), census.Types()...))
	}
	if u.ClearAll {
		next.ClearAll()
	}
	for _, group := range []struct {
		names []string
		op    func(domain.InteractionType)
	}{
		{u.Enable, func(t domain.InteractionType) { next.SetActive(t, true) }},
		{u.Disable, func(t domain.InteractionType) { next.SetActive(t, false) }},
		{u.Toggle, next.Toggle},
	} {
		for _, name := range group.names {
			t, ok := domain.ParseInteractionType(name)
			if !ok {
				return errors.New(errors.CodeInvalidParam, "blank interaction type")
			}
			group.op(t)
		}
	}

	for name, tiers := range u.Tiers {
		t, ok := domain.ParseInteractionType(name)
		if !ok {
			return errors.New(errors.CodeInvalidParam, "blank interaction type in tiers")
		}
		if tiers == nil {
			next.ClearTiers(t)
			continue
		}
		var set domain.TierSet
		for _, s := range tiers {
			tier, ok := domain.ParseTier(s)
			if !ok {
				return errors.Newf(errors.CodeInvalidParam, "unknown tier %q", s)
			}
			set = set.With(tier)
		}
		next.SetTiers(t, set)
	}

	if u.ClearProximalThreshold {
		next.ProximalThreshold = nil
	}
	if u.ProximalThreshold != nil {
		v := *u.ProximalThreshold
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return errors.New(errors.CodeInvalidParam, "proximal_threshold must be a finite non-negative number")
		}
		next.ProximalThreshold = &v
	}
	if u.ShowIsolated != nil {
		next.ShowIsolated = *u.ShowIsolated
	}

	*st = next
	return nil
}

//Personal.AI order the ending
