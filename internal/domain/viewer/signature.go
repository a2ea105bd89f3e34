package viewer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/internal/domain/selection"
)

// SyncInput is one recomputed state to push to the viewer.
type SyncInput struct {
	Selection string
	Pairs     []selection.TypePairs
	Filters   interaction.FilterState
	LinkCount int
	Mode      selection.Mode
}

// Signature digests in into a stable hex string.  Equal inputs give equal
// signatures; the order of map iteration in Filters does not matter.
func Signature(in SyncInput) string {
	d := xxhash.New()
	w := func(parts ...string) {
		for _, p := range parts {
			_, _ = d.WriteString(p)
			_, _ = d.WriteString("\x1f")
		}
		_, _ = d.WriteString("\x1e")
	}

	w("sel", in.Selection)
	w("mode", string(in.Mode))
	w("links", strconv.Itoa(in.LinkCount))

	active := in.Filters.ActiveTypes()
	parts := make([]string, 0, len(active))
	for _, t := range active {
		parts = append(parts, string(t))
	}
	w(append([]string{"types"}, parts...)...)

	tierTypes := make([]string, 0, len(in.Filters.Tiers))
	for t := range in.Filters.Tiers {
		tierTypes = append(tierTypes, string(t))
	}
	sort.Strings(tierTypes)
	for _, t := range tierTypes {
		w("tier", t, strconv.Itoa(int(in.Filters.Tiers[interaction.InteractionType(t)])))
	}

	if th := in.Filters.ProximalThreshold; th != nil {
		w("proximal", strconv.FormatFloat(*th, 'g', -1, 64))
	}
	w("isolated", strconv.FormatBool(in.Filters.ShowIsolated))

	for _, tp := range in.Pairs {
		var b strings.Builder
		for _, p := range tp.Pairs {
			b.WriteString(p[0])
			b.WriteByte('-')
			b.WriteString(p[1])
			b.WriteByte(',')
		}
		w("pairs", string(tp.Type), b.String())
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

//Personal.AI order the ending
