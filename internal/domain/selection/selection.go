// Package selection compiles interaction sub-graphs into expressions of the
// molecular viewer's selection language: "@serial" atoms or
// ":chain and resi N" residues, joined with " or ".
package selection

import (
	"strings"

	"github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/pkg/errors"
)

// Mode selects the granularity of compiled expressions.
type Mode string

const (
	ModeAtom    Mode = "atom"
	ModeResidue Mode = "residue"
)

// Joiner separates sub-expressions.
const Joiner = " or "

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m == ModeAtom || m == ModeResidue }

func (m Mode) String() string { return string(m) }

// ParseMode is case-insensitive.  Blank input yields ModeAtom.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "atom", "atoms":
		return ModeAtom, nil
	case "residue", "residues", "res":
		return ModeResidue, nil
	}
	return "", errors.Newf(errors.CodeInvalidMode, "unknown selection mode %q", s)
}

// Compile builds one expression covering nodes.  Each node contributes at
// most one fragment; fragments are deduplicated and kept in node order.
// Nodes that resolve to nothing are skipped.  ok is false when no node
// resolves or the mode is unknown.
func Compile(nodes []interaction.Node, mode Mode) (expr string, ok bool) {
	b := newBuilder()
	for _, n := range nodes {
		switch mode {
		case ModeAtom:
			b.add(atomFragment(NodeSerial(n)))
		case ModeResidue:
			b.add(ResidueFragment(nodeLabel(n)))
		default:
			return "", false
		}
	}
	return b.join()
}

// ResidueLabels compiles a residue-mode expression straight from label
// strings, for callers that hold residue labels without a graph.
func ResidueLabels(labels []string) (string, bool) {
	b := newBuilder()
	for _, l := range labels {
		b.add(ResidueFragment(interaction.ParseLabel(l)))
	}
	return b.join()
}

// NodeSerial extracts the atom serial of n from its label, falling back to
// its id.  The empty string means no serial.
func NodeSerial(n interaction.Node) string {
	if s := interaction.ParseLabel(n.Label).Serial; s != "" {
		return s
	}
	return interaction.ParseLabel(n.ID).Serial
}

// nodeLabel parses the label of n, falling back to its id when the label
// carries no residue number.
func nodeLabel(n interaction.Node) interaction.AtomLabel {
	if a := interaction.ParseLabel(n.Label); a.ResNo != "" {
		return a
	}
	return interaction.ParseLabel(n.ID)
}

// ResidueFragment renders ":chain and resi N", or "resi N" when the chain is
// unknown.  It returns "" when the residue number is missing.
func ResidueFragment(a interaction.AtomLabel) string {
	if a.ResNo == "" {
		return ""
	}
	if a.Chain == "" {
		return "resi " + a.ResNo
	}
	return ":" + a.Chain + " and resi " + a.ResNo
}

func atomFragment(serial string) string {
	if serial == "" {
		return ""
	}
	return "@" + serial
}

// builder accumulates unique, non-empty fragments in insertion order.
type builder struct {
	seen  map[string]struct{}
	parts []string
}

func newBuilder() *builder { return &builder{seen: make(map[string]struct{})} }

func (b *builder) add(frag string) {
	if frag == "" {
		return
	}
	if _, dup := b.seen[frag]; dup {
		return
	}
	b.seen[frag] = struct{}{}
	b.parts = append(b.parts, frag)
}

func (b *builder) join() (string, bool) {
	if len(b.parts) == 0 {
		return "", false
	}
	return strings.Join(b.parts, Joiner), true
}

//Personal.AI order the ending
