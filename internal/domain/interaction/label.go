package interaction

import (
	"regexp"
	"strings"
	"unicode"
)

// AtomLabel is the structured form of an atom or residue label.  Every field
// is optional; the empty string means the label did not yield it.  Serial and
// ResNo are only ever set to all-digit strings.
type AtomLabel struct {
	Serial   string `json:"serial,omitempty"`
	Chain    string `json:"chain,omitempty"`
	ResNo    string `json:"resno,omitempty"`
	AtomName string `json:"atom_name,omitempty"`
	ResName  string `json:"res_name,omitempty"`
}

// IsZero reports whether no field was recovered.
func (a AtomLabel) IsZero() bool { return a == AtomLabel{} }

// Format renders the label in the slash dialect chain/resno/resName/atom/serial,
// dropping empty trailing fields so that ParseLabel(a.Format()) == a for any
// label whose fields are set contiguously from the chain.
func (a AtomLabel) Format() string {
	fields := []string{a.Chain, a.ResNo, a.ResName, a.AtomName, a.Serial}
	end := len(fields)
	for end > 0 && fields[end-1] == "" {
		end--
	}
	return strings.Join(fields[:end], "/")
}

// ParseLabel extracts structured identifiers from a label.  The colon dialect
// "serial:chain.atom:resName:resno" and the slash dialect
// "chain/resno/resName/atomName/serial" are tried first; when neither matches
// a permissive scan recovers whatever fields it can.  ParseLabel never fails.
func ParseLabel(label string) AtomLabel {
	s := strings.TrimSpace(label)
	if s == "" {
		return AtomLabel{}
	}
	if a, ok := parseColonLabel(s); ok {
		return a
	}
	if a, ok := parseSlashLabel(s); ok {
		return a
	}
	return scanLabel(s)
}

// parseColonLabel handles "237:A.O:ASP:861".
func parseColonLabel(s string) (AtomLabel, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return AtomLabel{}, false
	}
	chain, atom, ok := strings.Cut(parts[1], ".")
	if !ok {
		return AtomLabel{}, false
	}
	return AtomLabel{
		Serial:   digitsOrEmpty(parts[0]),
		Chain:    strings.TrimSpace(chain),
		AtomName: strings.TrimSpace(atom),
		ResName:  strings.TrimSpace(parts[2]),
		ResNo:    digitsOrEmpty(parts[3]),
	}, true
}

// parseSlashLabel handles "R/153/SER/OG/76" and its shorter prefixes.
func parseSlashLabel(s string) (AtomLabel, bool) {
	parts := strings.Split(s, "/")
	if len(parts) < 2 || len(parts) > 5 {
		return AtomLabel{}, false
	}
	for len(parts) < 5 {
		parts = append(parts, "")
	}
	return AtomLabel{
		Chain:    strings.TrimSpace(parts[0]),
		ResNo:    digitsOrEmpty(parts[1]),
		ResName:  strings.TrimSpace(parts[2]),
		AtomName: strings.TrimSpace(parts[3]),
		Serial:   digitsOrEmpty(parts[4]),
	}, true
}

var (
	reScanSerial  = regexp.MustCompile(`(?i)(?:@|\bserial\s*[:=#]?\s*)(\d+)`)
	reScanChain   = regexp.MustCompile(`(?i)\bchain\s*[:=#]?\s*([A-Za-z0-9])\b`)
	reScanLead    = regexp.MustCompile(`^([A-Za-z])(?:[\s_.:|-]|$)`)
	reScanResidue = regexp.MustCompile(`\b([A-Z]{3})\s*[-_: ]?\s*(\d+)\b`)
	reScanResi    = regexp.MustCompile(`(?i)\bres(?:i|no|id)?\s*[:=#]?\s*(\d+)\b`)
	reScanAtom    = regexp.MustCompile(`[.]([A-Za-z][A-Za-z0-9']{0,3})\b`)
)

// scanLabel is the permissive fallback.  A bare number is not taken as a
// serial because node ids default to array indexes.
func scanLabel(s string) AtomLabel {
	var a AtomLabel
	if m := reScanSerial.FindStringSubmatch(s); m != nil {
		a.Serial = m[1]
	}
	if m := reScanChain.FindStringSubmatch(s); m != nil {
		a.Chain = m[1]
	} else if m := reScanLead.FindStringSubmatch(s); m != nil {
		a.Chain = m[1]
	}
	if m := reScanResidue.FindStringSubmatch(s); m != nil {
		a.ResName, a.ResNo = m[1], m[2]
	} else if m := reScanResi.FindStringSubmatch(s); m != nil {
		a.ResNo = m[1]
	}
	if m := reScanAtom.FindStringSubmatch(s); m != nil {
		a.AtomName = m[1]
	}
	return a
}

func digitsOrEmpty(s string) string {
	s = strings.TrimSpace(s)
	if isDigits(s) {
		return s
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// RoleOf derives a node's chain role.  The chain parsed from the label wins;
// otherwise the first alphabetic character of the label is used.  Roles are
// upper-cased.
func RoleOf(label string) string {
	if c := ParseLabel(label).Chain; c != "" && isAlphaChain(c) {
		return strings.ToUpper(c[:1])
	}
	return firstAlpha(label)
}

func isAlphaChain(c string) bool {
	r := rune(c[0])
	return r < unicode.MaxASCII && unicode.IsLetter(r)
}

func firstAlpha(s string) string {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return strings.ToUpper(string(r))
		}
	}
	return ""
}

//Personal.AI order the ending
