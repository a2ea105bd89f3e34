package interaction

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// maxKeyedDepth bounds recursion through nested type/tier dictionaries.
const maxKeyedDepth = 4

// linkContext carries the type and tier inherited from enclosing dictionary
// keys.  Per-link fields override it.
type linkContext struct {
	typ   InteractionType
	pair  Tier
	depth int
}

// rawLink is a link whose endpoints are still unresolved keys.
type rawLink struct {
	source, target string
	typ            InteractionType
	pair           Tier
	distance       *float64
	angle          *float64
}

// fragment is what a decoder yields: links plus, for the envelope shape, an
// explicit node list.
type fragment struct {
	shape    string
	nodes    []Node
	hasNodes bool
	links    []rawLink
	skipped  int
}

func (f *fragment) merge(o fragment) {
	f.links = append(f.links, o.links...)
	f.skipped += o.skipped
}

// linkDecoder recognises one link container shape.  ok is false when raw is
// not that shape, in which case the next decoder is tried.
type linkDecoder struct {
	name   string
	decode func(raw any, ctx linkContext) (fragment, bool)
}

// linkDecoders is consulted in order for link containers.  It is initialised
// in init because decodeKeyedLinks recurses through decodeLinks.
var linkDecoders []linkDecoder

func init() {
	linkDecoders = []linkDecoder{
		{name: "link_array", decode: decodeLinkArray},
		{name: "keyed_links", decode: decodeKeyedLinks},
	}
}

// decodeTop tries the envelope first and then the bare link containers.
func decodeTop(raw any) (fragment, bool) {
	if f, ok := decodeEnvelope(raw); ok {
		return f, true
	}
	return decodeLinks(raw, linkContext{})
}

func decodeLinks(raw any, ctx linkContext) (fragment, bool) {
	for _, d := range linkDecoders {
		if f, ok := d.decode(raw, ctx); ok {
			if f.shape == "" {
				f.shape = d.name
			}
			return f, true
		}
	}
	return fragment{}, false
}

// ─────────────────────────────────────────────────────────────────────────────
// Envelope: {"nodes": [...], "links"|"edges": <links>}
// ─────────────────────────────────────────────────────────────────────────────

func decodeEnvelope(raw any) (fragment, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return fragment{}, false
	}
	rawNodes, hasNodes := obj["nodes"]
	rawLinks, hasLinks := obj["links"]
	if !hasLinks {
		rawLinks, hasLinks = obj["edges"]
	}
	if !hasNodes && !hasLinks {
		return fragment{}, false
	}

	f := fragment{shape: "envelope"}
	if arr, ok := rawNodes.([]any); ok && len(arr) > 0 {
		f.nodes = decodeNodes(arr)
		f.hasNodes = true
	}
	if hasLinks && rawLinks != nil {
		if lf, ok := decodeLinks(rawLinks, linkContext{}); ok {
			f.merge(lf)
			f.shape = "envelope/" + lf.shape
		}
	}
	return f, true
}

func decodeNodes(arr []any) []Node {
	nodes := make([]Node, 0, len(arr))
	for i, item := range arr {
		nodes = append(nodes, decodeNode(i, item))
	}
	return nodes
}

// decodeNode applies the id and label fallbacks: id defaults to the index;
// label falls back to id, then to a label synthesized from structured fields,
// then to the index.
func decodeNode(i int, item any) Node {
	idx := formatIndex(i)
	switch v := item.(type) {
	case string:
		return Node{ID: idx, Label: v, Role: RoleOf(v)}
	case json.Number, float64:
		s, _ := scalarString(v)
		return Node{ID: idx, Label: s, Role: RoleOf(s)}
	case map[string]any:
		id, hasID := scalarString(v["id"])
		if !hasID || id == "" {
			id = idx
		}
		label, _ := scalarString(v["label"])
		if label == "" && hasID {
			label = id
		}
		structured := structuredLabel(v)
		if label == "" {
			label = structured.Format()
		}
		if label == "" {
			label = idx
		}
		role := ""
		if r, ok := scalarString(v["role"]); ok && r != "" {
			role = strings.ToUpper(r)
		} else if structured.Chain != "" && isAlphaChain(structured.Chain) {
			role = strings.ToUpper(structured.Chain[:1])
		} else {
			role = RoleOf(label)
		}
		return Node{ID: id, Label: label, Role: role}
	default:
		return Node{ID: idx, Label: idx, Role: ""}
	}
}

func structuredLabel(obj map[string]any) AtomLabel {
	pick := func(keys ...string) string {
		for _, k := range keys {
			if s, ok := scalarString(obj[k]); ok && s != "" {
				return s
			}
		}
		return ""
	}
	return AtomLabel{
		Chain:    pick("chain", "chain_id", "chainID"),
		ResNo:    digitsOrEmpty(pick("resno", "resi", "res_num", "residue_number")),
		ResName:  pick("resname", "resn", "res_name", "residue"),
		AtomName: pick("atom", "atom_name", "atomname"),
		Serial:   digitsOrEmpty(pick("serial", "atom_serial")),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Link array: [ {source, target, ...}, [a, b, d?, angle?], ... ]
// ─────────────────────────────────────────────────────────────────────────────

func decodeLinkArray(raw any, ctx linkContext) (fragment, bool) {
	arr, ok := raw.([]any)
	if !ok {
		return fragment{}, false
	}
	var f fragment
	for _, item := range arr {
		var (
			l  rawLink
			ok bool
		)
		switch v := item.(type) {
		case map[string]any:
			l, ok = decodeLinkObject(v, ctx)
		case []any:
			l, ok = decodeLinkTuple(v, ctx)
		}
		if !ok {
			f.skipped++
			continue
		}
		f.links = append(f.links, l)
	}
	return f, true
}

func decodeLinkObject(obj map[string]any, ctx linkContext) (rawLink, bool) {
	src, ok1 := endpointKey(firstPresent(obj, "source", "from", "a"))
	dst, ok2 := endpointKey(firstPresent(obj, "target", "to", "b"))
	if !ok1 || !ok2 {
		return rawLink{}, false
	}
	l := rawLink{source: src, target: dst, typ: ctx.typ, pair: ctx.pair}
	if s, ok := scalarString(firstPresent(obj, "type", "interaction", "kind")); ok {
		if t, ok := ParseInteractionType(s); ok {
			l.typ = t
		}
	}
	if s, ok := scalarString(firstPresent(obj, "pair", "tier")); ok {
		if t, ok := ParseTier(s); ok {
			l.pair = t
		}
	}
	l.distance = finite(firstPresent(obj, "distance", "dist"))
	l.angle = finite(obj["angle"])
	return l, true
}

// decodeLinkTuple accepts [a, b], [a, b, distance] and [a, b, distance, angle].
func decodeLinkTuple(tuple []any, ctx linkContext) (rawLink, bool) {
	if len(tuple) < 2 || len(tuple) > 4 {
		return rawLink{}, false
	}
	src, ok1 := endpointKey(tuple[0])
	dst, ok2 := endpointKey(tuple[1])
	if !ok1 || !ok2 {
		return rawLink{}, false
	}
	l := rawLink{source: src, target: dst, typ: ctx.typ, pair: ctx.pair}
	if len(tuple) > 2 {
		l.distance = finite(tuple[2])
	}
	if len(tuple) > 3 {
		l.angle = finite(tuple[3])
	}
	return l, true
}

// ─────────────────────────────────────────────────────────────────────────────
// Keyed links: {"<tier>": links} or {"<type>": {"<tier>": links}}
// ─────────────────────────────────────────────────────────────────────────────

// decodeKeyedLinks classifies each key as a tier when ParseTier accepts it and
// as an interaction type otherwise, then recurses into the value with the
// narrowed context.  Keys are visited in sorted order so output is stable.
func decodeKeyedLinks(raw any, ctx linkContext) (fragment, bool) {
	obj, ok := raw.(map[string]any)
	if !ok || ctx.depth >= maxKeyedDepth {
		return fragment{}, false
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var f fragment
	for _, k := range keys {
		child := linkContext{typ: ctx.typ, pair: ctx.pair, depth: ctx.depth + 1}
		if t, ok := ParseTier(k); ok {
			child.pair = t
		} else if t, ok := ParseInteractionType(k); ok {
			child.typ = t
		} else {
			continue
		}
		sub, ok := decodeLinks(obj[k], child)
		if !ok {
			continue
		}
		f.merge(sub)
	}
	return f, true
}

// ─────────────────────────────────────────────────────────────────────────────
// Scalar helpers
// ─────────────────────────────────────────────────────────────────────────────

func firstPresent(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// endpointKey coerces a link endpoint to a lookup key.  Strings and numbers
// are accepted; an object contributes its "id", or failing that its "label".
func endpointKey(v any) (string, bool) {
	if obj, ok := v.(map[string]any); ok {
		if s, ok := scalarString(obj["id"]); ok && s != "" {
			return s, true
		}
		if s, ok := scalarString(obj["label"]); ok && s != "" {
			return s, true
		}
		return "", false
	}
	s, ok := scalarString(v)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// scalarString renders strings and numbers; anything else yields false.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	default:
		return "", false
	}
}

// finite parses a numeric value and returns nil unless it is finite.
func finite(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return nil
		}
		f = p
	case float64:
		f = x
	case int:
		f = float64(x)
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		f = p
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return floatPtr(f)
}

//Personal.AI order the ending
