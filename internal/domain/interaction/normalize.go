package interaction

import (
	"bytes"
	"encoding/json"

	"github.com/turtacn/interactome/pkg/errors"
)

// Report describes what Normalize did with its input.  It is diagnostic only.
type Report struct {
	// Shape names the decoder chain that accepted the input, e.g.
	// "envelope/link_array" or "keyed_links"; empty when nothing matched.
	Shape string `json:"shape"`

	// DroppedLinks counts link entries excluded because an endpoint could not
	// be coerced or resolved.
	DroppedLinks int `json:"dropped_links"`

	// SynthesizedNodes counts nodes created from link endpoints because the
	// input carried no node list.
	SynthesizedNodes int `json:"synthesized_nodes"`
}

// Normalize converts any decoded JSON value into a canonical Graph.  It never
// fails: unrecognised shapes yield an empty graph.
func Normalize(raw any) *Graph {
	g, _ := NormalizeWithReport(raw)
	return g
}

// NormalizeJSON decodes data and normalizes it.  A syntax error yields an
// empty graph together with a CodeMalformedPayload error that callers may log;
// the graph is never nil.  Blank input is an empty graph without error.
func NormalizeJSON(data []byte) (*Graph, error) {
	g, _, err := NormalizeJSONWithReport(data)
	return g, err
}

// NormalizeJSONWithReport is NormalizeJSON plus the Report.
func NormalizeJSONWithReport(data []byte) (*Graph, Report, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Graph{Nodes: []Node{}, Links: []Link{}}, Report{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return &Graph{Nodes: []Node{}, Links: []Link{}}, Report{},
			errors.Wrap(err, errors.CodeMalformedPayload, "interaction payload is not valid JSON")
	}
	g, rep := NormalizeWithReport(raw)
	return g, rep, nil
}

// NormalizeWithReport is Normalize plus the Report.  Raw bytes
// (json.RawMessage or []byte) are decoded first.
func NormalizeWithReport(raw any) (*Graph, Report) {
	switch b := raw.(type) {
	case json.RawMessage:
		g, rep, _ := NormalizeJSONWithReport(b)
		return g, rep
	case []byte:
		g, rep, _ := NormalizeJSONWithReport(b)
		return g, rep
	}

	g := &Graph{Nodes: []Node{}, Links: []Link{}}
	f, ok := decodeTop(raw)
	if !ok {
		return g, Report{}
	}
	rep := Report{Shape: f.shape, DroppedLinks: f.skipped}

	var resolve func(key string) (string, bool)
	if f.hasNodes {
		g.Nodes = dedupeNodes(f.nodes)
		resolve = explicitResolver(g.Nodes)
	} else {
		resolve = func(key string) (string, bool) { return key, true }
		seen := make(map[string]bool)
		for _, l := range f.links {
			for _, key := range [2]string{l.source, l.target} {
				if seen[key] {
					continue
				}
				seen[key] = true
				g.Nodes = append(g.Nodes, Node{ID: key, Label: key, Role: RoleOf(key)})
				rep.SynthesizedNodes++
			}
		}
	}

	roles := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		roles[n.ID] = n.Role
	}
	for _, rl := range f.links {
		src, ok1 := resolve(rl.source)
		dst, ok2 := resolve(rl.target)
		if !ok1 || !ok2 {
			rep.DroppedLinks++
			continue
		}
		l := Link{
			Source:   src,
			Target:   dst,
			Type:     rl.typ,
			Distance: rl.distance,
			Angle:    rl.angle,
			Pair:     rl.pair,
		}
		if l.Pair == "" {
			if t, ok := DeriveTier(roles[src], roles[dst]); ok {
				l.Pair = t
			}
		}
		g.Links = append(g.Links, l)
	}
	return g, rep
}

// dedupeNodes keeps the first node for each id.
func dedupeNodes(nodes []Node) []Node {
	seen := make(map[string]bool, len(nodes))
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out
}

// explicitResolver matches an endpoint key against node ids first and node
// labels second.
func explicitResolver(nodes []Node) func(string) (string, bool) {
	byID := make(map[string]bool, len(nodes))
	byLabel := make(map[string]string, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = true
		if _, dup := byLabel[n.Label]; !dup {
			byLabel[n.Label] = n.ID
		}
	}
	return func(key string) (string, bool) {
		if byID[key] {
			return key, true
		}
		id, ok := byLabel[key]
		return id, ok
	}
}

//Personal.AI order the ending
