package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/turtacn/interactome/pkg/errors"
)

// IDPlaceholder is replaced by the escaped structure id in path templates.
const IDPlaceholder = "{id}"

// Paths holds the endpoint path templates.
type Paths struct {
	Atom      string
	Residue   string
	Viewer    string
	Structure string
}

// DefaultPaths returns the stock endpoint layout.
func DefaultPaths() Paths {
	return Paths{
		Atom:      "/interactions/{id}/atoms",
		Residue:   "/interactions/{id}/residues",
		Viewer:    "/interactions/{id}/viewer",
		Structure: "/structures/{id}.pdb",
	}
}

// Kind names one of the three interaction payloads.
type Kind string

const (
	KindAtom    Kind = "atom"
	KindResidue Kind = "residue"
	KindViewer  Kind = "viewer"
)

// Kinds lists every payload kind in fetch order.
func Kinds() []Kind { return []Kind{KindAtom, KindResidue, KindViewer} }

func expand(template, id string) string {
	return strings.ReplaceAll(template, IDPlaceholder, url.PathEscape(id))
}

// Fetch retrieves the payload of kind for structureID.  The body must be
// valid JSON; anything else yields a malformed-payload error.
func (c *Client) Fetch(ctx context.Context, kind Kind, structureID string) (json.RawMessage, error) {
	if strings.TrimSpace(structureID) == "" {
		return nil, errors.New(errors.ErrCodeValidation, "structure id required")
	}
	var tmpl string
	switch kind {
	case KindAtom:
		tmpl = c.paths.Atom
	case KindResidue:
		tmpl = c.paths.Residue
	case KindViewer:
		tmpl = c.paths.Viewer
	default:
		return nil, errors.Newf(errors.ErrCodeValidation, "unknown payload kind %q", kind)
	}

	body, err := c.get(ctx, expand(tmpl, structureID))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, errors.Newf(errors.ErrCodeMalformedPayload, "%s payload for %s is not JSON", kind, structureID)
	}
	return json.RawMessage(body), nil
}

// AtomGraph fetches the atom-level interaction payload.
func (c *Client) AtomGraph(ctx context.Context, structureID string) (json.RawMessage, error) {
	return c.Fetch(ctx, KindAtom, structureID)
}

// ResidueGraph fetches the residue-level interaction payload.
func (c *Client) ResidueGraph(ctx context.Context, structureID string) (json.RawMessage, error) {
	return c.Fetch(ctx, KindResidue, structureID)
}

// ViewerInteractions fetches the payload the viewer highlights are built
// from.
func (c *Client) ViewerInteractions(ctx context.Context, structureID string) (json.RawMessage, error) {
	return c.Fetch(ctx, KindViewer, structureID)
}

// StructureURL returns the absolute URL of the structure file.  No request is
// made; the viewer loads it directly.
func (c *Client) StructureURL(structureID string) string {
	return c.baseURL + expand(c.paths.Structure, structureID)
}

// StructureFormat guesses the file format from the structure path extension.
func (c *Client) StructureFormat() string {
	p := c.paths.Structure
	if i := strings.LastIndex(p, "."); i >= 0 && i < len(p)-1 {
		return strings.ToLower(p[i+1:])
	}
	return ""
}

//Personal.AI order the ending
