package interaction

import (
	"context"
	"time"

	domain "github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/internal/domain/layout"
	"github.com/turtacn/interactome/internal/domain/selection"
	"github.com/turtacn/interactome/internal/infrastructure/storage/minio"
)

// SnapshotStore persists exported layouts.  *minio.SnapshotStore satisfies it.
type SnapshotStore interface {
	Save(ctx context.Context, viewID string, payload any) (*minio.SnapshotRef, error)
}

// Snapshot is the exported, self-contained picture of a view.
type Snapshot struct {
	Version     int                   `json:"version"`
	ViewID      string                `json:"view_id"`
	StructureID string                `json:"structure_id"`
	Generation  uint64                `json:"generation"`
	Mode        selection.Mode        `json:"mode"`
	Filters     domain.FilterState    `json:"filters"`
	Nodes       []domain.Node         `json:"nodes"`
	Links       []domain.Link         `json:"links"`
	Positions   []layout.Position     `json:"positions"`
	Edges       []layout.EdgePath     `json:"edges"`
	Selection   string                `json:"selection,omitempty"`
	Pairs       []selection.TypePairs `json:"pairs"`
	CreatedAt   time.Time             `json:"created_at"`
}

// SnapshotVersion is the current Snapshot layout version.
const SnapshotVersion = 1

// Snapshot captures the current state of v.
func (v *View) Snapshot() Snapshot {
	st := v.State()
	return Snapshot{
		Version:     SnapshotVersion,
		ViewID:      st.ViewID,
		StructureID: st.StructureID,
		Generation:  st.Generation,
		Mode:        st.Mode,
		Filters:     st.Filters,
		Nodes:       st.Nodes,
		Links:       st.Links,
		Positions:   st.Positions,
		Edges:       st.Edges,
		Selection:   st.Selection,
		Pairs:       st.Pairs,
		CreatedAt:   time.Now().UTC(),
	}
}

//Personal.AI order the ending
