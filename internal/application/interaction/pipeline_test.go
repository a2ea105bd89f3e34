package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/interactome/internal/config"
	domain "github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/internal/domain/layout"
	"github.com/turtacn/interactome/internal/domain/selection"
	"github.com/turtacn/interactome/pkg/errors"
)

func nodeIDs(nodes []domain.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestAnalyze_AllTypesActive(t *testing.T) {
	res, err := Analyze(AnalyzeInput{Payload: []byte(atomPayload)}, DefaultPipelineConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, selection.ModeAtom, res.Mode)
	assert.Len(t, res.Nodes, 4)
	assert.Len(t, res.Links, 2)
	assert.Len(t, res.Positions, 4)
	assert.Len(t, res.Edges, 2)
	assert.True(t, res.HasSelection)
	assert.Equal(t, "@1 or @2 or @3 or @4", res.Selection)
	assert.Equal(t, 4, res.Report.SynthesizedNodes)
	assert.NotEmpty(t, res.Report.Shape)
	assert.Nil(t, res.ViewerReport)

	// Without a viewer payload the distance lines come from the payload itself.
	assert.Equal(t, []selection.TypePairs{
		{Type: domain.TypeHBond, Pairs: []selection.AtomPair{{"@1", "@2"}}},
		{Type: domain.TypeHydrophobic, Pairs: []selection.AtomPair{{"@3", "@4"}}},
	}, res.Pairs)
}

const proximalPayload = `[
	{"source":"A/10/LIG/C1/1","target":"R/55/SER/OG/2","type":"proximal","distance":3.0},
	{"source":"A/10/LIG/C2/3","target":"R/60/PHE/CZ/4","type":"proximal","distance":5.0}
]`

func TestAnalyze_StartsFromConfiguredFilters(t *testing.T) {
	base := FilterStateFrom(config.FilterConfig{ProximalThreshold: 4.0, ShowIsolated: true})

	res, err := Analyze(AnalyzeInput{Payload: []byte(proximalPayload), Base: base}, DefaultPipelineConfig(), nil)
	require.NoError(t, err)
	require.Len(t, res.Links, 1)
	assert.Equal(t, 3.0, *res.Links[0].Distance)
	assert.Len(t, res.Nodes, 4)
	require.NotNil(t, res.Filters.ProximalThreshold)
	assert.Equal(t, 4.0, *res.Filters.ProximalThreshold)
	assert.True(t, res.Filters.ShowIsolated)

	res, err = Analyze(AnalyzeInput{
		Payload: []byte(proximalPayload),
		Base:    base,
		Filters: &FilterUpdate{ClearProximalThreshold: true},
	}, DefaultPipelineConfig(), nil)
	require.NoError(t, err)
	assert.Len(t, res.Links, 2)
	assert.NotNil(t, base.ProximalThreshold)

	res, err = Analyze(AnalyzeInput{Payload: []byte(proximalPayload)}, DefaultPipelineConfig(), nil)
	require.NoError(t, err)
	assert.Len(t, res.Links, 2)
}

func TestAnalyze_FilteredResidueMode(t *testing.T) {
	res, err := Analyze(AnalyzeInput{
		Payload:       []byte(residuePayload),
		ViewerPayload: []byte(viewerPayload),
		Mode:          "residue",
		Filters:       &FilterUpdate{Disable: []string{"hydrophobic"}},
		Ticks:         10,
	}, DefaultPipelineConfig(), NoopMetrics())
	require.NoError(t, err)

	assert.Equal(t, selection.ModeResidue, res.Mode)
	assert.Equal(t, []string{"A/10/LIG", "R/55/SER"}, nodeIDs(res.Nodes))
	assert.Equal(t, ":A and resi 10 or :R and resi 55", res.Selection)
	assert.LessOrEqual(t, res.Ticks, 10)
	require.NotNil(t, res.ViewerReport)
	assert.Equal(t, []selection.TypePairs{
		{Type: domain.TypeHBond, Pairs: []selection.AtomPair{{"@9", "@2"}}},
	}, res.Pairs)
	assert.Equal(t, 2, res.Census.TypeCounts[domain.TypeHBond]+res.Census.TypeCounts[domain.TypeHydrophobic])
}

func TestAnalyze_NoActiveTypes(t *testing.T) {
	res, err := Analyze(AnalyzeInput{
		Payload: []byte(atomPayload),
		Filters: &FilterUpdate{ClearAll: true},
	}, DefaultPipelineConfig(), nil)
	require.NoError(t, err)

	assert.Empty(t, res.Nodes)
	assert.Empty(t, res.Links)
	assert.False(t, res.HasSelection)
	assert.Empty(t, res.Selection)
	assert.Empty(t, res.Pairs)
	assert.NotNil(t, res.Pairs)
}

func TestAnalyze_Errors(t *testing.T) {
	_, err := Analyze(AnalyzeInput{Payload: []byte("<html>502</html>")}, DefaultPipelineConfig(), nil)
	assert.True(t, errors.IsCode(err, errors.CodeMalformedPayload))

	_, err = Analyze(AnalyzeInput{Payload: []byte(atomPayload), ViewerPayload: []byte("{")}, DefaultPipelineConfig(), nil)
	assert.True(t, errors.IsCode(err, errors.CodeMalformedPayload))

	_, err = Analyze(AnalyzeInput{Payload: []byte(atomPayload), Mode: "chain"}, DefaultPipelineConfig(), nil)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidMode))

	_, err = Analyze(AnalyzeInput{
		Payload: []byte(atomPayload),
		Filters: &FilterUpdate{Enable: []string{""}},
	}, DefaultPipelineConfig(), nil)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestPipelineConfigFrom(t *testing.T) {
	pc := PipelineConfigFrom(config.LayoutConfig{Width: 640, Height: 480, LinkDistance: 75})
	assert.Equal(t, config.DefaultLayoutTicks, pc.Ticks)
	assert.Equal(t, float64(config.DefaultLayoutEdgeSpacing), pc.EdgeSpacing)
	assert.Equal(t, 640.0, pc.Layout.Width)
	require.NotNil(t, pc.Layout.LinkDistance)

	typed := pc.Layout.LinkDistance(domain.Link{Type: domain.TypeHBond})
	untyped := pc.Layout.LinkDistance(domain.Link{Type: "pi_cation"})
	assert.Equal(t, layout.TypedLinkDistanceOr(75)(domain.Link{Type: domain.TypeHBond}), typed)
	assert.Equal(t, 75.0, untyped)

	pc = PipelineConfigFrom(config.LayoutConfig{Ticks: 50, EdgeSpacing: 9})
	assert.Equal(t, 50, pc.Ticks)
	assert.Equal(t, 9.0, pc.EdgeSpacing)
	assert.Nil(t, pc.Layout.LinkDistance)
}

func TestServiceConfigFrom(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{MaxViews: 3},
		Filter: config.FilterConfig{ProximalThreshold: 4.5, ShowIsolated: true, Mode: "residue"},
	}
	sc := ServiceConfigFrom(cfg)
	assert.Equal(t, 3, sc.MaxViews)
	assert.Equal(t, selection.ModeResidue, sc.Mode)
	assert.True(t, sc.Filters.ShowIsolated)
	require.NotNil(t, sc.Filters.ProximalThreshold)
	assert.Equal(t, 4.5, *sc.Filters.ProximalThreshold)
	assert.Len(t, sc.Filters.ActiveTypes(), len(domain.AllTypes()))

	cfg.Filter = config.FilterConfig{Mode: "chain"}
	sc = ServiceConfigFrom(cfg)
	assert.Equal(t, selection.ModeAtom, sc.Mode)
	assert.Nil(t, sc.Filters.ProximalThreshold)
}

//Personal.AI order the ending
