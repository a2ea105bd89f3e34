package handlers

import (
	"encoding/json"
	"net/http"

	app "github.com/turtacn/interactome/internal/application/interaction"
	domain "github.com/turtacn/interactome/internal/domain/interaction"
	"github.com/turtacn/interactome/internal/domain/selection"
	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/pkg/errors"
)

// GraphHandler serves the stateless pipeline endpoints.  Every request
// carries its own payload; nothing is retained between requests.
type GraphHandler struct {
	pipeline app.PipelineConfig
	filters  domain.FilterState
	metrics  app.Metrics
	logger   logging.Logger
	maxBody  int64
}

// NewGraphHandler creates a new GraphHandler.
func NewGraphHandler(pipeline app.PipelineConfig, metrics app.Metrics, logger logging.Logger, maxBody int64) *GraphHandler {
	if metrics == nil {
		metrics = app.NoopMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GraphHandler{pipeline: pipeline, metrics: metrics, logger: logger.Named("graph-handler"), maxBody: maxBody}
}

// WithFilterDefaults sets the state request filters apply to, normally the
// same defaults new views start with.
func (h *GraphHandler) WithFilterDefaults(st domain.FilterState) *GraphHandler {
	h.filters = st.Clone()
	return h
}

// NormalizeResponse is the canonical graph of one payload.
type NormalizeResponse struct {
	Graph  *domain.Graph `json:"graph"`
	Report domain.Report `json:"report"`
	Census domain.Census `json:"census"`
}

// FilterRequest is the body of POST /graphs/filter.
type FilterRequest struct {
	Payload       json.RawMessage   `json:"payload"`
	ViewerPayload json.RawMessage   `json:"viewer_payload,omitempty"`
	Filters       *app.FilterUpdate `json:"filters,omitempty"`
	Mode          string            `json:"mode,omitempty"`
	Ticks         int               `json:"ticks,omitempty"`
}

// SelectionRequest is the body of POST /selections.  Labels are turned into
// nodes whose id and label are the label itself.
type SelectionRequest struct {
	Mode   string        `json:"mode,omitempty"`
	Labels []string      `json:"labels,omitempty"`
	Nodes  []domain.Node `json:"nodes,omitempty"`
	Links  []domain.Link `json:"links,omitempty"`
}

// SelectionResponse carries the compiled expression and distance-line pairs.
type SelectionResponse struct {
	Mode         selection.Mode        `json:"mode"`
	Selection    string                `json:"selection,omitempty"`
	HasSelection bool                  `json:"has_selection"`
	Pairs        []selection.TypePairs `json:"pairs"`
	PairCount    int                   `json:"pair_count"`
}

// Normalize handles POST /api/v1/graphs/normalize.  The body is the raw
// upstream payload in any supported shape.
func (h *GraphHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, h.maxBody)
	if err != nil {
		fail(h.logger, w, r, "normalize", err)
		return
	}
	g, rep, err := domain.NormalizeJSONWithReport(body)
	if err != nil {
		fail(h.logger, w, r, "normalize", err)
		return
	}
	h.metrics.ObserveNormalize("request", rep.Shape, len(g.Nodes), len(g.Links), rep.DroppedLinks)
	writeJSON(w, http.StatusOK, NormalizeResponse{Graph: g, Report: rep, Census: domain.TakeCensus(g)})
}

// Filter handles POST /api/v1/graphs/filter: normalize, filter, lay out and
// compile selections in one pass.
func (h *GraphHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		fail(h.logger, w, r, "filter", err)
		return
	}
	if len(req.Payload) == 0 {
		fail(h.logger, w, r, "filter", errors.InvalidParam("payload is required"))
		return
	}
	if req.Ticks < 0 || req.Ticks > app.MaxStepTicks {
		fail(h.logger, w, r, "filter", errors.Newf(errors.CodeInvalidParam, "ticks must be within [0, %d]", app.MaxStepTicks))
		return
	}

	res, err := app.Analyze(app.AnalyzeInput{
		Payload:       req.Payload,
		ViewerPayload: req.ViewerPayload,
		Base:          h.filters,
		Filters:       req.Filters,
		Mode:          req.Mode,
		Ticks:         req.Ticks,
	}, h.pipeline, h.metrics)
	if err != nil {
		fail(h.logger, w, r, "filter", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Select handles POST /api/v1/selections.
func (h *GraphHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		fail(h.logger, w, r, "select", err)
		return
	}
	mode, err := selection.ParseMode(req.Mode)
	if err != nil {
		fail(h.logger, w, r, "select", err)
		return
	}

	nodes := make([]domain.Node, 0, len(req.Nodes)+len(req.Labels))
	nodes = append(nodes, req.Nodes...)
	for _, l := range req.Labels {
		nodes = append(nodes, domain.Node{ID: l, Label: l, Role: domain.RoleOf(l)})
	}
	if len(nodes) == 0 {
		fail(h.logger, w, r, "select", errors.InvalidParam("labels or nodes are required"))
		return
	}

	expr, ok := selection.Compile(nodes, mode)
	pairs := selection.OrderedPairs(selection.AtomPairs(nodes, req.Links))
	writeJSON(w, http.StatusOK, SelectionResponse{
		Mode:         mode,
		Selection:    expr,
		HasSelection: ok,
		Pairs:        pairs,
		PairCount:    selection.CountPairs(pairs),
	})
}

//Personal.AI order the ending
