package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	app "github.com/turtacn/interactome/internal/application/interaction"
	"github.com/turtacn/interactome/internal/domain/viewer"
	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/pkg/errors"
)

// ViewIDParam is the chi URL parameter carrying the view id.
const ViewIDParam = "viewID"

// ViewHandler serves the stateful view endpoints.
type ViewHandler struct {
	svc     app.Service
	logger  logging.Logger
	maxBody int64
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(svc app.Service, logger logging.Logger, maxBody int64) *ViewHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ViewHandler{svc: svc, logger: logger.Named("view-handler"), maxBody: maxBody}
}

// SetModeRequest is the body of PUT /views/{id}/mode.
type SetModeRequest struct {
	Mode string `json:"mode"`
}

// StepRequest is the body of POST /views/{id}/layout/step.
type StepRequest struct {
	Ticks int `json:"ticks"`
}

// CommandsResponse wraps drained viewer commands.
type CommandsResponse struct {
	ViewID   string           `json:"view_id"`
	Commands []viewer.Command `json:"commands"`
}

// RepresentationsResponse lists the live representations of a mounted viewer.
type RepresentationsResponse struct {
	ViewID          string                  `json:"view_id"`
	Representations []viewer.Representation `json:"representations"`
}

func viewID(r *http.Request) string { return chi.URLParam(r, ViewIDParam) }

// Open handles POST /api/v1/views.
func (h *ViewHandler) Open(w http.ResponseWriter, r *http.Request) {
	var in app.OpenInput
	if err := decodeJSON(w, r, h.maxBody, &in); err != nil {
		fail(h.logger, w, r, "open", err)
		return
	}
	st, err := h.svc.Open(r.Context(), &in)
	if err != nil {
		fail(h.logger, w, r, "open", err)
		return
	}
	w.Header().Set("Location", "/api/v1/views/"+st.ViewID)
	writeJSON(w, http.StatusCreated, st)
}

// Get handles GET /api/v1/views/{viewID}.
func (h *ViewHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Get(viewID(r))
	if err != nil {
		fail(h.logger, w, r, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Reload handles POST /api/v1/views/{viewID}/reload.
func (h *ViewHandler) Reload(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Reload(r.Context(), viewID(r))
	if err != nil {
		fail(h.logger, w, r, "reload", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Close handles DELETE /api/v1/views/{viewID}.
func (h *ViewHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Close(viewID(r)); err != nil {
		fail(h.logger, w, r, "close", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateFilter handles PUT /api/v1/views/{viewID}/filter.
func (h *ViewHandler) UpdateFilter(w http.ResponseWriter, r *http.Request) {
	var u app.FilterUpdate
	if err := decodeJSON(w, r, h.maxBody, &u); err != nil {
		fail(h.logger, w, r, "update_filter", err)
		return
	}
	st, err := h.svc.UpdateFilter(r.Context(), viewID(r), u)
	if err != nil {
		fail(h.logger, w, r, "update_filter", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// SetMode handles PUT /api/v1/views/{viewID}/mode.
func (h *ViewHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req SetModeRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		fail(h.logger, w, r, "set_mode", err)
		return
	}
	if req.Mode == "" {
		fail(h.logger, w, r, "set_mode", errors.InvalidParam("mode is required"))
		return
	}
	st, err := h.svc.SetMode(r.Context(), viewID(r), req.Mode)
	if err != nil {
		fail(h.logger, w, r, "set_mode", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Mount handles POST /api/v1/views/{viewID}/viewer.
func (h *ViewHandler) Mount(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Mount(r.Context(), viewID(r))
	if err != nil {
		fail(h.logger, w, r, "mount", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Unmount handles DELETE /api/v1/views/{viewID}/viewer.
func (h *ViewHandler) Unmount(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Unmount(viewID(r)); err != nil {
		fail(h.logger, w, r, "unmount", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Commands handles GET /api/v1/views/{viewID}/viewer/commands.  Returned
// commands are removed from the queue.
func (h *ViewHandler) Commands(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	cmds, err := h.svc.Commands(id)
	if err != nil {
		fail(h.logger, w, r, "commands", err)
		return
	}
	writeJSON(w, http.StatusOK, CommandsResponse{ViewID: id, Commands: cmds})
}

// Representations handles GET /api/v1/views/{viewID}/viewer/representations.
func (h *ViewHandler) Representations(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	reps, err := h.svc.Representations(id)
	if err != nil {
		fail(h.logger, w, r, "representations", err)
		return
	}
	writeJSON(w, http.StatusOK, RepresentationsResponse{ViewID: id, Representations: reps})
}

// Drag handles POST /api/v1/views/{viewID}/layout/drag.
func (h *ViewHandler) Drag(w http.ResponseWriter, r *http.Request) {
	var in app.DragInput
	if err := decodeJSON(w, r, h.maxBody, &in); err != nil {
		fail(h.logger, w, r, "drag", err)
		return
	}
	ls, err := h.svc.Drag(viewID(r), &in)
	if err != nil {
		fail(h.logger, w, r, "drag", err)
		return
	}
	writeJSON(w, http.StatusOK, ls)
}

// Step handles POST /api/v1/views/{viewID}/layout/step.  Ticks come from the
// "ticks" query parameter or the JSON body and default to one.
func (h *ViewHandler) Step(w http.ResponseWriter, r *http.Request) {
	ticks := 1
	if v := r.URL.Query().Get("ticks"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail(h.logger, w, r, "step", errors.InvalidParam("ticks must be an integer"))
			return
		}
		ticks = n
	} else if r.ContentLength > 0 {
		var req StepRequest
		if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
			fail(h.logger, w, r, "step", err)
			return
		}
		ticks = req.Ticks
	}
	if ticks < 0 || ticks > app.MaxStepTicks {
		fail(h.logger, w, r, "step", errors.Newf(errors.CodeInvalidParam, "ticks must be within [0, %d]", app.MaxStepTicks))
		return
	}

	ls, err := h.svc.Step(viewID(r), ticks)
	if err != nil {
		fail(h.logger, w, r, "step", err)
		return
	}
	writeJSON(w, http.StatusOK, ls)
}

// Snapshot handles POST /api/v1/views/{viewID}/snapshot.
func (h *ViewHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	ref, err := h.svc.ExportSnapshot(r.Context(), viewID(r))
	if err != nil {
		fail(h.logger, w, r, "snapshot", err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

//Personal.AI order the ending
