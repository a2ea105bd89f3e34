package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app "github.com/turtacn/interactome/internal/application/interaction"
	"github.com/turtacn/interactome/internal/domain/viewer"
	"github.com/turtacn/interactome/internal/infrastructure/storage/minio"
	"github.com/turtacn/interactome/internal/testutil"
	"github.com/turtacn/interactome/pkg/errors"
)

// MockService mocks app.Service.
type MockService struct {
	mock.Mock
}

func (m *MockService) state(args mock.Arguments) (*app.State, error) {
	if v := args.Get(0); v != nil {
		return v.(*app.State), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) layout(args mock.Arguments) (*app.LayoutState, error) {
	if v := args.Get(0); v != nil {
		return v.(*app.LayoutState), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Open(ctx context.Context, input *app.OpenInput) (*app.State, error) {
	return m.state(m.Called(ctx, input))
}

func (m *MockService) Get(id string) (*app.State, error) { return m.state(m.Called(id)) }

func (m *MockService) Reload(ctx context.Context, id string) (*app.State, error) {
	return m.state(m.Called(ctx, id))
}

func (m *MockService) Close(id string) error { return m.Called(id).Error(0) }

func (m *MockService) UpdateFilter(ctx context.Context, id string, u app.FilterUpdate) (*app.State, error) {
	return m.state(m.Called(ctx, id, u))
}

func (m *MockService) SetMode(ctx context.Context, id, mode string) (*app.State, error) {
	return m.state(m.Called(ctx, id, mode))
}

func (m *MockService) Mount(ctx context.Context, id string) (*app.State, error) {
	return m.state(m.Called(ctx, id))
}

func (m *MockService) Unmount(id string) error { return m.Called(id).Error(0) }

func (m *MockService) Commands(id string) ([]viewer.Command, error) {
	args := m.Called(id)
	cmds, _ := args.Get(0).([]viewer.Command)
	return cmds, args.Error(1)
}

func (m *MockService) Representations(id string) ([]viewer.Representation, error) {
	args := m.Called(id)
	reps, _ := args.Get(0).([]viewer.Representation)
	return reps, args.Error(1)
}

func (m *MockService) Drag(id string, in *app.DragInput) (*app.LayoutState, error) {
	return m.layout(m.Called(id, in))
}

func (m *MockService) Step(id string, ticks int) (*app.LayoutState, error) {
	return m.layout(m.Called(id, ticks))
}

func (m *MockService) ExportSnapshot(ctx context.Context, id string) (*minio.SnapshotRef, error) {
	args := m.Called(ctx, id)
	ref, _ := args.Get(0).(*minio.SnapshotRef)
	return ref, args.Error(1)
}

func (m *MockService) ActiveViews() int { return m.Called().Int(0) }

func newViewRouter(svc app.Service) http.Handler {
	h := NewViewHandler(svc, testutil.NewMockLogger(), 1<<16)
	r := chi.NewRouter()
	r.Post("/views", h.Open)
	r.Route("/views/{"+ViewIDParam+"}", func(item chi.Router) {
		item.Get("/", h.Get)
		item.Delete("/", h.Close)
		item.Post("/reload", h.Reload)
		item.Put("/filter", h.UpdateFilter)
		item.Put("/mode", h.SetMode)
		item.Post("/viewer", h.Mount)
		item.Delete("/viewer", h.Unmount)
		item.Get("/viewer/commands", h.Commands)
		item.Get("/viewer/representations", h.Representations)
		item.Post("/layout/drag", h.Drag)
		item.Post("/layout/step", h.Step)
		item.Post("/snapshot", h.Snapshot)
	})
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestViewHandler_Open(t *testing.T) {
	svc := new(MockService)
	svc.On("Open", mock.Anything, &app.OpenInput{StructureID: "1abc", Mode: "residue"}).
		Return(&app.State{ViewID: "v1", StructureID: "1abc", Generation: 1}, nil).Once()

	rec := do(newViewRouter(svc), http.MethodPost, "/views", `{"structure_id":"1abc","mode":"residue"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/v1/views/v1", rec.Header().Get("Location"))

	var st app.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "v1", st.ViewID)
	assert.Equal(t, uint64(1), st.Generation)
	svc.AssertExpectations(t)
}

func TestViewHandler_OpenErrors(t *testing.T) {
	svc := new(MockService)
	svc.On("Open", mock.Anything, mock.Anything).
		Return(nil, errors.New(errors.CodeServiceUnavailable, "view limit reached")).Once()
	r := newViewRouter(svc)

	rec := do(r, http.MethodPost, "/views", `{"structure_id":"1abc"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "view limit reached", decodeError(t, rec).Message)

	rec = do(r, http.MethodPost, "/views", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNumberOfCalls(t, "Open", 1)
}

func TestViewHandler_GetAndClose(t *testing.T) {
	svc := new(MockService)
	svc.On("Get", "v1").Return(&app.State{ViewID: "v1"}, nil)
	svc.On("Get", "missing").Return(nil, errors.New(errors.CodeViewNotFound, "view not found"))
	svc.On("Close", "v1").Return(nil)
	r := newViewRouter(svc)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/views/v1", "").Code)

	rec := do(r, http.MethodGet, "/views/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(errors.CodeViewNotFound), decodeError(t, rec).Code)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/views/v1", "").Code)
}

func TestViewHandler_FilterAndMode(t *testing.T) {
	svc := new(MockService)
	svc.On("UpdateFilter", mock.Anything, "v1", app.FilterUpdate{Disable: []string{"hbond"}}).
		Return(&app.State{ViewID: "v1"}, nil).Once()
	svc.On("SetMode", mock.Anything, "v1", "residue").Return(&app.State{ViewID: "v1"}, nil).Once()
	svc.On("Reload", mock.Anything, "v1").Return(&app.State{ViewID: "v1", Generation: 2}, nil).Once()
	r := newViewRouter(svc)

	assert.Equal(t, http.StatusOK, do(r, http.MethodPut, "/views/v1/filter", `{"disable":["hbond"]}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPut, "/views/v1/mode", `{"mode":"residue"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/views/v1/mode", `{}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/views/v1/reload", "").Code)
	svc.AssertExpectations(t)
}

func TestViewHandler_Viewer(t *testing.T) {
	svc := new(MockService)
	svc.On("Mount", mock.Anything, "v1").Return(&app.State{ViewID: "v1", Viewer: app.ViewerState{Mounted: true}}, nil)
	svc.On("Commands", "v1").Return([]viewer.Command{{ViewID: "v1", Seq: 1, Op: viewer.OpLoad}}, nil)
	svc.On("Representations", "v1").Return(nil, errors.New(errors.CodeViewerUnavailable, "no viewer attached"))
	svc.On("Unmount", "v1").Return(nil)
	r := newViewRouter(svc)

	rec := do(r, http.MethodPost, "/views/v1/viewer", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodGet, "/views/v1/viewer/commands", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cmds CommandsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cmds))
	require.Len(t, cmds.Commands, 1)
	assert.Equal(t, viewer.OpLoad, cmds.Commands[0].Op)

	rec = do(r, http.MethodGet, "/views/v1/viewer/representations", "")
	assert.Equal(t, errors.HTTPStatusForCode(errors.CodeViewerUnavailable), rec.Code)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/views/v1/viewer", "").Code)
}

func TestViewHandler_Layout(t *testing.T) {
	svc := new(MockService)
	svc.On("Drag", "v1", &app.DragInput{NodeID: "n1", X: 3, Y: 4}).Return(&app.LayoutState{Ticks: 1}, nil).Once()
	svc.On("Step", "v1", 1).Return(&app.LayoutState{Ticks: 1}, nil).Once()
	svc.On("Step", "v1", 25).Return(&app.LayoutState{Ticks: 25}, nil).Twice()
	r := newViewRouter(svc)

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/views/v1/layout/drag", `{"node_id":"n1","x":3,"y":4}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/views/v1/layout/step", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/views/v1/layout/step?ticks=25", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/views/v1/layout/step", `{"ticks":25}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/views/v1/layout/step?ticks=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/views/v1/layout/step?ticks=-1", "").Code)
	svc.AssertExpectations(t)
}

func TestViewHandler_Snapshot(t *testing.T) {
	svc := new(MockService)
	ref := &minio.SnapshotRef{Bucket: "snapshots", Key: "snapshots/v1/a.json", CreatedAt: time.Unix(0, 0).UTC()}
	svc.On("ExportSnapshot", mock.Anything, "v1").Return(ref, nil)
	svc.On("ExportSnapshot", mock.Anything, "v2").Return(nil, errors.New(errors.ErrCodeFeatureDisabled, "snapshots are disabled"))
	r := newViewRouter(svc)

	rec := do(r, http.MethodPost, "/views/v1/snapshot", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var got minio.SnapshotRef
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, ref.Key, got.Key)

	assert.Equal(t, http.StatusNotImplemented, do(r, http.MethodPost, "/views/v2/snapshot", "").Code)
}

func TestWriteError_MasksUnknownErrors(t *testing.T) {
	svc := new(MockService)
	svc.On("Get", "v1").Return(nil, assert.AnError)
	log := testutil.NewMockLogger()
	h := NewViewHandler(svc, log, 0)
	r := chi.NewRouter()
	r.Get("/views/{viewID}", h.Get)

	rec := do(r, http.MethodGet, "/views/v1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, string(errors.CodeInternal), resp.Code)
	assert.NotContains(t, resp.Message, assert.AnError.Error())
	assert.True(t, log.HasMessage("error", "request failed"))
}

//Personal.AI order the ending
