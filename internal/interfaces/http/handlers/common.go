// Package handlers implements the HTTP handlers of the interaction API.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/pkg/errors"
)

// DefaultMaxBodySize bounds request bodies when no limit is configured.
const DefaultMaxBodySize int64 = 8 << 20

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError maps err to its HTTP status.  Errors without an application
// code are masked as internal errors.
func writeError(w http.ResponseWriter, r *http.Request, err error) int {
	resp := ErrorResponse{RequestID: chimw.GetReqID(r.Context())}

	var ae *errors.AppError
	if errors.As(err, &ae) {
		resp.Code = string(ae.Code)
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	} else {
		resp.Code = string(errors.CodeInternal)
		resp.Message = errors.DefaultMessageForCode(errors.CodeInternal)
	}

	status := errors.HTTPStatusForCode(errors.ErrorCode(resp.Code))
	writeJSON(w, status, resp)
	return status
}

// fail logs err at a level matching its status and writes the response.
func fail(logger logging.Logger, w http.ResponseWriter, r *http.Request, op string, err error) {
	status := writeError(w, r, err)
	fields := []logging.Field{
		logging.String("op", op),
		logging.String("code", string(errors.GetCode(err))),
		logging.Int("status", status),
		logging.Err(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
		return
	}
	logger.Debug("request rejected", fields...)
}

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, errors.InvalidParam("request body is unreadable or too large").WithCause(err)
	}
	return body, nil
}

// decodeJSON decodes the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst interface{}) error {
	body, err := readBody(w, r, limit)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errors.InvalidParam("invalid request body").WithCause(err)
	}
	return nil
}

//Personal.AI order the ending
