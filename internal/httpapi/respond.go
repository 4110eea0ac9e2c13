package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dshills/nhs-mcp/internal/backend"
	"github.com/dshills/nhs-mcp/internal/mcp"
	"github.com/dshills/nhs-mcp/pkg/types"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// Error codes carried in the REST error envelope
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeBackendError       = "BACKEND_ERROR"
	CodeTimeout            = "TIMEOUT"
)

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WarnContext(r.Context(), "encode response failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, r *http.Request, logger *slog.Logger, data interface{}) {
	writeJSON(w, r, logger, http.StatusOK, successResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, code, message string) {
	writeJSON(w, r, logger, status, errorResponse{
		Success: false,
		Error:   errorBody{Code: code, Message: message},
	})
}

// writeServiceError maps err to a status and error envelope, logging
// unexpected failures
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, r, logger, status, code, err.Error())
}

// classify maps a service error to an HTTP status and envelope code
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidInput
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, types.ErrBackendNotConfigured), errors.Is(err, backend.ErrNotConfigured):
		return http.StatusServiceUnavailable, CodeServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTimeout
	default:
		return http.StatusBadGateway, CodeBackendError
	}
}

// decodeArgs reads a JSON object body into tool arguments. An empty body
// yields empty arguments
func decodeArgs(w http.ResponseWriter, r *http.Request) (mcp.Args, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var raw map[string]interface{}
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return mcp.Args{}, nil
		}
		return nil, types.NewValidationError("body", "Request body must be a JSON object")
	}
	args, _ := mcp.NewArgs(raw)
	return args, nil
}

// queryArgs converts query parameters to tool arguments, keeping the first
// value of each key
func queryArgs(r *http.Request) mcp.Args {
	args := mcp.Args{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			args[key] = values[0]
		}
	}
	return args
}
