// Package httpserver exposes the profile and video services over HTTP with chi.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/metrics"
	"github.com/and161185/streamish/internal/service"
	"github.com/and161185/streamish/internal/validation"
)

// Error codes returned in the error envelope.
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeNotImplemented   = "NOT_IMPLEMENTED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
)

const maxBodyBytes = 1 << 20

// Pinger reports storage reachability for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the dependencies shared by all routes.
type Handler struct {
	profiles service.ProfileService
	videos   service.VideoService
	store    Pinger
	log      *zap.Logger
}

// NewHandler constructs a Handler.
func NewHandler(profiles service.ProfileService, videos service.VideoService, store Pinger, log *zap.Logger) *Handler {
	return &Handler{profiles: profiles, videos: videos, store: store, log: log}
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

type errorBody struct {
	Error apiError `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn("write response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	h.writeJSON(w, status, errorBody{Error: apiError{
		Code:      code,
		Message:   msg,
		RequestID: RequestIDFromContext(r.Context()),
	}})
}

// fail maps err onto a status code. Unknown errors are logged and hidden from the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		h.writeError(w, r, http.StatusBadRequest, CodeValidationFailed, verr.Error())
	case errors.Is(err, errs.ErrNotFound):
		h.writeError(w, r, http.StatusNotFound, CodeNotFound, "resource not found")
	case errors.Is(err, errs.ErrIDMismatch):
		h.writeError(w, r, http.StatusBadRequest, CodeBadRequest, "id in path does not match id in body")
	case errors.Is(err, errs.ErrInvalidArgument):
		h.writeError(w, r, http.StatusBadRequest, CodeBadRequest, err.Error())
	case errors.Is(err, errs.ErrUnimplemented):
		h.writeError(w, r, http.StatusNotImplemented, CodeNotImplemented, "operation not supported by this backend")
	default:
		route := routePattern(r)
		metrics.ServerErrors.WithLabelValues(route).Inc()
		h.log.Error("request failed",
			zap.Error(err),
			zap.String("route", route),
			zap.String("request_id", RequestIDFromContext(r.Context())),
		)
		h.writeError(w, r, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("malformed JSON body: %w", errs.ErrInvalidArgument)
	}
	return validation.Struct(dst)
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id %q is not an integer: %w", raw, errs.ErrInvalidArgument)
	}
	return id, nil
}
