package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// Problem is an RFC 7807 problem details body.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

var problemTypes = map[int]string{
	http.StatusBadRequest:          "bad-request",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusNotFound:            "not-found",
	http.StatusConflict:            "conflict",
	http.StatusUnprocessableEntity: "validation-error",
	http.StatusInternalServerError: "internal-error",
	http.StatusServiceUnavailable:  "service-unavailable",
}

// StatusFor maps dashboard errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrAuthenticationRequired):
		return http.StatusUnauthorized
	case errors.Is(err, dashboard.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrMalformedConfig), errors.Is(err, dashboard.ErrConfigKindMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dashboard.ErrUnknownWidgetKind):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrEditorClosed):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrStorage):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// NewProblem builds the problem body for status. Internal errors do not echo
// their cause.
func NewProblem(status int, err error) Problem {
	kind, ok := problemTypes[status]
	if !ok {
		kind = "unknown"
	}
	detail := http.StatusText(status)
	if err != nil && status < http.StatusInternalServerError {
		detail = err.Error()
	}
	return Problem{
		Type:   "urn:dashboard:error:" + kind,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// WriteProblem writes err as a problem response.
func WriteProblem(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(NewProblem(status, err))
}

// WriteError writes err with the status StatusFor picks.
func WriteError(w http.ResponseWriter, err error) {
	WriteProblem(w, StatusFor(err), err)
}
