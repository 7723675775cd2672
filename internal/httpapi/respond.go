// internal/httpapi/respond.go
//
// Response helpers shared by the handlers: JSON writing and the error
// responder that maps fault kinds to statuses.  Outside dev mode the
// body carries only a generic message for the status class; the real
// error goes to the log.
package httpapi

import (
	"encoding/json"
	"html"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/storefront/internal/fault"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnw("response encode failed", "err", err)
	}
}

// errorBody is the JSON error envelope.  Fields is present only on
// validation failures.
type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func genericMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not found"
	case http.StatusServiceUnavailable:
		return "temporarily unavailable"
	case http.StatusBadGateway:
		return "upstream service failed"
	case http.StatusBadRequest:
		return "invalid request"
	default:
		return "internal error"
	}
}

// respondError writes err as JSON.  Unknown-kind errors are logged at
// error level; expected kinds at info.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := fault.HTTPStatus(err)

	log := zap.S().Infow
	if status >= http.StatusInternalServerError && fault.KindOf(err) == fault.KindUnknown {
		log = zap.S().Errorw
	}
	log("request failed",
		"method", r.Method, "path", r.URL.Path, "host", r.Host,
		"status", status, "kind", fault.KindOf(err).String(), "err", err)

	msg := genericMessage(status)
	if s.Opts.DevMode {
		msg = err.Error()
	}
	writeJSON(w, status, errorBody{Error: msg})
}

// respondErrorHTML is the storefront variant: browsers get a minimal
// page, not a JSON envelope.
func (s *Server) respondErrorHTML(w http.ResponseWriter, r *http.Request, err error) {
	status := fault.HTTPStatus(err)

	zap.S().Infow("storefront request failed",
		"path", r.URL.Path, "host", r.Host,
		"status", status, "kind", fault.KindOf(err).String(), "err", err)

	msg := genericMessage(status)
	if s.Opts.DevMode {
		msg = err.Error()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte("<!doctype html><title>" + http.StatusText(status) + "</title><h1>" + html.EscapeString(msg) + "</h1>"))
}
