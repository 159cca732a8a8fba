package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/shopfloor-tasks/internal"
	"github.com/frahmantamala/shopfloor-tasks/pkg/logger"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteOK writes {"ok":true}.
func (h *BaseHandler) WriteOK(w http.ResponseWriter) {
	h.WriteJSON(w, http.StatusOK, OKResponse{OK: true})
}

// WriteData writes {"ok":true,"data":...}.
func (h *BaseHandler) WriteData(w http.ResponseWriter, data interface{}) {
	h.WriteJSON(w, http.StatusOK, DataResponse{OK: true, Data: data})
}

// WriteError maps err onto the error taxonomy and writes {"ok":false,"error":CODE}.
// Anything that is not an AppError is logged with its cause and reported as SERVER_ERROR.
func (h *BaseHandler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := internal.AsAppError(err)
	lg := h.Logger.With("request_id", chiMiddleware.GetReqID(r.Context()))

	if appErr.StatusCode >= http.StatusInternalServerError {
		lg.Error("request failed", "path", r.URL.Path, "code", appErr.Code, "error", err)
	} else {
		lg.Warn("request rejected", "path", r.URL.Path, "code", appErr.Code, "message", appErr.GetDetailedMessage())
	}

	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header, or "".
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 2 << 20

// DecodeJSON reads a JSON request body into dst. An empty body leaves dst untouched.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type DataResponse struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data"`
}
