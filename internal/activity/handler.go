package activity

import (
	"net/http"
	"strconv"

	"github.com/frahmantamala/shopfloor-tasks/internal"
	"github.com/frahmantamala/shopfloor-tasks/internal/core/common/validation"
	"github.com/frahmantamala/shopfloor-tasks/internal/transport"
	"github.com/go-chi/chi"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// ListTaskActivity handles GET /api/tasks/{row}/activity. Row 1 is the header, so data rows start at 2.
func (h *Handler) ListTaskActivity(w http.ResponseWriter, r *http.Request) {
	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil {
		h.WriteError(w, r, internal.ErrMissingParams)
		return
	}
	v := validation.NewValidator()
	v.Field("row", row).Required().MinInt(2)
	if err := v.Validate(internal.ErrMissingParams); err != nil {
		h.WriteError(w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			h.WriteError(w, r, internal.ErrInvalidRequest.WithCause(err))
			return
		}
	}

	entries, err := h.Service.ListForRow(r.Context(), row, limit)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteData(w, entries)
}
