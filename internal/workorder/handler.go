package workorder

import (
	"net/http"
	"strings"

	"github.com/frahmantamala/shopfloor-tasks/internal"
	"github.com/frahmantamala/shopfloor-tasks/internal/transport"
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

// ListWorkOrders handles GET /api/work-orders
func (h *Handler) ListWorkOrders(w http.ResponseWriter, r *http.Request) {
	q := ListQuery{
		Username:   strings.TrimSpace(r.URL.Query().Get("username")),
		Department: strings.TrimSpace(r.URL.Query().Get("department")),
	}

	// A verified session fills in what the query leaves out.
	if session, ok := internal.SessionFromContext(r.Context()); ok && session.Source == internal.SessionSourceToken {
		if q.Username == "" {
			q.Username = session.Username
		}
		if q.Department == "" {
			q.Department = strings.TrimSpace(session.Department)
		}
	}

	orders, err := h.Service.ListForWorker(r.Context(), q)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteData(w, orders)
}

// StartTask handles POST /api/tasks/start
func (h *Handler) StartTask(w http.ResponseWriter, r *http.Request) {
	var dto StartDTO
	if err := transport.DecodeJSON(w, r, &dto); err != nil {
		h.WriteError(w, r, internal.ErrInvalidRequest.WithCause(err))
		return
	}

	if strings.TrimSpace(dto.Username) == "" {
		if session, ok := internal.SessionFromContext(r.Context()); ok && session.Source == internal.SessionSourceToken {
			dto.Username = session.Username
		}
	}

	if err := h.Service.Start(r.Context(), dto); err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteOK(w)
}

// UpdateQuantity handles POST /api/tasks/updateQuantity
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var dto UpdateQuantityDTO
	if err := transport.DecodeJSON(w, r, &dto); err != nil {
		h.WriteError(w, r, internal.ErrInvalidRequest.WithCause(err))
		return
	}

	if err := h.Service.UpdateQuantity(r.Context(), dto); err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteOK(w)
}

// DoneTask handles POST /api/tasks/done
func (h *Handler) DoneTask(w http.ResponseWriter, r *http.Request) {
	var dto DoneDTO
	if err := transport.DecodeJSON(w, r, &dto); err != nil {
		h.WriteError(w, r, internal.ErrInvalidRequest.WithCause(err))
		return
	}

	if err := h.Service.Done(r.Context(), dto); err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteOK(w)
}
