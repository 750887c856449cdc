package order

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/maaltijdbox/admin-api/internal/common"
	"github.com/maaltijdbox/admin-api/internal/coupon"
)

// Handler exposes the back-office order endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
	PageSize int
	MaxPage  int
}

type statusPayload struct {
	Status string `json:"status" validate:"required,oneof=pending processing completed cancelled"`
}

// Routes mounts product order and meal order endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}/status", h.updateStatus)
		r.Delete("/{id}", h.delete)
	})
	r.Route("/meal-orders", func(r chi.Router) {
		r.Get("/", h.listMealOrders)
		r.Get("/{id}", h.getMealOrder)
		r.Put("/{id}/status", h.updateMealOrderStatus)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, h.PageSize, h.MaxPage)
	items, err := h.Svc.Store.List(r.Context(), perPage, common.Offset(page, perPage))
	if err != nil {
		h.writeError(w, err)
		return
	}
	total, err := h.Svc.Store.Count(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: int(total)},
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	bd, err := h.Svc.Breakdown(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": bd})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := h.decodeStatus(w, r)
	if !ok {
		return
	}
	o, err := h.Svc.SetStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": o})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listMealOrders(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, h.PageSize, h.MaxPage)
	items, err := h.Svc.Store.ListMealOrders(r.Context(), perPage, common.Offset(page, perPage))
	if err != nil {
		h.writeError(w, err)
		return
	}
	total, err := h.Svc.Store.CountMealOrders(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: int(total)},
	})
}

func (h *Handler) getMealOrder(w http.ResponseWriter, r *http.Request) {
	m, err := h.Svc.Store.GetMealOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": m})
}

func (h *Handler) updateMealOrderStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := h.decodeStatus(w, r)
	if !ok {
		return
	}
	m, err := h.Svc.SetMealOrderStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": m})
}

func (h *Handler) decodeStatus(w http.ResponseWriter, r *http.Request) (Status, bool) {
	var in statusPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return "", false
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid status payload", err.Error())
		return "", false
	}
	return Status(in.Status), true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, coupon.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
	case errors.Is(err, ErrInvalidStatus):
		common.JSONError(w, http.StatusBadRequest, "INVALID_STATUS", "unknown order status", nil)
	default:
		common.WriteError(w, err)
	}
}
