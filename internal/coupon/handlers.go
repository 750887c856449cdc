package coupon

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/maaltijdbox/admin-api/internal/common"
	"github.com/maaltijdbox/admin-api/internal/pricing"
)

// Handler exposes coupon management endpoints.
type Handler struct {
	Service  *Service
	Validate *validator.Validate
	PageSize int
	MaxPage  int
}

type payload struct {
	Name   string  `json:"name" validate:"required"`
	Code   string  `json:"code" validate:"required,alphanum"`
	Type   string  `json:"type" validate:"required,oneof=amount percent"`
	Value  float64 `json:"value" validate:"required,gt=0"`
	Policy string  `json:"policy" validate:"required,oneof=onetime multiple"`
	Status string  `json:"status" validate:"required,oneof=active inactive"`
}

// Routes mounts the coupon endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/preview", h.preview)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, h.PageSize, h.MaxPage)
	items, total, err := h.Service.List(r.Context(), perPage, common.Offset(page, perPage))
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
	c, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": c})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in payload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid coupon payload", err.Error())
		return
	}
	created, err := h.Service.Create(r.Context(), codeFromPayload(in))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in payload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid coupon payload", err.Error())
		return
	}
	c := codeFromPayload(in)
	c.ID = chi.URLParam(r, "id")
	updated, err := h.Service.Update(r.Context(), c)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// preview handles GET /coupon-codes/preview?code=...&subtotal=... so order
// screens can show the discount a coupon would apply.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	subtotal, err := strconv.ParseFloat(r.URL.Query().Get("subtotal"), 64)
	if code == "" || err != nil || subtotal < 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "code and a non-negative subtotal are required", nil)
		return
	}
	preview, err := h.Service.PreviewDiscount(r.Context(), code, subtotal)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": preview})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "coupon not found", nil)
	case errors.Is(err, ErrDuplicateCode):
		common.JSONError(w, http.StatusConflict, "DUPLICATE_CODE", "coupon code already exists", nil)
	case errors.Is(err, ErrInactive), errors.Is(err, ErrAlreadyRedeemed):
		common.JSONError(w, http.StatusUnprocessableEntity, "COUPON_REJECTED", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}

func codeFromPayload(in payload) Code {
	return Code{
		Name:   in.Name,
		Code:   in.Code,
		Type:   pricing.CouponType(in.Type),
		Value:  in.Value,
		Policy: Policy(in.Policy),
		Status: Status(in.Status),
	}
}
