package zipcode

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/maaltijdbox/admin-api/internal/common"
)

// Handler exposes zip code administration endpoints.
type Handler struct {
	Store    *Store
	Validate *validator.Validate
	PageSize int
	MaxPage  int
}

type zipPayload struct {
	Code        string `json:"code" validate:"required"`
	City        string `json:"city" validate:"required"`
	LockdownDay int    `json:"lockdown_day" validate:"gte=-1,lte=6"`
}

// Routes mounts the zip code endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/zip-codes", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/check", h.check)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, h.PageSize, h.MaxPage)
	items, err := h.Store.List(r.Context(), perPage, common.Offset(page, perPage))
	if err != nil {
		h.writeError(w, err)
		return
	}
	total, err := h.Store.Count(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: int(total)},
	})
}

// check answers whether a zip code is deliverable on a given weekday. The day
// defaults to today when absent.
func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "code query parameter is required", nil)
		return
	}
	day := int(time.Now().Weekday())
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 6 {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "day must be a weekday from 0 to 6", nil)
			return
		}
		day = parsed
	}
	z, err := h.Store.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSON(w, http.StatusOK, map[string]any{
				"data": map[string]any{"deliverable": false, "locked_down": false},
			})
			return
		}
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"deliverable": true,
			"locked_down": z.LockedOn(time.Weekday(day)),
			"zip_code":    z,
		},
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.Store.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	in.ID = chi.URLParam(r, "id")
	updated, err := h.Store.Update(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (ZipCode, bool) {
	var in zipPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return ZipCode{}, false
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid zip code payload", err.Error())
		return ZipCode{}, false
	}
	return ZipCode{Code: in.Code, City: in.City, LockdownDay: in.LockdownDay}, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "zip code not found", nil)
		return
	}
	common.WriteError(w, err)
}
