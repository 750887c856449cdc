package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/maaltijdbox/admin-api/internal/common"
)

// Handler exposes user administration endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
	PageSize int
	MaxPage  int
}

type userPayload struct {
	Name          string   `json:"name" validate:"required"`
	Email         string   `json:"email" validate:"required,email"`
	Phone         *string  `json:"phone"`
	Status        string   `json:"status" validate:"required,oneof=active blocked"`
	Age           *int     `json:"age" validate:"omitempty,gt=0,lte=120"`
	Gender        *string  `json:"gender" validate:"omitempty,oneof=male female"`
	WeightKg      *float64 `json:"weight_kg" validate:"omitempty,gt=0"`
	HeightCm      *float64 `json:"height_cm" validate:"omitempty,gt=0"`
	ActivityLevel *float64 `json:"activity_level" validate:"omitempty,oneof=1.2 1.375 1.55 1.75 1.9"`
	Goal          *float64 `json:"goal" validate:"omitempty,oneof=-500 0 500"`
	PlanDays      *int     `json:"plan_days" validate:"omitempty,gt=0,lte=7"`
}

// Routes mounts the user endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
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
	u, projection, err := h.Svc.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"user":       u,
			"projection": projection,
		},
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in userPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid user payload", err.Error())
		return
	}
	updated, err := h.Svc.Store.Update(r.Context(), User{
		ID:            chi.URLParam(r, "id"),
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Status:        Status(in.Status),
		Age:           in.Age,
		Gender:        in.Gender,
		WeightKg:      in.WeightKg,
		HeightCm:      in.HeightCm,
		ActivityLevel: in.ActivityLevel,
		Goal:          in.Goal,
		PlanDays:      in.PlanDays,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"user":       updated,
			"projection": h.Svc.Project(updated),
		},
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
		return
	}
	common.WriteError(w, err)
}
