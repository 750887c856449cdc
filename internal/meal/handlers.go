package meal

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/maaltijdbox/admin-api/internal/catalog"
	"github.com/maaltijdbox/admin-api/internal/common"
)

// Handler exposes meal catalog endpoints.
type Handler struct {
	Store    *Store
	Validate *validator.Validate
	PageSize int
	MaxPage  int
}

type mealPayload struct {
	Name        string   `json:"name" validate:"required"`
	Slug        string   `json:"slug"`
	Description *string  `json:"description"`
	Type        string   `json:"type" validate:"required,oneof=breakfast lunch dinner snack"`
	Calories    float64  `json:"calories" validate:"gte=0"`
	Ingredients []string `json:"ingredients"`
	SortOrder   int      `json:"sort_order" validate:"gte=0"`
}

type reorderPayload struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type ingredientPayload struct {
	Name       string  `json:"name" validate:"required"`
	CategoryID *string `json:"category_id"`
}

type ingredientCategoryPayload struct {
	Name string `json:"name" validate:"required"`
}

type weekMenuPayload struct {
	MealIDs []string `json:"meal_ids" validate:"required,dive,required"`
}

// Routes mounts the meal endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/meals", func(r chi.Router) {
		r.Get("/", h.listMeals)
		r.Post("/", h.createMeal)
		r.Put("/sort-order", h.reorder)
		r.Get("/{id}", h.getMeal)
		r.Put("/{id}", h.updateMeal)
		r.Delete("/{id}", h.deleteMeal)
		r.Post("/{id}/duplicate", h.duplicateMeal)
	})
	r.Route("/ingredients", func(r chi.Router) {
		r.Get("/", h.listIngredients)
		r.Post("/", h.createIngredient)
		r.Get("/categories", h.listIngredientCategories)
		r.Post("/categories", h.createIngredientCategory)
		r.Put("/categories/sort-order", h.reorderIngredientCategories)
		r.Put("/categories/{id}", h.updateIngredientCategory)
		r.Delete("/categories/{id}", h.deleteIngredientCategory)
		r.Put("/{id}", h.updateIngredient)
		r.Delete("/{id}", h.deleteIngredient)
	})
	r.Route("/weekly-meals", func(r chi.Router) {
		r.Get("/{year}/{week}", h.getWeekMenu)
		r.Put("/{year}/{week}", h.putWeekMenu)
	})
}

func (h *Handler) listMeals(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, h.PageSize, h.MaxPage)
	items, err := h.Store.ListMeals(r.Context(), perPage, common.Offset(page, perPage))
	if err != nil {
		h.writeError(w, err)
		return
	}
	SortByType(items)
	total, err := h.Store.CountMeals(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: int(total)},
	})
}

func (h *Handler) getMeal(w http.ResponseWriter, r *http.Request) {
	m, err := h.Store.GetMeal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": m})
}

func (h *Handler) createMeal(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeMeal(w, r)
	if !ok {
		return
	}
	created, err := h.Store.CreateMeal(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

func (h *Handler) updateMeal(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeMeal(w, r)
	if !ok {
		return
	}
	in.ID = chi.URLParam(r, "id")
	updated, err := h.Store.UpdateMeal(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

func (h *Handler) deleteMeal(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteMeal(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) duplicateMeal(w http.ResponseWriter, r *http.Request) {
	original, err := h.Store.GetMeal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.Store.CreateMeal(r.Context(), original.Duplicate())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

func (h *Handler) reorder(w http.ResponseWriter, r *http.Request) {
	var in reorderPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid sort order payload", err.Error())
		return
	}
	if err := h.Store.Reorder(r.Context(), in.IDs); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listIngredients(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListIngredients(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) createIngredient(w http.ResponseWriter, r *http.Request) {
	var in ingredientPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid ingredient payload", err.Error())
		return
	}
	created, err := h.Store.CreateIngredient(r.Context(), Ingredient{Name: in.Name, CategoryID: in.CategoryID})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

func (h *Handler) updateIngredient(w http.ResponseWriter, r *http.Request) {
	var in ingredientPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid ingredient payload", err.Error())
		return
	}
	updated, err := h.Store.UpdateIngredient(r.Context(), Ingredient{
		ID:         chi.URLParam(r, "id"),
		Name:       in.Name,
		CategoryID: in.CategoryID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

func (h *Handler) deleteIngredient(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteIngredient(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listIngredientCategories(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListIngredientCategories(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) createIngredientCategory(w http.ResponseWriter, r *http.Request) {
	var in ingredientCategoryPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid category payload", err.Error())
		return
	}
	created, err := h.Store.CreateIngredientCategory(r.Context(), IngredientCategory{Name: in.Name})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

func (h *Handler) updateIngredientCategory(w http.ResponseWriter, r *http.Request) {
	var in ingredientCategoryPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid category payload", err.Error())
		return
	}
	updated, err := h.Store.UpdateIngredientCategory(r.Context(), IngredientCategory{
		ID:   chi.URLParam(r, "id"),
		Name: in.Name,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

func (h *Handler) deleteIngredientCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteIngredientCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reorderIngredientCategories(w http.ResponseWriter, r *http.Request) {
	var in reorderPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid sort order payload", err.Error())
		return
	}
	if err := h.Store.ReorderIngredientCategories(r.Context(), in.IDs); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getWeekMenu(w http.ResponseWriter, r *http.Request) {
	year, week, ok := h.weekParams(w, r)
	if !ok {
		return
	}
	m, err := h.Store.GetWeekMenu(r.Context(), year, week)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": m})
}

func (h *Handler) putWeekMenu(w http.ResponseWriter, r *http.Request) {
	year, week, ok := h.weekParams(w, r)
	if !ok {
		return
	}
	var in weekMenuPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid week menu payload", err.Error())
		return
	}
	stored, err := h.Store.UpsertWeekMenu(r.Context(), WeekMenu{Year: year, Week: week, MealIDs: in.MealIDs})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": stored})
}

func (h *Handler) weekParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	year, err1 := strconv.Atoi(chi.URLParam(r, "year"))
	week, err2 := strconv.Atoi(chi.URLParam(r, "week"))
	if err1 != nil || err2 != nil || year < 2000 || week < 1 || week > 53 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid year or week", nil)
		return 0, 0, false
	}
	return year, week, true
}

func (h *Handler) decodeMeal(w http.ResponseWriter, r *http.Request) (Meal, bool) {
	var in mealPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return Meal{}, false
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid meal payload", err.Error())
		return Meal{}, false
	}
	if in.Slug == "" {
		in.Slug = catalog.Slugify(in.Name)
	}
	return Meal{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Type:        Type(in.Type),
		Calories:    in.Calories,
		Ingredients: in.Ingredients,
		SortOrder:   in.SortOrder,
	}, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "meal record not found", nil)
		return
	}
	common.WriteError(w, err)
}
