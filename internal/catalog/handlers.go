package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/maaltijdbox/admin-api/internal/common"
	"github.com/maaltijdbox/admin-api/internal/pricing"
)

// Handler exposes catalog management endpoints.
type Handler struct {
	Service  *Service
	Validate *validator.Validate
	PageSize int
	MaxPage  int
}

type productPayload struct {
	Type         string   `json:"type" validate:"required,oneof=simple variable"`
	Name         string   `json:"name" validate:"required"`
	Slug         string   `json:"slug"`
	Description  *string  `json:"description"`
	TaxPercent   string   `json:"tax_percent" validate:"required,oneof=TAX9 TAX21"`
	RegularPrice *float64 `json:"regular_price" validate:"omitempty,gte=0"`
	SalePrice    *float64 `json:"sale_price" validate:"omitempty,gte=0"`
	Stock        *int     `json:"stock" validate:"omitempty,gte=0"`
	CategoryID   *string  `json:"category_id"`
}

type categoryPayload struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug"`
}

type attributePayload struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug"`
}

type termPayload struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug"`
}

type matrixPayload struct {
	AttributeIDs []string `json:"attribute_ids" validate:"required,min=1,dive,required"`
}

type sortOrderPayload struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type variationPayload struct {
	RegularPrice *float64 `json:"regular_price" validate:"omitempty,gte=0"`
	SalePrice    *float64 `json:"sale_price" validate:"omitempty,gte=0"`
	Stock        *int     `json:"stock" validate:"omitempty,gte=0"`
}

// Routes mounts catalog endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/{id}", h.getProduct)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
		r.Post("/{id}/variations/generate", h.generateMatrix)
		r.Put("/{id}/variations/{variationID}", h.updateVariation)
	})
	r.Route("/product-categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
		r.Put("/sort-order", h.reorderCategories)
		r.Delete("/{id}", h.deleteCategory)
	})
	r.Route("/product-attributes", func(r chi.Router) {
		r.Get("/", h.listAttributes)
		r.Post("/", h.createAttribute)
		r.Get("/{id}/terms", h.listTerms)
		r.Post("/{id}/terms", h.createTerm)
		r.Put("/{id}/terms/sort-order", h.reorderTerms)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, h.PageSize, h.MaxPage)
	items, total, err := h.Service.ListProducts(r.Context(), perPage, common.Offset(page, perPage))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: int(total)},
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": p})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	created, err := h.Service.CreateProduct(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}
	in.ID = chi.URLParam(r, "id")
	updated, err := h.Service.UpdateProduct(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) generateMatrix(w http.ResponseWriter, r *http.Request) {
	var in matrixPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid matrix payload", err.Error())
		return
	}
	variations, err := h.Service.GenerateMatrix(r.Context(), chi.URLParam(r, "id"), in.AttributeIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": variations})
}

func (h *Handler) updateVariation(w http.ResponseWriter, r *http.Request) {
	var in variationPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid variation payload", err.Error())
		return
	}
	updated, err := h.Service.UpdateVariation(r.Context(), Variation{
		ID:           chi.URLParam(r, "variationID"),
		ProductID:    chi.URLParam(r, "id"),
		RegularPrice: in.RegularPrice,
		SalePrice:    in.SalePrice,
		Stock:        in.Stock,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Store.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid category payload", err.Error())
		return
	}
	if in.Slug == "" {
		in.Slug = Slugify(in.Name)
	}
	created, err := h.Service.Store.CreateCategory(r.Context(), Category{Name: in.Name, Slug: in.Slug})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Store.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reorderCategories(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeSortOrder(w, r)
	if !ok {
		return
	}
	if err := h.Service.Store.ReorderCategories(r.Context(), in.IDs); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reorderTerms(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeSortOrder(w, r)
	if !ok {
		return
	}
	if err := h.Service.Store.ReorderTerms(r.Context(), chi.URLParam(r, "id"), in.IDs); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeSortOrder(w http.ResponseWriter, r *http.Request) (sortOrderPayload, bool) {
	var in sortOrderPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return sortOrderPayload{}, false
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid sort order payload", err.Error())
		return sortOrderPayload{}, false
	}
	return in, true
}

func (h *Handler) listAttributes(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Store.ListAttributes(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) createAttribute(w http.ResponseWriter, r *http.Request) {
	var in attributePayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid attribute payload", err.Error())
		return
	}
	if in.Slug == "" {
		in.Slug = Slugify(in.Name)
	}
	created, err := h.Service.Store.CreateAttribute(r.Context(), Attribute{Name: in.Name, Slug: in.Slug})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

func (h *Handler) listTerms(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Store.ListTerms(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) createTerm(w http.ResponseWriter, r *http.Request) {
	var in termPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid term payload", err.Error())
		return
	}
	if in.Slug == "" {
		in.Slug = Slugify(in.Name)
	}
	created, err := h.Service.Store.CreateTerm(r.Context(), Term{
		AttributeID: chi.URLParam(r, "id"),
		Name:        in.Name,
		Slug:        in.Slug,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

func (h *Handler) decodeProduct(w http.ResponseWriter, r *http.Request) (Product, bool) {
	var in productPayload
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, err)
		return Product{}, false
	}
	if err := h.Validate.Struct(in); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid product payload", err.Error())
		return Product{}, false
	}
	return Product{
		Type:         ProductType(in.Type),
		Name:         in.Name,
		Slug:         in.Slug,
		Description:  in.Description,
		TaxPercent:   pricing.TaxRate(in.TaxPercent),
		RegularPrice: in.RegularPrice,
		SalePrice:    in.SalePrice,
		Stock:        in.Stock,
		CategoryID:   in.CategoryID,
	}, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "catalog record not found", nil)
	case errors.Is(err, ErrNotVariable):
		common.JSONError(w, http.StatusUnprocessableEntity, "NOT_VARIABLE", "variations require a variable product", nil)
	default:
		common.WriteError(w, err)
	}
}
