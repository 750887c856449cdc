package catalog

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/maaltijdbox/admin-api/internal/obs"
)

// ErrNotVariable is returned when matrix generation is requested for a simple product.
var ErrNotVariable = errors.New("catalog: product is not variable")

// Storage is the persistence surface the service needs.
type Storage interface {
	ListProducts(ctx context.Context, limit, offset int) ([]Product, error)
	CountProducts(ctx context.Context) (int64, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, p Product) (Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListVariations(ctx context.Context, productID string) ([]Variation, error)
	ReplaceVariations(ctx context.Context, productID string, variations []Variation) ([]Variation, error)
	UpdateVariation(ctx context.Context, v Variation) (Variation, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c Category) (Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ReorderCategories(ctx context.Context, ids []string) error
	ListAttributes(ctx context.Context) ([]Attribute, error)
	GetAttributes(ctx context.Context, ids []string) ([]Attribute, error)
	CreateAttribute(ctx context.Context, a Attribute) (Attribute, error)
	ListTerms(ctx context.Context, attributeID string) ([]Term, error)
	CreateTerm(ctx context.Context, t Term) (Term, error)
	ReorderTerms(ctx context.Context, attributeID string, ids []string) error
}

// Service orchestrates catalog operations and caching.
type Service struct {
	Store Storage
	Cache *Cache
}

// ListProducts returns a product page with the total count.
func (s *Service) ListProducts(ctx context.Context, limit, offset int) ([]Product, int64, error) {
	items, err := s.Store.ListProducts(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.CountProducts(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetProduct fetches a product detail, via cache when possible.
func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	key := productCacheKey(id)
	var cached Product
	if hit, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	p, err := s.Store.GetProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}
	_ = s.Cache.SetJSON(ctx, key, p)
	return p, nil
}

// CreateProduct stores a new product, deriving the slug when absent.
func (s *Service) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	return s.Store.CreateProduct(ctx, p)
}

// UpdateProduct rewrites a product and invalidates its cache entry.
func (s *Service) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	updated, err := s.Store.UpdateProduct(ctx, p)
	if err != nil {
		return Product{}, err
	}
	s.Cache.Invalidate(ctx, productCacheKey(p.ID))
	return updated, nil
}

// DeleteProduct removes a product and invalidates its cache entry.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, productCacheKey(id))
	return nil
}

// GenerateMatrix regenerates the variation set of a variable product from the
// requested attributes. Existing variations are replaced wholesale; prices are
// filled in per variation afterwards by the admin.
func (s *Service) GenerateMatrix(ctx context.Context, productID string, attributeIDs []string) ([]Variation, error) {
	product, err := s.Store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Type != ProductVariable {
		return nil, ErrNotVariable
	}
	attrs, err := s.Store.GetAttributes(ctx, attributeIDs)
	if err != nil {
		return nil, err
	}
	generated := GenerateVariations(productID, attrs)
	stored, err := s.Store.ReplaceVariations(ctx, productID, generated)
	if err != nil {
		return nil, err
	}
	if obs.VariationMatrixSize != nil {
		obs.VariationMatrixSize.Observe(float64(len(stored)))
	}
	s.Cache.Invalidate(ctx, productCacheKey(productID))
	return stored, nil
}

// UpdateVariation writes a variation's prices and stock, the step that turns
// a generated matrix entry into a sellable option, and drops the parent
// product's cache entry so breakdowns see the new price immediately.
func (s *Service) UpdateVariation(ctx context.Context, v Variation) (Variation, error) {
	updated, err := s.Store.UpdateVariation(ctx, v)
	if err != nil {
		return Variation{}, err
	}
	s.Cache.Invalidate(ctx, productCacheKey(v.ProductID))
	return updated, nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and hyphenates a name for URL use.
func Slugify(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}
