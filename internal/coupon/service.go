package coupon

import (
	"context"
	"strings"

	"github.com/maaltijdbox/admin-api/internal/obs"
	"github.com/maaltijdbox/admin-api/internal/pricing"
)

// Storage is the persistence surface the service needs. *Store satisfies it;
// tests provide fakes.
type Storage interface {
	List(ctx context.Context, limit, offset int) ([]Code, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (Code, error)
	GetByCode(ctx context.Context, code string) (Code, error)
	Create(ctx context.Context, c Code) (Code, error)
	Update(ctx context.Context, c Code) (Code, error)
	Delete(ctx context.Context, id string) error
}

// Service manages coupon lifecycle and discount previews.
type Service struct {
	Store Storage
}

// Preview is the discount a coupon would apply to a subtotal.
type Preview struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
	NewTotal float64 `json:"new_total"`
}

// List returns a coupon page along with the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Code, int64, error) {
	items, err := s.Store.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Get fetches a coupon by id.
func (s *Service) Get(ctx context.Context, id string) (Code, error) {
	return s.Store.GetByID(ctx, id)
}

// Create stores a new coupon. The code is normalised to upper case so lookups
// are case-insensitive at redemption time.
func (s *Service) Create(ctx context.Context, c Code) (Code, error) {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	return s.Store.Create(ctx, c)
}

// Update rewrites a coupon's mutable fields.
func (s *Service) Update(ctx context.Context, c Code) (Code, error) {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	return s.Store.Update(ctx, c)
}

// Delete removes a coupon.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}

// PreviewDiscount gates the coupon and, when redeemable, computes the discount
// it would apply to the given subtotal. Gating happens here, not in the
// pricing engine.
func (s *Service) PreviewDiscount(ctx context.Context, code string, subtotal float64) (Preview, error) {
	c, err := s.Store.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		countPreview("not_found")
		return Preview{}, err
	}
	if err := c.Redeemable(); err != nil {
		countPreview("rejected")
		return Preview{}, err
	}
	discount := pricing.DiscountAmount(subtotal, c.Pricing())
	countPreview("ok")
	return Preview{
		Code:     c.Code,
		Discount: discount,
		NewTotal: subtotal - discount,
	}, nil
}

func countPreview(result string) {
	if obs.CouponPreviewTotal != nil {
		obs.CouponPreviewTotal.WithLabelValues(result).Inc()
	}
}
