package order

import (
	"context"
	"errors"

	"github.com/maaltijdbox/admin-api/internal/catalog"
	"github.com/maaltijdbox/admin-api/internal/coupon"
	"github.com/maaltijdbox/admin-api/internal/obs"
	"github.com/maaltijdbox/admin-api/internal/pricing"
)

// ErrInvalidStatus is returned when a status transition names an unknown state.
var ErrInvalidStatus = errors.New("order: invalid status")

// Storage is the persistence surface the order service needs.
type Storage interface {
	List(ctx context.Context, limit, offset int) ([]Order, error)
	Count(ctx context.Context) (int64, error)
	Get(ctx context.Context, id string) (Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Order, error)
	Delete(ctx context.Context, id string) error
	ListMealOrders(ctx context.Context, limit, offset int) ([]MealOrder, error)
	CountMealOrders(ctx context.Context) (int64, error)
	GetMealOrder(ctx context.Context, id string) (MealOrder, error)
	UpdateMealOrderStatus(ctx context.Context, id string, status Status) (MealOrder, error)
}

// ProductSource resolves order lines against the catalog.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
}

// CouponSource resolves an order's coupon code for discount gating.
type CouponSource interface {
	GetByCode(ctx context.Context, code string) (coupon.Code, error)
}

// Service computes priced order breakdowns on top of stored orders.
type Service struct {
	Store    Storage
	Catalog  ProductSource
	Coupons  CouponSource
	Shipping pricing.ShippingConfig
	Currency string
}

// Breakdown loads an order and prices it line by line. Unpriced lines are
// reported but excluded from the totals. A coupon that fails its status or
// policy gate contributes no discount.
func (s *Service) Breakdown(ctx context.Context, orderID string) (Breakdown, error) {
	o, err := s.Store.Get(ctx, orderID)
	if err != nil {
		return Breakdown{}, err
	}

	bd := Breakdown{Order: o, Currency: s.Currency}
	var lines []pricing.Line
	for _, l := range o.Lines {
		p, err := s.Catalog.GetProduct(ctx, l.ProductID)
		if err != nil {
			return Breakdown{}, err
		}
		name := p.Name
		var variation *pricing.Priceable
		if l.VariationID != nil {
			for _, v := range p.Variations {
				if v.ID == *l.VariationID {
					pv := v.Priceable()
					variation = &pv
					if v.Label != "" {
						name = p.Name + " (" + v.Label + ")"
					}
					break
				}
			}
		}
		unit, priced := pricing.EffectivePrice(p.Priceable(), variation)
		bl := BreakdownLine{
			ProductID:   l.ProductID,
			VariationID: l.VariationID,
			Name:        name,
			Qty:         l.Qty,
			UnitPrice:   unit,
			Priced:      priced,
			TaxPercent:  p.TaxPercent,
		}
		if priced {
			bl.LineTotal = unit * float64(l.Qty)
			lines = append(lines, pricing.Line{Unit: unit, Qty: l.Qty, Rate: p.TaxPercent})
		}
		bd.Lines = append(bd.Lines, bl)
	}

	var pc *pricing.Coupon
	if o.CouponCode != nil && *o.CouponCode != "" {
		c, err := s.Coupons.GetByCode(ctx, *o.CouponCode)
		if err != nil && !errors.Is(err, coupon.ErrNotFound) {
			return Breakdown{}, err
		}
		if err == nil && c.Redeemable() == nil {
			view := c.Pricing()
			pc = &view
		}
	}

	bd.Totals = pricing.Aggregate(lines, s.Shipping, pc)
	if obs.OrderBreakdownTotal != nil {
		obs.OrderBreakdownTotal.WithLabelValues("product").Inc()
	}
	return bd, nil
}

// SetStatus validates and applies a product order status transition.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (Order, error) {
	if !status.Valid() {
		return Order{}, ErrInvalidStatus
	}
	return s.Store.UpdateStatus(ctx, id, status)
}

// SetMealOrderStatus validates and applies a meal order status transition.
func (s *Service) SetMealOrderStatus(ctx context.Context, id string, status Status) (MealOrder, error) {
	if !status.Valid() {
		return MealOrder{}, ErrInvalidStatus
	}
	return s.Store.UpdateMealOrderStatus(ctx, id, status)
}
