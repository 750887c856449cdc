package order

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maaltijdbox/admin-api/internal/catalog"
	"github.com/maaltijdbox/admin-api/internal/coupon"
	"github.com/maaltijdbox/admin-api/internal/pricing"
)

type fakeStore struct {
	Storage
	orders map[string]Order
}

func (f *fakeStore) Get(_ context.Context, id string) (Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id string, status Status) (Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	o.Status = status
	f.orders[id] = o
	return o, nil
}

type fakeCatalog struct {
	products map[string]catalog.Product
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

type fakeCoupons struct {
	codes map[string]coupon.Code
}

func (f *fakeCoupons) GetByCode(_ context.Context, code string) (coupon.Code, error) {
	c, ok := f.codes[code]
	if !ok {
		return coupon.Code{}, coupon.ErrNotFound
	}
	return c, nil
}

func ptr[T any](v T) *T { return &v }

func newService(orders map[string]Order, products map[string]catalog.Product, codes map[string]coupon.Code) *Service {
	return &Service{
		Store:    &fakeStore{orders: orders},
		Catalog:  &fakeCatalog{products: products},
		Coupons:  &fakeCoupons{codes: codes},
		Shipping: pricing.ShippingConfig{FreeShippingThreshold: 100, ShippingCharge: 5},
		Currency: "€",
	}
}

func TestBreakdownResolvesVariationPrices(t *testing.T) {
	products := map[string]catalog.Product{
		"p1": {ID: "p1", Name: "Family box", TaxPercent: pricing.TaxRate9, RegularPrice: ptr(50.0)},
		"p2": {
			ID: "p2", Name: "Shaker", Type: catalog.ProductVariable, TaxPercent: pricing.TaxRate21,
			Variations: []catalog.Variation{
				{ID: "v1", ProductID: "p2", Label: "Large", RegularPrice: ptr(30.0)},
			},
		},
	}
	orders := map[string]Order{
		"o1": {ID: "o1", Status: StatusPending, Lines: []Line{
			{ProductID: "p1", Qty: 2},
			{ProductID: "p2", VariationID: ptr("v1"), Qty: 1},
		}},
	}

	svc := newService(orders, products, nil)
	bd, err := svc.Breakdown(context.Background(), "o1")
	require.NoError(t, err)

	require.Len(t, bd.Lines, 2)
	require.Equal(t, "Shaker (Large)", bd.Lines[1].Name)
	require.Equal(t, 30.0, bd.Lines[1].UnitPrice)
	require.Equal(t, 130.0, bd.Totals.Subtotal)
	require.Equal(t, 0.0, bd.Totals.Shipping)
	require.InDelta(t, 145.3, bd.Totals.GrandTotal, 1e-9)
}

func TestBreakdownExcludesUnpricedLines(t *testing.T) {
	products := map[string]catalog.Product{
		"p1": {ID: "p1", Name: "Priced", TaxPercent: pricing.TaxRate9, RegularPrice: ptr(10.0)},
		"p2": {ID: "p2", Name: "Unpriced", TaxPercent: pricing.TaxRate9},
	}
	orders := map[string]Order{
		"o1": {ID: "o1", Lines: []Line{
			{ProductID: "p1", Qty: 1},
			{ProductID: "p2", Qty: 3},
		}},
	}

	svc := newService(orders, products, nil)
	bd, err := svc.Breakdown(context.Background(), "o1")
	require.NoError(t, err)

	require.Len(t, bd.Lines, 2)
	require.False(t, bd.Lines[1].Priced)
	require.Equal(t, 0.0, bd.Lines[1].LineTotal)
	require.Equal(t, 10.0, bd.Totals.Subtotal)
}

func TestBreakdownGatesCoupon(t *testing.T) {
	products := map[string]catalog.Product{
		"p1": {ID: "p1", Name: "Box", TaxPercent: pricing.TaxRate9, RegularPrice: ptr(100.0)},
	}
	codes := map[string]coupon.Code{
		"USED": {Code: "USED", Type: pricing.CouponAmount, Value: 25,
			Policy: coupon.PolicyOnetime, Status: coupon.StatusActive, Redeemed: 1},
		"SAVE10": {Code: "SAVE10", Type: pricing.CouponPercent, Value: 10,
			Policy: coupon.PolicyMultiple, Status: coupon.StatusActive},
	}

	orders := map[string]Order{
		"gated": {ID: "gated", CouponCode: ptr("USED"), Lines: []Line{{ProductID: "p1", Qty: 1}}},
		"open":  {ID: "open", CouponCode: ptr("SAVE10"), Lines: []Line{{ProductID: "p1", Qty: 1}}},
	}

	svc := newService(orders, products, codes)

	gated, err := svc.Breakdown(context.Background(), "gated")
	require.NoError(t, err)
	require.Equal(t, 0.0, gated.Totals.Discount)

	open, err := svc.Breakdown(context.Background(), "open")
	require.NoError(t, err)
	require.Equal(t, 10.0, open.Totals.Discount)
	require.True(t, math.Abs(open.Totals.GrandTotal-(100+9-10)) < 1e-9)
}

func TestBreakdownUnknownCouponIsIgnored(t *testing.T) {
	products := map[string]catalog.Product{
		"p1": {ID: "p1", Name: "Box", TaxPercent: pricing.TaxRate21, RegularPrice: ptr(40.0)},
	}
	orders := map[string]Order{
		"o1": {ID: "o1", CouponCode: ptr("GONE"), Lines: []Line{{ProductID: "p1", Qty: 1}}},
	}

	svc := newService(orders, products, nil)
	bd, err := svc.Breakdown(context.Background(), "o1")
	require.NoError(t, err)
	require.Equal(t, 0.0, bd.Totals.Discount)
}

func TestSetStatusRejectsUnknownState(t *testing.T) {
	svc := newService(map[string]Order{"o1": {ID: "o1"}}, nil, nil)

	_, err := svc.SetStatus(context.Background(), "o1", Status("shipped-ish"))
	require.ErrorIs(t, err, ErrInvalidStatus)

	o, err := svc.SetStatus(context.Background(), "o1", StatusProcessing)
	require.NoError(t, err)
	require.Equal(t, StatusProcessing, o.Status)
}
