package coupon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maaltijdbox/admin-api/internal/pricing"
)

type fakeStore struct {
	byCode map[string]Code
}

func (f *fakeStore) List(context.Context, int, int) ([]Code, error) { return nil, nil }
func (f *fakeStore) Count(context.Context) (int64, error)           { return 0, nil }
func (f *fakeStore) GetByID(context.Context, string) (Code, error)  { return Code{}, ErrNotFound }
func (f *fakeStore) Create(_ context.Context, c Code) (Code, error) { return c, nil }
func (f *fakeStore) Update(_ context.Context, c Code) (Code, error) { return c, nil }
func (f *fakeStore) Delete(context.Context, string) error           { return nil }

func (f *fakeStore) GetByCode(_ context.Context, code string) (Code, error) {
	c, ok := f.byCode[code]
	if !ok {
		return Code{}, ErrNotFound
	}
	return c, nil
}

func TestPreviewDiscountPercent(t *testing.T) {
	svc := &Service{Store: &fakeStore{byCode: map[string]Code{
		"WELKOM10": {Code: "WELKOM10", Type: pricing.CouponPercent, Value: 10, Policy: PolicyMultiple, Status: StatusActive},
	}}}

	preview, err := svc.PreviewDiscount(context.Background(), "welkom10", 100)
	require.NoError(t, err)
	require.Equal(t, 10.0, preview.Discount)
	require.Equal(t, 90.0, preview.NewTotal)
}

func TestPreviewDiscountFlatCapped(t *testing.T) {
	svc := &Service{Store: &fakeStore{byCode: map[string]Code{
		"VIJFTIEN": {Code: "VIJFTIEN", Type: pricing.CouponAmount, Value: 15, Policy: PolicyMultiple, Status: StatusActive},
	}}}

	preview, err := svc.PreviewDiscount(context.Background(), "VIJFTIEN", 10)
	require.NoError(t, err)
	require.Equal(t, 10.0, preview.Discount)
	require.Equal(t, 0.0, preview.NewTotal)
}

func TestPreviewDiscountGatesInactive(t *testing.T) {
	svc := &Service{Store: &fakeStore{byCode: map[string]Code{
		"OUD": {Code: "OUD", Type: pricing.CouponPercent, Value: 10, Policy: PolicyMultiple, Status: StatusInactive},
	}}}

	_, err := svc.PreviewDiscount(context.Background(), "OUD", 100)
	require.ErrorIs(t, err, ErrInactive)
}

func TestPreviewDiscountGatesOnetime(t *testing.T) {
	svc := &Service{Store: &fakeStore{byCode: map[string]Code{
		"EENMALIG": {Code: "EENMALIG", Type: pricing.CouponAmount, Value: 5, Policy: PolicyOnetime, Status: StatusActive, Redeemed: 1},
	}}}

	_, err := svc.PreviewDiscount(context.Background(), "EENMALIG", 100)
	require.ErrorIs(t, err, ErrAlreadyRedeemed)
}

func TestPreviewDiscountUnknownCode(t *testing.T) {
	svc := &Service{Store: &fakeStore{byCode: map[string]Code{}}}
	_, err := svc.PreviewDiscount(context.Background(), "NIETS", 100)
	require.True(t, errors.Is(err, ErrNotFound))
}
