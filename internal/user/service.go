package user

import (
	"context"

	"github.com/maaltijdbox/admin-api/internal/nutrition"
	"github.com/maaltijdbox/admin-api/internal/obs"
)

// Storage is the persistence surface the user service needs.
type Storage interface {
	List(ctx context.Context, limit, offset int) ([]User, error)
	Count(ctx context.Context) (int64, error)
	Get(ctx context.Context, id string) (User, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id string) error
}

// Service projects calorie needs and plan prices onto user records.
type Service struct {
	Store           Storage
	PricePerCalorie float64
	ShippingCharge  float64
	DefaultPlanDays int
}

// Project computes the calorie and price projection for a user. Incomplete
// biometrics yield a projection with Computable false and zeroed figures.
func (s *Service) Project(u User) Projection {
	daily, ok := nutrition.DailyCalories(u.Biometrics())
	result := "computed"
	if !ok {
		result = "insufficient_data"
	}
	if obs.CalorieProjectionTotal != nil {
		obs.CalorieProjectionTotal.WithLabelValues(result).Inc()
	}
	if !ok {
		return Projection{}
	}
	days := s.DefaultPlanDays
	if u.PlanDays != nil && *u.PlanDays > 0 {
		days = *u.PlanDays
	}
	return Projection{
		Computable:    true,
		DailyCalories: daily,
		PlanCalories:  nutrition.PlanCalories(daily, days),
		WeeklyPrice:   nutrition.WeeklyPlanPrice(daily, days, s.PricePerCalorie, s.ShippingCharge),
	}
}

// Detail loads a user together with their projection.
func (s *Service) Detail(ctx context.Context, id string) (User, Projection, error) {
	u, err := s.Store.Get(ctx, id)
	if err != nil {
		return User{}, Projection{}, err
	}
	return u, s.Project(u), nil
}
