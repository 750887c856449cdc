// Package user manages subscriber accounts and their calorie projections.
package user

import (
	"time"

	"github.com/maaltijdbox/admin-api/internal/nutrition"
)

// Status marks whether a user may place orders.
type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

// User is a subscriber account. Biometric fields are nullable because they are
// captured progressively during onboarding; a projection is only possible once
// all of them are present.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone"`
	Status        Status    `json:"status"`
	Age           *int      `json:"age"`
	Gender        *string   `json:"gender"`
	WeightKg      *float64  `json:"weight_kg"`
	HeightCm      *float64  `json:"height_cm"`
	ActivityLevel *float64  `json:"activity_level"`
	Goal          *float64  `json:"goal"`
	PlanDays      *int      `json:"plan_days"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Biometrics views the user through the nutrition engine's input struct.
// Missing fields become zero values, which the engine reports as insufficient.
func (u User) Biometrics() nutrition.Biometrics {
	var b nutrition.Biometrics
	if u.Age != nil {
		b.Age = *u.Age
	}
	if u.Gender != nil {
		b.Gender = nutrition.Gender(*u.Gender)
	}
	if u.WeightKg != nil {
		b.WeightKg = *u.WeightKg
	}
	if u.HeightCm != nil {
		b.HeightCm = *u.HeightCm
	}
	if u.ActivityLevel != nil {
		b.Activity = nutrition.ActivityLevel(*u.ActivityLevel)
	}
	if u.Goal != nil {
		b.Goal = nutrition.Goal(*u.Goal)
		b.GoalSet = true
	}
	return b
}

// Projection is the computed calorie and price view of a user's plan. When
// Computable is false the biometric data is incomplete and the numeric fields
// must be rendered as unknown, not as zero.
type Projection struct {
	Computable    bool    `json:"computable"`
	DailyCalories float64 `json:"daily_calories"`
	PlanCalories  float64 `json:"plan_calories"`
	WeeklyPrice   float64 `json:"weekly_price"`
}
