// Package nutrition computes daily caloric needs from user biometrics using
// the Mifflin-St Jeor equation, and derives meal-plan subscription prices from
// the result. All functions are pure.
package nutrition

// Gender selects the BMR offset of the Mifflin-St Jeor equation.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ActivityLevel is the multiplier applied to the basal metabolic rate. Only
// the listed values are accepted; anything else counts as missing data.
type ActivityLevel float64

const (
	ActivitySedentary  ActivityLevel = 1.2
	ActivityLight      ActivityLevel = 1.375
	ActivityModerate   ActivityLevel = 1.55
	ActivityActive     ActivityLevel = 1.75
	ActivityVeryActive ActivityLevel = 1.9
)

// Goal is the flat daily calorie adjustment for the user's objective.
type Goal float64

const (
	GoalLose     Goal = -500
	GoalMaintain Goal = 0
	GoalGain     Goal = 500
)

// Biometrics bundles the inputs of the calorie calculation. Zero values mean
// the field was never captured for the user.
type Biometrics struct {
	Age      int
	Gender   Gender
	WeightKg float64
	HeightCm float64
	Activity ActivityLevel
	Goal     Goal
	GoalSet  bool
}

// validActivity rejects free-form multipliers so garbage factors can never
// scale a user's plan.
func validActivity(a ActivityLevel) bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	}
	return false
}

func validGoal(g Goal) bool {
	switch g {
	case GoalLose, GoalMaintain, GoalGain:
		return true
	}
	return false
}

// DailyCalories returns the user's daily caloric need. The second return value
// is false when any biometric field is missing or out of its enumeration,
// distinguishing "cannot compute" from a computed value of zero. No rounding is
// applied; displays round to whole calories.
func DailyCalories(b Biometrics) (float64, bool) {
	if b.Age <= 0 || b.WeightKg <= 0 || b.HeightCm <= 0 {
		return 0, false
	}
	if b.Gender != Male && b.Gender != Female {
		return 0, false
	}
	if !validActivity(b.Activity) {
		return 0, false
	}
	if !b.GoalSet || !validGoal(b.Goal) {
		return 0, false
	}

	offset := 5.0
	if b.Gender == Female {
		offset = -161
	}
	bmr := 10*b.WeightKg + 6.25*b.HeightCm - 5*float64(b.Age) + offset
	return bmr*float64(b.Activity) + float64(b.Goal), true
}

// PlanCalories is the total caloric need over a plan period.
func PlanCalories(daily float64, days int) float64 {
	if days <= 0 {
		return 0
	}
	return daily * float64(days)
}

// WeeklyPlanPrice composes the subscription price for a plan: the calories
// delivered over the plan days priced per calorie unit, plus the flat shipping
// charge.
func WeeklyPlanPrice(daily float64, days int, pricePerCalorie, shippingCharge float64) float64 {
	return PlanCalories(daily, days)*pricePerCalorie + shippingCharge
}
