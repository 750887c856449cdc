package nutrition

import (
	"math"
	"testing"
)

func validBiometrics() Biometrics {
	return Biometrics{
		Age:      30,
		Gender:   Male,
		WeightKg: 70,
		HeightCm: 175,
		Activity: ActivityModerate,
		Goal:     GoalMaintain,
		GoalSet:  true,
	}
}

func TestDailyCaloriesReferenceValue(t *testing.T) {
	// 10*70 + 6.25*175 - 5*30 + 5 = 1648.75; * 1.55 = 2555.5625
	daily, ok := DailyCalories(validBiometrics())
	if !ok {
		t.Fatal("expected calculation to succeed")
	}
	if math.Abs(daily-2555.5625) > 1e-9 {
		t.Fatalf("expected 2555.5625, got %v", daily)
	}
}

func TestDailyCaloriesFemaleOffset(t *testing.T) {
	b := validBiometrics()
	b.Gender = Female
	daily, ok := DailyCalories(b)
	if !ok {
		t.Fatal("expected calculation to succeed")
	}
	// bmr = 1648.75 - 166 = 1482.75; * 1.55 = 2298.2625
	if math.Abs(daily-2298.2625) > 1e-9 {
		t.Fatalf("expected 2298.2625, got %v", daily)
	}
}

func TestDailyCaloriesGoalAdjustment(t *testing.T) {
	b := validBiometrics()
	b.Goal = GoalLose
	daily, ok := DailyCalories(b)
	if !ok {
		t.Fatal("expected calculation to succeed")
	}
	if math.Abs(daily-2055.5625) > 1e-9 {
		t.Fatalf("expected 2055.5625, got %v", daily)
	}
}

func TestDailyCaloriesMissingFields(t *testing.T) {
	cases := map[string]func(*Biometrics){
		"age":      func(b *Biometrics) { b.Age = 0 },
		"gender":   func(b *Biometrics) { b.Gender = "" },
		"weight":   func(b *Biometrics) { b.WeightKg = 0 },
		"height":   func(b *Biometrics) { b.HeightCm = 0 },
		"activity": func(b *Biometrics) { b.Activity = 0 },
		"goal":     func(b *Biometrics) { b.GoalSet = false },
	}
	for name, mutate := range cases {
		b := validBiometrics()
		mutate(&b)
		if _, ok := DailyCalories(b); ok {
			t.Fatalf("expected missing %s to fail the calculation", name)
		}
	}
}

func TestDailyCaloriesRejectsArbitraryMultipliers(t *testing.T) {
	b := validBiometrics()
	b.Activity = 42
	if _, ok := DailyCalories(b); ok {
		t.Fatal("expected out-of-enumeration activity level to be rejected")
	}
	b = validBiometrics()
	b.Goal = -9000
	if _, ok := DailyCalories(b); ok {
		t.Fatal("expected out-of-enumeration goal to be rejected")
	}
}

func TestWeeklyPlanPrice(t *testing.T) {
	daily := 2000.0
	price := WeeklyPlanPrice(daily, 5, 0.002, 4.95)
	want := 2000*5*0.002 + 4.95
	if math.Abs(price-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, price)
	}
	if got := WeeklyPlanPrice(daily, 0, 0.002, 4.95); got != 4.95 {
		t.Fatalf("expected shipping only for zero-day plan, got %v", got)
	}
}
