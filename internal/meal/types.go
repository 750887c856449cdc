// Package meal manages the meal catalog: meals, ingredients, ingredient
// categories, and the weekly menus users order from.
package meal

import (
	"sort"
	"time"

	"github.com/maaltijdbox/admin-api/internal/catalog"
)

// Type is the slot a meal occupies in a day.
type Type string

const (
	Breakfast Type = "breakfast"
	Lunch     Type = "lunch"
	Dinner    Type = "dinner"
	Snack     Type = "snack"
)

// typeOrder fixes the display order of meal slots within a day.
var typeOrder = map[Type]int{
	Breakfast: 0,
	Lunch:     1,
	Dinner:    2,
	Snack:     3,
}

// Meal is one dish on the menu.
type Meal struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	Type        Type      `json:"type"`
	Calories    float64   `json:"calories"`
	Ingredients []string  `json:"ingredients"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Ingredient is a building block of meals.
type Ingredient struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CategoryID *string   `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IngredientCategory groups ingredients in admin-assigned order.
type IngredientCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// WeekMenu fixes which meals are available in a given ISO week.
type WeekMenu struct {
	ID      string   `json:"id"`
	Year    int      `json:"year"`
	Week    int      `json:"week"`
	MealIDs []string `json:"meal_ids"`
}

// Duplicate returns an unsaved copy of the meal, named so the admin can tell
// the two apart before editing. The copy sorts directly after the original.
func (m Meal) Duplicate() Meal {
	copied := m
	copied.ID = ""
	copied.Name = m.Name + " (copy)"
	copied.Slug = catalog.Slugify(copied.Name)
	copied.SortOrder = m.SortOrder + 1
	copied.CreatedAt = time.Time{}
	copied.UpdatedAt = time.Time{}
	copied.Ingredients = append([]string(nil), m.Ingredients...)
	return copied
}

// SortByType orders meals breakfast first through snack last, preserving the
// admin-assigned sort order within a slot.
func SortByType(meals []Meal) {
	sort.SliceStable(meals, func(i, j int) bool {
		if typeRank(meals[i].Type) != typeRank(meals[j].Type) {
			return typeRank(meals[i].Type) < typeRank(meals[j].Type)
		}
		return meals[i].SortOrder < meals[j].SortOrder
	})
}

func typeRank(t Type) int {
	if r, ok := typeOrder[t]; ok {
		return r
	}
	return len(typeOrder)
}
