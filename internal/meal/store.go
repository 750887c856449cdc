package meal

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a meal record does not exist.
var ErrNotFound = errors.New("meal: not found")

// Store persists meal catalog records in postgres.
type Store struct {
	Pool *pgxpool.Pool
}

const mealColumns = `id, name, slug, description, type, calories, ingredients, sort_order, created_at, updated_at`

func scanMeal(row pgx.Row) (Meal, error) {
	var m Meal
	err := row.Scan(&m.ID, &m.Name, &m.Slug, &m.Description, &m.Type, &m.Calories,
		&m.Ingredients, &m.SortOrder, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Meal{}, ErrNotFound
	}
	return m, err
}

// ListMeals returns a page of meals in admin sort order.
func (s *Store) ListMeals(ctx context.Context, limit, offset int) ([]Meal, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+mealColumns+` FROM meals ORDER BY sort_order, created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountMeals returns the total meal count.
func (s *Store) CountMeals(ctx context.Context) (int64, error) {
	var n int64
	err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM meals`).Scan(&n)
	return n, err
}

// GetMeal fetches one meal.
func (s *Store) GetMeal(ctx context.Context, id string) (Meal, error) {
	return scanMeal(s.Pool.QueryRow(ctx, `SELECT `+mealColumns+` FROM meals WHERE id = $1`, id))
}

// CreateMeal inserts a meal.
func (s *Store) CreateMeal(ctx context.Context, m Meal) (Meal, error) {
	return scanMeal(s.Pool.QueryRow(ctx,
		`INSERT INTO meals (id, name, slug, description, type, calories, ingredients, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+mealColumns,
		uuid.NewString(), m.Name, m.Slug, m.Description, m.Type, m.Calories, m.Ingredients, m.SortOrder))
}

// UpdateMeal rewrites a meal's mutable fields.
func (s *Store) UpdateMeal(ctx context.Context, m Meal) (Meal, error) {
	return scanMeal(s.Pool.QueryRow(ctx,
		`UPDATE meals
		 SET name = $2, slug = $3, description = $4, type = $5, calories = $6,
		     ingredients = $7, sort_order = $8, updated_at = now()
		 WHERE id = $1
		 RETURNING `+mealColumns,
		m.ID, m.Name, m.Slug, m.Description, m.Type, m.Calories, m.Ingredients, m.SortOrder))
}

// DeleteMeal removes a meal.
func (s *Store) DeleteMeal(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM meals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder persists the sort order implied by the given id sequence, as sent
// by the drag-and-drop meal list.
func (s *Store) Reorder(ctx context.Context, ids []string) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	for i, id := range ids {
		if _, err := tx.Exec(ctx,
			`UPDATE meals SET sort_order = $2, updated_at = now() WHERE id = $1`, id, i); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ListIngredients returns all ingredients.
func (s *Store) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, name, category_id, created_at, updated_at FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ingredient
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.CategoryID, &ing.CreatedAt, &ing.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// CreateIngredient inserts an ingredient.
func (s *Store) CreateIngredient(ctx context.Context, ing Ingredient) (Ingredient, error) {
	row := s.Pool.QueryRow(ctx,
		`INSERT INTO ingredients (id, name, category_id) VALUES ($1, $2, $3)
		 RETURNING id, name, category_id, created_at, updated_at`,
		uuid.NewString(), ing.Name, ing.CategoryID)
	var created Ingredient
	err := row.Scan(&created.ID, &created.Name, &created.CategoryID, &created.CreatedAt, &created.UpdatedAt)
	return created, err
}

// UpdateIngredient rewrites an ingredient's name and category.
func (s *Store) UpdateIngredient(ctx context.Context, ing Ingredient) (Ingredient, error) {
	row := s.Pool.QueryRow(ctx,
		`UPDATE ingredients SET name = $2, category_id = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING id, name, category_id, created_at, updated_at`,
		ing.ID, ing.Name, ing.CategoryID)
	var updated Ingredient
	err := row.Scan(&updated.ID, &updated.Name, &updated.CategoryID, &updated.CreatedAt, &updated.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Ingredient{}, ErrNotFound
	}
	return updated, err
}

// DeleteIngredient removes an ingredient.
func (s *Store) DeleteIngredient(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListIngredientCategories returns all ingredient categories.
func (s *Store) ListIngredientCategories(ctx context.Context) ([]IngredientCategory, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, name, sort_order FROM ingredient_categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IngredientCategory
	for rows.Next() {
		var c IngredientCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateIngredientCategory inserts an ingredient category.
func (s *Store) CreateIngredientCategory(ctx context.Context, c IngredientCategory) (IngredientCategory, error) {
	row := s.Pool.QueryRow(ctx,
		`INSERT INTO ingredient_categories (id, name, sort_order) VALUES ($1, $2, $3)
		 RETURNING id, name, sort_order`,
		uuid.NewString(), c.Name, c.SortOrder)
	var created IngredientCategory
	err := row.Scan(&created.ID, &created.Name, &created.SortOrder)
	return created, err
}

// UpdateIngredientCategory renames an ingredient category.
func (s *Store) UpdateIngredientCategory(ctx context.Context, c IngredientCategory) (IngredientCategory, error) {
	row := s.Pool.QueryRow(ctx,
		`UPDATE ingredient_categories SET name = $2 WHERE id = $1
		 RETURNING id, name, sort_order`,
		c.ID, c.Name)
	var updated IngredientCategory
	err := row.Scan(&updated.ID, &updated.Name, &updated.SortOrder)
	if errors.Is(err, pgx.ErrNoRows) {
		return IngredientCategory{}, ErrNotFound
	}
	return updated, err
}

// DeleteIngredientCategory removes a category. Ingredients keep their rows
// and fall back to uncategorised via the FK's ON DELETE SET NULL.
func (s *Store) DeleteIngredientCategory(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM ingredient_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReorderIngredientCategories persists the display order implied by the id
// sequence.
func (s *Store) ReorderIngredientCategories(ctx context.Context, ids []string) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	for i, id := range ids {
		if _, err := tx.Exec(ctx,
			`UPDATE ingredient_categories SET sort_order = $2 WHERE id = $1`, id, i); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// GetWeekMenu fetches the menu for an ISO week.
func (s *Store) GetWeekMenu(ctx context.Context, year, week int) (WeekMenu, error) {
	var m WeekMenu
	err := s.Pool.QueryRow(ctx,
		`SELECT id, year, week, meal_ids FROM week_menus WHERE year = $1 AND week = $2`,
		year, week).Scan(&m.ID, &m.Year, &m.Week, &m.MealIDs)
	if errors.Is(err, pgx.ErrNoRows) {
		return WeekMenu{}, ErrNotFound
	}
	return m, err
}

// UpsertWeekMenu creates or replaces the menu for an ISO week.
func (s *Store) UpsertWeekMenu(ctx context.Context, m WeekMenu) (WeekMenu, error) {
	row := s.Pool.QueryRow(ctx,
		`INSERT INTO week_menus (id, year, week, meal_ids)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (year, week) DO UPDATE SET meal_ids = EXCLUDED.meal_ids
		 RETURNING id, year, week, meal_ids`,
		uuid.NewString(), m.Year, m.Week, m.MealIDs)
	var stored WeekMenu
	err := row.Scan(&stored.ID, &stored.Year, &stored.Week, &stored.MealIDs)
	return stored, err
}
