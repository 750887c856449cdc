package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a catalog record does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Store persists catalog records in postgres.
type Store struct {
	Pool *pgxpool.Pool
}

const productColumns = `id, type, name, slug, description, tax_percent, regular_price, sale_price, stock, category_id, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Type, &p.Name, &p.Slug, &p.Description, &p.TaxPercent,
		&p.RegularPrice, &p.SalePrice, &p.Stock, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

// ListProducts returns a page of products, newest first.
func (s *Store) ListProducts(ctx context.Context, limit, offset int) ([]Product, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountProducts returns the total product count.
func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&n)
	return n, err
}

// GetProduct fetches a product with its variations.
func (s *Store) GetProduct(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(s.Pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return Product{}, err
	}
	p.Variations, err = s.ListVariations(ctx, id)
	return p, err
}

// CreateProduct inserts a product.
func (s *Store) CreateProduct(ctx context.Context, p Product) (Product, error) {
	return scanProduct(s.Pool.QueryRow(ctx,
		`INSERT INTO products (id, type, name, slug, description, tax_percent, regular_price, sale_price, stock, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+productColumns,
		uuid.NewString(), p.Type, p.Name, p.Slug, p.Description, p.TaxPercent,
		p.RegularPrice, p.SalePrice, p.Stock, p.CategoryID))
}

// UpdateProduct rewrites a product's mutable fields.
func (s *Store) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	return scanProduct(s.Pool.QueryRow(ctx,
		`UPDATE products
		 SET type = $2, name = $3, slug = $4, description = $5, tax_percent = $6,
		     regular_price = $7, sale_price = $8, stock = $9, category_id = $10, updated_at = now()
		 WHERE id = $1
		 RETURNING `+productColumns,
		p.ID, p.Type, p.Name, p.Slug, p.Description, p.TaxPercent,
		p.RegularPrice, p.SalePrice, p.Stock, p.CategoryID))
}

// DeleteProduct removes a product and its variations.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListVariations returns the variations of a product.
func (s *Store) ListVariations(ctx context.Context, productID string) ([]Variation, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, product_id, term_ids, label, regular_price, sale_price, stock
		 FROM product_variations WHERE product_id = $1 ORDER BY label`,
		productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Variation
	for rows.Next() {
		var v Variation
		if err := rows.Scan(&v.ID, &v.ProductID, &v.TermIDs, &v.Label,
			&v.RegularPrice, &v.SalePrice, &v.Stock); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpdateVariation sets the prices and stock of one variation. The admin fills
// these in after matrix generation, which stores variations price-less.
func (s *Store) UpdateVariation(ctx context.Context, v Variation) (Variation, error) {
	row := s.Pool.QueryRow(ctx,
		`UPDATE product_variations
		 SET regular_price = $3, sale_price = $4, stock = $5
		 WHERE id = $1 AND product_id = $2
		 RETURNING id, product_id, term_ids, label, regular_price, sale_price, stock`,
		v.ID, v.ProductID, v.RegularPrice, v.SalePrice, v.Stock)
	var updated Variation
	err := row.Scan(&updated.ID, &updated.ProductID, &updated.TermIDs, &updated.Label,
		&updated.RegularPrice, &updated.SalePrice, &updated.Stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return Variation{}, ErrNotFound
	}
	return updated, err
}

// ReplaceVariations swaps the full variation set of a product in one
// transaction, as the matrix regeneration endpoint requires.
func (s *Store) ReplaceVariations(ctx context.Context, productID string, variations []Variation) ([]Variation, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM product_variations WHERE product_id = $1`, productID); err != nil {
		return nil, err
	}
	out := make([]Variation, 0, len(variations))
	for _, v := range variations {
		v.ID = uuid.NewString()
		v.ProductID = productID
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_variations (id, product_id, term_ids, label, regular_price, sale_price, stock)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			v.ID, v.ProductID, v.TermIDs, v.Label, v.RegularPrice, v.SalePrice, v.Stock); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCategories returns all product categories.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, name, slug, sort_order, created_at, updated_at
		 FROM product_categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateCategory inserts a category.
func (s *Store) CreateCategory(ctx context.Context, c Category) (Category, error) {
	row := s.Pool.QueryRow(ctx,
		`INSERT INTO product_categories (id, name, slug, sort_order) VALUES ($1, $2, $3, $4)
		 RETURNING id, name, slug, sort_order, created_at, updated_at`,
		uuid.NewString(), c.Name, c.Slug, c.SortOrder)
	var created Category
	err := row.Scan(&created.ID, &created.Name, &created.Slug, &created.SortOrder, &created.CreatedAt, &created.UpdatedAt)
	return created, err
}

// DeleteCategory removes a category.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM product_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReorderCategories persists the display order implied by the id sequence.
func (s *Store) ReorderCategories(ctx context.Context, ids []string) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	for i, id := range ids {
		if _, err := tx.Exec(ctx,
			`UPDATE product_categories SET sort_order = $2, updated_at = now() WHERE id = $1`, id, i); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ListAttributes returns all attributes with their terms.
func (s *Store) ListAttributes(ctx context.Context) ([]Attribute, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, name, slug FROM product_attributes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attrs []Attribute
	for rows.Next() {
		var a Attribute
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug); err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range attrs {
		terms, err := s.ListTerms(ctx, attrs[i].ID)
		if err != nil {
			return nil, err
		}
		attrs[i].Terms = terms
	}
	return attrs, nil
}

// GetAttributes fetches the named attributes with their terms.
func (s *Store) GetAttributes(ctx context.Context, ids []string) ([]Attribute, error) {
	all, err := s.ListAttributes(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Attribute, len(all))
	for _, a := range all {
		byID[a.ID] = a
	}
	out := make([]Attribute, 0, len(ids))
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			return nil, ErrNotFound
		}
		out = append(out, a)
	}
	return out, nil
}

// CreateAttribute inserts an attribute.
func (s *Store) CreateAttribute(ctx context.Context, a Attribute) (Attribute, error) {
	row := s.Pool.QueryRow(ctx,
		`INSERT INTO product_attributes (id, name, slug) VALUES ($1, $2, $3)
		 RETURNING id, name, slug`,
		uuid.NewString(), a.Name, a.Slug)
	var created Attribute
	err := row.Scan(&created.ID, &created.Name, &created.Slug)
	return created, err
}

// ListTerms returns the terms of an attribute.
func (s *Store) ListTerms(ctx context.Context, attributeID string) ([]Term, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, attribute_id, name, slug, sort_order FROM product_attribute_terms
		 WHERE attribute_id = $1 ORDER BY sort_order, name`,
		attributeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Term
	for rows.Next() {
		var t Term
		if err := rows.Scan(&t.ID, &t.AttributeID, &t.Name, &t.Slug, &t.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateTerm inserts a term under an attribute.
func (s *Store) CreateTerm(ctx context.Context, t Term) (Term, error) {
	row := s.Pool.QueryRow(ctx,
		`INSERT INTO product_attribute_terms (id, attribute_id, name, slug, sort_order)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, attribute_id, name, slug, sort_order`,
		uuid.NewString(), t.AttributeID, t.Name, t.Slug, t.SortOrder)
	var created Term
	err := row.Scan(&created.ID, &created.AttributeID, &created.Name, &created.Slug, &created.SortOrder)
	return created, err
}

// ReorderTerms persists the display order of one attribute's terms.
func (s *Store) ReorderTerms(ctx context.Context, attributeID string, ids []string) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	for i, id := range ids {
		if _, err := tx.Exec(ctx,
			`UPDATE product_attribute_terms SET sort_order = $2
			 WHERE id = $1 AND attribute_id = $3`, id, i, attributeID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
