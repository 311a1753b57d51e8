package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shinjidev/shinji-catalog/internal/models"
)

// ProductStore runs the product queries against MySQL.
type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// List returns products newest-first, optionally filtered by category,
// with the LIMIT/OFFSET the caller resolved.
func (s *ProductStore) List(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	var query strings.Builder
	var args []interface{}

	query.WriteString("SELECT" + productColumns + productJoins)

	if q.CategoryID != nil {
		query.WriteString(" WHERE p.category_id = ?")
		args = append(args, *q.CategoryID)
	}

	query.WriteString(" GROUP BY p.id ORDER BY p.id DESC LIMIT ? OFFSET ?")
	args = append(args, q.Limit, q.Offset)

	return s.queryProducts(ctx, query.String(), args...)
}

// Search filters by a case-insensitive substring match on title or
// description, optionally narrowed by category. No pagination: the search
// surface returns the full match set.
func (s *ProductStore) Search(ctx context.Context, term string, categoryID *int64) ([]models.Product, error) {
	var query strings.Builder
	var args []interface{}

	query.WriteString("SELECT" + productColumns + productJoins)
	query.WriteString(" WHERE (p.title LIKE ? OR p.description LIKE ?)")
	pattern := "%" + term + "%"
	args = append(args, pattern, pattern)

	if categoryID != nil {
		query.WriteString(" AND p.category_id = ?")
		args = append(args, *categoryID)
	}

	query.WriteString(" GROUP BY p.id ORDER BY p.id DESC")

	return s.queryProducts(ctx, query.String(), args...)
}

func (s *ProductStore) queryProducts(ctx context.Context, query string, args ...interface{}) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// SKUExists reports whether any product already carries the given sku.
func (s *ProductStore) SKUExists(ctx context.Context, sku string) (bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM shinji_products WHERE sku = ?", sku).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LastSKUInCategory returns the sku of the most recently created product in
// the category (highest id), or "" when the category has no products yet.
func (s *ProductStore) LastSKUInCategory(ctx context.Context, categoryID int64) (string, error) {
	var sku string
	err := s.db.QueryRowContext(ctx,
		"SELECT sku FROM shinji_products WHERE category_id = ? ORDER BY id DESC LIMIT 1",
		categoryID).Scan(&sku)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sku, nil
}

// Create inserts the product row and returns its id. A unique-index conflict
// on sku surfaces as ErrDuplicateSKU.
func (s *ProductStore) Create(ctx context.Context, p models.NewProduct) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO shinji_products
			(title, description, price, category_id, sku, discount_percentage, rating, stock, brand)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Description, p.Price, p.CategoryID, p.SKU,
		p.DiscountPercentage, p.Rating, p.Stock, p.Brand,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicateSKU
		}
		return 0, err
	}
	return res.LastInsertId()
}

// AttachImage records an uploaded image URL against the product.
func (s *ProductStore) AttachImage(ctx context.Context, productID int64, url string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO shinji_images (product_id, url) VALUES (?, ?)",
		productID, url)
	return err
}
