package store

import (
	"context"
	"database/sql"

	"github.com/shinjidev/shinji-catalog/internal/models"
)

// ImportStore holds the upsert queries used by the catalog importer.
// All keys are natural: categories by slug, products by sku, images by
// (product_id, url), so re-running an import never duplicates rows.
type ImportStore struct {
	db *sql.DB
}

func NewImportStore(db *sql.DB) *ImportStore {
	return &ImportStore{db: db}
}

// UpsertCategory inserts the category or refreshes its name when the slug
// already exists.
func (s *ImportStore) UpsertCategory(ctx context.Context, name, slug string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shinji_categories (name, slug)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name)`,
		name, slug)
	return err
}

// CategoryIDBySlug resolves a feed category slug, or ErrNotFound.
func (s *ImportStore) CategoryIDBySlug(ctx context.Context, slug string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM shinji_categories WHERE slug = ?", slug).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpsertProduct inserts the product or refreshes every mutable column when
// the sku already exists, returning the row id either way. LAST_INSERT_ID(id)
// makes LastInsertId report the existing id on the update path.
func (s *ImportStore) UpsertProduct(ctx context.Context, p models.NewProduct) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO shinji_products
			(title, description, price, category_id, sku, discount_percentage, rating, stock, brand)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			id = LAST_INSERT_ID(id),
			title = VALUES(title),
			description = VALUES(description),
			price = VALUES(price),
			category_id = VALUES(category_id),
			discount_percentage = VALUES(discount_percentage),
			rating = VALUES(rating),
			stock = VALUES(stock),
			brand = VALUES(brand)`,
		p.Title, p.Description, p.Price, p.CategoryID, p.SKU,
		p.DiscountPercentage, p.Rating, p.Stock, p.Brand,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpsertImage attaches the URL to the product unless it is already there.
func (s *ImportStore) UpsertImage(ctx context.Context, productID int64, url string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shinji_images (product_id, url)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE url = VALUES(url)`,
		productID, url)
	return err
}
