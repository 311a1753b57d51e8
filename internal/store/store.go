package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/shinjidev/shinji-catalog/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateSKU is returned when an insert violates the unique index on
// shinji_products.sku. The index is the arbiter of uniqueness; callers must
// not rely on a prior existence check alone.
var ErrDuplicateSKU = errors.New("sku already exists")

// productColumns is the shared projection for listing and search: every
// product column plus the joined category name and the comma-aggregated
// image URLs.
const productColumns = `
	p.id, p.title, p.description, p.price, p.category_id, p.sku,
	p.discount_percentage, p.rating, p.stock, p.brand, p.created_at, p.updated_at,
	c.name AS category_name, GROUP_CONCAT(i.url) AS images`

const productJoins = `
	FROM shinji_products p
	LEFT JOIN shinji_categories c ON p.category_id = c.id
	LEFT JOIN shinji_images i ON i.product_id = p.id`

func scanProduct(rows *sql.Rows) (models.Product, error) {
	var p models.Product
	var categoryName, images sql.NullString

	if err := rows.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.CategoryID,
		&p.SKU,
		&p.DiscountPercentage,
		&p.Rating,
		&p.Stock,
		&p.Brand,
		&p.CreatedAt,
		&p.UpdatedAt,
		&categoryName,
		&images,
	); err != nil {
		return models.Product{}, err
	}

	if categoryName.Valid {
		p.CategoryName = &categoryName.String
	}

	// Empty aggregate maps to an empty slice, never null.
	p.Images = []string{}
	if images.Valid && images.String != "" {
		p.Images = strings.Split(images.String, ",")
	}

	return p, nil
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
