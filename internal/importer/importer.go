package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gosimple/slug"

	"github.com/shinjidev/shinji-catalog/internal/models"
	"github.com/shinjidev/shinji-catalog/internal/store"
)

// Store is the persistence the importer needs. Every write is an upsert on
// a natural key (slug, sku, product+url), so Run is safe to repeat.
type Store interface {
	UpsertCategory(ctx context.Context, name, slug string) error
	CategoryIDBySlug(ctx context.Context, slug string) (int64, error)
	UpsertProduct(ctx context.Context, p models.NewProduct) (int64, error)
	UpsertImage(ctx context.Context, productID int64, url string) error
}

// Importer pulls the public demo product feed and seeds the catalog.
type Importer struct {
	FeedURL  string
	Client   *http.Client
	Store    Store
	PageSize int
}

type feedCategory struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type feedProduct struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	SKU                string   `json:"sku"`
	Images             []string `json:"images"`
}

type feedPage struct {
	Products []feedProduct `json:"products"`
	Total    int           `json:"total"`
	Skip     int           `json:"skip"`
	Limit    int           `json:"limit"`
}

// Run imports categories first, then products page by page until the feed
// is exhausted.
func (imp *Importer) Run(ctx context.Context) error {
	if err := imp.importCategories(ctx); err != nil {
		return fmt.Errorf("import categories: %w", err)
	}
	if err := imp.importProducts(ctx); err != nil {
		return fmt.Errorf("import products: %w", err)
	}
	return nil
}

func (imp *Importer) importCategories(ctx context.Context) error {
	var categories []feedCategory
	if err := imp.getJSON(ctx, "/products/categories", &categories); err != nil {
		return err
	}
	log.Printf("Fetched %d categories", len(categories))

	for _, cat := range categories {
		catSlug := cat.Slug
		if catSlug == "" {
			catSlug = slug.Make(cat.Name)
		}
		if err := imp.Store.UpsertCategory(ctx, cat.Name, catSlug); err != nil {
			return err
		}
	}
	return nil
}

func (imp *Importer) importProducts(ctx context.Context) error {
	pageSize := imp.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	imported := 0
	for skip := 0; ; {
		var page feedPage
		path := fmt.Sprintf("/products?limit=%d&skip=%d", pageSize, skip)
		if err := imp.getJSON(ctx, path, &page); err != nil {
			return err
		}
		if len(page.Products) == 0 {
			break
		}

		for _, prod := range page.Products {
			if err := imp.importProduct(ctx, prod); err != nil {
				return err
			}
			imported++
		}

		skip += len(page.Products)
		if len(page.Products) < pageSize || skip >= page.Total {
			break
		}
	}

	log.Printf("Imported %d products", imported)
	return nil
}

func (imp *Importer) importProduct(ctx context.Context, prod feedProduct) error {
	categoryID, err := imp.Store.CategoryIDBySlug(ctx, prod.Category)
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("Category %q not found for product %q, skipping", prod.Category, prod.Title)
		return nil
	}
	if err != nil {
		return err
	}

	productID, err := imp.Store.UpsertProduct(ctx, models.NewProduct{
		Title:              prod.Title,
		Description:        prod.Description,
		Price:              prod.Price,
		CategoryID:         categoryID,
		SKU:                prod.SKU,
		DiscountPercentage: prod.DiscountPercentage,
		Rating:             prod.Rating,
		Stock:              prod.Stock,
		Brand:              prod.Brand,
	})
	if err != nil {
		return err
	}

	for _, url := range prod.Images {
		if err := imp.Store.UpsertImage(ctx, productID, url); err != nil {
			return err
		}
	}
	return nil
}

func (imp *Importer) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imp.FeedURL+path, nil)
	if err != nil {
		return err
	}

	client := imp.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed returned %s for %s", resp.Status, path)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
