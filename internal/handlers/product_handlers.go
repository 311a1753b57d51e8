package handlers

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shinjidev/shinji-catalog/internal/models"
	"github.com/shinjidev/shinji-catalog/internal/store"
)

const (
	defaultLimit  = 20
	defaultOffset = 0
)

// CreateProductInput mirrors the multipart form of POST /api/products.
// The required tags reproduce the falsy checks of the contract: zero or
// absent title/description/price/category_id all fail validation.
type CreateProductInput struct {
	Title              string  `form:"title" binding:"required"`
	Description        string  `form:"description" binding:"required"`
	Price              float64 `form:"price" binding:"required"`
	CategoryID         int64   `form:"category_id" binding:"required"`
	SKU                string  `form:"sku"`
	DiscountPercentage float64 `form:"discount_percentage"`
	Rating             float64 `form:"rating"`
	Stock              int     `form:"stock"`
	Brand              string  `form:"brand"`
}

// ImageResult reports the outcome of one image attachment. A failed image
// never fails the request; callers decide whether partial attachment is
// acceptable.
type ImageResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// GetProducts handles GET /api/products?category=&limit=&offset=.
// Non-numeric limit/offset coerce to the defaults.
func (h *Handlers) GetProducts(c *gin.Context) {
	q := models.ProductQuery{
		Limit:      intQueryOrDefault(c, "limit", defaultLimit),
		Offset:     intQueryOrDefault(c, "offset", defaultOffset),
		CategoryID: int64Query(c, "category"),
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	products, err := h.Products.List(ctx, q)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// SearchProducts handles GET /api/products/search?q=&category=.
// The match is a case-insensitive substring on title or description and the
// result set is unpaginated.
func (h *Handlers) SearchProducts(c *gin.Context) {
	term := c.Query("q")
	categoryID := int64Query(c, "category")

	ctx, cancel := h.queryContext(c)
	defer cancel()

	products, err := h.Products.Search(ctx, term, categoryID)
	if err != nil {
		log.Printf("Error searching products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// CreateProduct handles POST /api/products: validate, resolve the SKU,
// insert the row, then attach uploaded images best-effort.
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	sku := input.SKU
	derived := false

	if sku == "" {
		var err error
		sku, err = h.nextCategorySKU(ctx, input.CategoryID, input.Title)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
				return
			}
			log.Printf("Error deriving sku: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert product"})
			return
		}
		derived = true
	} else {
		exists, err := h.Products.SKUExists(ctx, sku)
		if err != nil {
			log.Printf("Error checking sku: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert product"})
			return
		}
		if exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "SKU already exists"})
			return
		}
	}

	productID, err := h.Products.Create(ctx, newProduct(input, sku))
	if errors.Is(err, store.ErrDuplicateSKU) && derived {
		// A concurrent submission took the same sequence number; the unique
		// index caught it. Re-derive once against the fresh last SKU.
		sku, err = h.nextCategorySKU(ctx, input.CategoryID, input.Title)
		if err == nil {
			productID, err = h.Products.Create(ctx, newProduct(input, sku))
		}
	}
	if errors.Is(err, store.ErrDuplicateSKU) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "SKU already exists"})
		return
	}
	if err != nil {
		log.Printf("Error inserting product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to insert product"})
		return
	}

	images := h.attachImages(c, productID)

	c.JSON(http.StatusOK, gin.H{
		"message":   "Product added successfully",
		"productId": productID,
		"sku":       sku,
		"images":    images,
	})
}

// nextCategorySKU derives a SKU from the category name, the product title,
// and the sequence of the most recent SKU in the category.
func (h *Handlers) nextCategorySKU(ctx context.Context, categoryID int64, title string) (string, error) {
	categoryName, err := h.Categories.Name(ctx, categoryID)
	if err != nil {
		return "", err
	}

	lastSKU, err := h.Products.LastSKUInCategory(ctx, categoryID)
	if err != nil {
		return "", err
	}

	return deriveSKU(categoryName, title, skuSequence(lastSKU)), nil
}

// attachImages uploads each form file and records its URL. Uploads are
// strictly sequential and independent: one failure is logged, reported in
// its result entry, and skipped.
func (h *Handlers) attachImages(c *gin.Context, productID int64) []ImageResult {
	results := []ImageResult{}

	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return results
	}

	// Browser clients send 'images[]', everyone else 'images'.
	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["images[]"]
	}

	for _, fh := range files {
		result := ImageResult{Filename: fh.Filename}

		url, err := h.attachOne(c.Request.Context(), productID, fh)
		if err != nil {
			log.Printf("Failed to upload %s for product %d: %v", fh.Filename, productID, err)
			result.Error = err.Error()
		} else {
			result.URL = url
		}

		results = append(results, result)
	}

	return results
}

func (h *Handlers) attachOne(ctx context.Context, productID int64, fh *multipart.FileHeader) (string, error) {
	ctx, cancel := withTimeout(ctx, h.UploadTimeout)
	defer cancel()

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	url, err := h.Storage.Upload(ctx, fh.Filename, fh.Header.Get("Content-Type"), f, fh.Size)
	if err != nil {
		return "", err
	}

	if err := h.Products.AttachImage(ctx, productID, url); err != nil {
		return "", err
	}

	return url, nil
}

func newProduct(input CreateProductInput, sku string) models.NewProduct {
	return models.NewProduct{
		Title:              input.Title,
		Description:        input.Description,
		Price:              input.Price,
		CategoryID:         input.CategoryID,
		SKU:                sku,
		DiscountPercentage: input.DiscountPercentage,
		Rating:             input.Rating,
		Stock:              input.Stock,
		Brand:              input.Brand,
	}
}

func intQueryOrDefault(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}

func int64Query(c *gin.Context, key string) *int64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
