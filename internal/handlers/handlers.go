package handlers

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shinjidev/shinji-catalog/internal/models"
)

// ProductProvider is the slice of product persistence the handlers need.
type ProductProvider interface {
	List(ctx context.Context, q models.ProductQuery) ([]models.Product, error)
	Search(ctx context.Context, term string, categoryID *int64) ([]models.Product, error)
	SKUExists(ctx context.Context, sku string) (bool, error)
	LastSKUInCategory(ctx context.Context, categoryID int64) (string, error)
	Create(ctx context.Context, p models.NewProduct) (int64, error)
	AttachImage(ctx context.Context, productID int64, url string) error
}

// CategoryProvider is the slice of category persistence the handlers need.
type CategoryProvider interface {
	List(ctx context.Context) ([]models.Category, error)
	Name(ctx context.Context, id int64) (string, error)
}

// Uploader stores one image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
}

// Handlers holds all dependencies for the HTTP handlers.
type Handlers struct {
	Products   ProductProvider
	Categories CategoryProvider
	Storage    Uploader

	// Per-phase deadlines; zero means no deadline beyond the request's own.
	QueryTimeout  time.Duration
	UploadTimeout time.Duration
}

func (h *Handlers) queryContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return withTimeout(c.Request.Context(), h.QueryTimeout)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
