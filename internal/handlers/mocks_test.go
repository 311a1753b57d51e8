package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shinjidev/shinji-catalog/internal/models"
	"github.com/shinjidev/shinji-catalog/internal/store"
)

// --- Mock stores ---

type mockProductStore struct {
	products []models.Product
	err      error

	// existingSKUs trips both the pre-insert check and the insert itself;
	// raceSKUs only trips the insert, simulating a concurrent winner that
	// committed between check and insert.
	existingSKUs map[string]bool
	raceSKUs     map[string]bool
	lastSKU      map[int64]string

	created   []models.NewProduct
	attached  []string
	attachErr error

	// Captured call arguments
	lastCalledQuery models.ProductQuery
	lastCalledTerm  string
	lastCalledCat   *int64
}

func (m *mockProductStore) List(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	m.lastCalledQuery = q
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockProductStore) Search(ctx context.Context, term string, categoryID *int64) ([]models.Product, error) {
	m.lastCalledTerm = term
	m.lastCalledCat = categoryID
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockProductStore) SKUExists(ctx context.Context, sku string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.existingSKUs[sku], nil
}

func (m *mockProductStore) LastSKUInCategory(ctx context.Context, categoryID int64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.lastSKU[categoryID], nil
}

func (m *mockProductStore) Create(ctx context.Context, p models.NewProduct) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.existingSKUs[p.SKU] || m.raceSKUs[p.SKU] {
		// The concurrent winner is now the newest row in the category.
		if m.lastSKU == nil {
			m.lastSKU = map[int64]string{}
		}
		m.lastSKU[p.CategoryID] = p.SKU
		return 0, store.ErrDuplicateSKU
	}
	m.created = append(m.created, p)
	return int64(100 + len(m.created)), nil
}

func (m *mockProductStore) AttachImage(ctx context.Context, productID int64, url string) error {
	if m.attachErr != nil {
		return m.attachErr
	}
	m.attached = append(m.attached, url)
	return nil
}

type mockCategoryStore struct {
	categories []models.Category
	names      map[int64]string
	err        error
}

func (m *mockCategoryStore) List(ctx context.Context) ([]models.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func (m *mockCategoryStore) Name(ctx context.Context, id int64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	name, ok := m.names[id]
	if !ok {
		return "", store.ErrNotFound
	}
	return name, nil
}

type mockUploader struct {
	failOn  map[string]bool
	uploads []string
}

func (m *mockUploader) Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	if m.failOn[filename] {
		return "", errors.New("storage unavailable")
	}
	url := "https://cdn.example.com/" + filename
	m.uploads = append(m.uploads, url)
	return url, nil
}

// --- Helpers ---

func newTestRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/categories", h.GetCategories)
	router.GET("/api/products", h.GetProducts)
	router.GET("/api/products/search", h.SearchProducts)
	router.POST("/api/products", h.CreateProduct)
	return router
}

// multipartBody builds a multipart form with the given fields and, for each
// file field, one dummy file part per filename.
func multipartBody(t *testing.T, fields map[string]string, files map[string][]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	for field, names := range files {
		for _, name := range names {
			fw, err := w.CreateFormFile(field, name)
			if err != nil {
				t.Fatalf("create form file %s: %v", name, err)
			}
			if _, err := fw.Write([]byte("fake image bytes")); err != nil {
				t.Fatalf("write form file %s: %v", name, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	return &buf, w.FormDataContentType()
}

func validProductFields() map[string]string {
	return map[string]string{
		"title":       "Widget",
		"description": "A very useful widget",
		"price":       "19.99",
		"category_id": "5",
	}
}
