package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCategories handles GET /api/categories: every category, sorted by name.
func (h *Handlers) GetCategories(c *gin.Context) {
	ctx, cancel := h.queryContext(c)
	defer cancel()

	categories, err := h.Categories.List(ctx)
	if err != nil {
		log.Printf("Error fetching categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, categories)
}
