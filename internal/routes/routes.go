package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shinjidev/shinji-catalog/internal/handlers"
)

// maxUploadBytes caps multipart memory buffering at the legacy 10MB limit.
const maxUploadBytes = 10 << 20

// SetupRouter registers the API routes and mounts the static dashboard.
func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = maxUploadBytes

	api := router.Group("/api")
	{
		api.GET("/categories", h.GetCategories)

		api.GET("/products", h.GetProducts)
		api.GET("/products/search", h.SearchProducts)
		api.POST("/products", h.CreateProduct)
	}

	// The dashboard is served from the same process, same origin as the API.
	router.StaticFile("/", "./web/index.html")
	router.Static("/js", "./web/js")
	router.Static("/css", "./web/css")

	return router
}
