package http

import (
	"github.com/gin-gonic/gin"
)

// RouterConfig carries the controllers the router wires up.
type RouterConfig struct {
	Bookmarks *BookmarkImportController
	Articles  *ArticleExtractController
	Health    *HealthController
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/health", cfg.Health.Status)

	importer := router.Group("/agents/bookmark-importer")
	{
		importer.POST("/upload", cfg.Bookmarks.Upload)
		importer.POST("/analyze", cfg.Bookmarks.Analyze)
		importer.GET("/preview/:id", cfg.Bookmarks.Preview)
		importer.POST("/create-collections", cfg.Bookmarks.CreateCollections)
		importer.GET("/status/:id", cfg.Bookmarks.Status)
		importer.DELETE("/session/:id", cfg.Bookmarks.Delete)
	}

	extractor := router.Group("/agents/article-extractor")
	{
		extractor.POST("/extract", cfg.Articles.Extract)
	}

	return router
}
