package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cur8t/agents/internal/articles"
	"github.com/cur8t/agents/internal/audit"
)

// ArticleExtractor is the extractor surface the controller depends on.
type ArticleExtractor interface {
	Extract(ctx context.Context, articleURL, collectionName string) (*articles.Result, error)
}

// ArticleExtractController handles the article extractor agent endpoints.
type ArticleExtractController struct {
	extractor ArticleExtractor
	audits    *audit.Service
}

func NewArticleExtractController(extractor ArticleExtractor, auditService *audit.Service) *ArticleExtractController {
	return &ArticleExtractController{
		extractor: extractor,
		audits:    auditService,
	}
}

// ExtractRequest is the request body for the extract endpoint.
type ExtractRequest struct {
	ArticleURL     string `json:"article_url" binding:"required"`
	CollectionName string `json:"collection_name"`
}

// Extract handles POST /agents/article-extractor/extract
func (controller *ArticleExtractController) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := controller.extractor.Extract(c.Request.Context(), req.ArticleURL, req.CollectionName)
	if err != nil {
		if controller.audits != nil {
			controller.audits.LogExtract(req.ArticleURL, 0, err)
		}
		switch {
		case errors.Is(err, articles.ErrInvalidArticleURL):
			respondBadRequest(c, err.Error())
		case errors.Is(err, articles.ErrFetchFailed):
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		default:
			respondInternalError(c, err, "article extract")
		}
		return
	}

	if controller.audits != nil {
		controller.audits.LogExtract(req.ArticleURL, result.TotalLinks, nil)
	}
	c.JSON(http.StatusOK, result)
}
