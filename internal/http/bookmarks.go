package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/cur8t/agents/internal/audit"
	"github.com/cur8t/agents/internal/bookmarks"
	"github.com/cur8t/agents/internal/limits"
)

// BookmarkImporter is the orchestrator surface the controller depends on.
type BookmarkImporter interface {
	Upload(content, filename, browserHint string, preferences map[string]any) (*bookmarks.UploadResult, error)
	Analyze(ctx context.Context, sessionID string, opts bookmarks.AnalysisOptions) (*bookmarks.AnalyzeResult, error)
	Preview(sessionID string) (*bookmarks.PreviewResult, error)
	Finalize(sessionID string, selectedNames []string, customNames map[string]string) (*bookmarks.FinalizeResult, error)
	Status(sessionID string) (*bookmarks.SessionStatus, error)
	Delete(sessionID string) error
}

// BookmarkImportController handles the bookmark importer agent endpoints.
type BookmarkImportController struct {
	service BookmarkImporter
	limits  limits.Checker
	audits  *audit.Service
}

func NewBookmarkImportController(service BookmarkImporter, limitChecker limits.Checker, auditService *audit.Service) *BookmarkImportController {
	if limitChecker == nil {
		limitChecker = limits.AllowAll{}
	}
	return &BookmarkImportController{
		service: service,
		limits:  limitChecker,
		audits:  auditService,
	}
}

// Upload handles POST /agents/bookmark-importer/upload
func (controller *BookmarkImportController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "bookmark file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondInternalError(c, err, "open uploaded file")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		respondInternalError(c, err, "read uploaded file")
		return
	}
	if !utf8.Valid(raw) {
		respondBadRequest(c, "file content is not valid UTF-8")
		return
	}

	var preferences map[string]any
	if prefsJSON := c.PostForm("user_preferences"); prefsJSON != "" {
		if err := json.Unmarshal([]byte(prefsJSON), &preferences); err != nil {
			respondBadRequest(c, "user_preferences must be a JSON object")
			return
		}
	}

	browserHint := c.PostForm("browser_type")

	result, err := controller.service.Upload(string(raw), fileHeader.Filename, browserHint, preferences)
	if err != nil {
		if controller.audits != nil {
			controller.audits.LogUpload("", fileHeader.Filename, browserHint, 0, err)
		}
		if errors.Is(err, bookmarks.ErrNoBookmarksFound) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "bookmark upload")
		return
	}

	if controller.audits != nil {
		controller.audits.LogUpload(result.SessionID, fileHeader.Filename, result.BrowserDetected, result.TotalBookmarks, nil)
	}
	c.JSON(http.StatusOK, result)
}

// AnalyzeRequest is the request body for the analyze endpoint.
type AnalyzeRequest struct {
	SessionID               string   `json:"session_id" binding:"required"`
	MaxCategories           int      `json:"max_categories"`
	MinBookmarksPerCategory int      `json:"min_bookmarks_per_category"`
	PreferredCategories     []string `json:"preferred_categories"`
	MergeSimilarCategories  bool     `json:"merge_similar_categories"`
}

// Analyze handles POST /agents/bookmark-importer/analyze
func (controller *BookmarkImportController) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if req.MaxCategories == 0 {
		req.MaxCategories = bookmarks.DefaultMaxCategories
	}
	if req.MaxCategories < 1 || req.MaxCategories > bookmarks.MaxCategoriesLimit {
		respondBadRequest(c, "max_categories must be between 1 and 15")
		return
	}
	if req.MinBookmarksPerCategory == 0 {
		req.MinBookmarksPerCategory = bookmarks.DefaultMinBookmarksPerCategory
	}
	if req.MinBookmarksPerCategory < 1 || req.MinBookmarksPerCategory > bookmarks.MinBookmarksPerCategoryLimit {
		respondBadRequest(c, "min_bookmarks_per_category must be between 1 and 20")
		return
	}

	result, err := controller.service.Analyze(c.Request.Context(), req.SessionID, bookmarks.AnalysisOptions{
		MaxCategories:           req.MaxCategories,
		MinBookmarksPerCategory: req.MinBookmarksPerCategory,
		PreferredCategories:     req.PreferredCategories,
		MergeSimilarCategories:  req.MergeSimilarCategories,
	})
	if err != nil {
		if controller.audits != nil {
			controller.audits.LogAnalyze(req.SessionID, 0, 0, err)
		}
		switch {
		case errors.Is(err, bookmarks.ErrSessionNotFound):
			respondNotFound(c, "session")
		default:
			respondInternalError(c, err, "bookmark analyze")
		}
		return
	}

	if controller.audits != nil {
		controller.audits.LogAnalyze(req.SessionID, len(result.Categories), len(result.Uncategorized), nil)
	}
	c.JSON(http.StatusOK, result)
}

// Preview handles GET /agents/bookmark-importer/preview/:id
func (controller *BookmarkImportController) Preview(c *gin.Context) {
	result, err := controller.service.Preview(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, bookmarks.ErrSessionNotFound):
			respondNotFound(c, "session")
		case errors.Is(err, bookmarks.ErrNoAnalysisYet):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "bookmark preview")
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateCollectionsRequest is the request body for the finalize endpoint.
type CreateCollectionsRequest struct {
	SessionID           string            `json:"session_id" binding:"required"`
	SelectedCategories  []string          `json:"selected_categories" binding:"required"`
	CustomCategoryNames map[string]string `json:"custom_category_names"`
}

// CreateCollections handles POST /agents/bookmark-importer/create-collections
func (controller *BookmarkImportController) CreateCollections(c *gin.Context) {
	var req CreateCollectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	decision, err := controller.limits.CheckLimit(c.Request.Context(), c.GetHeader("X-User-ID"), "collections", len(req.SelectedCategories))
	if err != nil {
		respondInternalError(c, err, "collection limit check")
		return
	}
	if !decision.Allowed {
		message := decision.Message
		if message == "" {
			message = "collection limit reached"
		}
		respondForbidden(c, message)
		return
	}

	result, err := controller.service.Finalize(req.SessionID, req.SelectedCategories, req.CustomCategoryNames)
	if err != nil {
		if controller.audits != nil {
			controller.audits.LogFinalize(req.SessionID, 0, err)
		}
		switch {
		case errors.Is(err, bookmarks.ErrSessionNotFound):
			respondNotFound(c, "session")
		case errors.Is(err, bookmarks.ErrNoAnalysisYet), errors.Is(err, bookmarks.ErrNoValidCategoriesSelected):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "create collections")
		}
		return
	}

	if controller.audits != nil {
		controller.audits.LogFinalize(req.SessionID, result.TotalCollections, nil)
	}
	c.JSON(http.StatusOK, result)
}

// Status handles GET /agents/bookmark-importer/status/:id
func (controller *BookmarkImportController) Status(c *gin.Context) {
	result, err := controller.service.Status(c.Param("id"))
	if err != nil {
		if errors.Is(err, bookmarks.ErrSessionNotFound) {
			respondNotFound(c, "session")
			return
		}
		respondInternalError(c, err, "session status")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /agents/bookmark-importer/session/:id
func (controller *BookmarkImportController) Delete(c *gin.Context) {
	sessionID := c.Param("id")
	if err := controller.service.Delete(sessionID); err != nil {
		if errors.Is(err, bookmarks.ErrSessionNotFound) {
			respondNotFound(c, "session")
			return
		}
		respondInternalError(c, err, "session delete")
		return
	}

	if controller.audits != nil {
		controller.audits.LogDelete(sessionID)
	}
	respondSuccess(c, "session deleted")
}
