package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cur8t/agents/internal/articles"
	"github.com/cur8t/agents/internal/entities"
)

type stubExtractor struct {
	result *articles.Result
	err    error
}

func (s *stubExtractor) Extract(ctx context.Context, articleURL, collectionName string) (*articles.Result, error) {
	return s.result, s.err
}

func newExtractorRouter(extractor ArticleExtractor) *gin.Engine {
	return NewRouter(RouterConfig{
		Bookmarks: NewBookmarkImportController(&stubImporter{}, nil, nil),
		Articles:  NewArticleExtractController(extractor, nil),
		Health:    NewHealthController(nil, nil, false, "test"),
	})
}

func TestExtractEndpoint(t *testing.T) {
	extractor := &stubExtractor{
		result: &articles.Result{
			ArticleTitle:   "Roundup",
			ArticleURL:     "https://example.com/post",
			TotalLinks:     1,
			Links:          []entities.ExtractedLink{{URL: "https://go.dev", Domain: "go.dev"}},
			CollectionName: "Links from Roundup",
		},
	}
	router := newExtractorRouter(extractor)

	w := postJSON(router, "/agents/article-extractor/extract", gin.H{
		"article_url": "https://example.com/post",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Links from Roundup")
}

func TestExtractRequiresURL(t *testing.T) {
	router := newExtractorRouter(&stubExtractor{})

	w := postJSON(router, "/agents/article-extractor/extract", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExtractErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid url", articles.ErrInvalidArticleURL, http.StatusBadRequest},
		{"fetch failed", articles.ErrFetchFailed, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newExtractorRouter(&stubExtractor{err: tt.err})
			w := postJSON(router, "/agents/article-extractor/extract", gin.H{
				"article_url": "https://example.com/post",
			})
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newExtractorRouter(&stubExtractor{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.Contains(t, w.Body.String(), "not configured")
}
