package articles

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveArticle(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestExtractCollectsAndFiltersLinks(t *testing.T) {
	server := serveArticle(t, `<html>
<head><title>Ignored</title></head>
<body>
<h1>Awesome Go Roundup</h1>
<a href="https://go.dev">Go</a>
<a href="/relative/path">Relative</a>
<a href="https://go.dev">Duplicate</a>
<a href="#section">Fragment</a>
<a href="javascript:void(0)">JS</a>
<a href="mailto:dev@example.com">Mail</a>
<a href="https://twitter.com/intent/tweet?u=x">Share</a>
<a href="https://cdn.example.com/image.png">Asset</a>
<a href="https://github.com/golang/go" title="The Go repo">GitHub</a>
</body></html>`)

	extractor := NewExtractor(Config{})
	result, err := extractor.Extract(context.Background(), server.URL, "")
	require.NoError(t, err)

	assert.Equal(t, "Awesome Go Roundup", result.ArticleTitle)
	assert.Equal(t, "Links from Awesome Go Roundup", result.CollectionName)
	require.Len(t, result.Links, 3)

	assert.Equal(t, "https://go.dev", result.Links[0].URL)
	assert.Equal(t, "go.dev", result.Links[0].Domain)
	assert.Equal(t, server.URL+"/relative/path", result.Links[1].URL)
	assert.Equal(t, "The Go repo", result.Links[2].Title)
	assert.Equal(t, "GitHub", result.Links[2].Description)
}

func TestExtractTitleFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		title string
	}{
		{
			name:  "h1 wins",
			body:  `<html><head><title>Doc Title</title></head><body><h1>Heading</h1></body></html>`,
			title: "Heading",
		},
		{
			name:  "title when no h1",
			body:  `<html><head><title>Doc Title</title></head><body></body></html>`,
			title: "Doc Title",
		},
		{
			name:  "og:title meta",
			body:  `<html><head><meta property="og:title" content="OG Title"></head><body></body></html>`,
			title: "OG Title",
		},
		{
			name:  "entry-title class",
			body:  `<html><body><div class="entry-title">Classy Title</div></body></html>`,
			title: "Classy Title",
		},
		{
			name:  "no title at all",
			body:  `<html><body><p>text</p></body></html>`,
			title: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := serveArticle(t, tt.body)
			result, err := NewExtractor(Config{}).Extract(context.Background(), server.URL, "")
			require.NoError(t, err)
			assert.Equal(t, tt.title, result.ArticleTitle)
		})
	}
}

func TestExtractUsesDomainWhenTitleMissing(t *testing.T) {
	server := serveArticle(t, `<html><body><a href="https://go.dev">Go</a></body></html>`)
	result, err := NewExtractor(Config{}).Extract(context.Background(), server.URL, "")
	require.NoError(t, err)
	assert.Contains(t, result.CollectionName, "Links from 127.0.0.1")
}

func TestExtractCustomCollectionName(t *testing.T) {
	server := serveArticle(t, `<html><body><h1>T</h1></body></html>`)
	result, err := NewExtractor(Config{}).Extract(context.Background(), server.URL, "My Reading List")
	require.NoError(t, err)
	assert.Equal(t, "My Reading List", result.CollectionName)
}

func TestExtractCapsLinkCount(t *testing.T) {
	body := "<html><body>"
	for i := 0; i < 20; i++ {
		body += fmt.Sprintf(`<a href="https://example%d.com">Link %d</a>`, i, i)
	}
	body += "</body></html>"
	server := serveArticle(t, body)

	result, err := NewExtractor(Config{MaxLinks: 10}).Extract(context.Background(), server.URL, "")
	require.NoError(t, err)
	assert.Len(t, result.Links, 10)
	assert.Equal(t, 10, result.TotalLinks)
}

func TestExtractInvalidURL(t *testing.T) {
	_, err := NewExtractor(Config{}).Extract(context.Background(), "not-a-url", "")
	assert.ErrorIs(t, err, ErrInvalidArticleURL)
}

func TestExtractFetchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewExtractor(Config{}).Extract(context.Background(), server.URL, "")
	assert.ErrorIs(t, err, ErrFetchFailed)
}
