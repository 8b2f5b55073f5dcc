// Package articles implements the article link extractor agent: it fetches
// an article page and collects the outbound links worth turning into a
// collection.
package articles

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/cur8t/agents/internal/entities"
	"github.com/cur8t/agents/internal/utils"
)

var (
	ErrInvalidArticleURL = errors.New("article URL is not valid")
	ErrFetchFailed       = errors.New("failed to fetch article")
)

// DefaultMaxLinks caps how many links one extraction returns.
const DefaultMaxLinks = 50

// Extractor fetches article pages and extracts their links.
type Extractor struct {
	httpClient *http.Client
	userAgent  string
	maxLinks   int
}

// Config holds the extractor's fetch parameters.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	MaxLinks  int
}

func NewExtractor(cfg Config) *Extractor {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxLinks := cfg.MaxLinks
	if maxLinks <= 0 {
		maxLinks = DefaultMaxLinks
	}
	return &Extractor{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  cfg.UserAgent,
		maxLinks:   maxLinks,
	}
}

// Result is the outcome of one extraction.
type Result struct {
	ArticleTitle   string                   `json:"article_title,omitempty"`
	ArticleURL     string                   `json:"article_url"`
	TotalLinks     int                      `json:"total_links_found"`
	Links          []entities.ExtractedLink `json:"extracted_links"`
	CollectionName string                   `json:"collection_name"`
}

// Extract fetches the article and returns its filtered outbound links plus
// a derived collection name when none is supplied.
func (e *Extractor) Extract(ctx context.Context, articleURL, collectionName string) (*Result, error) {
	if !utils.IsValidURL(articleURL) {
		return nil, ErrInvalidArticleURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	base, err := url.Parse(articleURL)
	if err != nil {
		return nil, ErrInvalidArticleURL
	}

	title := extractTitle(doc)
	links := filterLinks(collectLinks(doc, base), e.maxLinks)

	if collectionName == "" {
		source := title
		if source == "" {
			source = utils.DomainFromURL(articleURL)
		}
		collectionName = fmt.Sprintf("Links from %s", source)
	}

	return &Result{
		ArticleTitle:   title,
		ArticleURL:     articleURL,
		TotalLinks:     len(links),
		Links:          links,
		CollectionName: collectionName,
	}, nil
}

// titleClasses are common article-title class names checked after the
// structural candidates.
var titleClasses = []string{"entry-title", "post-title", "article-title"}

// extractTitle tries the usual title carriers in priority order: h1, the
// document title, the og:title meta, then well-known title classes.
func extractTitle(doc *html.Node) string {
	candidates := []func(*html.Node) (string, bool){
		func(n *html.Node) (string, bool) {
			if isElement(n, "h1") {
				return textContent(n), true
			}
			return "", false
		},
		func(n *html.Node) (string, bool) {
			if isElement(n, "title") {
				return textContent(n), true
			}
			return "", false
		},
		func(n *html.Node) (string, bool) {
			if isElement(n, "meta") && strings.EqualFold(nodeAttr(n, "property"), "og:title") {
				return nodeAttr(n, "content"), true
			}
			return "", false
		},
		func(n *html.Node) (string, bool) {
			if n.Type == html.ElementNode && hasAnyClass(n, titleClasses) {
				return textContent(n), true
			}
			return "", false
		},
	}

	for _, candidate := range candidates {
		var found string
		walk(doc, func(n *html.Node) bool {
			if text, ok := candidate(n); ok && utils.CleanText(text, 200) != "" {
				found = utils.CleanText(text, 200)
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

type rawLink struct {
	url   string
	text  string
	title string
}

// collectLinks gathers every anchor, resolving relative hrefs against the
// article URL and dropping fragments, javascript: and mailto: targets.
func collectLinks(doc *html.Node, base *url.URL) []rawLink {
	var links []rawLink
	walk(doc, func(n *html.Node) bool {
		if !isElement(n, "a") {
			return true
		}
		href := strings.TrimSpace(nodeAttr(n, "href"))
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		absolute := base.ResolveReference(ref).String()

		text := utils.CleanText(textContent(n), 300)
		title := utils.CleanText(nodeAttr(n, "title"), 200)
		if title == "" {
			title = utils.CleanText(text, 200)
		}

		links = append(links, rawLink{url: absolute, text: text, title: title})
		return true
	})
	return links
}

// filterLinks dedupes by URL, drops invalid and skip-pattern URLs, and caps
// the result.
func filterLinks(links []rawLink, maxLinks int) []entities.ExtractedLink {
	filtered := []entities.ExtractedLink{}
	seen := make(map[string]struct{})

	for _, link := range links {
		if _, dup := seen[link.url]; dup {
			continue
		}
		if !utils.IsValidURL(link.url) || utils.ShouldSkipURL(link.url) {
			continue
		}

		filtered = append(filtered, entities.ExtractedLink{
			URL:         link.url,
			Title:       link.title,
			Description: link.text,
			Domain:      utils.DomainFromURL(link.url),
		})
		seen[link.url] = struct{}{}

		if len(filtered) >= maxLinks {
			break
		}
	}
	return filtered
}

// --- html.Node helpers ---

func isElement(n *html.Node, name string) bool {
	return n.Type == html.ElementNode && strings.EqualFold(n.Data, name)
}

func nodeAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

func hasAnyClass(n *html.Node, classes []string) bool {
	for _, class := range strings.Fields(nodeAttr(n, "class")) {
		for _, want := range classes {
			if class == want {
				return true
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return sb.String()
}

// walk visits nodes depth-first until fn returns false.
func walk(root *html.Node, fn func(*html.Node) bool) bool {
	if !fn(root) {
		return false
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
