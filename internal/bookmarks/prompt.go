package bookmarks

import (
	"fmt"
	"strings"

	"github.com/cur8t/agents/internal/entities"
	"github.com/cur8t/agents/internal/utils"
)

// AnalysisOptions are the caller-supplied categorization constraints.
type AnalysisOptions struct {
	MaxCategories           int
	MinBookmarksPerCategory int
	PreferredCategories     []string
	MergeSimilarCategories  bool
}

// Constraint bounds and defaults shared with the HTTP layer.
const (
	DefaultMaxCategories           = 5
	DefaultMinBookmarksPerCategory = 3
	MaxCategoriesLimit             = 15
	MinBookmarksPerCategoryLimit   = 20
)

// buildPrompt assembles the categorization prompt: task framing, the fully
// enumerated 1-indexed bookmark manifest, the response schema, and the
// numeric constraints. The manifest is never truncated; every bookmark in
// the session is listed, which bounds practical session size.
func buildPrompt(items []entities.BookmarkItem, opts AnalysisOptions) string {
	var manifest strings.Builder
	for i, item := range items {
		fmt.Fprintf(&manifest, "%d. %s - %s (Domain: %s)\n",
			i+1, item.Title, item.URL, utils.DomainFromURL(item.URL))
	}

	preferredLine := ""
	if len(opts.PreferredCategories) > 0 {
		preferredLine = fmt.Sprintf("- Preferred categories (if applicable): %s\n",
			strings.Join(opts.PreferredCategories, ", "))
	}

	return fmt.Sprintf(`You are an expert at organizing and categorizing bookmarks. I have %d bookmarks that need to be intelligently categorized.

BOOKMARKS TO CATEGORIZE:
%s
REQUIREMENTS:
- Create at most %d categories
- Each category should have at least %d bookmarks
- Categories should be meaningful and distinct
- Focus on technology, topics, and use cases
- Merge similar categories: %t
%s
RESPONSE FORMAT (JSON):
{
  "categories": [
    {
      "name": "Category Name",
      "description": "Brief description of what this category contains",
      "keywords": ["keyword1", "keyword2", "keyword3"],
      "bookmark_indices": [1, 5, 12, 18],
      "confidence_score": 0.85,
      "suggested_collection_name": "Collection Name"
    }
  ]
}

CATEGORIZATION RULES:
1. Group by technology stack (React, Python, JavaScript, etc.)
2. Group by purpose (Learning, Tools, Documentation, etc.)
3. Group by domain/industry if relevant
4. Create a "Miscellaneous" category only if needed
5. Ensure bookmark_indices refer to the numbered bookmarks above (1-based)
6. Confidence score should reflect how well bookmarks fit the category (0.0-1.0)

Analyze the bookmarks and provide intelligent categorization in the exact JSON format above.`,
		len(items), manifest.String(), opts.MaxCategories, opts.MinBookmarksPerCategory,
		opts.MergeSimilarCategories, preferredLine)
}
