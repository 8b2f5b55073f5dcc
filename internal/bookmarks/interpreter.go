package bookmarks

import (
	"encoding/json"
	"errors"

	"github.com/cur8t/agents/internal/entities"
)

// errUnusableResponse signals that the oracle's text could not be
// interpreted at all and the fallback categorizer must take over. It never
// reaches callers outside this package.
var errUnusableResponse = errors.New("oracle response is not a usable categorization document")

// oracleDocument is the structured shape the oracle is instructed to emit.
// Every field except bookmark_indices is optional with a documented default.
type oracleDocument struct {
	Categories []oracleCategory `json:"categories"`
}

type oracleCategory struct {
	Name                    string   `json:"name"`
	Description             string   `json:"description"`
	Keywords                []string `json:"keywords"`
	BookmarkIndices         []int    `json:"bookmark_indices"`
	ConfidenceScore         *float64 `json:"confidence_score"`
	SuggestedCollectionName string   `json:"suggested_collection_name"`
}

// interpretResponse parses oracle text into validated categories against the
// session's bookmark list. Indices are 1-based references into items;
// out-of-range indices are dropped silently and categories left with no
// resolved bookmarks are discarded. A document that cannot be parsed, that
// lacks the categories field, or that carries a confidence score outside
// [0, 1] aborts interpretation entirely; there is no partial salvage of a
// malformed document.
func interpretResponse(text string, items []entities.BookmarkItem) ([]entities.BookmarkCategory, error) {
	var doc oracleDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, errUnusableResponse
	}
	if doc.Categories == nil {
		return nil, errUnusableResponse
	}

	categories := make([]entities.BookmarkCategory, 0, len(doc.Categories))
	for _, cat := range doc.Categories {
		if cat.ConfidenceScore != nil && (*cat.ConfidenceScore < 0 || *cat.ConfidenceScore > 1) {
			return nil, errUnusableResponse
		}

		var resolved []entities.BookmarkItem
		for _, idx := range cat.BookmarkIndices {
			if idx < 1 || idx > len(items) {
				continue
			}
			// Resolve back to the original item so tags, favicon and
			// description survive categorization.
			resolved = append(resolved, items[idx-1])
		}
		if len(resolved) == 0 {
			continue
		}

		name := cat.Name
		if name == "" {
			name = "Untitled Category"
		}
		confidence := 0.5
		if cat.ConfidenceScore != nil {
			confidence = *cat.ConfidenceScore
		}
		suggested := cat.SuggestedCollectionName
		if suggested == "" {
			suggested = name
		}
		keywords := cat.Keywords
		if keywords == nil {
			keywords = []string{}
		}

		categories = append(categories, entities.BookmarkCategory{
			Name:                    name,
			Description:             cat.Description,
			Keywords:                keywords,
			Bookmarks:               resolved,
			ConfidenceScore:         confidence,
			SuggestedCollectionName: suggested,
		})
	}

	return categories, nil
}
