package bookmarks

import (
	"fmt"
	"unicode"

	"github.com/cur8t/agents/internal/entities"
	"github.com/cur8t/agents/internal/utils"
)

// fallbackConfidence marks categories as domain-coherent but not
// AI-verified.
const fallbackConfidence = 0.7

// fallbackCategorize groups bookmarks by exact source domain. It is the
// deterministic, oracle-free path: same input always yields the same
// categories, in first-seen domain order. A domain becomes a category only
// when it holds at least minPerCategory bookmarks; the result is truncated
// to maxCategories without ranking.
func fallbackCategorize(items []entities.BookmarkItem, maxCategories, minPerCategory int) []entities.BookmarkCategory {
	groups := make(map[string][]entities.BookmarkItem)
	var order []string

	for _, item := range items {
		domain := utils.DomainFromURL(item.URL)
		if domain == "" {
			continue
		}
		if _, seen := groups[domain]; !seen {
			order = append(order, domain)
		}
		groups[domain] = append(groups[domain], item)
	}

	categories := make([]entities.BookmarkCategory, 0, len(order))
	for _, domain := range order {
		members := groups[domain]
		if len(members) < minPerCategory {
			continue
		}
		titled := titleCase(domain)
		categories = append(categories, entities.BookmarkCategory{
			Name:                    fmt.Sprintf("%s Links", titled),
			Description:             fmt.Sprintf("Bookmarks from %s", domain),
			Keywords:                []string{domain},
			Bookmarks:               members,
			ConfidenceScore:         fallbackConfidence,
			SuggestedCollectionName: fmt.Sprintf("%s Collection", titled),
		})
	}

	if maxCategories > 0 && len(categories) > maxCategories {
		categories = categories[:maxCategories]
	}
	return categories
}

// titleCase capitalizes the first letter of every alphabetic run, so
// "news.ycombinator.com" becomes "News.Ycombinator.Com".
func titleCase(s string) string {
	out := []rune(s)
	prevAlpha := false
	for i, r := range out {
		isAlpha := unicode.IsLetter(r)
		if isAlpha && !prevAlpha {
			out[i] = unicode.ToUpper(r)
		}
		prevAlpha = isAlpha
	}
	return string(out)
}
