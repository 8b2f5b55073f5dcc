package entities

import "time"

// CollectionLink is one link inside a finalized collection payload.
type CollectionLink struct {
	URL         string     `json:"url"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	DateAdded   *time.Time `json:"date_added,omitempty"`
	FolderPath  string     `json:"folder_path,omitempty"`
}

// CategoryInfo preserves the originating category's identity on a payload.
type CategoryInfo struct {
	OriginalName    string  `json:"original_name"`
	ConfidenceScore float64 `json:"confidence_score"`
	BookmarkCount   int     `json:"bookmark_count"`
}

// CollectionPayload is the collection-shaped output of finalize, ready for
// the extension frontend. Built from a category without mutating it.
type CollectionPayload struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Keywords     []string         `json:"keywords"`
	Links        []CollectionLink `json:"links"`
	CategoryInfo CategoryInfo     `json:"category_info"`
}

// ExtractedLink is a single link pulled out of an article page.
type ExtractedLink struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Domain      string `json:"domain,omitempty"`
}
