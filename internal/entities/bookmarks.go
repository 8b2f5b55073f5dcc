package entities

import "time"

// ImportStage tracks where a bookmark import session sits in its lifecycle.
type ImportStage string

const (
	StageUploaded  ImportStage = "uploaded"
	StageParsing   ImportStage = "parsing"
	StageAnalyzing ImportStage = "analyzing"
	StageReady     ImportStage = "ready"
	StageCompleted ImportStage = "completed"
	StageFailed    ImportStage = "failed"
)

// BookmarkItem is a single bookmark parsed from a browser export file.
// Items are immutable once created; identity within a session is the URL.
type BookmarkItem struct {
	URL         string     `json:"url"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	DateAdded   *time.Time `json:"date_added,omitempty"`
	FolderPath  string     `json:"folder_path,omitempty"`
	FaviconURL  string     `json:"favicon_url,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// FolderStructure maps a slash-delimited folder path to the number of
// bookmarks found directly under it. Rebuilt on every parse.
type FolderStructure map[string]int

// BookmarkCategory is one category proposed by the oracle or the fallback
// categorizer. A bookmark belongs to at most one category.
type BookmarkCategory struct {
	Name                    string         `json:"name"`
	Description             string         `json:"description"`
	Keywords                []string       `json:"keywords"`
	Bookmarks               []BookmarkItem `json:"bookmarks"`
	ConfidenceScore         float64        `json:"confidence_score"`
	SuggestedCollectionName string         `json:"suggested_collection_name"`
}

// AnalysisResult is the outcome of a completed analyze call.
type AnalysisResult struct {
	Categories        []BookmarkCategory `json:"categories"`
	Uncategorized     []BookmarkItem     `json:"uncategorized_bookmarks"`
	ProcessingSeconds float64            `json:"processing_time_seconds"`
	ConfidenceScore   float64            `json:"ai_confidence_score"`
}

// Session is the unit of work for one upload-through-finalize workflow.
// Owned exclusively by the session store.
type Session struct {
	ID              string
	Filename        string
	Bookmarks       []BookmarkItem
	BrowserDetected string
	FolderStructure FolderStructure
	Preferences     map[string]any
	Stage           ImportStage
	CreatedAt       time.Time
	Analysis        *AnalysisResult
	Collections     []CollectionPayload
	ErrorMessage    string
}
