package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/cur8t/agents/internal/entities"
	"github.com/cur8t/agents/internal/oracle"
	"github.com/cur8t/agents/internal/sessions"
)

// Sentinel errors for the operation taxonomy. The HTTP layer maps these to
// status codes; everything else surfaces as an internal error.
var (
	ErrNoBookmarksFound          = errors.New("no valid bookmarks found in file")
	ErrSessionNotFound           = errors.New("session not found or expired")
	ErrNoAnalysisYet             = errors.New("no analysis results available")
	ErrNoValidCategoriesSelected = errors.New("no valid categories selected")
	ErrAnalysisFailed            = errors.New("analysis failed")
)

// Service orchestrates the upload → analyze → preview → finalize workflow.
// It holds no session state of its own; every operation looks the session up
// in the store and releases it when the request ends.
type Service struct {
	store  sessions.Store
	oracle oracle.Generator
}

func NewService(store sessions.Store, generator oracle.Generator) *Service {
	return &Service{
		store:  store,
		oracle: generator,
	}
}

// UploadResult summarizes a freshly created session.
type UploadResult struct {
	SessionID       string                   `json:"session_id"`
	TotalBookmarks  int                      `json:"total_bookmarks"`
	BrowserDetected string                   `json:"browser_detected,omitempty"`
	FolderStructure entities.FolderStructure `json:"folder_structure"`
	Stage           entities.ImportStage     `json:"processing_status"`
}

// Upload parses the export file and creates a session at stage uploaded.
// When parsing yields zero bookmarks no session is created.
func (s *Service) Upload(content, filename, browserHint string, preferences map[string]any) (*UploadResult, error) {
	items, browser, folders := ParseExport(content, browserHint)
	if len(items) == 0 {
		return nil, ErrNoBookmarksFound
	}

	if preferences == nil {
		preferences = map[string]any{}
	}

	session := &entities.Session{
		ID:              uuid.New().String(),
		Filename:        filename,
		Bookmarks:       items,
		BrowserDetected: browser,
		FolderStructure: folders,
		Preferences:     preferences,
		Stage:           entities.StageUploaded,
		CreatedAt:       time.Now(),
	}
	s.store.Put(session)

	return &UploadResult{
		SessionID:       session.ID,
		TotalBookmarks:  len(items),
		BrowserDetected: browser,
		FolderStructure: folders,
		Stage:           entities.StageUploaded,
	}, nil
}

// AnalyzeResult is the outcome of one analyze call.
type AnalyzeResult struct {
	SessionID         string                      `json:"session_id"`
	Categories        []entities.BookmarkCategory `json:"categories"`
	TotalBookmarks    int                         `json:"total_bookmarks_processed"`
	Uncategorized     []entities.BookmarkItem     `json:"uncategorized_bookmarks"`
	ProcessingSeconds float64                     `json:"processing_time_seconds"`
	ConfidenceScore   float64                     `json:"ai_confidence_score"`
	Stage             entities.ImportStage        `json:"processing_status"`
}

// Analyze runs categorization for a session: oracle first, deterministic
// domain fallback when the oracle is unavailable or its output unusable.
// The fallback runs at most once per call. The session always ends at stage
// ready or failed; any defect in the bookkeeping below flips it to failed
// rather than leaving it mid-flight.
func (s *Service) Analyze(ctx context.Context, sessionID string, opts AnalysisOptions) (result *AnalyzeResult, err error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	if opts.MaxCategories <= 0 {
		opts.MaxCategories = DefaultMaxCategories
	}
	if opts.MinBookmarksPerCategory <= 0 {
		opts.MinBookmarksPerCategory = DefaultMinBookmarksPerCategory
	}

	session.Stage = entities.StageAnalyzing
	s.store.Put(session)

	defer func() {
		if r := recover(); r != nil {
			session.Stage = entities.StageFailed
			session.ErrorMessage = fmt.Sprintf("%v", r)
			s.store.Put(session)
			result = nil
			err = fmt.Errorf("%w: %v", ErrAnalysisFailed, r)
		}
	}()

	start := time.Now()
	categories := s.categorize(ctx, session.Bookmarks, opts)

	categorized := make(map[string]struct{})
	for _, category := range categories {
		for _, item := range category.Bookmarks {
			categorized[item.URL] = struct{}{}
		}
	}

	uncategorized := []entities.BookmarkItem{}
	for _, item := range session.Bookmarks {
		if _, ok := categorized[item.URL]; !ok {
			uncategorized = append(uncategorized, item)
		}
	}

	confidence := 0.0
	if len(session.Bookmarks) > 0 {
		confidence = float64(len(categorized)) / float64(len(session.Bookmarks))
	}

	analysis := &entities.AnalysisResult{
		Categories:        categories,
		Uncategorized:     uncategorized,
		ProcessingSeconds: time.Since(start).Seconds(),
		ConfidenceScore:   confidence,
	}
	session.Analysis = analysis
	session.Stage = entities.StageReady
	s.store.Put(session)

	return &AnalyzeResult{
		SessionID:         sessionID,
		Categories:        categories,
		TotalBookmarks:    len(session.Bookmarks),
		Uncategorized:     uncategorized,
		ProcessingSeconds: analysis.ProcessingSeconds,
		ConfidenceScore:   confidence,
		Stage:             entities.StageReady,
	}, nil
}

// categorize asks the oracle and interprets its answer; any oracle failure
// or unusable response routes to the domain fallback exactly once. The
// interpreter's total-failure path relaxes the per-category minimum to 1.
func (s *Service) categorize(ctx context.Context, items []entities.BookmarkItem, opts AnalysisOptions) []entities.BookmarkCategory {
	text, err := s.oracle.Generate(ctx, buildPrompt(items, opts))
	if err != nil {
		log.Printf("Oracle call failed, using domain fallback: %v", err)
		return fallbackCategorize(items, opts.MaxCategories, opts.MinBookmarksPerCategory)
	}

	categories, err := interpretResponse(text, items)
	if err != nil {
		log.Printf("Oracle response unusable, using domain fallback: %v", err)
		return fallbackCategorize(items, opts.MaxCategories, 1)
	}
	return categories
}

// PreviewStatistics are derived from already-computed session numbers only.
type PreviewStatistics struct {
	TotalBookmarks              int     `json:"total_bookmarks"`
	CategorizedBookmarks        int     `json:"categorized_bookmarks"`
	UncategorizedBookmarks      int     `json:"uncategorized_bookmarks"`
	CategorizationRate          float64 `json:"categorization_rate"`
	NumberOfCategories          int     `json:"number_of_categories"`
	AverageBookmarksPerCategory float64 `json:"average_bookmarks_per_category"`
}

// PreviewResult lets the caller review the analysis before finalizing.
type PreviewResult struct {
	SessionID   string                      `json:"session_id"`
	Categories  []entities.BookmarkCategory `json:"categories"`
	Statistics  PreviewStatistics           `json:"statistics"`
	Suggestions []string                    `json:"suggestions"`
	Stage       entities.ImportStage        `json:"processing_status"`
}

// Preview is read-only: it reshapes the stored analysis into statistics and
// threshold-based advisory suggestions without recomputing anything.
func (s *Service) Preview(sessionID string) (*PreviewResult, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Analysis == nil {
		return nil, ErrNoAnalysisYet
	}

	analysis := session.Analysis
	categorized := 0
	for _, category := range analysis.Categories {
		categorized += len(category.Bookmarks)
	}

	stats := PreviewStatistics{
		TotalBookmarks:         len(session.Bookmarks),
		CategorizedBookmarks:   categorized,
		UncategorizedBookmarks: len(analysis.Uncategorized),
		NumberOfCategories:     len(analysis.Categories),
	}
	if stats.TotalBookmarks > 0 {
		stats.CategorizationRate = float64(categorized) / float64(stats.TotalBookmarks)
	}
	if stats.NumberOfCategories > 0 {
		stats.AverageBookmarksPerCategory = float64(categorized) / float64(stats.NumberOfCategories)
	}

	suggestions := []string{}
	if stats.UncategorizedBookmarks > 0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"Consider adjusting categorization parameters to include %d uncategorized bookmarks",
			stats.UncategorizedBookmarks))
	}
	if stats.NumberOfCategories < 3 {
		suggestions = append(suggestions,
			"You might want to increase max_categories to get more specific groupings")
	}
	if analysis.ConfidenceScore < 0.7 {
		suggestions = append(suggestions,
			"Low confidence score detected. Consider providing preferred category names for better results")
	}

	return &PreviewResult{
		SessionID:   sessionID,
		Categories:  analysis.Categories,
		Statistics:  stats,
		Suggestions: suggestions,
		Stage:       session.Stage,
	}, nil
}

// FinalizeResult carries the collection payloads produced from the selected
// categories.
type FinalizeResult struct {
	SessionID        string                       `json:"session_id"`
	Collections      []entities.CollectionPayload `json:"created_collections"`
	TotalCollections int                          `json:"total_collections_created"`
	TotalBookmarks   int                          `json:"total_bookmarks_organized"`
	Stage            entities.ImportStage         `json:"processing_status"`
}

// Finalize turns the selected categories into collection payloads. Category
// names match case-sensitively; when none match, the session is left
// untouched. Payloads are recorded on the session so a repeated call is
// idempotent, and the session moves to its terminal completed stage.
func (s *Service) Finalize(sessionID string, selectedNames []string, customNames map[string]string) (*FinalizeResult, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Analysis == nil {
		return nil, ErrNoAnalysisYet
	}

	byName := make(map[string]entities.BookmarkCategory, len(session.Analysis.Categories))
	for _, category := range session.Analysis.Categories {
		byName[category.Name] = category
	}

	var selected []entities.BookmarkCategory
	for _, name := range selectedNames {
		if category, ok := byName[name]; ok {
			selected = append(selected, category)
		}
	}
	if len(selected) == 0 {
		return nil, ErrNoValidCategoriesSelected
	}

	collections := make([]entities.CollectionPayload, 0, len(selected))
	totalBookmarks := 0
	for _, category := range selected {
		name := category.SuggestedCollectionName
		if custom, ok := customNames[category.Name]; ok && custom != "" {
			name = custom
		}

		links := make([]entities.CollectionLink, 0, len(category.Bookmarks))
		for _, item := range category.Bookmarks {
			links = append(links, entities.CollectionLink{
				URL:         item.URL,
				Title:       item.Title,
				Description: item.Description,
				DateAdded:   item.DateAdded,
				FolderPath:  item.FolderPath,
			})
		}

		collections = append(collections, entities.CollectionPayload{
			Name:        name,
			Description: category.Description,
			Keywords:    category.Keywords,
			Links:       links,
			CategoryInfo: entities.CategoryInfo{
				OriginalName:    category.Name,
				ConfidenceScore: category.ConfidenceScore,
				BookmarkCount:   len(category.Bookmarks),
			},
		})
		totalBookmarks += len(category.Bookmarks)
	}

	session.Collections = collections
	session.Stage = entities.StageCompleted
	s.store.Put(session)

	return &FinalizeResult{
		SessionID:        sessionID,
		Collections:      collections,
		TotalCollections: len(collections),
		TotalBookmarks:   totalBookmarks,
		Stage:            entities.StageCompleted,
	}, nil
}

// SessionStatus is the coarse progress view of a session. The percentage is
// a fixed proxy per stage, not a measured completion ratio.
type SessionStatus struct {
	SessionID          string               `json:"session_id"`
	Stage              entities.ImportStage `json:"status"`
	ProgressPercentage int                  `json:"progress_percentage"`
	CurrentStep        string               `json:"current_step"`
	TotalBookmarks     int                  `json:"total_bookmarks"`
	ProcessedBookmarks int                  `json:"processed_bookmarks"`
	ErrorMessage       string               `json:"error_message,omitempty"`
}

var stageProgress = map[entities.ImportStage]int{
	entities.StageUploaded:  25,
	entities.StageParsing:   50,
	entities.StageAnalyzing: 75,
	entities.StageReady:     100,
	entities.StageCompleted: 100,
	entities.StageFailed:    0,
}

// Status reports the session's lifecycle stage and coarse progress.
func (s *Service) Status(sessionID string) (*SessionStatus, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	total := len(session.Bookmarks)
	processed := 0
	if session.Stage == entities.StageReady || session.Stage == entities.StageCompleted {
		processed = total
	}

	return &SessionStatus{
		SessionID:          sessionID,
		Stage:              session.Stage,
		ProgressPercentage: stageProgress[session.Stage],
		CurrentStep:        string(session.Stage),
		TotalBookmarks:     total,
		ProcessedBookmarks: processed,
		ErrorMessage:       session.ErrorMessage,
	}, nil
}

// Delete removes a session outright. Deletion is not a lifecycle
// transition; it works from any stage.
func (s *Service) Delete(sessionID string) error {
	if !s.store.Delete(sessionID) {
		return ErrSessionNotFound
	}
	return nil
}
