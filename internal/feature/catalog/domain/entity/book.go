// Package entity defines the domain entities for the catalog feature.
package entity

// CandidateBook is a catalog search result that can be saved to a library.
type CandidateBook struct {
	SourceID     string   `json:"sourceId"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	Description  string   `json:"description"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	PreviewURL   string   `json:"previewUrl"`
}

// SearchQuery is a normalized catalog search request.
type SearchQuery struct {
	Query     string
	Page      int
	PrintType string
	FreeOnly  bool
}

// SearchResult is one page of catalog results.
type SearchResult struct {
	Books      []CandidateBook `json:"books"`
	TotalItems int             `json:"totalItems"`
}
