// Package googlebooks provides a client for the Google Books volumes API.
package googlebooks

import "time"

const (
	// DefaultBaseURL is the public Google Books API root.
	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	// PageSize is the number of volumes requested per page.
	PageSize = 12

	// unknownTitle replaces a missing volume title.
	unknownTitle = "Unknown Title"
)

// Config holds configuration for the Google Books API client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // Base URL for the API (e.g., "https://www.googleapis.com/books/v1")
	Timeout time.Duration // HTTP request timeout
	RPS     float64       // Outbound requests per second
	Burst   int           // Requests allowed above RPS in a burst
}
