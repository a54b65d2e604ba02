// Package api defines the JSON envelope shared by every HTTP endpoint.
// Successful responses set Success and the resource fields; failures carry only Success=false and Message.
package api

import "time"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Fail builds an ErrorResponse with the given message.
func Fail(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}

// MessageResponse is a success body with only a message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OK builds a MessageResponse with the given message.
func OK(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}

// Book is the wire form of a library entry.
type Book struct {
	ID             string    `json:"id"`
	OwnerID        uint      `json:"ownerId"`
	SourceID       string    `json:"sourceId"`
	Title          string    `json:"title"`
	Authors        []string  `json:"authors"`
	Description    string    `json:"description"`
	ThumbnailURL   string    `json:"thumbnailUrl,omitempty"`
	PreviewURL     string    `json:"previewUrl,omitempty"`
	Status         string    `json:"status"`
	PersonalReview string    `json:"personalReview"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BookResponse wraps a single library entry.
type BookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Book    Book   `json:"book"`
}

// BooksResponse is one page of the caller's library.
type BooksResponse struct {
	Success     bool   `json:"success"`
	Books       []Book `json:"books"`
	TotalBooks  int64  `json:"totalBooks"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
}

// CatalogBook is a search result from the external catalog.
type CatalogBook struct {
	SourceID     string   `json:"sourceId"`
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	Description  string   `json:"description"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	PreviewURL   string   `json:"previewUrl"`
}

// SearchResponse is one page of catalog results.
type SearchResponse struct {
	Success     bool          `json:"success"`
	TotalItems  int           `json:"totalItems"`
	Books       []CatalogBook `json:"books"`
	CurrentPage int           `json:"currentPage"`
}

// User is the public view of an account. The password hash is never included.
type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// UserResponse is returned by the current-user endpoint.
type UserResponse struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}
