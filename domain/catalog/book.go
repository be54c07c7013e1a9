package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "bookshelf-backend/pkg/errors"
)

// Book is a catalogued book. Author holds the author's display name;
// the owning author's id only appears in the storage key.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBook creates a book with a generated id
func NewBook(title, authorName string) (*Book, error) {
	title = strings.TrimSpace(title)
	authorName = strings.TrimSpace(authorName)
	if title == "" {
		return nil, apperrors.NewValidationError("book title cannot be empty")
	}
	if authorName == "" {
		return nil, apperrors.NewValidationError("book author cannot be empty")
	}
	return &Book{
		ID:     uuid.NewString(),
		Title:  title,
		Author: authorName,
	}, nil
}
