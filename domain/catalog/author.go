package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "bookshelf-backend/pkg/errors"
)

// Author is a catalogued book author.
// Books reference authors by name, not by id; two authors sharing a
// name are indistinguishable in aggregate counts.
type Author struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAuthor creates an author with a generated id
func NewAuthor(name string) (*Author, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("author name cannot be empty")
	}
	return &Author{
		ID:   uuid.NewString(),
		Name: name,
	}, nil
}

// AuthorBookCount pairs an author with the number of books
// attributed to its name
type AuthorBookCount struct {
	Author    Author `json:"author"`
	BookCount int    `json:"book_count"`
}
