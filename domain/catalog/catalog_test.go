package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bookshelf-backend/pkg/errors"
)

func TestNewAuthor(t *testing.T) {
	t.Parallel()

	author, err := NewAuthor("  Jane Doe  ")
	require.NoError(t, err)
	assert.NotEmpty(t, author.ID)
	assert.Equal(t, "Jane Doe", author.Name)
	assert.True(t, author.CreatedAt.IsZero())
}

func TestNewAuthor_EmptyName(t *testing.T) {
	t.Parallel()

	_, err := NewAuthor("   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestNewBook(t *testing.T) {
	t.Parallel()

	book, err := NewBook("The Go Programming Language", "Jane Doe")
	require.NoError(t, err)
	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "The Go Programming Language", book.Title)
	assert.Equal(t, "Jane Doe", book.Author)
}

func TestNewBook_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewBook("", "Jane Doe")
	assert.True(t, apperrors.IsValidation(err))

	_, err = NewBook("Title", "  ")
	assert.True(t, apperrors.IsValidation(err))
}
