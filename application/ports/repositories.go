// Package ports defines the persistence interfaces the application
// layer programs against. Implementations live under
// infrastructure/persistence.
package ports

import (
	"context"

	"bookshelf-backend/domain/catalog"
	"bookshelf-backend/domain/identity"
)

// AuthorRepository owns the AUTHOR# partition namespace
type AuthorRepository interface {
	// Save writes an author unconditionally; the id is caller-generated
	// and assumed unique
	Save(ctx context.Context, author *catalog.Author) error

	// FindByID returns nil when the author does not exist
	FindByID(ctx context.Context, id string) (*catalog.Author, error)

	// FindAll returns every author; order is store-defined
	FindAll(ctx context.Context) ([]catalog.Author, error)

	// Delete is idempotent
	Delete(ctx context.Context, id string) error

	// AuthorsWithBookCount joins authors against books by exact author
	// name; authors with no books report a zero count
	AuthorsWithBookCount(ctx context.Context) ([]catalog.AuthorBookCount, error)
}

// BookRepository owns the shared BOOK-METADATA partition
type BookRepository interface {
	// Save resolves the author name to an id and writes the book;
	// fails with a NotFound error when no author carries that name
	Save(ctx context.Context, book *catalog.Book) error

	// FindByID returns nil when the book does not exist
	FindByID(ctx context.Context, id string) (*catalog.Book, error)

	// FindAll returns every book in sort-key order
	FindAll(ctx context.Context) ([]catalog.Book, error)

	// FindLastFive returns up to five books, most recently created first
	FindLastFive(ctx context.Context) ([]catalog.Book, error)

	// Delete is a no-op when the book does not exist
	Delete(ctx context.Context, id string) error

	// AuthorStats groups book counts by denormalized author name
	AuthorStats(ctx context.Context) (map[string]int, error)
}

// UserRepository owns the USER partition
type UserRepository interface {
	// Create registers a user; fails with a Conflict error when the
	// email is already taken
	Create(ctx context.Context, email, passwordHash string) (*identity.User, error)

	// FindByEmail performs a strongly-consistent lookup; returns nil
	// when no account exists for the email
	FindByEmail(ctx context.Context, email string) (*identity.User, error)
}

// SessionStore owns the SESSION partition. Payloads are opaque bytes.
type SessionStore interface {
	// Read returns empty bytes for absent, expired, or undecodable
	// sessions, never an error for those cases
	Read(ctx context.Context, sessionID string) ([]byte, error)

	// Write persists the payload and refreshes the session's TTL
	Write(ctx context.Context, sessionID string, data []byte) error

	// Destroy is idempotent
	Destroy(ctx context.Context, sessionID string) error
}

// TokenRepository owns the CSRF-TOKEN partition
type TokenRepository interface {
	// Issue stores a token value under the given id with a fresh TTL
	Issue(ctx context.Context, tokenID, value string) error

	// Get returns the empty string for absent or expired tokens
	Get(ctx context.Context, tokenID string) (string, error)

	// Has reports whether a non-empty token value is stored
	Has(ctx context.Context, tokenID string) (bool, error)

	// Consume deletes the token and returns its pre-deletion value;
	// ok is false and nothing is deleted when the token is absent
	Consume(ctx context.Context, tokenID string) (value string, ok bool, err error)

	// Clear is a deliberate no-op; expiry is delegated to the store TTL
	Clear(ctx context.Context) error
}
