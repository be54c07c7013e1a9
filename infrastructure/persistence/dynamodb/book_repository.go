package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"

	"bookshelf-backend/application/ports"
	"bookshelf-backend/domain/catalog"
	"bookshelf-backend/pkg/clock"
	apperrors "bookshelf-backend/pkg/errors"
)

// All books share one partition. Partition-level throughput and item
// limits therefore apply to the whole catalog, which is acceptable
// while it stays small.
const (
	bookPartitionPK = "BOOK-METADATA"
	bookSKMarker    = "#BOOK#"
)

// bookItem represents the table item for a book. The sort key embeds
// the owning author's id, but the author attribute carries the
// author's display name, not the id.
type bookItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	ID        string `dynamodbav:"id"`
	Title     string `dynamodbav:"title"`
	Author    string `dynamodbav:"author"`
	CreatedAt string `dynamodbav:"createdAt"`
}

// BookRepository implements ports.BookRepository on the shared table
type BookRepository struct {
	store  Store
	author ports.AuthorRepository
	clock  clock.Clock
	logger *zap.Logger

	// recentScanLimit bounds the page FindLastFive reads before the
	// in-memory sort. Recency is only guaranteed while the partition
	// holds fewer items than this cap.
	recentScanLimit int32
}

// NewBookRepository creates a book repository. Author resolution goes
// through the author repository so a future name index can replace
// the scan without touching callers.
func NewBookRepository(store Store, author ports.AuthorRepository, clk clock.Clock, recentScanLimit int32, logger *zap.Logger) ports.BookRepository {
	return &BookRepository{
		store:           store,
		author:          author,
		clock:           clk,
		logger:          logger,
		recentScanLimit: recentScanLimit,
	}
}

func bookSK(authorID, bookID string) string {
	return authorPKPrefix + authorID + bookSKMarker + bookID
}

// Save resolves the book's author name to an id and writes the book
// under AUTHOR#<authorId>#BOOK#<id>
func (r *BookRepository) Save(ctx context.Context, book *catalog.Book) error {
	authorID, err := r.resolveAuthorID(ctx, book.Author)
	if err != nil {
		return err
	}

	if book.CreatedAt.IsZero() {
		book.CreatedAt = r.clock.Now().UTC()
	}

	item := bookItem{
		PK:        bookPartitionPK,
		SK:        bookSK(authorID, book.ID),
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		CreatedAt: book.CreatedAt.Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal book: %w", err)
	}

	if err := r.store.Put(ctx, av); err != nil {
		return err
	}

	r.logger.Debug("Book saved",
		zap.String("bookID", book.ID),
		zap.String("author", book.Author),
		zap.String("SK", item.SK),
	)
	return nil
}

// resolveAuthorID maps an author name to its id by scanning all
// authors and matching on exact name equality. O(authors); the single
// seam to replace with a name-keyed index later.
func (r *BookRepository) resolveAuthorID(ctx context.Context, name string) (string, error) {
	authors, err := r.author.FindAll(ctx)
	if err != nil {
		return "", err
	}
	for _, author := range authors {
		if author.Name == name {
			return author.ID, nil
		}
	}
	return "", apperrors.NewNotFoundError("author").WithDetails(map[string]interface{}{
		"name": name,
	})
}

// FindByID returns nil when the book does not exist
func (r *BookRepository) FindByID(ctx context.Context, id string) (*catalog.Book, error) {
	item, err := r.findItemByID(ctx, id)
	if err != nil || item == nil {
		return nil, err
	}
	book := item.toBook(r.logger)
	return &book, nil
}

// findItemByID recovers the full item, including the sort key with
// its author-id segment, which is not derivable from the book id
// alone. Scan-with-contains because the SK's author segment is
// unknown without a prior lookup.
func (r *BookRepository) findItemByID(ctx context.Context, id string) (*bookItem, error) {
	items, err := r.store.Scan(ctx, ScanFilter{
		PKEquals:   bookPartitionPK,
		SKContains: bookSKMarker + id,
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	var av bookItem
	if err := attributevalue.UnmarshalMap(items[0], &av); err != nil {
		return nil, fmt.Errorf("failed to unmarshal book: %w", err)
	}
	return &av, nil
}

// FindAll returns every book in sort-key order
func (r *BookRepository) FindAll(ctx context.Context) ([]catalog.Book, error) {
	items, err := r.store.Query(ctx, bookPartitionPK, "", 0)
	if err != nil {
		return nil, err
	}
	return r.toBooks(items), nil
}

// FindLastFive reads up to recentScanLimit items from the book
// partition, sorts them by createdAt descending in memory and takes
// the top five
func (r *BookRepository) FindLastFive(ctx context.Context) ([]catalog.Book, error) {
	items, err := r.store.Query(ctx, bookPartitionPK, "", r.recentScanLimit)
	if err != nil {
		return nil, err
	}

	books := r.toBooks(items)
	sort.Slice(books, func(i, j int) bool {
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})
	if len(books) > 5 {
		books = books[:5]
	}
	return books, nil
}

// Delete re-resolves the full sort key via the id lookup, then
// deletes that exact item. A no-op when the book does not exist.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	item, err := r.findItemByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}
	return r.store.Delete(ctx, item.PK, item.SK)
}

// AuthorStats groups the book partition by denormalized author name
func (r *BookRepository) AuthorStats(ctx context.Context) (map[string]int, error) {
	items, err := r.store.Query(ctx, bookPartitionPK, "", 0)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int)
	for _, item := range items {
		var av bookItem
		if err := attributevalue.UnmarshalMap(item, &av); err != nil {
			r.logger.Warn("Failed to unmarshal book item", zap.Error(err))
			continue
		}
		stats[av.Author]++
	}
	return stats, nil
}

func (r *BookRepository) toBooks(items []Item) []catalog.Book {
	books := make([]catalog.Book, 0, len(items))
	for _, item := range items {
		var av bookItem
		if err := attributevalue.UnmarshalMap(item, &av); err != nil {
			r.logger.Warn("Failed to unmarshal book item", zap.Error(err))
			continue
		}
		books = append(books, av.toBook(r.logger))
	}
	return books
}

func (av bookItem) toBook(logger *zap.Logger) catalog.Book {
	createdAt, err := time.Parse(time.RFC3339, av.CreatedAt)
	if err != nil {
		logger.Warn("Book has unparseable createdAt",
			zap.String("bookID", av.ID),
			zap.String("createdAt", av.CreatedAt),
		)
	}
	return catalog.Book{
		ID:        av.ID,
		Title:     av.Title,
		Author:    av.Author,
		CreatedAt: createdAt,
	}
}
