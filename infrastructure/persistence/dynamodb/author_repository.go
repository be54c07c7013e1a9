package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"go.uber.org/zap"

	"bookshelf-backend/application/ports"
	"bookshelf-backend/domain/catalog"
	"bookshelf-backend/pkg/clock"
)

const (
	authorPKPrefix   = "AUTHOR#"
	authorMetadataSK = "METADATA"
)

// authorItem represents the table item for an author
type authorItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name"`
	CreatedAt string `dynamodbav:"createdAt"`
}

// AuthorRepository implements ports.AuthorRepository on the shared table.
// Authors live one per partition under AUTHOR#<id>, so listing them is
// a filtered table scan rather than a partition query.
type AuthorRepository struct {
	store  Store
	clock  clock.Clock
	logger *zap.Logger
}

// NewAuthorRepository creates an author repository
func NewAuthorRepository(store Store, clk clock.Clock, logger *zap.Logger) ports.AuthorRepository {
	return &AuthorRepository{
		store:  store,
		clock:  clk,
		logger: logger,
	}
}

func authorPK(id string) string {
	return authorPKPrefix + id
}

// Save writes an author unconditionally. The id is caller-generated
// and assumed unique, so there is no create-uniqueness check.
func (r *AuthorRepository) Save(ctx context.Context, author *catalog.Author) error {
	if author.CreatedAt.IsZero() {
		author.CreatedAt = r.clock.Now().UTC()
	}

	item := authorItem{
		PK:        authorPK(author.ID),
		SK:        authorMetadataSK,
		ID:        author.ID,
		Name:      author.Name,
		CreatedAt: author.CreatedAt.Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal author: %w", err)
	}

	if err := r.store.Put(ctx, av); err != nil {
		return err
	}

	r.logger.Debug("Author saved",
		zap.String("authorID", author.ID),
		zap.String("name", author.Name),
	)
	return nil
}

// FindByID returns nil when the author does not exist
func (r *AuthorRepository) FindByID(ctx context.Context, id string) (*catalog.Author, error) {
	item, err := r.store.Get(ctx, authorPK(id), authorMetadataSK, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var av authorItem
	if err := attributevalue.UnmarshalMap(item, &av); err != nil {
		return nil, fmt.Errorf("failed to unmarshal author: %w", err)
	}
	author := av.toAuthor(r.logger)
	return &author, nil
}

// FindAll lists every author via a filtered table scan; order is
// store-defined
func (r *AuthorRepository) FindAll(ctx context.Context) ([]catalog.Author, error) {
	items, err := r.store.Scan(ctx, ScanFilter{PKPrefix: authorPKPrefix})
	if err != nil {
		return nil, err
	}

	authors := make([]catalog.Author, 0, len(items))
	for _, item := range items {
		var av authorItem
		if err := attributevalue.UnmarshalMap(item, &av); err != nil {
			r.logger.Warn("Failed to unmarshal author item", zap.Error(err))
			continue
		}
		authors = append(authors, av.toAuthor(r.logger))
	}
	return authors, nil
}

// Delete removes an author; deleting an absent author succeeds
func (r *AuthorRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, authorPK(id), authorMetadataSK)
}

// AuthorsWithBookCount joins authors against the book partition by
// exact author-name equality. Authors sharing a name are
// indistinguishable here and their counts merge; an inherited
// limitation of the name-denormalized book schema.
func (r *AuthorRepository) AuthorsWithBookCount(ctx context.Context) ([]catalog.AuthorBookCount, error) {
	authors, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	bookItems, err := r.store.Query(ctx, bookPartitionPK, "", 0)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(authors))
	for _, item := range bookItems {
		var bv bookItem
		if err := attributevalue.UnmarshalMap(item, &bv); err != nil {
			r.logger.Warn("Failed to unmarshal book item", zap.Error(err))
			continue
		}
		counts[bv.Author]++
	}

	result := make([]catalog.AuthorBookCount, 0, len(authors))
	for _, author := range authors {
		result = append(result, catalog.AuthorBookCount{
			Author:    author,
			BookCount: counts[author.Name],
		})
	}
	return result, nil
}

func (av authorItem) toAuthor(logger *zap.Logger) catalog.Author {
	createdAt, err := time.Parse(time.RFC3339, av.CreatedAt)
	if err != nil {
		logger.Warn("Author has unparseable createdAt",
			zap.String("authorID", av.ID),
			zap.String("createdAt", av.CreatedAt),
		)
	}
	return catalog.Author{
		ID:        av.ID,
		Name:      av.Name,
		CreatedAt: createdAt,
	}
}
