// Package dynamodb implements the single-table persistence layer.
//
// Every entity shares one table keyed by composite PK/SK strings;
// prefixes keep the entity namespaces from colliding. Items carrying
// an expiresAt attribute are swept by the table's native TTL.
package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	apperrors "bookshelf-backend/pkg/errors"
)

// Attribute names shared by every item in the table
const (
	attrPK        = "PK"
	attrSK        = "SK"
	attrExpiresAt = "expiresAt"
)

// Item is one row of the shared table
type Item map[string]types.AttributeValue

// DynamoAPI is the narrow slice of the SDK client the store uses,
// kept as an interface so tests can substitute a double
type DynamoAPI interface {
	GetItem(ctx context.Context, params *awsdynamodb.GetItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *awsdynamodb.PutItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *awsdynamodb.DeleteItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *awsdynamodb.QueryInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *awsdynamodb.ScanInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.ScanOutput, error)
}

// ScanFilter restricts a full-table scan. Exactly the shapes the
// repositories need: partition equality or prefix, plus an optional
// sort-key substring match.
type ScanFilter struct {
	PKEquals   string
	PKPrefix   string
	SKContains string
}

// Store is the key-value surface the repositories program against.
// Absence is a normal result, never an error; conditional-put failure
// surfaces as a Conflict error; any transport failure surfaces as an
// Unavailable error and is not retried here.
type Store interface {
	Get(ctx context.Context, pk, sk string, consistent bool) (Item, error)
	Put(ctx context.Context, item Item) error
	PutIfAbsent(ctx context.Context, item Item) error
	Delete(ctx context.Context, pk, sk string) error
	Query(ctx context.Context, pk, skPrefix string, limit int32) ([]Item, error)
	Scan(ctx context.Context, filter ScanFilter) ([]Item, error)
}

// Client implements Store against one DynamoDB table
type Client struct {
	api    DynamoAPI
	table  string
	logger *zap.Logger
}

// NewClient creates a store client for the given table
func NewClient(api DynamoAPI, table string, logger *zap.Logger) *Client {
	return &Client{
		api:    api,
		table:  table,
		logger: logger,
	}
}

func key(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: pk},
		attrSK: &types.AttributeValueMemberS{Value: sk},
	}
}

// Get performs a point read. A missing item yields (nil, nil).
func (c *Client) Get(ctx context.Context, pk, sk string, consistent bool) (Item, error) {
	out, err := c.api.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName:      aws.String(c.table),
		Key:            key(pk, sk),
		ConsistentRead: aws.Bool(consistent),
	})
	if err != nil {
		return nil, c.unavailable("get", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return out.Item, nil
}

// Put writes an item unconditionally, last write wins
func (c *Client) Put(ctx context.Context, item Item) error {
	_, err := c.api.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	})
	if err != nil {
		return c.unavailable("put", err)
	}
	return nil
}

// PutIfAbsent writes an item only when no item exists at its key.
// A lost race surfaces as a Conflict error.
func (c *Client) PutIfAbsent(ctx context.Context, item Item) error {
	cond := expression.AttributeNotExists(expression.Name(attrPK))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return apperrors.NewInternalError("failed to build condition expression").WithCause(err)
	}

	_, err = c.api.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName:                 aws.String(c.table),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return apperrors.NewConflictError("item already exists")
		}
		return c.unavailable("put", err)
	}
	return nil
}

// Delete removes an item; deleting an absent item succeeds
func (c *Client) Delete(ctx context.Context, pk, sk string) error {
	_, err := c.api.DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName: aws.String(c.table),
		Key:       key(pk, sk),
	})
	if err != nil {
		return c.unavailable("delete", err)
	}
	return nil
}

// Query reads one partition in sort-key ascending order, optionally
// narrowed to a sort-key prefix. A limit of 0 reads the whole
// partition; otherwise pagination stops once limit items are read.
func (c *Client) Query(ctx context.Context, pk, skPrefix string, limit int32) ([]Item, error) {
	keyCond := expression.Key(attrPK).Equal(expression.Value(pk))
	if skPrefix != "" {
		keyCond = keyCond.And(expression.Key(attrSK).BeginsWith(skPrefix))
	}
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build key condition").WithCause(err)
	}

	input := &awsdynamodb.QueryInput{
		TableName:                 aws.String(c.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	var items []Item
	for {
		out, err := c.api.Query(ctx, input)
		if err != nil {
			return nil, c.unavailable("query", err)
		}
		for _, it := range out.Items {
			items = append(items, Item(it))
		}
		if limit > 0 && int32(len(items)) >= limit {
			return items[:limit], nil
		}
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// Scan walks the whole table with a filter expression. Costly; only
// used where the key scheme cannot answer with a single-partition
// query, which is acceptable while the table stays small.
func (c *Client) Scan(ctx context.Context, filter ScanFilter) ([]Item, error) {
	cond, err := filter.condition()
	if err != nil {
		return nil, err
	}
	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build filter expression").WithCause(err)
	}

	input := &awsdynamodb.ScanInput{
		TableName:                 aws.String(c.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var items []Item
	for {
		out, err := c.api.Scan(ctx, input)
		if err != nil {
			return nil, c.unavailable("scan", err)
		}
		for _, it := range out.Items {
			items = append(items, Item(it))
		}
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (f ScanFilter) condition() (expression.ConditionBuilder, error) {
	var conds []expression.ConditionBuilder
	if f.PKEquals != "" {
		conds = append(conds, expression.Name(attrPK).Equal(expression.Value(f.PKEquals)))
	}
	if f.PKPrefix != "" {
		conds = append(conds, expression.Name(attrPK).BeginsWith(f.PKPrefix))
	}
	if f.SKContains != "" {
		conds = append(conds, expression.Name(attrSK).Contains(f.SKContains))
	}

	switch len(conds) {
	case 0:
		return expression.ConditionBuilder{}, apperrors.NewInternalError("scan filter is empty")
	case 1:
		return conds[0], nil
	default:
		return conds[0].And(conds[1], conds[2:]...), nil
	}
}

// unavailable logs the failed call and folds it into the single
// StoreUnavailable condition the callers see
func (c *Client) unavailable(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		c.logger.Error("DynamoDB call failed",
			zap.String("operation", op),
			zap.String("errorCode", apiErr.ErrorCode()),
			zap.Error(err),
		)
	} else {
		c.logger.Error("DynamoDB call failed",
			zap.String("operation", op),
			zap.Error(err),
		)
	}
	return apperrors.NewUnavailableError(op, err)
}
