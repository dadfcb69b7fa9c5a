package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pocketledger/alerts/internal/domain"
)

// PatternRepo provides typed DynamoDB operations for the spending_patterns
// table, keyed by (user_id, category_id).
type PatternRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPatternRepo(client *dynamodb.Client, tableName string) *PatternRepo {
	return &PatternRepo{client: client, tableName: tableName}
}

func (r *PatternRepo) Get(ctx context.Context, userID, categoryID string) (*domain.SpendingPattern, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "category_id", categoryID),
	})
	if err != nil {
		return nil, fmt.Errorf("get pattern: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("pattern %s/%s: %w", userID, categoryID, domain.ErrNotFound)
	}
	var p domain.SpendingPattern
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal pattern: %w", err)
	}
	return &p, nil
}

// Create writes the first pattern record for a key. Fails with ErrConflict
// if a concurrent writer created one first, so the caller can re-read and
// retry as a regular update.
func (r *PatternRepo) Create(ctx context.Context, p *domain.SpendingPattern) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal pattern: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("pattern %s/%s already exists: %w", p.UserID, p.CategoryID, domain.ErrConflict)
	}
	return err
}

// UpdateVersioned rewrites the statistical fields only if the stored version
// still matches p.Version, then bumps the version. A lost race surfaces as
// ErrConflict so the tracker can re-read and recompute.
func (r *PatternRepo) UpdateVersioned(ctx context.Context, p *domain.SpendingPattern) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldAverageAmount:     p.AverageAmount,
		fieldStandardDeviation: p.StandardDeviation,
		fieldTransactionCount:  p.TransactionCount,
		fieldVersion:           p.Version + 1,
		fieldLastUpdated:       p.LastUpdated.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	expected, err := attributevalue.Marshal(p.Version)
	if err != nil {
		return fmt.Errorf("marshal version: %w", err)
	}
	ue.Values[":expected"] = expected

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey("user_id", p.UserID, "category_id", p.CategoryID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("version = :expected"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("pattern %s/%s version %d is stale: %w", p.UserID, p.CategoryID, p.Version, domain.ErrConflict)
	}
	return err
}

// Delete removes the pattern record. Used by the explicit reset operation only.
func (r *PatternRepo) Delete(ctx context.Context, userID, categoryID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "category_id", categoryID),
	})
	return err
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
