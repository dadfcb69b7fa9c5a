package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/pocketledger/alerts/internal/domain"
)

// UserDirectory reads the external users table for the contact fields the
// dispatcher needs. Profile management itself lives outside this service;
// this repo is read-only.
type UserDirectory struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserDirectory(client *dynamodb.Client, tableName string) *UserDirectory {
	return &UserDirectory{client: client, tableName: tableName}
}

func (r *UserDirectory) Lookup(ctx context.Context, userID string) (*domain.UserProfile, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, fmt.Errorf("lookup profile: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("profile for %s: %w", userID, domain.ErrNotFound)
	}
	var p domain.UserProfile
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &p, nil
}
