/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	dserrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/store"
)

// Store implements store.Registry on a single DynamoDB table.
type Store struct {
	client *sdk.Client
	table  string
}

var _ store.Registry = (*Store)(nil)

// NewClient initializes a DynamoDB client using static AWS credentials.
func NewClient(awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// New constructs a Store backed by the named DynamoDB table.
func New(awsAccessKey, awsSecretKey, awsRegion, tableName string) (*Store, error) {
	client, err := NewClient(awsAccessKey, awsSecretKey, awsRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return NewFromClient(client, tableName), nil
}

// NewFromClient wraps an existing DynamoDB client. Useful when the caller
// manages AWS configuration itself.
func NewFromClient(client *sdk.Client, tableName string) *Store {
	return &Store{client: client, table: tableName}
}

// GetOrCreate returns the named group, writing its meta item if absent.
func (s *Store) GetOrCreate(ctx context.Context, name string) (store.Group, error) {
	meta := newMetaItem(name)
	av, err := attributevalue.MarshalMap(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal group meta: %w", err)
	}

	cond := "attribute_not_exists(PK)"
	_, err = s.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:           &s.table,
		Item:                av,
		ConditionExpression: &cond,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if !errors.As(err, &cfe) {
			return nil, dserrors.NewStoreUnavailableError("PutItem", err)
		}
		// Meta item already there: the group exists.
	}

	return &group{store: s, name: name}, nil
}

// Get returns the named group, or a not-found error when its meta item is
// missing.
func (s *Store) Get(ctx context.Context, name string) (store.Group, error) {
	out, err := s.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &s.table,
		Key:       metaKey(name),
	})
	if err != nil {
		return nil, dserrors.NewStoreUnavailableError("GetItem", err)
	}
	if out.Item == nil {
		return nil, dserrors.NewNotFoundError("group", name)
	}
	return &group{store: s, name: name}, nil
}

// List returns the names of all groups, via the group index.
func (s *Store) List(ctx context.Context) ([]string, error) {
	keyCond := "GSI1PK = :pk"
	exprVals := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: groupIndexPK},
	}

	var names []string
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Query(ctx, &sdk.QueryInput{
			TableName:                 &s.table,
			IndexName:                 aws.String(groupIndexName),
			KeyConditionExpression:    &keyCond,
			ExpressionAttributeValues: exprVals,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, dserrors.NewStoreUnavailableError("Query", err)
		}
		for _, raw := range out.Items {
			var meta metaItem
			if err := attributevalue.UnmarshalMap(raw, &meta); err != nil {
				return nil, fmt.Errorf("failed to unmarshal group meta: %w", err)
			}
			names = append(names, meta.Name)
		}
		if out.LastEvaluatedKey == nil {
			return names, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// Delete removes the named group and every record it holds.
func (s *Store) Delete(ctx context.Context, name string) error {
	g, err := s.Get(ctx, name)
	if err != nil {
		return err
	}

	keys, err := g.Keys(ctx)
	if err != nil {
		return err
	}
	if err := g.Delete(ctx, keys); err != nil {
		return err
	}

	_, err = s.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &s.table,
		Key:       metaKey(name),
	})
	if err != nil {
		return dserrors.NewStoreUnavailableError("DeleteItem", err)
	}
	return nil
}
