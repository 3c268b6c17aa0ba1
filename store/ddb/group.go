/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	dserrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/store"
)

// DynamoDB batch API limits.
const (
	batchGetLimit   = 100
	batchWriteLimit = 25

	// unprocessed keys get this many extra BatchWriteItem rounds before the
	// write is reported as failed
	writeRetries = 3
)

type group struct {
	store *Store
	name  string
}

var _ store.Group = (*group)(nil)

func (g *group) Name() string { return g.name }

// recordKeyCondition matches every record item of the group, skipping the
// meta item.
func (g *group) recordKeyCondition() (string, map[string]types.AttributeValue) {
	keyCond := "PK = :pk AND begins_with(SK, :prefix)"
	exprVals := map[string]types.AttributeValue{
		":pk":     &types.AttributeValueMemberS{Value: groupPK(g.name)},
		":prefix": &types.AttributeValueMemberS{Value: recordKeyPrefix},
	}
	return keyCond, exprVals
}

// Count queries with Select COUNT so no items cross the wire.
func (g *group) Count(ctx context.Context) (int, error) {
	keyCond, exprVals := g.recordKeyCondition()

	total := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := g.store.client.Query(ctx, &sdk.QueryInput{
			TableName:                 &g.store.table,
			KeyConditionExpression:    &keyCond,
			ExpressionAttributeValues: exprVals,
			Select:                    types.SelectCount,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return 0, dserrors.NewStoreUnavailableError("Query", err)
		}
		total += int(out.Count)
		if out.LastEvaluatedKey == nil {
			return total, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// Keys returns every record key in the group, in sort-key order.
func (g *group) Keys(ctx context.Context) ([]string, error) {
	keyCond, exprVals := g.recordKeyCondition()
	projection := "#sk"
	names := map[string]string{"#sk": "SK"}

	var keys []string
	var startKey map[string]types.AttributeValue
	for {
		out, err := g.store.client.Query(ctx, &sdk.QueryInput{
			TableName:                 &g.store.table,
			KeyConditionExpression:    &keyCond,
			ExpressionAttributeValues: exprVals,
			ProjectionExpression:      &projection,
			ExpressionAttributeNames:  names,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, dserrors.NewStoreUnavailableError("Query", err)
		}
		for _, raw := range out.Items {
			if sk, ok := raw["SK"].(*types.AttributeValueMemberS); ok {
				keys = append(keys, keyFromSK(sk.Value))
			}
		}
		if out.LastEvaluatedKey == nil {
			return keys, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// Get reads the requested records with BatchGetItem, using a projection
// expression as the include filter. Missing keys are dropped; the result
// preserves request order.
func (g *group) Get(ctx context.Context, params store.GetParams) (store.Result, error) {
	params.ApplyDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	keys := params.Keys
	if keys == nil {
		all, err := g.Keys(ctx)
		if err != nil {
			return nil, err
		}
		keys = all
	}
	if len(keys) == 0 {
		return store.BuildResult(nil, params.Include), nil
	}

	projection, names, err := buildProjection(params.Include)
	if err != nil {
		return nil, err
	}

	found := make(map[string]store.Record, len(keys))
	for _, part := range chunk(keys, batchGetLimit) {
		reqKeys := make([]map[string]types.AttributeValue, 0, len(part))
		for _, k := range part {
			reqKeys = append(reqKeys, itemKey(g.name, k))
		}

		request := map[string]types.KeysAndAttributes{
			g.store.table: {
				Keys:                     reqKeys,
				ProjectionExpression:     &projection,
				ExpressionAttributeNames: names,
			},
		}
		for len(request) > 0 {
			out, err := g.store.client.BatchGetItem(ctx, &sdk.BatchGetItemInput{
				RequestItems: request,
			})
			if err != nil {
				return nil, dserrors.NewStoreUnavailableError("BatchGetItem", err)
			}
			for _, raw := range out.Responses[g.store.table] {
				var it item
				if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
					return nil, fmt.Errorf("failed to unmarshal item: %w", err)
				}
				found[it.RecordKey] = it.record()
			}
			request = out.UnprocessedKeys
		}
	}

	// Request order, missing keys dropped.
	records := make([]store.Record, 0, len(found))
	for _, k := range keys {
		if rec, ok := found[k]; ok {
			records = append(records, rec)
		}
	}
	return store.BuildResult(records, params.Include), nil
}

// Upsert writes the batch with BatchWriteItem, replacing whole records.
func (g *group) Upsert(ctx context.Context, batch store.Batch) error {
	if err := batch.Validate(); err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, batch.Len())
	for i := 0; i < batch.Len(); i++ {
		av, err := attributevalue.MarshalMap(newItem(g.name, batch.Record(i)))
		if err != nil {
			return fmt.Errorf("failed to marshal record %q: %w", batch.Keys[i], err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
	}
	return g.write(ctx, requests)
}

// Delete removes the given records. Absent keys are a no-op.
func (g *group) Delete(ctx context.Context, keys []string) error {
	requests := make([]types.WriteRequest, 0, len(keys))
	for _, k := range keys {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: itemKey(g.name, k)},
		})
	}
	return g.write(ctx, requests)
}

// write sends the requests in BatchWriteItem chunks, retrying unprocessed
// items a bounded number of times.
func (g *group) write(ctx context.Context, requests []types.WriteRequest) error {
	for _, part := range chunk(requests, batchWriteLimit) {
		pending := part
		for attempt := 0; len(pending) > 0; attempt++ {
			out, err := g.store.client.BatchWriteItem(ctx, &sdk.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					g.store.table: pending,
				},
			})
			if err != nil {
				return dserrors.NewStoreUnavailableError("BatchWriteItem", err)
			}
			pending = out.UnprocessedItems[g.store.table]
			if len(pending) > 0 && attempt >= writeRetries {
				return dserrors.NewWriteFailedError(g.name, requestKeys(pending), nil)
			}
		}
	}
	return nil
}

// requestKeys recovers record keys from write requests, for error reporting.
func requestKeys(requests []types.WriteRequest) []string {
	keys := make([]string, 0, len(requests))
	for _, req := range requests {
		var av map[string]types.AttributeValue
		switch {
		case req.PutRequest != nil:
			av = req.PutRequest.Item
		case req.DeleteRequest != nil:
			av = req.DeleteRequest.Key
		default:
			continue
		}
		if sk, ok := av["SK"].(*types.AttributeValueMemberS); ok {
			keys = append(keys, keyFromSK(sk.Value))
		}
	}
	return keys
}

// Query reports similarity search as unsupported; this backend has no
// vector index.
func (g *group) Query(ctx context.Context, params store.QueryParams) (store.Result, error) {
	return nil, fmt.Errorf("similarity query on a DynamoDB group: %w", dserrors.ErrNotSupported)
}
