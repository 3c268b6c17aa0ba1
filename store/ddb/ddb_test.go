/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/docstore/store"
)

func TestKeyLayout(t *testing.T) {
	assert.Equal(t, "GROUP#recipes", groupPK("recipes"))
	assert.Equal(t, "REC#cake", recordSK("cake"))
	assert.Equal(t, "cake", keyFromSK("REC#cake"))

	key := itemKey("recipes", "cake")
	assert.Equal(t, &types.AttributeValueMemberS{Value: "GROUP#recipes"}, key["PK"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "REC#cake"}, key["SK"])

	mk := metaKey("recipes")
	assert.Equal(t, &types.AttributeValueMemberS{Value: "META"}, mk["SK"])
}

func TestMetaItem(t *testing.T) {
	meta := newMetaItem("recipes")
	assert.Equal(t, "GROUP#recipes", meta.PK)
	assert.Equal(t, "META", meta.SK)
	assert.Equal(t, "GROUPS", meta.GSI1PK)
	assert.Equal(t, "recipes", meta.GSI1SK)
	assert.NotEmpty(t, meta.UpdatedAt)
}

func TestItemRoundTrip(t *testing.T) {
	rec := store.Record{
		Key:        "cake",
		Content:    "chocolate",
		Vector:     []float32{0.1, 0.2},
		Attributes: map[string]any{"author": "Alice"},
		Locator:    "https://example.com/cake",
		Extra:      []byte(`{"servings":8}`),
	}

	it := newItem("recipes", rec)
	assert.Equal(t, "GROUP#recipes", it.PK)
	assert.Equal(t, "REC#cake", it.SK)
	assert.Equal(t, rec, it.record())
}

func TestBuildProjection(t *testing.T) {
	expr, names, err := buildProjection(store.Include{store.FieldContent, store.FieldLocator})
	require.NoError(t, err)
	assert.Equal(t, "#pk, #sk, #rk, #f0, #f1", expr)
	assert.Equal(t, "Content", names["#f0"])
	assert.Equal(t, "Locator", names["#f1"])

	// Identity-only: projection still carries the key attributes
	expr, names, err = buildProjection(store.IncludeNone)
	require.NoError(t, err)
	assert.Equal(t, "#pk, #sk, #rk", expr)
	assert.Len(t, names, 3)

	// Listing ids is harmless: identity attributes are projected anyway
	expr, names, err = buildProjection(store.Include{store.FieldIDs, store.FieldContent})
	require.NoError(t, err)
	assert.Equal(t, "#pk, #sk, #rk, #f1", expr)
	assert.Equal(t, "Content", names["#f1"])

	_, _, err = buildProjection(store.Include{store.FieldDistances})
	assert.Error(t, err)
}

func TestChunk(t *testing.T) {
	xs := []int{1, 2, 3, 4, 5}

	parts := chunk(xs, 2)
	require.Len(t, parts, 3)
	assert.Equal(t, []int{1, 2}, parts[0])
	assert.Equal(t, []int{5}, parts[2])

	assert.Len(t, chunk(xs, 25), 1)
	assert.Nil(t, chunk([]int(nil), 25))
	assert.Nil(t, chunk(xs, 0))
}

func TestRequestKeys(t *testing.T) {
	requests := []types.WriteRequest{
		{PutRequest: &types.PutRequest{Item: map[string]types.AttributeValue{
			"SK": &types.AttributeValueMemberS{Value: "REC#cake"},
		}}},
		{DeleteRequest: &types.DeleteRequest{Key: itemKey("recipes", "pie")}},
		{},
	}
	assert.Equal(t, []string{"cake", "pie"}, requestKeys(requests))
}
