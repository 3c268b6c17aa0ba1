/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/store"
	"github.com/suparena/docstore/store/memstore"
)

func TestClientCreateOnAccess(t *testing.T) {
	ctx := context.Background()
	client := NewClient(memstore.New())

	names, err := client.Names(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	// Just looking up a collection creates it
	col, err := client.Collection(ctx, "docstore_test")
	require.NoError(t, err)
	assert.Equal(t, "docstore_test", col.Name())

	names, err = client.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"docstore_test"}, names)

	keys, err := col.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestClientWithoutAutoCreate(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	client := NewClient(mem, WithoutAutoCreate())

	_, err := client.Collection(ctx, "absent")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	// Once the group exists in the store, lookup succeeds
	_, err = mem.GetOrCreate(ctx, "present")
	require.NoError(t, err)
	col, err := client.Collection(ctx, "present")
	require.NoError(t, err)
	assert.Equal(t, "present", col.Name())
}

func TestClientDelete(t *testing.T) {
	ctx := context.Background()
	client := NewClient(memstore.New())

	col, err := client.Collection(ctx, "doomed")
	require.NoError(t, err)
	require.NoError(t, col.Set(ctx, "a", "ca"))

	require.NoError(t, client.Delete(ctx, "doomed"))
	names, err := client.Names(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	// The store decides whether deleting an absent group fails; memstore
	// reports NotFound
	err = client.Delete(ctx, "doomed")
	assert.True(t, errors.IsNotFound(err))

	// Accessing the name again starts from an empty collection
	col, err = client.Collection(ctx, "doomed")
	require.NoError(t, err)
	n, err := col.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestClientNameValidation(t *testing.T) {
	ctx := context.Background()
	client := NewClient(memstore.New())

	for _, name := range []string{"", "   ", "\t"} {
		_, err := client.Collection(ctx, name)
		assert.True(t, errors.IsInvalidArgument(err), "name %q", name)

		err = client.Delete(ctx, name)
		assert.True(t, errors.IsInvalidArgument(err), "name %q", name)
	}
}

func TestClientCollectionCaching(t *testing.T) {
	ctx := context.Background()
	client := NewClient(memstore.New())

	col1, err := client.Collection(ctx, "same")
	require.NoError(t, err)
	col2, err := client.Collection(ctx, "same")
	require.NoError(t, err)
	assert.Same(t, col1, col2)
}

func TestClientCollections(t *testing.T) {
	ctx := context.Background()
	client := NewClient(memstore.New())

	cols, err := client.Collections(ctx, "a", "b", "c")
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "a", cols[0].Name())
	assert.Equal(t, "c", cols[2].Name())

	names, err := client.Names(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, names)

	_, err = client.Collections(ctx, "ok", " ")
	assert.Error(t, err)
}

func TestCollectionQueryPassthrough(t *testing.T) {
	ctx := context.Background()
	client := NewClient(memstore.New())
	col, err := client.Collection(ctx, "vectors")
	require.NoError(t, err)

	require.NoError(t, col.SetBatch(ctx, []string{"a", "b"}, store.Batch{
		Contents: []string{"ca", "cb"},
		Vectors:  [][]float32{{1, 0}, {0, 1}},
	}))

	res, err := col.Query(ctx, store.QueryParams{Vector: []float32{1, 0}, K: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, res.IDs())
	assert.NotNil(t, res[store.FieldDistances])
}
