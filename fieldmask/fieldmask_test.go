/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package fieldmask

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/store"
	"github.com/suparena/docstore/store/memstore"
)

func seededGroup(t *testing.T) store.Group {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	g, err := s.GetOrCreate(ctx, "test_inclusion_filter")
	require.NoError(t, err)
	require.NoError(t, g.Upsert(ctx, store.Batch{
		Keys:     []string{"apple", "banana"},
		Contents: []string{"crumble", "split"},
		Vectors:  [][]float32{{1, 0}, {0, 1}},
		Locators: []string{"https://example.com/apple", "https://example.com/banana"},
	}))
	return g
}

func resultKeys(t *testing.T, v any) []string {
	t.Helper()
	res, ok := v.(store.Result)
	require.True(t, ok, "expected store.Result, got %T", v)
	keys := make([]string, 0, len(res))
	for f := range res {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)
	return keys
}

func TestWrapDiscovery(t *testing.T) {
	g := seededGroup(t)
	p, err := Wrap(g)
	require.NoError(t, err)

	// Include-bearing methods are wrapped, the rest pass through
	assert.True(t, p.IsWrapped("Get"))
	assert.True(t, p.IsWrapped("Query"))
	assert.False(t, p.IsWrapped("Count"))
	assert.False(t, p.IsWrapped("Keys"))
	assert.False(t, p.IsWrapped("Upsert"))
	assert.False(t, p.IsWrapped("Delete"))
	assert.False(t, p.IsWrapped("Name"))

	assert.Same(t, g, p.Unwrap())
	assert.Len(t, p.Methods(), 7)
}

func TestCallFiltersDefaultInclude(t *testing.T) {
	ctx := context.Background()
	p, err := Wrap(seededGroup(t))
	require.NoError(t, err)

	// Raw result carries every field, nil or not
	raw, err := p.Unwrap().(store.Group).Get(ctx, store.GetParams{})
	require.NoError(t, err)
	assert.Len(t, raw, 6)

	// Wrapped call keeps only ids plus the default include
	out, err := p.Call(ctx, "Get", store.GetParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"attributes", "content", "ids"}, resultKeys(t, out))

	res := out.(store.Result)
	assert.Equal(t, []string{"apple", "banana"}, res.IDs())
	assert.Equal(t, []string{"crumble", "split"}, res[store.FieldContent])
}

func TestCallFiltersExplicitInclude(t *testing.T) {
	ctx := context.Background()
	p, err := Wrap(seededGroup(t))
	require.NoError(t, err)

	out, err := p.Call(ctx, "Get", store.GetParams{
		Include: store.Include{store.FieldLocator},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ids", "locator"}, resultKeys(t, out))

	res := out.(store.Result)
	assert.Equal(t,
		[]string{"https://example.com/apple", "https://example.com/banana"},
		res[store.FieldLocator])
}

func TestCallFiltersQuery(t *testing.T) {
	ctx := context.Background()
	p, err := Wrap(seededGroup(t))
	require.NoError(t, err)

	out, err := p.Call(ctx, "Query", store.QueryParams{
		Vector:  []float32{0, 1},
		K:       1,
		Include: store.Include{store.FieldContent, store.FieldDistances},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"content", "distances", "ids"}, resultKeys(t, out))

	res := out.(store.Result)
	assert.Equal(t, []string{"banana"}, res.IDs())
	assert.Equal(t, []string{"split"}, res[store.FieldContent])
}

func TestCallNamed(t *testing.T) {
	ctx := context.Background()
	p, err := Wrap(seededGroup(t))
	require.NoError(t, err)

	out, err := p.CallNamed(ctx, "Get", map[string]any{
		"keys":    []string{"apple"},
		"include": []string{"locator"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ids", "locator"}, resultKeys(t, out))

	// Unknown parameter names are binding errors
	_, err = p.CallNamed(ctx, "Get", map[string]any{"bogus": 1})
	assert.True(t, errors.IsInvalidArgument(err))

	// Methods without a parameter struct cannot take named arguments
	_, err = p.CallNamed(ctx, "Count", map[string]any{})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestCallPassthrough(t *testing.T) {
	ctx := context.Background()
	p, err := Wrap(seededGroup(t))
	require.NoError(t, err)

	out, err := p.Call(ctx, "Count")
	require.NoError(t, err)
	assert.Equal(t, 2, out)

	out, err = p.Call(ctx, "Keys")
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "banana"}, out)

	// Errors from the callee come back unfiltered
	_, err = p.Call(ctx, "Query", store.QueryParams{})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestCallArgumentChecks(t *testing.T) {
	ctx := context.Background()
	p, err := Wrap(seededGroup(t))
	require.NoError(t, err)

	_, err = p.Call(ctx, "NoSuchMethod")
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = p.Call(ctx, "Get", store.GetParams{}, "extra")
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = p.Call(ctx, "Get", 42)
	assert.True(t, errors.IsInvalidArgument(err))
}

// oddStore has an include-bearing method that does not return a mapping.
type oddStore struct{}

func (oddStore) Fetch(include store.Include) int { return 7 }

func (oddStore) Plain() string { return "ok" }

func TestUnsupportedResultShape(t *testing.T) {
	ctx := context.Background()
	p, err := Wrap(oddStore{})
	require.NoError(t, err)

	require.True(t, p.IsWrapped("Fetch"))
	_, err = p.Call(ctx, "Fetch", store.Include{store.FieldContent})
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedResultShape(err))

	// Non-include methods are unaffected by the contract violation
	out, err := p.Call(ctx, "Plain")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

// directStore takes its include list directly rather than in a struct.
type directStore struct{}

func (directStore) Read(include store.Include) store.Result {
	return store.Result{
		store.FieldIDs:     []string{"a"},
		store.FieldContent: []string{"ca"},
		store.FieldLocator: []string{"https://example.com/a"},
	}
}

func TestDirectIncludeParameter(t *testing.T) {
	ctx := context.Background()

	p, err := Wrap(directStore{},
		WithDefault("Read", store.Include{store.FieldContent}))
	require.NoError(t, err)

	// nil include takes the declared default
	out, err := p.Call(ctx, "Read", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"content", "ids"}, resultKeys(t, out))

	// explicit include wins
	out, err = p.Call(ctx, "Read", store.Include{store.FieldLocator})
	require.NoError(t, err)
	assert.Equal(t, []string{"ids", "locator"}, resultKeys(t, out))

	// without a declared default, nil means identity only
	p, err = Wrap(directStore{})
	require.NoError(t, err)
	out, err = p.Call(ctx, "Read", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"ids"}, resultKeys(t, out))
}

func TestFilter(t *testing.T) {
	res := store.Result{
		store.FieldIDs:        []string{"a"},
		store.FieldContent:    []string{"ca"},
		store.FieldVector:     nil,
		store.FieldAttributes: []map[string]any{nil},
	}
	got := Filter(res, store.Include{store.FieldContent})
	assert.Equal(t, store.Result{
		store.FieldIDs:     []string{"a"},
		store.FieldContent: []string{"ca"},
	}, got)

	// ids survive even an empty include
	got = Filter(res, store.IncludeNone)
	assert.Equal(t, store.Result{store.FieldIDs: []string{"a"}}, got)
}

func TestMaskedGroup(t *testing.T) {
	ctx := context.Background()
	g := Group(seededGroup(t))

	res, err := g.Get(ctx, store.GetParams{})
	require.NoError(t, err)
	assert.Len(t, res, 3)
	assert.Equal(t, []string{"apple", "banana"}, res.IDs())

	res, err = g.Get(ctx, store.GetParams{Include: store.Include{store.FieldLocator}})
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.NotNil(t, res[store.FieldLocator])

	// Pass-through methods behave exactly like the inner group
	n, err := g.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "test_inclusion_filter", g.Name())

	res, err = g.Query(ctx, store.QueryParams{Vector: []float32{1, 0}, K: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"apple"}, res.IDs())
	assert.Len(t, res, 4) // ids, content, attributes, distances
}
