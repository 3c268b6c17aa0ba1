/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package argbind

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/store"
)

// callSig mirrors func(x, y, z=42). Defaults fill zero-valued parameters,
// the usual Go convention.
type callSig struct {
	X int
	Y int
	Z int
}

func (c *callSig) ApplyDefaults() {
	if c.Z == 0 {
		c.Z = 42
	}
}

func TestBindPositionalAndNamed(t *testing.T) {
	// x positional, y named, z defaulted
	var c callSig
	require.NoError(t, Bind(&c, []any{1}, map[string]any{"y": 2}))
	assert.Equal(t, callSig{X: 1, Y: 2, Z: 42}, c)

	// z named, so the default stays out of it
	c = callSig{}
	require.NoError(t, Bind(&c, []any{1, 2}, map[string]any{"z": 4}))
	assert.Equal(t, callSig{X: 1, Y: 2, Z: 4}, c)

	// z positional
	c = callSig{}
	require.NoError(t, Bind(&c, []any{1, 2, 3}, nil))
	assert.Equal(t, callSig{X: 1, Y: 2, Z: 3}, c)
}

func TestBindUnknownName(t *testing.T) {
	var c callSig
	err := Bind(&c, nil, map[string]any{"w": 9})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), `"w"`)
}

func TestBindDuplicateAssignment(t *testing.T) {
	var c callSig
	err := Bind(&c, []any{1}, map[string]any{"x": 5})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestBindTooManyPositional(t *testing.T) {
	var c callSig
	err := Bind(&c, []any{1, 2, 3, 4}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestBindTypeMismatch(t *testing.T) {
	var c callSig
	err := Bind(&c, []any{"one"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), `"x"`)
}

func TestBindConvertibleSlice(t *testing.T) {
	// []string binds to an Include ([]Field) parameter
	var p store.GetParams
	require.NoError(t, Bind(&p, nil, map[string]any{
		"keys":    []string{"a", "b"},
		"include": []string{"locator"},
	}))
	assert.Equal(t, []string{"a", "b"}, p.Keys)
	assert.Equal(t, store.Include{store.FieldLocator}, p.Include)

	// Element kinds must match; []int does not convert to an include list
	p = store.GetParams{}
	err := Bind(&p, nil, map[string]any{"include": []int{1}})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestBindAppliesStructDefaults(t *testing.T) {
	// store.GetParams declares its default include via ApplyDefaults
	var p store.GetParams
	require.NoError(t, Bind(&p, nil, map[string]any{"keys": []string{"a"}}))
	assert.Equal(t, store.DefaultGetInclude(), p.Include)

	// An explicit empty include survives defaulting
	p = store.GetParams{}
	require.NoError(t, Bind(&p, nil, map[string]any{"include": store.IncludeNone}))
	assert.Equal(t, store.IncludeNone, p.Include)
}

func TestBindRunsValidate(t *testing.T) {
	// QueryParams.Validate rejects a query with neither text nor vector
	var p store.QueryParams
	err := Bind(&p, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	p = store.QueryParams{}
	require.NoError(t, Bind(&p, nil, map[string]any{"text": "split", "k": 3}))
	assert.Equal(t, 3, p.K)
}

func TestBindNilArgumentLeavesDefault(t *testing.T) {
	var c callSig
	require.NoError(t, Bind(&c, []any{1, 2, nil}, nil))
	assert.Equal(t, 42, c.Z)
}

func TestBindBadDst(t *testing.T) {
	assert.True(t, errors.IsInvalidArgument(Bind(nil, nil, nil)))
	assert.True(t, errors.IsInvalidArgument(Bind(42, nil, nil)))
	var c callSig
	assert.True(t, errors.IsInvalidArgument(Bind(c, nil, nil)))
}

func TestParamsOf(t *testing.T) {
	type sig struct {
		Keys    []string
		Include store.Include
		hidden  int //nolint:unused // unexported fields are not parameters
	}
	params, err := ParamsOf(reflect.TypeOf(sig{}))
	require.NoError(t, err)
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"keys", "include"}, names)

	_, err = ParamsOf(reflect.TypeOf(42))
	assert.True(t, errors.IsInvalidArgument(err))
}
