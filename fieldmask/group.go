/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package fieldmask

import (
	"context"

	"github.com/suparena/docstore/store"
)

// Group wraps a store.Group so that Get and Query results carry only the
// identity field plus the effective include list, with every other field
// dropped instead of nil-valued. All other methods delegate untouched.
//
// This is the statically-typed counterpart of Proxy for the one interface
// this module always wraps; Proxy remains the general mechanism.
func Group(g store.Group) store.Group {
	return &maskedGroup{inner: g}
}

type maskedGroup struct {
	inner store.Group
}

func (m *maskedGroup) Name() string {
	return m.inner.Name()
}

func (m *maskedGroup) Count(ctx context.Context) (int, error) {
	return m.inner.Count(ctx)
}

func (m *maskedGroup) Keys(ctx context.Context) ([]string, error) {
	return m.inner.Keys(ctx)
}

func (m *maskedGroup) Get(ctx context.Context, params store.GetParams) (store.Result, error) {
	// Resolve defaults here so the filter and the callee agree on the
	// effective include
	params.ApplyDefaults()
	res, err := m.inner.Get(ctx, params)
	if err != nil {
		return nil, err
	}
	return Filter(res, params.Include), nil
}

func (m *maskedGroup) Upsert(ctx context.Context, batch store.Batch) error {
	return m.inner.Upsert(ctx, batch)
}

func (m *maskedGroup) Delete(ctx context.Context, keys []string) error {
	return m.inner.Delete(ctx, keys)
}

func (m *maskedGroup) Query(ctx context.Context, params store.QueryParams) (store.Result, error) {
	params.ApplyDefaults()
	res, err := m.inner.Query(ctx, params)
	if err != nil {
		return nil, err
	}
	return Filter(res, params.Include), nil
}
