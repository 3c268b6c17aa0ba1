/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"fmt"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/store"
)

// Collection presents one store group as a key-addressable container.
//
// Reads come in two arities and the shape of the answer follows the shape of
// the request, not the number of matches: Get takes one key and returns one
// flat record, GetBatch/GetAll take (or imply) a key list and return the
// normalized field→list Result.
//
// Writes are upserts with whole-record replacement: a write stores exactly
// the fields supplied and discards any previously stored fields it does not
// carry. Fields can never be merged across write calls.
type Collection struct {
	name   string
	group  store.Group
	keygen KeyGenerator
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Store exposes the underlying group for operations the adapter passes
// through untouched, such as similarity queries or wrapping with fieldmask.
func (c *Collection) Store() store.Group {
	return c.group
}

// Contains reports whether a record with the given key exists. The check is
// an identity-only read; no record payload is transferred.
func (c *Collection) Contains(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.NewInvalidArgumentError("key", "must not be empty")
	}
	res, err := c.group.Get(ctx, store.GetParams{
		Keys:    []string{key},
		Include: store.IncludeNone,
	})
	if err != nil {
		return false, fmt.Errorf("checking key %q: %w", key, err)
	}
	return res.Len() > 0, nil
}

// Keys returns all record keys, in store-reported order.
func (c *Collection) Keys(ctx context.Context) ([]string, error) {
	return c.group.Keys(ctx)
}

// Len returns the number of records in the collection.
func (c *Collection) Len(ctx context.Context) (int, error) {
	return c.group.Count(ctx)
}

// Get reads a single record with all payload fields populated. A missing
// key is ErrNotFound; this is the container-protocol "key error".
func (c *Collection) Get(ctx context.Context, key string) (*store.Record, error) {
	if key == "" {
		return nil, errors.NewInvalidArgumentError("key", "must not be empty")
	}
	res, err := c.group.Get(ctx, store.GetParams{
		Keys:    []string{key},
		Include: store.RecordFields,
	})
	if err != nil {
		return nil, fmt.Errorf("reading key %q: %w", key, err)
	}
	if res.Len() == 0 {
		return nil, errors.NewNotFoundError("record", key)
	}
	rec, err := res.RecordAt(0)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetBatch reads many records as a normalized Result with the default
// include. Keys that do not exist are silently dropped; an empty key list
// reads nothing and is not an error.
func (c *Collection) GetBatch(ctx context.Context, keys []string) (store.Result, error) {
	if len(keys) == 0 {
		return store.BuildResult(nil, store.DefaultGetInclude()), nil
	}
	return c.group.Get(ctx, store.GetParams{Keys: keys})
}

// GetAll reads every record in the collection with the default include.
func (c *Collection) GetAll(ctx context.Context) (store.Result, error) {
	return c.group.Get(ctx, store.GetParams{})
}

// Set writes one record under the given key. Accepted value forms:
//
//   - string: interpreted as content only
//   - store.Record or *store.Record: written as-is (key taken from the
//     argument, not the record)
//   - map[store.Field]any or map[string]any: any subset of the record
//     fields, scalar-valued
//
// Fields the value does not carry default to absent for the whole record.
func (c *Collection) Set(ctx context.Context, key string, value any) error {
	if key == "" {
		return errors.NewInvalidArgumentError("key", "must not be empty")
	}
	rec, err := normalizeRecord(key, value)
	if err != nil {
		return err
	}
	batch := store.BatchFromRecords([]Record{rec})
	if err := c.group.Upsert(ctx, batch); err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// SetBatch writes many records under the given keys in one store call.
// Accepted value forms:
//
//   - store.Batch: parallel-list form; its Keys must be empty or equal the
//     keys argument
//   - []string: contents only, aligned with keys
//   - []store.Record: aligned with keys, which override the record keys
//   - map[store.Field]any or map[string]any: each field holds either a
//     slice aligned with keys, or a scalar when exactly one key is given
//
// An empty key list is a no-op.
func (c *Collection) SetBatch(ctx context.Context, keys []string, value any) error {
	if len(keys) == 0 {
		return nil
	}
	batch, err := normalizeBatch(keys, value)
	if err != nil {
		return err
	}
	if err := c.group.Upsert(ctx, batch); err != nil {
		return fmt.Errorf("writing %d keys: %w", len(keys), err)
	}
	return nil
}

// Delete removes the given keys. Keys not present are ignored, so deletion
// is idempotent. An empty key list is a no-op.
func (c *Collection) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.group.Delete(ctx, keys); err != nil {
		return fmt.Errorf("deleting %d keys: %w", len(keys), err)
	}
	return nil
}

// Append writes one record under a freshly generated key and returns the
// key. The value forms are the same as Set's.
func (c *Collection) Append(ctx context.Context, value any) (string, error) {
	key := c.keygen()
	if err := c.Set(ctx, key, value); err != nil {
		return "", err
	}
	return key, nil
}

// Extend appends every value with a generated key, as one batch write.
// Returned keys align with the input values.
func (c *Collection) Extend(ctx context.Context, values ...any) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	records := make([]Record, len(values))
	keys := make([]string, len(values))
	for i, v := range values {
		keys[i] = c.keygen()
		rec, err := normalizeRecord(keys[i], v)
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	if err := c.group.Upsert(ctx, store.BatchFromRecords(records)); err != nil {
		return nil, fmt.Errorf("extending by %d records: %w", len(values), err)
	}
	return keys, nil
}

// MissingKeys returns the subset of keys not present in the collection,
// preserving input order. The check is a single identity-only batch read.
func (c *Collection) MissingKeys(ctx context.Context, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	res, err := c.group.Get(ctx, store.GetParams{
		Keys:    keys,
		Include: store.IncludeNone,
	})
	if err != nil {
		return nil, fmt.Errorf("checking %d keys: %w", len(keys), err)
	}
	found := make(map[string]struct{}, res.Len())
	for _, id := range res.IDs() {
		found[id] = struct{}{}
	}
	var missing []string
	for _, k := range keys {
		if _, ok := found[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing, nil
}

// AddMissing writes only the batch rows whose keys are not already present,
// leaving existing records untouched. One existence read plus at most one
// write, regardless of batch size. Returns the keys actually added.
func (c *Collection) AddMissing(ctx context.Context, batch store.Batch) ([]string, error) {
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	if batch.Len() == 0 {
		return nil, nil
	}
	missing, err := c.MissingKeys(ctx, batch.Keys)
	if err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		return nil, nil
	}
	missingSet := make(map[string]struct{}, len(missing))
	for _, k := range missing {
		missingSet[k] = struct{}{}
	}
	records := make([]Record, 0, len(missing))
	for i := range batch.Keys {
		if _, ok := missingSet[batch.Keys[i]]; ok {
			records = append(records, batch.Record(i))
		}
	}
	if err := c.group.Upsert(ctx, store.BatchFromRecords(records)); err != nil {
		return nil, fmt.Errorf("adding %d missing records: %w", len(records), err)
	}
	return missing, nil
}

// Query runs a similarity query against the underlying group, untouched by
// the adapter.
func (c *Collection) Query(ctx context.Context, params store.QueryParams) (store.Result, error) {
	return c.group.Query(ctx, params)
}
