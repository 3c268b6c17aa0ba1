/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package store

import (
	"context"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/docstore/errors"
)

// Field names a record attribute in results, include lists, and batches.
type Field string

// Canonical fields. FieldIDs is the identity field and is always present in
// results; FieldDistances only appears in similarity query results.
const (
	FieldIDs        Field = "ids"
	FieldContent    Field = "content"
	FieldVector     Field = "vector"
	FieldAttributes Field = "attributes"
	FieldLocator    Field = "locator"
	FieldExtra      Field = "extra"
	FieldDistances  Field = "distances"
)

// RecordFields lists the per-record payload fields, in canonical order.
var RecordFields = []Field{FieldContent, FieldVector, FieldAttributes, FieldLocator, FieldExtra}

// Include is a list of fields a read-like operation should populate.
//
// A nil Include means "use the operation's default". An empty, non-nil
// Include (IncludeNone) means "identity only": the result carries keys and
// nothing else. This mirrors the arity rule for keys: nil and empty are
// different requests.
type Include []Field

// IncludeNone requests no payload fields at all. Existence checks use it to
// avoid transferring record bodies.
var IncludeNone = Include{}

// Resolve returns the include list to use: in itself when non-nil, otherwise
// the supplied default.
func (in Include) Resolve(def Include) Include {
	if in == nil {
		return def
	}
	return in
}

// Has reports whether f is in the include list.
func (in Include) Has(f Field) bool {
	for _, g := range in {
		if g == f {
			return true
		}
	}
	return false
}

// DefaultGetInclude is the include list applied when a read omits one.
func DefaultGetInclude() Include {
	return Include{FieldContent, FieldAttributes}
}

// DefaultQueryInclude is the include list applied when a similarity query
// omits one.
func DefaultQueryInclude() Include {
	return Include{FieldContent, FieldAttributes, FieldDistances}
}

// Record is a single addressable entity. All payload fields are optional;
// zero values mean absent.
type Record struct {
	Key        string
	Content    string
	Vector     []float32
	Attributes map[string]any
	Locator    string
	Extra      []byte
}

// Batch is the parallel-list write input consumed by Group.Upsert. Keys is
// required; each payload slice is either nil (field absent for the whole
// batch) or exactly len(Keys) long, positionally aligned with Keys.
type Batch struct {
	Keys       []string
	Contents   []string
	Vectors    [][]float32
	Attributes []map[string]any
	Locators   []string
	Extras     [][]byte
}

// Len returns the number of records in the batch.
func (b Batch) Len() int {
	return len(b.Keys)
}

// Validate checks key well-formedness and positional alignment of the
// payload slices. Locators, when present and non-empty, must be valid URIs.
func (b Batch) Validate() error {
	for _, k := range b.Keys {
		if k == "" {
			return errors.NewInvalidArgumentError("key", "must not be empty")
		}
	}
	n := len(b.Keys)
	if b.Contents != nil && len(b.Contents) != n {
		return errors.NewInvalidArgumentError("contents",
			"length must match keys")
	}
	if b.Vectors != nil && len(b.Vectors) != n {
		return errors.NewInvalidArgumentError("vectors",
			"length must match keys")
	}
	if b.Attributes != nil && len(b.Attributes) != n {
		return errors.NewInvalidArgumentError("attributes",
			"length must match keys")
	}
	if b.Locators != nil && len(b.Locators) != n {
		return errors.NewInvalidArgumentError("locators",
			"length must match keys")
	}
	if b.Extras != nil && len(b.Extras) != n {
		return errors.NewInvalidArgumentError("extras",
			"length must match keys")
	}
	for _, loc := range b.Locators {
		if loc != "" && !strfmt.Default.Validates("uri", loc) {
			return errors.NewInvalidArgumentError("locator",
				"must be a valid URI: "+loc)
		}
	}
	return nil
}

// Record returns the record at position i.
func (b Batch) Record(i int) Record {
	r := Record{Key: b.Keys[i]}
	if b.Contents != nil {
		r.Content = b.Contents[i]
	}
	if b.Vectors != nil {
		r.Vector = b.Vectors[i]
	}
	if b.Attributes != nil {
		r.Attributes = b.Attributes[i]
	}
	if b.Locators != nil {
		r.Locator = b.Locators[i]
	}
	if b.Extras != nil {
		r.Extra = b.Extras[i]
	}
	return r
}

// BatchFromRecords builds a Batch from individual records. A payload slice is
// materialized only if at least one record carries that field, so fully
// absent fields stay nil in the batch.
func BatchFromRecords(records []Record) Batch {
	b := Batch{Keys: make([]string, len(records))}
	var hasContent, hasVector, hasAttrs, hasLocator, hasExtra bool
	for _, r := range records {
		hasContent = hasContent || r.Content != ""
		hasVector = hasVector || r.Vector != nil
		hasAttrs = hasAttrs || r.Attributes != nil
		hasLocator = hasLocator || r.Locator != ""
		hasExtra = hasExtra || r.Extra != nil
	}
	if hasContent {
		b.Contents = make([]string, len(records))
	}
	if hasVector {
		b.Vectors = make([][]float32, len(records))
	}
	if hasAttrs {
		b.Attributes = make([]map[string]any, len(records))
	}
	if hasLocator {
		b.Locators = make([]string, len(records))
	}
	if hasExtra {
		b.Extras = make([][]byte, len(records))
	}
	for i, r := range records {
		b.Keys[i] = r.Key
		if hasContent {
			b.Contents[i] = r.Content
		}
		if hasVector {
			b.Vectors[i] = r.Vector
		}
		if hasAttrs {
			b.Attributes[i] = r.Attributes
		}
		if hasLocator {
			b.Locators[i] = r.Locator
		}
		if hasExtra {
			b.Extras[i] = r.Extra
		}
	}
	return b
}

// Registry is the top-level store contract: named group lookup, creation,
// iteration, and deletion.
type Registry interface {
	// GetOrCreate returns the named group, creating an empty one if absent.
	GetOrCreate(ctx context.Context, name string) (Group, error)

	// Get returns the named group, or ErrNotFound if it does not exist.
	Get(ctx context.Context, name string) (Group, error)

	// List returns all group names, in store-reported order.
	List(ctx context.Context) ([]string, error)

	// Delete removes a group and all of its records. Deleting an absent
	// group is ErrNotFound.
	Delete(ctx context.Context, name string) error
}

// Group is the batch-shaped per-group contract. Reads take key lists and
// include lists; writes take parallel-list batches.
type Group interface {
	// Name returns the group name.
	Name() string

	// Count returns the number of records in the group.
	Count(ctx context.Context) (int, error)

	// Keys returns all record keys, in store-reported order.
	Keys(ctx context.Context) ([]string, error)

	// Get reads records. A nil params.Keys means all records; an empty,
	// non-nil list reads nothing. Keys that do not exist are silently
	// dropped from the result.
	Get(ctx context.Context, params GetParams) (Result, error)

	// Upsert writes the batch. Existing records are replaced whole: fields
	// not carried by the batch are discarded, not merged.
	Upsert(ctx context.Context, batch Batch) error

	// Delete removes the given keys. Absent keys are ignored.
	Delete(ctx context.Context, keys []string) error

	// Query runs a similarity query. Backends without similarity support
	// return ErrNotSupported.
	Query(ctx context.Context, params QueryParams) (Result, error)
}
