/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package store

import (
	"github.com/suparena/docstore/errors"
)

// Result is the normalized read result: a field→value mapping in which
// FieldIDs maps to the []string of keys actually found, and every per-record
// field maps to either nil (not included, or absent as a whole) or a slice
// positionally aligned with the keys.
//
// Value types by field:
//
//	ids        []string
//	content    []string
//	vector     [][]float32
//	attributes []map[string]any
//	locator    []string
//	extra      [][]byte
//	distances  []float32
type Result map[Field]any

// IDs returns the keys of the result, never nil.
func (r Result) IDs() []string {
	if ids, ok := r[FieldIDs].([]string); ok {
		return ids
	}
	return []string{}
}

// Len returns the number of records in the result.
func (r Result) Len() int {
	return len(r.IDs())
}

// RecordAt returns the record at position i in flat, single-record form.
// Fields mapped to nil in the result stay zero in the record.
func (r Result) RecordAt(i int) (Record, error) {
	ids := r.IDs()
	if i < 0 || i >= len(ids) {
		return Record{}, errors.NewInvalidArgumentError("index", "out of range")
	}
	rec := Record{Key: ids[i]}
	if v, ok := r[FieldContent].([]string); ok {
		rec.Content = v[i]
	}
	if v, ok := r[FieldVector].([][]float32); ok {
		rec.Vector = v[i]
	}
	if v, ok := r[FieldAttributes].([]map[string]any); ok {
		rec.Attributes = v[i]
	}
	if v, ok := r[FieldLocator].([]string); ok {
		rec.Locator = v[i]
	}
	if v, ok := r[FieldExtra].([][]byte); ok {
		rec.Extra = v[i]
	}
	return rec, nil
}

// BuildResult assembles a Result from found records. Fields named in include
// get aligned slices (with zero elements where a record lacks the field);
// all other per-record fields are present with nil values. Include here must
// already be resolved; a nil include behaves like IncludeNone.
func BuildResult(records []Record, include Include) Result {
	res := Result{
		FieldIDs:        make([]string, len(records)),
		FieldContent:    nil,
		FieldVector:     nil,
		FieldAttributes: nil,
		FieldLocator:    nil,
		FieldExtra:      nil,
	}
	var (
		contents   []string
		vectors    [][]float32
		attributes []map[string]any
		locators   []string
		extras     [][]byte
	)
	if include.Has(FieldContent) {
		contents = make([]string, len(records))
		res[FieldContent] = contents
	}
	if include.Has(FieldVector) {
		vectors = make([][]float32, len(records))
		res[FieldVector] = vectors
	}
	if include.Has(FieldAttributes) {
		attributes = make([]map[string]any, len(records))
		res[FieldAttributes] = attributes
	}
	if include.Has(FieldLocator) {
		locators = make([]string, len(records))
		res[FieldLocator] = locators
	}
	if include.Has(FieldExtra) {
		extras = make([][]byte, len(records))
		res[FieldExtra] = extras
	}
	for i, rec := range records {
		res[FieldIDs].([]string)[i] = rec.Key
		if contents != nil {
			contents[i] = rec.Content
		}
		if vectors != nil {
			vectors[i] = rec.Vector
		}
		if attributes != nil {
			attributes[i] = rec.Attributes
		}
		if locators != nil {
			locators[i] = rec.Locator
		}
		if extras != nil {
			extras[i] = rec.Extra
		}
	}
	return res
}
