/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"fmt"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/store"
)

// Record is re-exported so common use of the adapter does not need a second
// import.
type Record = store.Record

// normalizeRecord converts one of the accepted single-value forms into a
// Record under the given key.
func normalizeRecord(key string, value any) (Record, error) {
	switch v := value.(type) {
	case string:
		return Record{Key: key, Content: v}, nil
	case Record:
		v.Key = key
		return v, nil
	case *Record:
		if v == nil {
			return Record{}, errors.NewInvalidArgumentError("value", "must not be nil")
		}
		rec := *v
		rec.Key = key
		return rec, nil
	case map[store.Field]any:
		return recordFromMap(key, v)
	case map[string]any:
		fields := make(map[store.Field]any, len(v))
		for k, fv := range v {
			fields[store.Field(k)] = fv
		}
		return recordFromMap(key, fields)
	case nil:
		return Record{}, errors.NewInvalidArgumentError("value", "must not be nil")
	default:
		return Record{}, errors.NewInvalidArgumentError("value",
			fmt.Sprintf("unsupported type %T", value))
	}
}

func recordFromMap(key string, fields map[store.Field]any) (Record, error) {
	rec := Record{Key: key}
	for f, v := range fields {
		switch f {
		case store.FieldContent:
			s, ok := v.(string)
			if !ok {
				return Record{}, fieldTypeError(f, "string", v)
			}
			rec.Content = s
		case store.FieldVector:
			vec, ok := v.([]float32)
			if !ok {
				return Record{}, fieldTypeError(f, "[]float32", v)
			}
			rec.Vector = vec
		case store.FieldAttributes:
			attrs, ok := v.(map[string]any)
			if !ok {
				return Record{}, fieldTypeError(f, "map[string]any", v)
			}
			rec.Attributes = attrs
		case store.FieldLocator:
			s, ok := v.(string)
			if !ok {
				return Record{}, fieldTypeError(f, "string", v)
			}
			rec.Locator = s
		case store.FieldExtra:
			b, ok := v.([]byte)
			if !ok {
				return Record{}, fieldTypeError(f, "[]byte", v)
			}
			rec.Extra = b
		default:
			return Record{}, errors.NewInvalidArgumentError("value",
				"unknown field "+string(f))
		}
	}
	return rec, nil
}

// normalizeBatch converts one of the accepted batch-value forms into a
// validated store.Batch aligned with keys.
func normalizeBatch(keys []string, value any) (store.Batch, error) {
	switch v := value.(type) {
	case store.Batch:
		if len(v.Keys) == 0 {
			v.Keys = keys
		} else if !equalKeys(v.Keys, keys) {
			return store.Batch{}, errors.NewInvalidArgumentError("value",
				"batch keys differ from the keys argument")
		}
		if err := v.Validate(); err != nil {
			return store.Batch{}, err
		}
		return v, nil
	case []string:
		if len(v) != len(keys) {
			return store.Batch{}, errors.NewInvalidArgumentError("value",
				"contents length must match keys")
		}
		b := store.Batch{Keys: keys, Contents: v}
		if err := b.Validate(); err != nil {
			return store.Batch{}, err
		}
		return b, nil
	case []Record:
		if len(v) != len(keys) {
			return store.Batch{}, errors.NewInvalidArgumentError("value",
				"records length must match keys")
		}
		records := make([]Record, len(v))
		for i, rec := range v {
			rec.Key = keys[i]
			records[i] = rec
		}
		b := store.BatchFromRecords(records)
		if err := b.Validate(); err != nil {
			return store.Batch{}, err
		}
		return b, nil
	case map[store.Field]any:
		return batchFromMap(keys, v)
	case map[string]any:
		fields := make(map[store.Field]any, len(v))
		for k, fv := range v {
			fields[store.Field(k)] = fv
		}
		return batchFromMap(keys, fields)
	case nil:
		return store.Batch{}, errors.NewInvalidArgumentError("value", "must not be nil")
	default:
		return store.Batch{}, errors.NewInvalidArgumentError("value",
			fmt.Sprintf("unsupported type %T", value))
	}
}

// batchFromMap builds a batch from the field→lists form. Scalars are
// accepted for single-key writes, so the one-record map form and the batch
// map form read the same way.
func batchFromMap(keys []string, fields map[store.Field]any) (store.Batch, error) {
	b := store.Batch{Keys: keys}
	for f, v := range fields {
		switch f {
		case store.FieldContent:
			s, err := asSlice[string](f, v, len(keys))
			if err != nil {
				return store.Batch{}, err
			}
			b.Contents = s
		case store.FieldVector:
			s, err := asSlice[[]float32](f, v, len(keys))
			if err != nil {
				return store.Batch{}, err
			}
			b.Vectors = s
		case store.FieldAttributes:
			s, err := asSlice[map[string]any](f, v, len(keys))
			if err != nil {
				return store.Batch{}, err
			}
			b.Attributes = s
		case store.FieldLocator:
			s, err := asSlice[string](f, v, len(keys))
			if err != nil {
				return store.Batch{}, err
			}
			b.Locators = s
		case store.FieldExtra:
			s, err := asSlice[[]byte](f, v, len(keys))
			if err != nil {
				return store.Batch{}, err
			}
			b.Extras = s
		default:
			return store.Batch{}, errors.NewInvalidArgumentError("value",
				"unknown field "+string(f))
		}
	}
	if err := b.Validate(); err != nil {
		return store.Batch{}, err
	}
	return b, nil
}

// asSlice accepts either a []T aligned with the key list or, for single-key
// writes, a bare T.
func asSlice[T any](f store.Field, v any, n int) ([]T, error) {
	if s, ok := v.([]T); ok {
		if len(s) != n {
			return nil, errors.NewInvalidArgumentError(string(f),
				"length must match keys")
		}
		return s, nil
	}
	if scalar, ok := v.(T); ok {
		if n != 1 {
			return nil, errors.NewInvalidArgumentError(string(f),
				"scalar value needs exactly one key")
		}
		return []T{scalar}, nil
	}
	return nil, fieldTypeError(f, fmt.Sprintf("%T or a slice of it", *new(T)), v)
}

func fieldTypeError(f store.Field, want string, got any) error {
	return errors.NewInvalidArgumentError(string(f),
		fmt.Sprintf("expected %s, got %T", want, got))
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
