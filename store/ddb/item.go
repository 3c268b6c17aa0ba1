/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"

	"github.com/suparena/docstore/store"
)

// Single-table layout. Every record of a group shares the group's partition
// key; the group itself is a meta item under the same partition, mirrored
// onto GSI1 so groups can be listed without a scan.
const (
	groupKeyPrefix  = "GROUP#"
	recordKeyPrefix = "REC#"
	metaSortKey     = "META"

	groupIndexName = "GSI1"
	groupIndexPK   = "GROUPS"
)

// item is the DynamoDB shape of a single record.
type item struct {
	PK         string         `dynamodbav:"PK"`
	SK         string         `dynamodbav:"SK"`
	RecordKey  string         `dynamodbav:"RecordKey"`
	Content    string         `dynamodbav:"Content,omitempty"`
	Vector     []float32      `dynamodbav:"Vector,omitempty"`
	Attributes map[string]any `dynamodbav:"Attributes,omitempty"`
	Locator    string         `dynamodbav:"Locator,omitempty"`
	Extra      []byte         `dynamodbav:"Extra,omitempty"`
	UpdatedAt  string         `dynamodbav:"UpdatedAt,omitempty"`
}

// metaItem marks a group's existence and mirrors its name onto GSI1.
type metaItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	GSI1PK    string `dynamodbav:"GSI1PK"`
	GSI1SK    string `dynamodbav:"GSI1SK"`
	Name      string `dynamodbav:"Name"`
	UpdatedAt string `dynamodbav:"UpdatedAt,omitempty"`
}

func groupPK(name string) string { return groupKeyPrefix + name }
func recordSK(key string) string { return recordKeyPrefix + key }
func keyFromSK(sk string) string { return strings.TrimPrefix(sk, recordKeyPrefix) }
func timestamp() string          { return strfmt.DateTime(time.Now().UTC()).String() }

func newMetaItem(name string) metaItem {
	return metaItem{
		PK:        groupPK(name),
		SK:        metaSortKey,
		GSI1PK:    groupIndexPK,
		GSI1SK:    name,
		Name:      name,
		UpdatedAt: timestamp(),
	}
}

func newItem(group string, rec store.Record) item {
	return item{
		PK:         groupPK(group),
		SK:         recordSK(rec.Key),
		RecordKey:  rec.Key,
		Content:    rec.Content,
		Vector:     rec.Vector,
		Attributes: rec.Attributes,
		Locator:    rec.Locator,
		Extra:      rec.Extra,
		UpdatedAt:  timestamp(),
	}
}

func (it item) record() store.Record {
	return store.Record{
		Key:        it.RecordKey,
		Content:    it.Content,
		Vector:     it.Vector,
		Attributes: it.Attributes,
		Locator:    it.Locator,
		Extra:      it.Extra,
	}
}

func itemKey(group, key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: groupPK(group)},
		"SK": &types.AttributeValueMemberS{Value: recordSK(key)},
	}
}

func metaKey(name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: groupPK(name)},
		"SK": &types.AttributeValueMemberS{Value: metaSortKey},
	}
}

// fieldAttrs maps record fields to their item attribute names.
var fieldAttrs = map[store.Field]string{
	store.FieldContent:    "Content",
	store.FieldVector:     "Vector",
	store.FieldAttributes: "Attributes",
	store.FieldLocator:    "Locator",
	store.FieldExtra:      "Extra",
}

// buildProjection turns an include list into a ProjectionExpression plus the
// attribute-name placeholders it references. Identity attributes are always
// projected so results can carry keys.
func buildProjection(include store.Include) (string, map[string]string, error) {
	names := map[string]string{
		"#pk": "PK",
		"#sk": "SK",
		"#rk": "RecordKey",
	}
	clauses := []string{"#pk", "#sk", "#rk"}

	for i, f := range include {
		if f == store.FieldIDs {
			// identity attributes are always projected
			continue
		}
		attr, ok := fieldAttrs[f]
		if !ok {
			return "", nil, fmt.Errorf("field %q has no item attribute", f)
		}
		placeholder := fmt.Sprintf("#f%d", i)
		names[placeholder] = attr
		clauses = append(clauses, placeholder)
	}

	return strings.Join(clauses, ", "), names, nil
}

// chunk splits xs into runs of at most size elements.
func chunk[T any](xs []T, size int) [][]T {
	if size <= 0 || len(xs) == 0 {
		return nil
	}
	out := make([][]T, 0, (len(xs)+size-1)/size)
	for len(xs) > size {
		out = append(out, xs[:size])
		xs = xs[size:]
	}
	return append(out, xs)
}
