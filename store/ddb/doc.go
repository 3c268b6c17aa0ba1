/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package ddb backs a store.Registry with a single DynamoDB table.
//
// Layout: each group owns one partition (PK "GROUP#<name>"). Records live
// under sort keys "REC#<key>"; the group itself is a META item mirrored onto
// GSI1 so List can query instead of scan. Reads use BatchGetItem with a
// ProjectionExpression built from the include list, writes use BatchWriteItem
// with chunking and bounded retries of unprocessed items.
//
// Similarity queries are not supported by this backend; Group.Query reports
// errors.ErrNotSupported.
package ddb
