/*
Package store defines the batch-shaped contract that docstore adapts: a
Registry of named Groups, each Group holding keyed records with optional
content, vector, attributes, locator, and extra payloads.

The main interfaces are Registry and Group:

	type Registry interface {
	    GetOrCreate(ctx context.Context, name string) (Group, error)
	    Get(ctx context.Context, name string) (Group, error)
	    List(ctx context.Context) ([]string, error)
	    Delete(ctx context.Context, name string) error
	}

	type Group interface {
	    Name() string
	    Count(ctx context.Context) (int, error)
	    Keys(ctx context.Context) ([]string, error)
	    Get(ctx context.Context, params GetParams) (Result, error)
	    Upsert(ctx context.Context, batch Batch) error
	    Delete(ctx context.Context, keys []string) error
	    Query(ctx context.Context, params QueryParams) (Result, error)
	}

Group operations are list-oriented: writes take a Batch of parallel,
positionally aligned slices, and reads return a Result, a field→list mapping
aligned with the keys actually found. Include lists control which fields a
read populates; a nil include applies the operation's default, while the
empty IncludeNone reads identity only (the cheapest existence check).

Implementations:
  - ddb: DynamoDB implementation using batch item operations
  - memstore: in-memory implementation with brute-force similarity search

Alignment is an invariant, not a convention: Batch.Validate rejects payload
slices whose length differs from the key list, and every Result produced by
a conforming backend keeps its per-field slices the same length as ids.
*/
package store
