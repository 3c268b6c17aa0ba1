/*
Package docstore gives mapping-style access to batch-oriented document
stores: stores whose native API takes lists of keys and returns wide records
as parallel, positionally aligned lists of optional fields.

The library has two independent pieces, composed by the caller:

  - The container adapter (this package): Client maps names to Collections
    with creation-on-access, and Collection maps keys to records, hiding the
    store's list-of-lists plumbing behind single-record and batch calls.
  - The selective-output wrapper (package fieldmask): wraps any store-like
    value so that methods taking an include list return only the requested
    fields, discovered by inspecting the methods rather than a fixed list.

Basic Usage:

	// Any store.Registry works; memstore is the embedded one.
	client := docstore.NewClient(memstore.New())

	// Looking up a collection creates it.
	recipes, _ := client.Collection(ctx, "recipes")

	// The store-natural form writes several records at once, each field a
	// list aligned with the keys.
	_ = recipes.SetBatch(ctx, []string{"piece", "of"}, map[store.Field]any{
	    store.FieldContent:    []string{"contents for piece", "contents for of"},
	    store.FieldAttributes: []map[string]any{{"author": "me"}, {"author": "you"}},
	})

	// But one record at a time works too, and a bare string means content.
	_ = recipes.Set(ctx, "cake", "contents for cake")

	rec, _ := recipes.Get(ctx, "cake")       // flat record
	res, _ := recipes.GetBatch(ctx, []string{"piece", "of"}) // field→list result

	keys, _ := recipes.Keys(ctx)
	n, _ := recipes.Len(ctx)

Reads keep the arity of the request: Get returns one flat record, GetBatch
and GetAll return a store.Result, the normalized field→list mapping. Keys
missing from a batch read are dropped from the result, not errored and not
null-padded.

Writes are upserts with whole-record replacement. A write stores exactly the
fields it was given; fields stored earlier and not resupplied are gone after
the call. Deletion is separate (Delete) and idempotent.

Append and Extend write records under generated keys (random UUIDs unless
WithKeyGenerator says otherwise). AddMissing writes only the rows whose keys
are not already present, using one existence read and one write no matter
how many keys are involved.

Storage backends live under store/: store/ddb persists to DynamoDB using its
batch item API, store/memstore keeps everything in memory and adds
brute-force similarity search. Anything implementing store.Registry plugs in
the same way.
*/
package docstore
