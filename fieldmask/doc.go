/*
Package fieldmask filters the output of include-bearing store methods down
to the fields the caller asked for.

Store read methods accept an include list saying which record fields to
populate, but their raw results still carry every field, with nil standing
in for "not included". fieldmask turns that into the subset the caller
actually wanted: only the identity field ("ids") and the included fields
survive.

Proxy is the general mechanism. Wrapping a value inspects all of its
exported methods and marks as wrapped exactly those whose parameters carry
an include list, either as a direct store.Include parameter or as a field
of a parameter struct:

	p, _ := fieldmask.Wrap(group)
	p.IsWrapped("Get")   // true: GetParams has an Include field
	p.IsWrapped("Count") // false: passes through unfiltered

	// Default include of Get is {content, attributes}, so only those
	// fields (plus ids) come back:
	res, _ := p.Call(ctx, "Get", store.GetParams{Keys: []string{"cake"}})

	// Named-argument calls bind onto the parameter struct:
	res, _ = p.CallNamed(ctx, "Get", map[string]any{
	    "keys":    []string{"cake"},
	    "include": store.Include{store.FieldLocator},
	})

There is no method allowlist: a method added to the wrapped type in a later
version is wrapped as soon as its signature carries the marker. The cost is
reflection at wrap and call time. Go reflection does not expose parameter
names, so discovery keys on the store.Include type (configurable through
WithMarkerType) where the original notion is "a parameter named include".

The effective include of a call is resolved the way the callee resolves it:
arguments are bound to the method's parameters, declared defaults fill in
whatever the caller omitted (ApplyDefaults on parameter structs, WithDefault
for direct include parameters), and the filter keeps ids plus that resolved
list. Wrapped methods must return a string-keyed mapping; anything else
fails with ErrUnsupportedResultShape.

Group is the statically-typed version for store.Group, for callers who
would rather keep the interface than go through reflection.
*/
package fieldmask
