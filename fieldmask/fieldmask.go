/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package fieldmask

import (
	"context"
	"fmt"
	"reflect"

	"github.com/suparena/docstore/argbind"
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/store"
)

var (
	ctxType     = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType     = reflect.TypeOf((*error)(nil)).Elem()
	includeType = reflect.TypeOf(store.Include(nil))
)

// Proxy wraps a store-like value so that calls to its include-bearing
// methods return results filtered down to the identity field plus the
// requested include list. Which methods get wrapped is discovered from the
// value itself: every exported method whose parameters carry an include
// list — either directly or as a field of a parameter struct — is wrapped,
// and everything else passes through untouched. The wrapped value gaining
// or losing methods across versions changes what gets wrapped, not whether
// wrapping works.
type Proxy struct {
	target  reflect.Value
	marker  reflect.Type
	methods map[string]*methodInfo
	// per-method default include lists for methods whose include parameter
	// is direct (parameter structs declare defaults via ApplyDefaults)
	defaults map[string]store.Include
}

type methodInfo struct {
	fn       reflect.Value
	typ      reflect.Type
	hasCtx   bool
	wrapped  bool
	argIdx   int // index (after ctx) of a direct include parameter, or -1
	paramIdx int // index (after ctx) of a params struct carrying one, or -1
	fieldIdx int // include field index within the params struct
	ptrParam bool
}

// Option configures a Proxy.
type Option func(*Proxy)

// WithMarkerType changes the include marker type used for discovery. The
// type must be a slice with string-kind elements.
func WithMarkerType(t reflect.Type) Option {
	return func(p *Proxy) { p.marker = t }
}

// WithDefault declares the default include list of a method whose include
// parameter is passed directly rather than inside a parameter struct.
func WithDefault(method string, include store.Include) Option {
	return func(p *Proxy) { p.defaults[method] = include }
}

// Wrap builds a Proxy over target.
func Wrap(target any, opts ...Option) (*Proxy, error) {
	if target == nil {
		return nil, errors.NewInvalidArgumentError("target", "must not be nil")
	}
	p := &Proxy{
		target:   reflect.ValueOf(target),
		marker:   includeType,
		methods:  make(map[string]*methodInfo),
		defaults: make(map[string]store.Include),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.marker.Kind() != reflect.Slice || p.marker.Elem().Kind() != reflect.String {
		return nil, errors.NewInvalidArgumentError("marker",
			"must be a slice type with string-kind elements")
	}

	t := p.target.Type()
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if !m.IsExported() {
			continue
		}
		info := p.inspect(p.target.Method(i))
		p.methods[m.Name] = info
	}
	return p, nil
}

// inspect classifies one method: whether it takes a context, and where (if
// anywhere) its include list lives.
func (p *Proxy) inspect(fn reflect.Value) *methodInfo {
	ft := fn.Type()
	info := &methodInfo{fn: fn, typ: ft, argIdx: -1, paramIdx: -1, fieldIdx: -1}

	start := 0
	if ft.NumIn() > 0 && ft.In(0) == ctxType {
		info.hasCtx = true
		start = 1
	}
	for i := start; i < ft.NumIn(); i++ {
		in := ft.In(i)
		if in == p.marker {
			info.wrapped = true
			info.argIdx = i - start
			break
		}
		st := in
		if st.Kind() == reflect.Pointer {
			st = st.Elem()
		}
		if st.Kind() == reflect.Struct {
			for f := 0; f < st.NumField(); f++ {
				if st.Field(f).Type == p.marker && st.Field(f).IsExported() {
					info.wrapped = true
					info.paramIdx = i - start
					info.fieldIdx = f
					info.ptrParam = in.Kind() == reflect.Pointer
					break
				}
			}
		}
		if info.wrapped {
			break
		}
	}
	return info
}

// Unwrap returns the wrapped value.
func (p *Proxy) Unwrap() any {
	return p.target.Interface()
}

// Methods returns the names of all callable methods.
func (p *Proxy) Methods() []string {
	names := make([]string, 0, len(p.methods))
	for name := range p.methods {
		names = append(names, name)
	}
	return names
}

// IsWrapped reports whether calls to the named method are output-filtered.
func (p *Proxy) IsWrapped(name string) bool {
	m, ok := p.methods[name]
	return ok && m.wrapped
}

// Call invokes the named method with positional arguments, filtering the
// result if the method is include-bearing. Arguments map one-to-one onto
// the method's parameters after the leading context, which the proxy
// supplies itself.
func (p *Proxy) Call(ctx context.Context, name string, args ...any) (any, error) {
	m, ok := p.methods[name]
	if !ok {
		return nil, errors.NewInvalidArgumentError("method",
			fmt.Sprintf("no method %q on %s", name, p.target.Type()))
	}
	return p.invoke(ctx, name, m, args)
}

// CallNamed invokes a method that takes a parameter struct, binding named
// arguments onto the struct with argbind. Parameter names are the
// lower-cased struct field names.
func (p *Proxy) CallNamed(ctx context.Context, name string, named map[string]any) (any, error) {
	m, ok := p.methods[name]
	if !ok {
		return nil, errors.NewInvalidArgumentError("method",
			fmt.Sprintf("no method %q on %s", name, p.target.Type()))
	}
	start := 0
	if m.hasCtx {
		start = 1
	}
	if m.typ.NumIn() != start+1 {
		return nil, errors.NewInvalidArgumentError("method",
			fmt.Sprintf("method %q does not take a single parameter struct", name))
	}
	pt := m.typ.In(start)
	if pt.Kind() == reflect.Pointer {
		pt = pt.Elem()
	}
	if pt.Kind() != reflect.Struct {
		return nil, errors.NewInvalidArgumentError("method",
			fmt.Sprintf("method %q does not take a parameter struct", name))
	}
	pv := reflect.New(pt)
	if err := argbind.Bind(pv.Interface(), nil, named); err != nil {
		return nil, err
	}
	arg := pv.Elem().Interface()
	if m.typ.In(start).Kind() == reflect.Pointer {
		arg = pv.Interface()
	}
	return p.invoke(ctx, name, m, []any{arg})
}

func (p *Proxy) invoke(ctx context.Context, name string, m *methodInfo, args []any) (any, error) {
	if m.typ.IsVariadic() {
		return nil, errors.NewInvalidArgumentError("method",
			fmt.Sprintf("variadic method %q is not supported", name))
	}

	start := 0
	in := make([]reflect.Value, 0, m.typ.NumIn())
	if m.hasCtx {
		in = append(in, reflect.ValueOf(ctx))
		start = 1
	}
	if len(args) != m.typ.NumIn()-start {
		return nil, errors.NewInvalidArgumentError("args", fmt.Sprintf(
			"method %q takes %d arguments, got %d", name, m.typ.NumIn()-start, len(args)))
	}
	for i, arg := range args {
		want := m.typ.In(start + i)
		v, err := coerce(arg, want)
		if err != nil {
			return nil, errors.NewInvalidArgumentError("args", fmt.Sprintf(
				"argument %d of %q: %v", i, name, err))
		}
		in = append(in, v)
	}

	// Resolve the effective include the way the callee would: bind the
	// actual arguments, fill declared defaults, then read the value.
	var include []string
	if m.wrapped {
		var err error
		include, err = p.resolveInclude(name, m, in[start:])
		if err != nil {
			return nil, err
		}
	}

	out := m.fn.Call(in)

	var result any
	for _, o := range out {
		if o.Type().Implements(errType) {
			if !o.IsNil() {
				return nil, o.Interface().(error)
			}
			continue
		}
		result = o.Interface()
	}

	if !m.wrapped {
		return result, nil
	}
	return filterValue(name, result, include)
}

// resolveInclude computes the include list a call will effectively use, and
// rewrites the bound arguments so the callee sees the same defaults the
// filter applies.
func (p *Proxy) resolveInclude(name string, m *methodInfo, args []reflect.Value) ([]string, error) {
	switch {
	case m.argIdx >= 0:
		iv := args[m.argIdx]
		if iv.IsNil() {
			def, ok := p.defaults[name]
			if !ok {
				// no declared default: nil means identity only
				return nil, nil
			}
			args[m.argIdx] = reflect.ValueOf(def).Convert(m.typ.In(argOffset(m) + m.argIdx))
			return includeStrings(args[m.argIdx]), nil
		}
		return includeStrings(iv), nil
	case m.paramIdx >= 0:
		pv := args[m.paramIdx]
		ptr := reflect.New(derefType(pv.Type()))
		if pv.Kind() == reflect.Pointer {
			if pv.IsNil() {
				return nil, errors.NewInvalidArgumentError("args",
					"params struct must not be nil")
			}
			ptr.Elem().Set(pv.Elem())
		} else {
			ptr.Elem().Set(pv)
		}
		if d, ok := ptr.Interface().(argbind.Defaulter); ok {
			d.ApplyDefaults()
		}
		if m.ptrParam {
			args[m.paramIdx] = ptr
		} else {
			args[m.paramIdx] = ptr.Elem()
		}
		return includeStrings(ptr.Elem().Field(m.fieldIdx)), nil
	default:
		return nil, nil
	}
}

func argOffset(m *methodInfo) int {
	if m.hasCtx {
		return 1
	}
	return 0
}

func derefType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

// includeStrings flattens an include value to plain strings.
func includeStrings(v reflect.Value) []string {
	if !v.IsValid() || v.IsNil() {
		return nil
	}
	out := make([]string, v.Len())
	for i := 0; i < v.Len(); i++ {
		out[i] = v.Index(i).String()
	}
	return out
}

// filterValue subsets a mapping result to the identity field plus include.
func filterValue(method string, result any, include []string) (any, error) {
	rv := reflect.ValueOf(result)
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, errors.NewUnsupportedResultShapeError(method, fmt.Sprintf("%T", result))
	}
	keep := make(map[string]bool, len(include)+1)
	keep[string(store.FieldIDs)] = true
	for _, f := range include {
		keep[f] = true
	}
	out := reflect.MakeMapWithSize(rv.Type(), len(keep))
	iter := rv.MapRange()
	for iter.Next() {
		if keep[iter.Key().String()] {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
	}
	return out.Interface(), nil
}

func coerce(arg any, want reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(want), nil
	}
	av := reflect.ValueOf(arg)
	switch {
	case av.Type().AssignableTo(want):
		return av, nil
	case av.Type().ConvertibleTo(want):
		return av.Convert(want), nil
	case av.Kind() == reflect.Slice && want.Kind() == reflect.Slice &&
		av.Type().Elem().Kind() == want.Elem().Kind() &&
		av.Type().Elem().ConvertibleTo(want.Elem()):
		// []string and a named string-slice type convert element-wise, even
		// though the slice types themselves do not
		out := reflect.MakeSlice(want, av.Len(), av.Len())
		for i := 0; i < av.Len(); i++ {
			out.Index(i).Set(av.Index(i).Convert(want.Elem()))
		}
		return out, nil
	default:
		return reflect.Value{}, fmt.Errorf("expected %s, got %T", want, arg)
	}
}

// Filter subsets a normalized result to the identity field plus include.
// This is the same operation the Proxy applies, in typed form.
func Filter(res store.Result, include store.Include) store.Result {
	out := make(store.Result, len(include)+1)
	for f, v := range res {
		if f == store.FieldIDs || include.Has(f) {
			out[f] = v
		}
	}
	return out
}
