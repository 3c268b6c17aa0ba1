/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package argbind binds call arguments onto parameter structs.
//
// A parameter struct stands in for a call signature: its exported fields,
// in declaration order, are the declared parameters, and its ApplyDefaults
// method (if any) supplies declared defaults. Bind replicates call-binding
// semantics over that declaration: positional arguments fill parameters
// left to right, named arguments fill by name, defaults fill whatever is
// still unset, and unknown names, duplicate assignments, overflow, and type
// mismatches are errors.
package argbind

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/suparena/docstore/errors"
)

// Defaulter fills unset parameters with their declared defaults.
type Defaulter interface {
	ApplyDefaults()
}

// Validator checks bound parameters; Bind surfaces its error as the
// missing-required-parameter case.
type Validator interface {
	Validate() error
}

// Param describes one declared parameter of a parameter struct.
type Param struct {
	Name  string
	Index int
	Type  reflect.Type
}

// ParamsOf returns the declared parameters of a parameter struct type, in
// declaration order. Parameter names are the lower-cased field names.
func ParamsOf(t reflect.Type) ([]Param, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.NewInvalidArgumentError("params",
			fmt.Sprintf("expected a struct type, got %s", t.Kind()))
	}
	var params []Param
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		params = append(params, Param{Name: paramName(f.Name), Index: i, Type: f.Type})
	}
	return params, nil
}

func paramName(fieldName string) string {
	r, size := utf8.DecodeRuneInString(fieldName)
	return string(unicode.ToLower(r)) + fieldName[size:]
}

// Bind fills dst, a pointer to a parameter struct, from positional and
// named arguments, then applies declared defaults and validates.
func Bind(dst any, positional []any, named map[string]any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return errors.NewInvalidArgumentError("dst",
			"must be a non-nil pointer to a struct")
	}
	elem := v.Elem()

	params, err := ParamsOf(elem.Type())
	if err != nil {
		return err
	}

	if len(positional) > len(params) {
		return errors.NewInvalidArgumentError("args", fmt.Sprintf(
			"%d positional arguments for %d parameters", len(positional), len(params)))
	}

	assigned := make(map[string]bool, len(params))
	for i, arg := range positional {
		p := params[i]
		if err := setParam(elem.Field(p.Index), p, arg); err != nil {
			return err
		}
		assigned[p.Name] = true
	}

	byName := make(map[string]Param, len(params))
	for _, p := range params {
		byName[p.Name] = p
	}
	for name, arg := range named {
		p, ok := byName[name]
		if !ok {
			return errors.NewInvalidArgumentError("args",
				fmt.Sprintf("unknown parameter %q", name))
		}
		if assigned[p.Name] {
			return errors.NewInvalidArgumentError("args",
				fmt.Sprintf("parameter %q given both positionally and by name", name))
		}
		if err := setParam(elem.Field(p.Index), p, arg); err != nil {
			return err
		}
		assigned[p.Name] = true
	}

	if d, ok := dst.(Defaulter); ok {
		d.ApplyDefaults()
	}
	if val, ok := dst.(Validator); ok {
		if err := val.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func setParam(field reflect.Value, p Param, arg any) error {
	if arg == nil {
		// nil leaves the parameter unset, so defaults can fill it
		return nil
	}
	av := reflect.ValueOf(arg)
	switch {
	case av.Type().AssignableTo(field.Type()):
		field.Set(av)
	case av.Type().ConvertibleTo(field.Type()):
		field.Set(av.Convert(field.Type()))
	case convertibleSlice(av.Type(), field.Type()):
		field.Set(convertSlice(av, field.Type()))
	default:
		return errors.NewInvalidArgumentError("args", fmt.Sprintf(
			"parameter %q expects %s, got %T", p.Name, field.Type(), arg))
	}
	return nil
}

// convertibleSlice reports whether src and dst are slice types whose elements
// convert one at a time within the same kind, like []string and a named
// string-slice type. Slice types themselves only convert when their element
// types are identical, which rules out exactly this case.
func convertibleSlice(src, dst reflect.Type) bool {
	return src.Kind() == reflect.Slice && dst.Kind() == reflect.Slice &&
		src.Elem().Kind() == dst.Elem().Kind() &&
		src.Elem().ConvertibleTo(dst.Elem())
}

func convertSlice(src reflect.Value, dst reflect.Type) reflect.Value {
	out := reflect.MakeSlice(dst, src.Len(), src.Len())
	for i := 0; i < src.Len(); i++ {
		out.Index(i).Set(src.Index(i).Convert(dst.Elem()))
	}
	return out
}
