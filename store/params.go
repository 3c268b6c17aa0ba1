/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package store

import (
	"github.com/suparena/docstore/errors"
)

// GetParams defines parameters for a Group read.
type GetParams struct {
	// Keys selects the records to read. nil means all records; an empty,
	// non-nil slice reads nothing. Missing keys are silently dropped.
	Keys []string

	// Include lists the fields to populate. nil means DefaultGetInclude;
	// IncludeNone populates identity only.
	Include Include
}

// ApplyDefaults fills unset parameters.
func (p *GetParams) ApplyDefaults() {
	p.Include = p.Include.Resolve(DefaultGetInclude())
}

// Validate checks the include list against the known record fields.
func (p *GetParams) Validate() error {
	return validateInclude(p.Include, false)
}

// QueryParams defines parameters for a similarity query. Exactly one of Text
// or Vector drives the search, depending on backend capability.
type QueryParams struct {
	// Text is the query text, embedded by the backend.
	Text string

	// Vector is a precomputed query embedding.
	Vector []float32

	// K is the number of nearest records to return.
	K int

	// Where optionally restricts candidates by attribute equality.
	Where map[string]any

	// Include lists the fields to populate. nil means DefaultQueryInclude.
	Include Include
}

// ApplyDefaults fills unset parameters.
func (p *QueryParams) ApplyDefaults() {
	if p.K == 0 {
		p.K = 10
	}
	p.Include = p.Include.Resolve(DefaultQueryInclude())
}

// Validate checks that the query is well formed.
func (p *QueryParams) Validate() error {
	if p.Text == "" && p.Vector == nil {
		return errors.NewInvalidArgumentError("query",
			"either text or vector is required")
	}
	if p.Text != "" && p.Vector != nil {
		return errors.NewInvalidArgumentError("query",
			"text and vector are mutually exclusive")
	}
	if p.K < 0 {
		return errors.NewInvalidArgumentError("k", "must not be negative")
	}
	return validateInclude(p.Include, true)
}

func validateInclude(in Include, allowDistances bool) error {
	for _, f := range in {
		if f == FieldIDs {
			// ids are always returned; listing them is harmless
			continue
		}
		if f == FieldDistances && allowDistances {
			continue
		}
		known := false
		for _, g := range RecordFields {
			if f == g {
				known = true
				break
			}
		}
		if !known {
			return errors.NewInvalidArgumentError("include",
				"unknown field "+string(f))
		}
	}
	return nil
}
