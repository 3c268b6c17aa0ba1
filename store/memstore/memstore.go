/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memstore provides an in-memory implementation of the store
// contract, suitable for tests and small embedded use. Keys and group names
// iterate in insertion order. Similarity queries run brute-force cosine
// similarity over the stored vectors.
package memstore

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/store"
)

// EmbedFunc turns query text into a vector so text queries can run against
// stored embeddings.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// Store is an in-memory store.Registry.
type Store struct {
	mu     sync.RWMutex
	order  []string
	groups map[string]*group

	embed EmbedFunc

	// failMu guards failWith on its own: unavailable is called from group
	// methods that hold only the group lock
	failMu   sync.Mutex
	failWith error
}

// New creates an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{groups: make(map[string]*group)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures a Store.
type Option func(*Store)

// WithEmbedFunc installs a text embedder used by text similarity queries.
func WithEmbedFunc(f EmbedFunc) Option {
	return func(s *Store) { s.embed = f }
}

// WithFailure makes every subsequent operation fail with a
// StoreUnavailableError wrapping err. Used to exercise error propagation.
func WithFailure(err error) Option {
	return func(s *Store) { s.failWith = err }
}

// SetFailure turns failure injection on (non-nil) or off (nil) at runtime.
func (s *Store) SetFailure(err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failWith = err
}

func (s *Store) unavailable(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	if s.failWith != nil {
		return errors.NewStoreUnavailableError(op, s.failWith)
	}
	return nil
}

// GetOrCreate returns the named group, creating it if absent.
func (s *Store) GetOrCreate(ctx context.Context, name string) (store.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.unavailable("GetOrCreate"); err != nil {
		return nil, err
	}
	if g, ok := s.groups[name]; ok {
		return g, nil
	}
	g := newGroup(s, name)
	s.groups[name] = g
	s.order = append(s.order, name)
	return g, nil
}

// Get returns the named group or ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (store.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.unavailable("Get"); err != nil {
		return nil, err
	}
	g, ok := s.groups[name]
	if !ok {
		return nil, errors.NewNotFoundError("group", name)
	}
	return g, nil
}

// List returns all group names in creation order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.unavailable("List"); err != nil {
		return nil, err
	}
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names, nil
}

// Delete removes a group and all its records.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.unavailable("Delete"); err != nil {
		return err
	}
	if _, ok := s.groups[name]; !ok {
		return errors.NewNotFoundError("group", name)
	}
	delete(s.groups, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// group is an in-memory store.Group with insertion-ordered keys.
type group struct {
	parent *Store
	name   string

	mu      sync.RWMutex
	order   []string
	records map[string]store.Record
}

func newGroup(parent *Store, name string) *group {
	return &group{
		parent:  parent,
		name:    name,
		records: make(map[string]store.Record),
	}
}

func (g *group) Name() string {
	return g.name
}

func (g *group) Count(ctx context.Context) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if err := g.parent.unavailable("Count"); err != nil {
		return 0, err
	}
	return len(g.records), nil
}

func (g *group) Keys(ctx context.Context) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if err := g.parent.unavailable("Keys"); err != nil {
		return nil, err
	}
	keys := make([]string, len(g.order))
	copy(keys, g.order)
	return keys, nil
}

func (g *group) Get(ctx context.Context, params store.GetParams) (store.Result, error) {
	params.ApplyDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if err := g.parent.unavailable("Get"); err != nil {
		return nil, err
	}

	var found []store.Record
	if params.Keys == nil {
		found = make([]store.Record, 0, len(g.order))
		for _, k := range g.order {
			found = append(found, g.records[k])
		}
	} else {
		// Missing keys are dropped, not errored
		found = make([]store.Record, 0, len(params.Keys))
		for _, k := range params.Keys {
			if rec, ok := g.records[k]; ok {
				found = append(found, rec)
			}
		}
	}
	return store.BuildResult(found, params.Include), nil
}

func (g *group) Upsert(ctx context.Context, batch store.Batch) error {
	if err := batch.Validate(); err != nil {
		return err
	}
	if batch.Len() == 0 {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.parent.unavailable("Upsert"); err != nil {
		return err
	}
	for i := range batch.Keys {
		rec := batch.Record(i)
		if _, exists := g.records[rec.Key]; !exists {
			g.order = append(g.order, rec.Key)
		}
		// Whole-record replace: fields the batch does not carry are dropped
		g.records[rec.Key] = rec
	}
	return nil
}

func (g *group) Delete(ctx context.Context, keys []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.parent.unavailable("Delete"); err != nil {
		return err
	}
	for _, k := range keys {
		if _, ok := g.records[k]; !ok {
			continue
		}
		delete(g.records, k)
		for i, existing := range g.order {
			if existing == k {
				g.order = append(g.order[:i], g.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (g *group) Query(ctx context.Context, params store.QueryParams) (store.Result, error) {
	params.ApplyDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	query := params.Vector
	if query == nil {
		if g.parent.embed == nil {
			return nil, fmt.Errorf("text query without an embed function: %w",
				errors.ErrNotSupported)
		}
		var err error
		query, err = g.parent.embed(ctx, params.Text)
		if err != nil {
			return nil, errors.NewStoreUnavailableError("Query", err)
		}
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if err := g.parent.unavailable("Query"); err != nil {
		return nil, err
	}

	type scored struct {
		rec  store.Record
		dist float32
	}
	candidates := make([]scored, 0, len(g.order))
	for _, k := range g.order {
		rec := g.records[k]
		if rec.Vector == nil {
			continue
		}
		if !matchesWhere(rec, params.Where) {
			continue
		}
		candidates = append(candidates, scored{rec, cosineDistance(query, rec.Vector)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})
	if len(candidates) > params.K {
		candidates = candidates[:params.K]
	}

	records := make([]store.Record, len(candidates))
	distances := make([]float32, len(candidates))
	for i, c := range candidates {
		records[i] = c.rec
		distances[i] = c.dist
	}
	res := store.BuildResult(records, params.Include)
	if params.Include.Has(store.FieldDistances) {
		res[store.FieldDistances] = distances
	}
	return res, nil
}

func matchesWhere(rec store.Record, where map[string]any) bool {
	for k, v := range where {
		if rec.Attributes == nil {
			return false
		}
		// DeepEqual: filter values may carry non-comparable types, which
		// would make == panic
		if !reflect.DeepEqual(rec.Attributes[k], v) {
			return false
		}
	}
	return true
}

// cosineDistance is 1 - cosine similarity. Mismatched or zero-magnitude
// vectors get the maximum distance so they sort last.
func cosineDistance(a, b []float32) float32 {
	if len(a) != len(b) {
		return 2
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}

// Ensure interface compliance.
var (
	_ store.Registry = (*Store)(nil)
	_ store.Group    = (*group)(nil)
)
