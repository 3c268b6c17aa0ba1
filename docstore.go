/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/pmap"
	"github.com/suparena/docstore/store"
)

// KeyGenerator produces keys for records appended without one. The store is
// responsible for making collisions improbable; the default generator uses
// random UUIDs.
type KeyGenerator func() string

// Client presents a store.Registry as a name→Collection mapping. Looking up
// a collection creates it by default, so callers never branch on existence.
//
// Client is safe for concurrent use.
type Client struct {
	registry store.Registry

	mu          sync.RWMutex
	collections map[string]*Collection

	autoCreate bool
	keygen     KeyGenerator
}

// Option configures a Client.
type Option func(*Client)

// WithoutAutoCreate makes Collection lookups of absent groups fail with
// ErrNotFound instead of creating them.
func WithoutAutoCreate() Option {
	return func(c *Client) { c.autoCreate = false }
}

// WithKeyGenerator replaces the key generation strategy used by Append and
// Extend.
func WithKeyGenerator(g KeyGenerator) Option {
	return func(c *Client) { c.keygen = g }
}

// NewClient creates a Client over the given store registry.
func NewClient(registry store.Registry, opts ...Option) *Client {
	c := &Client{
		registry:    registry,
		collections: make(map[string]*Collection),
		autoCreate:  true,
		keygen:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collection returns the named collection, creating it in the store if
// absent (unless WithoutAutoCreate was set).
func (c *Client) Collection(ctx context.Context, name string) (*Collection, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	c.mu.RLock()
	col, ok := c.collections[name]
	c.mu.RUnlock()
	if ok {
		return col, nil
	}

	var (
		group store.Group
		err   error
	)
	if c.autoCreate {
		group, err = c.registry.GetOrCreate(ctx, name)
	} else {
		group, err = c.registry.Get(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up collection %q: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.collections[name]; ok {
		return existing, nil
	}
	col = &Collection{name: name, group: group, keygen: c.keygen}
	c.collections[name] = col
	return col, nil
}

// Collections opens several collections at once. Lookups run in parallel
// since each may round-trip to the store; results are in argument order.
func (c *Client) Collections(ctx context.Context, names ...string) ([]*Collection, error) {
	return pmap.Map(ctx, names, 0, func(ctx context.Context, name string) (*Collection, error) {
		return c.Collection(ctx, name)
	})
}

// Names returns all collection names known to the store, in store-reported
// order.
func (c *Client) Names(ctx context.Context) ([]string, error) {
	return c.registry.List(ctx)
}

// Delete removes a collection and all of its records. Whether deleting an
// absent collection fails is the store's call; both backends in this module
// report ErrNotFound.
func (c *Client) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := c.registry.Delete(ctx, name); err != nil {
		return fmt.Errorf("deleting collection %q: %w", name, err)
	}
	c.mu.Lock()
	delete(c.collections, name)
	c.mu.Unlock()
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewInvalidArgumentError("name", "must not be empty")
	}
	return nil
}
