// Package store implements named template persistence over pluggable backends.
//
// A Store owns an immutable built-in template table constructed at process
// start and a Backend holding custom templates. Built-ins always win on reads
// and their names are reserved: custom templates can neither shadow nor delete
// them. There is no caching layer; every call reaches the backend so external
// template edits are visible immediately.
package store

import (
	"context"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

// Backend is the capability interface a template storage variant implements.
// Concurrent writes to the same name have last-writer-wins semantics; the
// backend's native per-key write is the only atomicity relied upon.
type Backend interface {
	// Get returns the template stored under name.
	// Returns a StoreError of kind StoreNotFound if it does not exist.
	Get(ctx context.Context, name string) (*core.Template, error)

	// Put stores the template under its name, overwriting any existing one.
	Put(ctx context.Context, tmpl *core.Template) error

	// List returns all stored templates in no defined order.
	List(ctx context.Context) ([]*core.Template, error)

	// Delete removes the template stored under name.
	// Returns a StoreError of kind StoreNotFound if it does not exist.
	Delete(ctx context.Context, name string) error
}

// Store resolves templates against built-ins first, then the backend.
type Store struct {
	builtins map[string]*core.Template
	order    []string
	backend  Backend
}

// New creates a Store over the given built-in table and backend.
// The built-in slice is copied; later mutation of it does not affect the store.
func New(builtins []*core.Template, backend Backend) *Store {
	s := &Store{
		builtins: make(map[string]*core.Template, len(builtins)),
		order:    make([]string, 0, len(builtins)),
		backend:  backend,
	}
	for _, t := range builtins {
		cp := *t
		s.builtins[t.Name] = &cp
		s.order = append(s.order, t.Name)
	}
	return s
}

// IsBuiltin reports whether name is reserved by a built-in template.
func (s *Store) IsBuiltin(name string) bool {
	_, ok := s.builtins[name]
	return ok
}

// Get returns the template for name. Built-ins are checked first and always
// win over a custom template of the same name.
func (s *Store) Get(ctx context.Context, name string) (*core.Template, error) {
	if t, ok := s.builtins[name]; ok {
		cp := *t
		return &cp, nil
	}
	return s.backend.Get(ctx, name)
}

// Put stores a custom template with upsert semantics.
// Putting a template whose name matches a built-in fails with StoreNameReserved.
func (s *Store) Put(ctx context.Context, tmpl *core.Template) error {
	if err := tmpl.Validate(); err != nil {
		return err
	}
	if s.IsBuiltin(tmpl.Name) {
		return &core.StoreError{Kind: core.StoreNameReserved, Name: tmpl.Name}
	}
	return s.backend.Put(ctx, tmpl)
}

// Delete removes a custom template. Built-in names fail with StoreNameReserved;
// a never-created custom name fails with StoreNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	if s.IsBuiltin(name) {
		return &core.StoreError{Kind: core.StoreNameReserved, Name: name}
	}
	return s.backend.Delete(ctx, name)
}

// List returns built-ins followed by all custom templates.
// Callers must not rely on the ordering of the custom portion.
func (s *Store) List(ctx context.Context) ([]*core.Template, error) {
	out := make([]*core.Template, 0, len(s.order))
	for _, name := range s.order {
		cp := *s.builtins[name]
		out = append(out, &cp)
	}
	custom, err := s.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	return append(out, custom...), nil
}
