package store

import (
	"context"
	"sync"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

// Memory is an in-process Backend. It is safe for concurrent use and is the
// default when no durable storage is configured.
type Memory struct {
	mu        sync.RWMutex
	templates map[string]*core.Template
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{templates: make(map[string]*core.Template)}
}

// Get returns the template stored under name.
func (m *Memory) Get(_ context.Context, name string) (*core.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.templates[name]
	if !ok {
		return nil, core.NewStoreNotFoundError(name)
	}
	cp := *t
	return &cp, nil
}

// Put stores the template, overwriting any existing one with the same name.
func (m *Memory) Put(_ context.Context, tmpl *core.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *tmpl
	m.templates[tmpl.Name] = &cp
	return nil
}

// List returns all stored templates in map order.
func (m *Memory) List(_ context.Context) ([]*core.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Template, 0, len(m.templates))
	for _, t := range m.templates {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

// Delete removes the template stored under name.
func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.templates[name]; !ok {
		return core.NewStoreNotFoundError(name)
	}
	delete(m.templates, name)
	return nil
}
