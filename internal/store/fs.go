package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// template names double as file names, so keep them to a safe character set
var safeName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Filesystem is a Backend storing one JSON document per template at
// <dir>/<name>.json. Every call re-reads the directory, so edits made outside
// the process are visible immediately.
type Filesystem struct {
	dir string
}

// NewFilesystem creates a filesystem backend rooted at dir, creating it if needed.
func NewFilesystem(dir string) (*Filesystem, error) {
	if dir == "" {
		return nil, fmt.Errorf("template directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create template directory %s: %w", dir, err)
	}
	return &Filesystem{dir: dir}, nil
}

func (f *Filesystem) path(name string) (string, error) {
	if !safeName.MatchString(name) || strings.Contains(name, "..") {
		return "", core.NewStoreNotFoundError(name)
	}
	return filepath.Join(f.dir, name+".json"), nil
}

// Get returns the template stored under name.
func (f *Filesystem) Get(_ context.Context, name string) (*core.Template, error) {
	path, err := f.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewStoreNotFoundError(name)
		}
		return nil, core.NewStoreBackendError(name, err)
	}

	var tmpl core.Template
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return nil, core.NewStoreBackendError(name, fmt.Errorf("corrupt template document: %w", err))
	}
	return &tmpl, nil
}

// Put writes the template document, overwriting any existing one.
// A name outside the safe character set is an invalid template, not a miss.
func (f *Filesystem) Put(_ context.Context, tmpl *core.Template) error {
	if !safeName.MatchString(tmpl.Name) || strings.Contains(tmpl.Name, "..") {
		return &core.StoreError{
			Kind:    core.StoreInvalidTemplate,
			Name:    tmpl.Name,
			Message: "template name contains unsupported characters: " + tmpl.Name,
		}
	}

	path, err := f.path(tmpl.Name)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(tmpl, "", "  ")
	if err != nil {
		return core.NewStoreBackendError(tmpl.Name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return core.NewStoreBackendError(tmpl.Name, err)
	}
	return nil
}

// List returns all template documents in the directory.
// Unreadable or corrupt documents are skipped rather than failing the listing.
func (f *Filesystem) List(ctx context.Context) ([]*core.Template, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, core.NewStoreBackendError("", err)
	}

	var out []*core.Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		tmpl, err := f.Get(ctx, name)
		if err != nil {
			continue
		}
		out = append(out, tmpl)
	}
	return out, nil
}

// Delete removes the template document for name.
func (f *Filesystem) Delete(_ context.Context, name string) error {
	path, err := f.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return core.NewStoreNotFoundError(name)
		}
		return core.NewStoreBackendError(name, err)
	}
	return nil
}
