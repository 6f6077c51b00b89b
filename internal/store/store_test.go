package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shreyas463/OpportunityMailer/internal/core"
)

func storeErrorKind(t *testing.T, err error) core.StoreErrorKind {
	t.Helper()
	var serr *core.StoreError
	require.ErrorAs(t, err, &serr)
	return serr.Kind
}

func TestStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	newStore := func() *Store {
		return New(Builtins(), NewMemory())
	}

	t.Run("built-in templates resolve by name", func(t *testing.T) {
		t.Parallel()

		s := newStore()
		for _, name := range []string{"job_application", "follow_up", "thank_you", "connection_request"} {
			tmpl, err := s.Get(ctx, name)
			require.NoError(t, err)
			require.Equal(t, name, tmpl.Name)
			require.NotEmpty(t, tmpl.Subject)
			require.NotEmpty(t, tmpl.HTMLBody)
			require.True(t, s.IsBuiltin(name))
		}
	})

	t.Run("unknown name is not found", func(t *testing.T) {
		t.Parallel()

		s := newStore()
		_, err := s.Get(ctx, "missing")
		require.Equal(t, core.StoreNotFound, storeErrorKind(t, err))
	})

	t.Run("custom template roundtrip with upsert", func(t *testing.T) {
		t.Parallel()

		s := newStore()
		tmpl := &core.Template{Name: "welcome", Subject: "Hi {name}", HTMLBody: "<p>Hi {name}</p>"}
		require.NoError(t, s.Put(ctx, tmpl))

		got, err := s.Get(ctx, "welcome")
		require.NoError(t, err)
		require.Equal(t, "Hi {name}", got.Subject)

		tmpl.Subject = "Hello {name}"
		require.NoError(t, s.Put(ctx, tmpl))
		got, err = s.Get(ctx, "welcome")
		require.NoError(t, err)
		require.Equal(t, "Hello {name}", got.Subject)
	})

	t.Run("built-in names are reserved for writes and deletes", func(t *testing.T) {
		t.Parallel()

		s := newStore()
		err := s.Put(ctx, &core.Template{Name: "thank_you", Subject: "x", HTMLBody: "y"})
		require.Equal(t, core.StoreNameReserved, storeErrorKind(t, err))

		err = s.Delete(ctx, "thank_you")
		require.Equal(t, core.StoreNameReserved, storeErrorKind(t, err))
	})

	t.Run("structurally incomplete template is rejected", func(t *testing.T) {
		t.Parallel()

		s := newStore()
		err := s.Put(ctx, &core.Template{Name: "broken", Subject: "only subject"})
		require.Equal(t, core.StoreInvalidTemplate, storeErrorKind(t, err))
	})

	t.Run("delete removes only existing custom templates", func(t *testing.T) {
		t.Parallel()

		s := newStore()
		require.NoError(t, s.Put(ctx, &core.Template{Name: "tmp", Subject: "s", HTMLBody: "b"}))
		require.NoError(t, s.Delete(ctx, "tmp"))

		err := s.Delete(ctx, "tmp")
		require.Equal(t, core.StoreNotFound, storeErrorKind(t, err))
	})

	t.Run("list returns built-ins first then custom", func(t *testing.T) {
		t.Parallel()

		s := newStore()
		require.NoError(t, s.Put(ctx, &core.Template{Name: "extra", Subject: "s", HTMLBody: "b"}))

		all, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 5)
		require.Equal(t, "job_application", all[0].Name)
		require.Equal(t, "extra", all[4].Name)
	})
}

func TestFilesystemBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("put get roundtrip persists a JSON document", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		fs, err := NewFilesystem(dir)
		require.NoError(t, err)

		tmpl := &core.Template{Name: "welcome", Subject: "Hi {name}", HTMLBody: "<p>Hi</p>"}
		require.NoError(t, fs.Put(ctx, tmpl))
		require.FileExists(t, filepath.Join(dir, "welcome.json"))

		got, err := fs.Get(ctx, "welcome")
		require.NoError(t, err)
		require.Equal(t, tmpl.Subject, got.Subject)
		require.Equal(t, tmpl.HTMLBody, got.HTMLBody)
	})

	t.Run("missing document is not found", func(t *testing.T) {
		t.Parallel()

		fs, err := NewFilesystem(t.TempDir())
		require.NoError(t, err)

		_, err = fs.Get(ctx, "nope")
		require.Equal(t, core.StoreNotFound, storeErrorKind(t, err))

		err = fs.Delete(ctx, "nope")
		require.Equal(t, core.StoreNotFound, storeErrorKind(t, err))
	})

	t.Run("unsafe names never touch the filesystem", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		fs, err := NewFilesystem(dir)
		require.NoError(t, err)

		for _, name := range []string{"../escape", "a/b", "", "a b"} {
			_, err := fs.Get(ctx, name)
			require.Equal(t, core.StoreNotFound, storeErrorKind(t, err), name)
		}
	})

	t.Run("unsafe name on put is an invalid template", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		fs, err := NewFilesystem(dir)
		require.NoError(t, err)

		for _, name := range []string{"../escape", "a/b", "a b"} {
			err := fs.Put(ctx, &core.Template{Name: name, Subject: "s", HTMLBody: "b"})
			require.Equal(t, core.StoreInvalidTemplate, storeErrorKind(t, err), name)
		}

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("corrupt document is a backend failure on get but skipped by list", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		fs, err := NewFilesystem(dir)
		require.NoError(t, err)

		require.NoError(t, fs.Put(ctx, &core.Template{Name: "good", Subject: "s", HTMLBody: "b"}))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{corrupt"), 0o644))

		_, err = fs.Get(ctx, "bad")
		require.Equal(t, core.StoreBackendUnavailable, storeErrorKind(t, err))

		var serr *core.StoreError
		require.ErrorAs(t, err, &serr)
		require.True(t, serr.Retryable())

		all, err := fs.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.Equal(t, "good", all[0].Name)
	})

	t.Run("delete removes the document", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		fs, err := NewFilesystem(dir)
		require.NoError(t, err)

		require.NoError(t, fs.Put(ctx, &core.Template{Name: "temp", Subject: "s", HTMLBody: "b"}))
		require.NoError(t, fs.Delete(ctx, "temp"))
		require.NoFileExists(t, filepath.Join(dir, "temp.json"))
	})

	t.Run("empty directory is rejected at construction", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystem("")
		require.Error(t, err)
	})
}

func TestMemoryBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("stored templates are copied in and out", func(t *testing.T) {
		t.Parallel()

		m := NewMemory()
		tmpl := &core.Template{Name: "welcome", Subject: "original", HTMLBody: "b"}
		require.NoError(t, m.Put(ctx, tmpl))

		tmpl.Subject = "mutated after put"
		got, err := m.Get(ctx, "welcome")
		require.NoError(t, err)
		require.Equal(t, "original", got.Subject)

		got.Subject = "mutated after get"
		again, err := m.Get(ctx, "welcome")
		require.NoError(t, err)
		require.Equal(t, "original", again.Subject)
	})

	t.Run("not found errors are typed", func(t *testing.T) {
		t.Parallel()

		m := NewMemory()
		_, err := m.Get(ctx, "missing")

		var serr *core.StoreError
		require.True(t, errors.As(err, &serr))
		require.Equal(t, core.StoreNotFound, serr.Kind)
	})
}
