package static_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/staticserve/core/static"
)

func TestDirResolver(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "file.txt"), []byte("file content"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "sub"), 0755))

	r := static.Dir(tmpDir)
	assert.Equal(t, filepath.Clean(tmpDir), r.Root())

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		res, err := r.Resolve(context.Background(), "/file.txt")
		require.NoError(t, err)
		defer res.Close()

		assert.Equal(t, "/file.txt", res.Meta.Path)
		assert.Equal(t, int64(12), res.Meta.Size)
		assert.False(t, res.Meta.IsDir)
		assert.False(t, res.Meta.ModTime.IsZero())

		body, err := io.ReadAll(res.Content)
		require.NoError(t, err)
		assert.Equal(t, "file content", string(body))
	})

	t.Run("directory_has_no_content", func(t *testing.T) {
		t.Parallel()

		res, err := r.Resolve(context.Background(), "/sub/")
		require.NoError(t, err)
		assert.True(t, res.Meta.IsDir)
		assert.Equal(t, "/sub", res.Meta.Path)
		assert.Nil(t, res.Content)
		assert.NoError(t, res.Close())
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		_, err := r.Resolve(context.Background(), "/missing.txt")
		assert.ErrorIs(t, err, static.ErrNotFound)
	})

	t.Run("file_used_as_directory", func(t *testing.T) {
		t.Parallel()

		_, err := r.Resolve(context.Background(), "/file.txt/child")
		assert.ErrorIs(t, err, static.ErrNotFound)
	})

	t.Run("traversal_stays_inside_root", func(t *testing.T) {
		t.Parallel()

		res, err := r.Resolve(context.Background(), "/../../../file.txt")
		require.NoError(t, err)
		defer res.Close()
		assert.Equal(t, "/file.txt", res.Meta.Path)

		_, err = r.Resolve(context.Background(), "/../../etc/passwd")
		assert.ErrorIs(t, err, static.ErrNotFound)
	})

	t.Run("cancelled_context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.Resolve(ctx, "/file.txt")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDirPanics(t *testing.T) {
	t.Parallel()

	t.Run("missing_root", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			static.Dir(filepath.Join(t.TempDir(), "nope"))
		})
	})

	t.Run("root_is_a_file", func(t *testing.T) {
		t.Parallel()
		file := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
		assert.Panics(t, func() {
			static.Dir(file)
		})
	})
}

func TestFSResolver(t *testing.T) {
	t.Parallel()

	modTime := time.Date(2024, time.March, 5, 10, 20, 30, 0, time.UTC)
	fsys := fstest.MapFS{
		"public/index.html":     {Data: []byte("<html>root</html>"), ModTime: modTime},
		"public/css/site.css":   {Data: []byte("body{}"), ModTime: modTime},
		"private/secret.txt":    {Data: []byte("secret"), ModTime: modTime},
		"public/docs/readme.md": {Data: []byte("# docs"), ModTime: modTime},
	}

	r := static.FS(fsys, static.WithSubFS("public"))

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		res, err := r.Resolve(context.Background(), "/css/site.css")
		require.NoError(t, err)
		defer res.Close()

		assert.Equal(t, "/css/site.css", res.Meta.Path)
		assert.Equal(t, int64(6), res.Meta.Size)
		assert.True(t, res.Meta.ModTime.Equal(modTime))
	})

	t.Run("root_is_directory", func(t *testing.T) {
		t.Parallel()

		res, err := r.Resolve(context.Background(), "/")
		require.NoError(t, err)
		assert.True(t, res.Meta.IsDir)
		assert.Equal(t, "/", res.Meta.Path)
	})

	t.Run("outside_sub_fs", func(t *testing.T) {
		t.Parallel()

		_, err := r.Resolve(context.Background(), "/../private/secret.txt")
		assert.ErrorIs(t, err, static.ErrNotFound)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		_, err := r.Resolve(context.Background(), "/nope.txt")
		assert.ErrorIs(t, err, static.ErrNotFound)
	})
}

func TestFSPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		static.FS(fstest.MapFS{}, static.WithSubFS("../escape"))
	})
}
