package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/linguacrawl"
	"github.com/fwojciec/linguacrawl/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing file is not found", func(t *testing.T) {
		t.Parallel()

		f := fs.NewStatusFile(filepath.Join(t.TempDir(), "status.json"))

		_, err := f.LoadStatus(ctx)

		assert.Equal(t, linguacrawl.ENOTFOUND, linguacrawl.ErrorCode(err))
	})

	t.Run("round trips a checkpoint", func(t *testing.T) {
		t.Parallel()

		f := fs.NewStatusFile(filepath.Join(t.TempDir(), "state", "status.json"))
		want := &linguacrawl.Status{
			Processed:      []string{"https://example.fi/"},
			Pending:        []string{"https://example.fi/a", "https://example.se/"},
			PendingClasses: []linguacrawl.PriorityClass{linguacrawl.ClassTarget, linguacrawl.ClassOffTarget},
			Attempts:       2,
		}

		require.NoError(t, f.SaveStatus(ctx, want))
		got, err := f.LoadStatus(ctx)

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("writes the documented JSON shape", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "status.json")
		f := fs.NewStatusFile(path)

		require.NoError(t, f.SaveStatus(ctx, &linguacrawl.Status{
			Processed: []string{"https://example.fi/"},
			Pending:   []string{"https://example.fi/a"},
			Attempts:  1,
		}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `{"processed":["https://example.fi/"],"pending":["https://example.fi/a"],"attempts":1}`, string(data))
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		f := fs.NewStatusFile(filepath.Join(dir, "status.json"))

		require.NoError(t, f.SaveStatus(ctx, &linguacrawl.Status{}))
		require.NoError(t, f.SaveStatus(ctx, &linguacrawl.Status{Attempts: 1}))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "status.json", entries[0].Name())
	})

	t.Run("corrupt JSON is reported as corrupt", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "status.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"processed": [`), 0o644))

		_, err := fs.NewStatusFile(path).LoadStatus(ctx)

		assert.Equal(t, linguacrawl.ECORRUPT, linguacrawl.ErrorCode(err))
	})

	t.Run("structurally invalid snapshot is reported as corrupt", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "status.json")
		body := `{"processed":[],"pending":["https://example.fi/a"],"pendingClasses":[1,2],"attempts":0}`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		_, err := fs.NewStatusFile(path).LoadStatus(ctx)

		assert.Equal(t, linguacrawl.ECORRUPT, linguacrawl.ErrorCode(err))
	})

	t.Run("refuses to save an invalid snapshot", func(t *testing.T) {
		t.Parallel()

		f := fs.NewStatusFile(filepath.Join(t.TempDir(), "status.json"))

		err := f.SaveStatus(ctx, &linguacrawl.Status{Attempts: -1})

		assert.Equal(t, linguacrawl.ECORRUPT, linguacrawl.ErrorCode(err))
	})
}
