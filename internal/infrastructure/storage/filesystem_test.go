package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/erp/pos-reports/internal/domain/export"
)

var (
	storeNow = time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC)
	storeID  = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
)

func newTestStore(t *testing.T, baseURL string) (*FileSystemArtifactStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFileSystemArtifactStore(dir, baseURL,
		WithFileSystemLogger(zaptest.NewLogger(t)),
		WithFileSystemClock(func() time.Time { return storeNow }),
		WithIDGenerator(func() uuid.UUID { return storeID }),
	)
	require.NoError(t, err)
	return store, dir
}

func pdfArtifact() *export.Artifact {
	return export.NewArtifact("ventas", "general", export.FormatPDF, []byte("%PDF-1.4 test"), storeNow)
}

func TestFileSystemArtifactStore_Save(t *testing.T) {
	t.Run("writes the artifact under the dated key", func(t *testing.T) {
		store, dir := newTestStore(t, "")

		location, err := store.Save(context.Background(), pdfArtifact())
		require.NoError(t, err)

		wantKey := "2024/03/" + storeID.String() + "/Report_ventas_general_05-03-2024.pdf"
		assert.Equal(t, wantKey, location)

		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(wantKey)))
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 test", string(data))
	})

	t.Run("prefixes the base URL", func(t *testing.T) {
		store, _ := newTestStore(t, "https://files.example.com/reports/")

		location, err := store.Save(context.Background(), pdfArtifact())
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(location, "https://files.example.com/reports/2024/03/"))
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		store, dir := newTestStore(t, "")

		_, err := store.Save(context.Background(), pdfArtifact())
		require.NoError(t, err)

		err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			require.NoError(t, err)
			assert.False(t, strings.HasPrefix(d.Name(), ".tmp-"), "temp file left: %s", path)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("overwrites an existing artifact atomically", func(t *testing.T) {
		store, dir := newTestStore(t, "")

		_, err := store.Save(context.Background(), pdfArtifact())
		require.NoError(t, err)
		second := pdfArtifact()
		second.Data = []byte("%PDF-1.4 second")
		key, err := store.Save(context.Background(), second)
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 second", string(data))
	})

	t.Run("rejects an empty artifact", func(t *testing.T) {
		store, _ := newTestStore(t, "")

		_, err := store.Save(context.Background(), &export.Artifact{Filename: "x.pdf"})
		require.Error(t, err)
		_, err = store.Save(context.Background(), nil)
		require.Error(t, err)
	})

	t.Run("honours a cancelled context", func(t *testing.T) {
		store, _ := newTestStore(t, "")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.Save(ctx, pdfArtifact())
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("strips directories from the filename", func(t *testing.T) {
		store, dir := newTestStore(t, "")
		a := pdfArtifact()
		a.Filename = "../../escape.pdf"

		key, err := store.Save(context.Background(), a)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(key, "/escape.pdf"))
		_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
		require.NoError(t, err)
	})
}

func TestFileSystemArtifactStore_Open(t *testing.T) {
	store, _ := newTestStore(t, "")
	key, err := store.Save(context.Background(), pdfArtifact())
	require.NoError(t, err)

	f, err := store.Open(key)
	require.NoError(t, err)
	f.Close()

	for _, bad := range []string{"", "../secret", "/etc/passwd", "2024/../../x"} {
		_, err := store.Open(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}
}

func TestFileSystemArtifactStore_CleanupOlderThan(t *testing.T) {
	store, dir := newTestStore(t, "")
	key, err := store.Save(context.Background(), pdfArtifact())
	require.NoError(t, err)

	path := filepath.Join(dir, filepath.FromSlash(key))
	old := storeNow.Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	deleted, err := store.CleanupOlderThan(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestArtifactKey(t *testing.T) {
	key := ArtifactKey(storeNow, storeID, "Report_caja_sesiones_05-03-2024.xlsx")
	assert.Equal(t, "2024/03/"+storeID.String()+"/Report_caja_sesiones_05-03-2024.xlsx", key)
}
