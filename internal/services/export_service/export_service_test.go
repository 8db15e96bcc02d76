package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery_admin/internal/domain/models"
	"gallery_admin/internal/storage/jsondoc"
)

type fakeGalleryRepo struct {
	items []models.GalleryItem
}

func (f *fakeGalleryRepo) Items(_ context.Context) ([]models.GalleryItem, error) {
	out := make([]models.GalleryItem, len(f.items))
	copy(out, f.items)

	return out, nil
}

func (f *fakeGalleryRepo) SaveItems(_ context.Context, items []models.GalleryItem) error {
	f.items = items
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExportService_CopyGallery(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, items []models.GalleryItem) (*ExportService, *jsondoc.Store, string, string) {
		t.Helper()

		dataDir := t.TempDir()
		uploadsDir := t.TempDir()
		publishDir := filepath.Join(t.TempDir(), "publish")

		store, err := jsondoc.NewStore(dataDir)
		require.NoError(t, err)

		s := NewExportService(testLogger(), &fakeGalleryRepo{items: items}, store, uploadsDir, publishDir)

		return s, store, uploadsDir, publishDir
	}

	seedImage := func(t *testing.T, uploadsDir, name string) {
		t.Helper()

		dir := filepath.Join(uploadsDir, "photos")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0644))
	}

	t.Run("copies documents and referenced files", func(t *testing.T) {
		items := []models.GalleryItem{
			{ID: "p1", Filename: "a.jpg", ThumbnailPath: "/uploads/photos/a-thumb.jpg"},
			{ID: "p2", Filename: "b.jpg"},
		}
		s, store, uploadsDir, publishDir := setup(t, items)

		require.NoError(t, jsondoc.Write(ctx, store, jsondoc.KindAlbums, []models.Album{{AlbumID: "A", Name: "One"}}))
		require.NoError(t, jsondoc.Write(ctx, store, jsondoc.KindTags, []models.Tag{}))
		require.NoError(t, jsondoc.Write(ctx, store, jsondoc.KindGallery, items))

		seedImage(t, uploadsDir, "a.jpg")
		seedImage(t, uploadsDir, "a-thumb.jpg")
		seedImage(t, uploadsDir, "b.jpg")

		summary, err := s.CopyGallery(ctx)
		require.NoError(t, err)

		// 3 документа + 3 картинки.
		assert.Equal(t, 6, summary.CopiedFiles)
		assert.Empty(t, summary.Warnings)

		assert.FileExists(t, filepath.Join(publishDir, "data", string(jsondoc.KindAlbums)))
		assert.FileExists(t, filepath.Join(publishDir, "data", string(jsondoc.KindGallery)))
		assert.FileExists(t, filepath.Join(publishDir, "uploads", "photos", "a.jpg"))
		assert.FileExists(t, filepath.Join(publishDir, "uploads", "photos", "a-thumb.jpg"))
		assert.FileExists(t, filepath.Join(publishDir, "uploads", "photos", "b.jpg"))
	})

	t.Run("missing documents are skipped silently", func(t *testing.T) {
		s, _, _, publishDir := setup(t, nil)

		summary, err := s.CopyGallery(ctx)
		require.NoError(t, err)

		assert.Zero(t, summary.CopiedFiles)
		assert.Empty(t, summary.Warnings)
		assert.DirExists(t, filepath.Join(publishDir, "data"))
	})

	t.Run("missing image becomes a warning", func(t *testing.T) {
		items := []models.GalleryItem{
			{ID: "p1", Filename: "present.jpg"},
			{ID: "p2", Filename: "gone.jpg"},
		}
		s, store, uploadsDir, _ := setup(t, items)

		require.NoError(t, jsondoc.Write(ctx, store, jsondoc.KindGallery, items))
		seedImage(t, uploadsDir, "present.jpg")

		summary, err := s.CopyGallery(ctx)
		require.NoError(t, err)

		// Документ галереи + одна картинка.
		assert.Equal(t, 2, summary.CopiedFiles)
		require.Len(t, summary.Warnings, 1)
		assert.Contains(t, summary.Warnings[0], "gone.jpg")
	})
}
