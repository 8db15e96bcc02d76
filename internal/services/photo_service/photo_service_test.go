package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery_admin/internal/catalog/query"
	"gallery_admin/internal/domain/apperr"
	"gallery_admin/internal/domain/models"
	storage "gallery_admin/internal/storage/filestorage"
	"gallery_admin/internal/transport/http/dto"
)

type fakeAlbumRepo struct {
	albums []models.Album
}

func (f *fakeAlbumRepo) Albums(_ context.Context) ([]models.Album, error) {
	out := make([]models.Album, len(f.albums))
	copy(out, f.albums)

	return out, nil
}

func (f *fakeAlbumRepo) SaveAlbums(_ context.Context, albums []models.Album) error {
	f.albums = albums
	return nil
}

type fakeTagRepo struct {
	tags []models.Tag
}

func (f *fakeTagRepo) Tags(_ context.Context) ([]models.Tag, error) {
	out := make([]models.Tag, len(f.tags))
	copy(out, f.tags)

	return out, nil
}

func (f *fakeTagRepo) SaveTags(_ context.Context, tags []models.Tag) error {
	f.tags = tags
	return nil
}

type fakeGalleryRepo struct {
	items   []models.GalleryItem
	saveErr error
	saves   int
}

func (f *fakeGalleryRepo) Items(_ context.Context) ([]models.GalleryItem, error) {
	out := make([]models.GalleryItem, len(f.items))
	copy(out, f.items)

	return out, nil
}

func (f *fakeGalleryRepo) SaveItems(_ context.Context, items []models.GalleryItem) error {
	if f.saveErr != nil {
		return f.saveErr
	}

	f.items = items
	f.saves++

	return nil
}

type fixture struct {
	service *PhotoService
	albums  *fakeAlbumRepo
	tags    *fakeTagRepo
	gallery *fakeGalleryRepo
	files   *storage.LocalFileStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	files, err := storage.NewLocalFileStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	albums := &fakeAlbumRepo{albums: []models.Album{{AlbumID: "alb-1", Name: "Skate"}}}
	tags := &fakeTagRepo{tags: []models.Tag{{TagID: "tag-1", Name: "night"}}}
	gallery := &fakeGalleryRepo{}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewPhotoService(log, albums, tags, gallery, files)

	// Детерминированное имя вместо слага с временной меткой.
	s.storedName = func(base, originalName string) string {
		if base == "" {
			base = "upload"
		}
		return base + ".jpg"
	}

	return &fixture{service: s, albums: albums, tags: tags, gallery: gallery, files: files}
}

func createTestUpload(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("photo", filename)
	require.NoError(t, err)

	_, err = part.Write([]byte(content))
	require.NoError(t, err)

	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("photo")
	require.NoError(t, err)
	file.Close()

	return header
}

// seedFile кладет файл в хранилище в обход сервиса.
func seedFile(t *testing.T, f *fixture, name string) {
	t.Helper()

	dir := filepath.Join(f.files.BaseDir(), "photos")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0644))
}

func TestPhotoService_UploadPhoto(t *testing.T) {
	ctx := context.Background()

	t.Run("successful upload", func(t *testing.T) {
		f := newFixture(t)

		item, err := f.service.UploadPhoto(ctx, dto.UploadPhotoInput{
			File:         createTestUpload(t, "IMG_1.JPG", "jpeg"),
			FilenameBase: "sunset",
			Year:         2024, Month: 7, Day: 14,
			AlbumID: "alb-1",
			TagID:   "tag-1",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, item.ID)
		assert.Equal(t, "sunset.jpg", item.Filename)
		assert.Equal(t, "/uploads/photos/sunset.jpg", item.Path)
		assert.Empty(t, item.ThumbnailPath)
		assert.Equal(t, 2024, item.Year)
		assert.True(t, f.files.Exists("photos/sunset.jpg"))
		require.Len(t, f.gallery.items, 1)
	})

	t.Run("empty album and tag are allowed", func(t *testing.T) {
		f := newFixture(t)

		item, err := f.service.UploadPhoto(ctx, dto.UploadPhotoInput{
			File:         createTestUpload(t, "x.jpg", "jpeg"),
			FilenameBase: "loose",
		})
		require.NoError(t, err)
		assert.Equal(t, "", item.AlbumID)
		assert.Equal(t, "", item.TagID)
	})

	// Неизвестный albumId: файл не должен остаться на диске.
	t.Run("unknown albumId removes stored file", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.UploadPhoto(ctx, dto.UploadPhotoInput{
			File:         createTestUpload(t, "x.jpg", "jpeg"),
			FilenameBase: "orphan",
			AlbumID:      "alb-404",
		})
		require.Error(t, err)

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Equal(t, apperr.ReasonUnknownAlbumID, apperr.Reason(err))
		assert.False(t, f.files.Exists("photos/orphan.jpg"))
		assert.Empty(t, f.gallery.items)
	})

	t.Run("unknown tagId removes stored file", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.UploadPhoto(ctx, dto.UploadPhotoInput{
			File:         createTestUpload(t, "x.jpg", "jpeg"),
			FilenameBase: "orphan",
			TagID:        "tag-404",
		})
		require.Error(t, err)

		assert.Equal(t, apperr.ReasonUnknownTagID, apperr.Reason(err))
		assert.False(t, f.files.Exists("photos/orphan.jpg"))
	})

	// Дубликат пути: в ответе conflictWith лежит первая запись.
	t.Run("duplicate path reports conflicting item", func(t *testing.T) {
		f := newFixture(t)

		first := models.GalleryItem{
			ID:       "p1",
			Filename: "a.jpg",
			Path:     "/uploads/photos/a.jpg",
		}
		f.gallery.items = []models.GalleryItem{first}

		_, err := f.service.UploadPhoto(ctx, dto.UploadPhotoInput{
			File:         createTestUpload(t, "whatever.jpg", "jpeg"),
			FilenameBase: "a",
		})
		require.Error(t, err)

		e, ok := apperr.From(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindConflict, e.Kind)
		assert.Equal(t, apperr.ReasonDuplicate, e.Reason)
		assert.Equal(t, first, e.ConflictWith)

		assert.False(t, f.files.Exists("photos/a.jpg"))
		require.Len(t, f.gallery.items, 1)
	})

	t.Run("persist failure removes stored file", func(t *testing.T) {
		f := newFixture(t)
		f.gallery.saveErr = os.ErrPermission

		_, err := f.service.UploadPhoto(ctx, dto.UploadPhotoInput{
			File:         createTestUpload(t, "x.jpg", "jpeg"),
			FilenameBase: "doomed",
		})
		require.Error(t, err)
		assert.False(t, f.files.Exists("photos/doomed.jpg"))
	})
}

func TestPhotoService_UpdatePhoto(t *testing.T) {
	ctx := context.Background()

	str := func(s string) *string { return &s }

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.UpdatePhoto(ctx, "missing", dto.UpdatePhotoRequest{})
		require.Error(t, err)
		assert.Equal(t, apperr.ReasonPhotoNotFound, apperr.Reason(err))
	})

	t.Run("lenient date parsing", func(t *testing.T) {
		f := newFixture(t)
		f.gallery.items = []models.GalleryItem{{ID: "p1", Filename: "a.jpg", Year: 2020, Month: 5, Day: 1}}

		result, err := f.service.UpdatePhoto(ctx, "p1", dto.UpdatePhotoRequest{
			Year:  str("2023"),
			Month: str("not-a-number"),
			Day:   str(""),
		})
		require.NoError(t, err)

		assert.Equal(t, 2023, result.Item.Year)
		assert.Equal(t, 5, result.Item.Month)
		assert.Equal(t, 1, result.Item.Day)
	})

	t.Run("unknown albumId rejected", func(t *testing.T) {
		f := newFixture(t)
		f.gallery.items = []models.GalleryItem{{ID: "p1", Filename: "a.jpg", AlbumID: "alb-1"}}

		_, err := f.service.UpdatePhoto(ctx, "p1", dto.UpdatePhotoRequest{AlbumID: str("alb-404")})
		require.Error(t, err)
		assert.Equal(t, apperr.ReasonUnknownAlbumID, apperr.Reason(err))
	})

	t.Run("explicit empty string clears references", func(t *testing.T) {
		f := newFixture(t)
		f.gallery.items = []models.GalleryItem{{ID: "p1", Filename: "a.jpg", AlbumID: "alb-1", TagID: "tag-1"}}

		result, err := f.service.UpdatePhoto(ctx, "p1", dto.UpdatePhotoRequest{
			AlbumID: str(""),
			TagID:   str(""),
		})
		require.NoError(t, err)

		assert.Equal(t, "", result.Item.AlbumID)
		assert.Equal(t, "", result.Item.TagID)
	})

	t.Run("rename moves file on disk", func(t *testing.T) {
		f := newFixture(t)
		f.gallery.items = []models.GalleryItem{{ID: "p1", Filename: "old.jpg", Path: "/uploads/photos/old.jpg"}}
		seedFile(t, f, "old.jpg")

		result, err := f.service.UpdatePhoto(ctx, "p1", dto.UpdatePhotoRequest{FilenameBase: str("fresh")})
		require.NoError(t, err)

		assert.Equal(t, "fresh.jpg", result.Item.Filename)
		assert.Equal(t, "/uploads/photos/fresh.jpg", result.Item.Path)
		assert.Empty(t, result.Warnings)
		assert.False(t, f.files.Exists("photos/old.jpg"))
		assert.True(t, f.files.Exists("photos/fresh.jpg"))
	})

	t.Run("rename carries thumbnail along", func(t *testing.T) {
		f := newFixture(t)
		f.gallery.items = []models.GalleryItem{{
			ID:            "p1",
			Filename:      "old.jpg",
			Path:          "/uploads/photos/old.jpg",
			ThumbnailPath: "/uploads/photos/old-thumb.jpg",
		}}
		seedFile(t, f, "old.jpg")
		seedFile(t, f, "old-thumb.jpg")

		result, err := f.service.UpdatePhoto(ctx, "p1", dto.UpdatePhotoRequest{FilenameBase: str("fresh")})
		require.NoError(t, err)

		assert.Equal(t, "/uploads/photos/fresh-thumb.jpg", result.Item.ThumbnailPath)
		assert.Empty(t, result.Warnings)
		assert.True(t, f.files.Exists("photos/fresh-thumb.jpg"))
	})

	t.Run("thumbnail rename failure is a warning, not a rollback", func(t *testing.T) {
		f := newFixture(t)
		f.gallery.items = []models.GalleryItem{{
			ID:            "p1",
			Filename:      "old.jpg",
			Path:          "/uploads/photos/old.jpg",
			ThumbnailPath: "/uploads/photos/old-thumb.jpg",
		}}
		seedFile(t, f, "old.jpg")
		// Миниатюры на диске нет.

		result, err := f.service.UpdatePhoto(ctx, "p1", dto.UpdatePhotoRequest{FilenameBase: str("fresh")})
		require.NoError(t, err)

		assert.Len(t, result.Warnings, 1)
		assert.Equal(t, "fresh.jpg", result.Item.Filename)
		assert.True(t, f.files.Exists("photos/fresh.jpg"))
	})

	t.Run("primary rename failure aborts the request", func(t *testing.T) {
		f := newFixture(t)
		f.gallery.items = []models.GalleryItem{{ID: "p1", Filename: "ghost.jpg", Path: "/uploads/photos/ghost.jpg"}}
		// Файла на диске нет — переименование обязано упасть.

		_, err := f.service.UpdatePhoto(ctx, "p1", dto.UpdatePhotoRequest{FilenameBase: str("fresh")})
		require.Error(t, err)

		assert.True(t, apperr.IsKind(err, apperr.KindIO))
		assert.Zero(t, f.gallery.saves)
		assert.Equal(t, "ghost.jpg", f.gallery.items[0].Filename)
	})

	// Имя занято другой записью: файлы остаются как были.
	t.Run("duplicate name leaves files unrenamed", func(t *testing.T) {
		f := newFixture(t)
		f.gallery.items = []models.GalleryItem{
			{ID: "p1", Filename: "taken.jpg", Path: "/uploads/photos/taken.jpg"},
			{ID: "p2", Filename: "mine.jpg", Path: "/uploads/photos/mine.jpg"},
		}
		seedFile(t, f, "taken.jpg")
		seedFile(t, f, "mine.jpg")

		_, err := f.service.UpdatePhoto(ctx, "p2", dto.UpdatePhotoRequest{FilenameBase: str("taken")})
		require.Error(t, err)

		e, ok := apperr.From(err)
		require.True(t, ok)
		assert.Equal(t, apperr.ReasonDuplicateName, e.Reason)

		assert.True(t, f.files.Exists("photos/taken.jpg"))
		assert.True(t, f.files.Exists("photos/mine.jpg"))
		assert.Equal(t, "mine.jpg", f.gallery.items[1].Filename)
	})

	t.Run("same resulting name is a no-op rename", func(t *testing.T) {
		f := newFixture(t)
		f.gallery.items = []models.GalleryItem{{ID: "p1", Filename: "same.jpg", Path: "/uploads/photos/same.jpg"}}

		result, err := f.service.UpdatePhoto(ctx, "p1", dto.UpdatePhotoRequest{FilenameBase: str("same")})
		require.NoError(t, err)
		assert.Equal(t, "same.jpg", result.Item.Filename)
	})
}

func TestPhotoService_DeletePhoto(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.DeletePhoto(ctx, "missing")
		require.Error(t, err)
		assert.Equal(t, apperr.ReasonPhotoNotFound, apperr.Reason(err))
	})

	t.Run("removes files and record", func(t *testing.T) {
		f := newFixture(t)
		f.gallery.items = []models.GalleryItem{{
			ID:            "p1",
			Filename:      "a.jpg",
			Path:          "/uploads/photos/a.jpg",
			ThumbnailPath: "/uploads/photos/a-thumb.jpg",
		}}
		seedFile(t, f, "a.jpg")
		seedFile(t, f, "a-thumb.jpg")

		result, err := f.service.DeletePhoto(ctx, "p1")
		require.NoError(t, err)

		assert.Empty(t, result.Warnings)
		assert.Empty(t, f.gallery.items)
		assert.False(t, f.files.Exists("photos/a.jpg"))
		assert.False(t, f.files.Exists("photos/a-thumb.jpg"))
	})

	t.Run("missing file is a warning, record still removed", func(t *testing.T) {
		f := newFixture(t)
		f.gallery.items = []models.GalleryItem{{ID: "p1", Filename: "gone.jpg", Path: "/uploads/photos/gone.jpg"}}

		result, err := f.service.DeletePhoto(ctx, "p1")
		require.NoError(t, err)

		assert.Len(t, result.Warnings, 1)
		assert.Empty(t, f.gallery.items)
	})
}

func TestPhotoService_Queries(t *testing.T) {
	ctx := context.Background()

	seed := func(f *fixture) {
		f.gallery.items = []models.GalleryItem{
			{ID: "p1", AlbumID: "alb-1", TagID: "tag-1", Year: 2022},
			{ID: "p2", AlbumID: "alb-1", Year: 2024},
			{ID: "p3", AlbumID: "other", TagID: "tag-1", Year: 2023},
		}
	}

	t.Run("by album id with sort and limit", func(t *testing.T) {
		f := newFixture(t)
		seed(f)

		items, err := f.service.PhotosByAlbum(ctx, "alb-1", query.SortDateDesc, 1)
		require.NoError(t, err)

		require.Len(t, items, 1)
		assert.Equal(t, "p2", items[0].ID)
	})

	t.Run("by album display name", func(t *testing.T) {
		f := newFixture(t)
		seed(f)

		items, err := f.service.PhotosByAlbum(ctx, "skate", query.SortNone, 0)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("unresolved reference yields empty", func(t *testing.T) {
		f := newFixture(t)
		seed(f)

		items, err := f.service.PhotosByAlbum(ctx, "does-not-exist", query.SortNone, 0)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("by tag", func(t *testing.T) {
		f := newFixture(t)
		seed(f)

		items, err := f.service.PhotosByTag(ctx, "night", query.SortDateAsc, 0)
		require.NoError(t, err)

		require.Len(t, items, 2)
		assert.Equal(t, "p1", items[0].ID)
		assert.Equal(t, "p3", items[1].ID)
	})
}
