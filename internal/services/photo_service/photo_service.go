package services

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"gallery_admin/internal/catalog/query"
	"gallery_admin/internal/domain/apperr"
	"gallery_admin/internal/domain/models"
	"gallery_admin/internal/lib/logger/sl"
	"gallery_admin/internal/lib/naming"
	"gallery_admin/internal/repository"
	storage "gallery_admin/internal/storage/filestorage"
	"gallery_admin/internal/transport/http/dto"
)

const photosSubdir = "photos"

type PhotoService struct {
	log     *slog.Logger
	albums  repository.AlbumRepository
	tags    repository.TagRepository
	gallery repository.GalleryRepository
	files   storage.FileStorage

	// storedName вычисляет имя файла на диске; подменяется в тестах,
	// поскольку naming.StoredFilename содержит временную метку.
	storedName func(base, originalName string) string
}

func NewPhotoService(
	log *slog.Logger,
	albums repository.AlbumRepository,
	tags repository.TagRepository,
	gallery repository.GalleryRepository,
	files storage.FileStorage,
) *PhotoService {
	return &PhotoService{
		log:        log,
		albums:     albums,
		tags:       tags,
		gallery:    gallery,
		files:      files,
		storedName: naming.StoredFilename,
	}
}

// relPath — путь файла внутри хранилища загрузок.
func relPath(filename string) string {
	return filepath.Join(photosSubdir, filename)
}

// publicPath — путь, под которым файл записан в документе галереи.
func (s *PhotoService) publicPath(filename string) string {
	return path.Join(s.files.BaseURL(), photosSubdir, filename)
}

// UploadPhoto сохраняет файл на диск, затем проверяет ссылки и дубликаты.
// При любом отказе уже сохранённый файл удаляется, чтобы не копить сироты.
func (s *PhotoService) UploadPhoto(ctx context.Context, input dto.UploadPhotoInput) (models.GalleryItem, error) {
	const op = "service.PhotoService.UploadPhoto"
	log := s.log.With(
		slog.String("op", op),
		slog.String("original_filename", input.File.Filename),
	)

	log.Info("uploading photo")

	storedName := s.storedName(input.FilenameBase, input.File.Filename)

	rel, _, err := s.files.Save(ctx, input.File, photosSubdir, storedName)
	if err != nil {
		log.Error("failed to store file", sl.Err(err))
		return models.GalleryItem{}, apperr.IO("store uploaded file", err)
	}

	discard := func() {
		if err := s.files.Delete(ctx, rel); err != nil {
			log.Warn("failed to remove rejected upload", sl.Err(err))
		}
	}

	if input.AlbumID != "" {
		ok, err := s.albumExists(ctx, input.AlbumID)
		if err != nil {
			discard()
			return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			discard()
			return models.GalleryItem{}, apperr.Validation(apperr.ReasonUnknownAlbumID, "albumId does not reference an existing album")
		}
	}

	if input.TagID != "" {
		ok, err := s.tagExists(ctx, input.TagID)
		if err != nil {
			discard()
			return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			discard()
			return models.GalleryItem{}, apperr.Validation(apperr.ReasonUnknownTagID, "tagId does not reference an existing tag")
		}
	}

	items, err := s.gallery.Items(ctx)
	if err != nil {
		discard()
		log.Error("failed to load gallery", sl.Err(err))
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	publicPath := s.publicPath(storedName)

	for _, it := range items {
		if it.Filename == storedName || it.Path == publicPath {
			discard()
			return models.GalleryItem{}, apperr.ConflictWith(apperr.ReasonDuplicate, "filename or path already in the gallery", it)
		}
	}

	item := models.GalleryItem{
		ID:            naming.NewID(),
		Filename:      storedName,
		Path:          publicPath,
		ThumbnailPath: "",
		Year:          input.Year,
		Month:         input.Month,
		Day:           input.Day,
		AlbumID:       input.AlbumID,
		TagID:         input.TagID,
	}

	if err := s.gallery.SaveItems(ctx, append(items, item)); err != nil {
		discard()
		log.Error("failed to persist gallery", sl.Err(err))
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("photo uploaded", slog.String("id", item.ID), slog.String("filename", item.Filename))

	return item, nil
}

func (s *PhotoService) ListPhotos(ctx context.Context) ([]models.GalleryItem, error) {
	const op = "service.PhotoService.ListPhotos"

	items, err := s.gallery.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// UpdatePhoto применяет частичный патч. Переименование основного файла на
// диске фатально при ошибке; ошибка переименования миниатюры попадает в
// warnings, но правку не откатывает.
func (s *PhotoService) UpdatePhoto(ctx context.Context, id string, req dto.UpdatePhotoRequest) (dto.PhotoMutationResult, error) {
	const op = "service.PhotoService.UpdatePhoto"
	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	log.Info("updating photo")

	items, err := s.gallery.Items(ctx)
	if err != nil {
		log.Error("failed to load gallery", sl.Err(err))
		return dto.PhotoMutationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	idx := -1
	for i, it := range items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return dto.PhotoMutationResult{}, apperr.NotFound(apperr.ReasonPhotoNotFound, "gallery item does not exist")
	}

	item := items[idx]
	result := dto.PhotoMutationResult{}

	if req.AlbumID != nil {
		if *req.AlbumID != "" {
			ok, err := s.albumExists(ctx, *req.AlbumID)
			if err != nil {
				return dto.PhotoMutationResult{}, fmt.Errorf("%s: %w", op, err)
			}
			if !ok {
				return dto.PhotoMutationResult{}, apperr.Validation(apperr.ReasonUnknownAlbumID, "albumId does not reference an existing album")
			}
		}
		item.AlbumID = *req.AlbumID
	}

	if req.TagID != nil {
		if *req.TagID != "" {
			ok, err := s.tagExists(ctx, *req.TagID)
			if err != nil {
				return dto.PhotoMutationResult{}, fmt.Errorf("%s: %w", op, err)
			}
			if !ok {
				return dto.PhotoMutationResult{}, apperr.Validation(apperr.ReasonUnknownTagID, "tagId does not reference an existing tag")
			}
		}
		item.TagID = *req.TagID
	}

	// Нечисловое значение даты оставляет старое, нуля не пишем.
	item.Year = parseIntOr(req.Year, item.Year)
	item.Month = parseIntOr(req.Month, item.Month)
	item.Day = parseIntOr(req.Day, item.Day)

	if req.FilenameBase != nil && strings.TrimSpace(*req.FilenameBase) != "" {
		newName := s.storedName(strings.TrimSpace(*req.FilenameBase), item.Filename)

		if newName != item.Filename {
			newPath := s.publicPath(newName)

			for i, it := range items {
				if i == idx {
					continue
				}
				if it.Filename == newName || it.Path == newPath {
					return dto.PhotoMutationResult{}, apperr.ConflictWith(apperr.ReasonDuplicateName, "another item already uses this filename", it)
				}
			}

			// Основной файл: отказ переименования фатален для всего запроса.
			if err := s.files.Rename(ctx, relPath(item.Filename), relPath(newName)); err != nil {
				log.Error("failed to rename primary file", sl.Err(err))
				return dto.PhotoMutationResult{}, apperr.IO("rename image file", err)
			}

			if item.ThumbnailPath != "" {
				oldThumb := naming.ThumbnailName(item.Filename)
				newThumb := naming.ThumbnailName(newName)

				if err := s.files.Rename(ctx, relPath(oldThumb), relPath(newThumb)); err != nil {
					log.Warn("failed to rename thumbnail", sl.Err(err))
					result.Warnings = append(result.Warnings, fmt.Sprintf("thumbnail rename failed: %v", err))
				}

				item.ThumbnailPath = s.publicPath(newThumb)
			}

			item.Filename = newName
			item.Path = newPath
		}
	}

	items[idx] = item

	if err := s.gallery.SaveItems(ctx, items); err != nil {
		log.Error("failed to persist gallery", sl.Err(err))
		return dto.PhotoMutationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	result.Item = item

	log.Info("photo updated")

	return result, nil
}

// DeletePhoto удаляет файлы по принципу best-effort: отказ файловой системы
// попадает в warnings, запись из документа удаляется в любом случае.
func (s *PhotoService) DeletePhoto(ctx context.Context, id string) (dto.DeletePhotoResult, error) {
	const op = "service.PhotoService.DeletePhoto"
	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	log.Info("deleting photo")

	items, err := s.gallery.Items(ctx)
	if err != nil {
		log.Error("failed to load gallery", sl.Err(err))
		return dto.DeletePhotoResult{}, fmt.Errorf("%s: %w", op, err)
	}

	idx := -1
	for i, it := range items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return dto.DeletePhotoResult{}, apperr.NotFound(apperr.ReasonPhotoNotFound, "gallery item does not exist")
	}

	item := items[idx]
	result := dto.DeletePhotoResult{}

	if err := s.files.Delete(ctx, relPath(item.Filename)); err != nil {
		log.Warn("failed to delete image file", sl.Err(err))
		result.Warnings = append(result.Warnings, fmt.Sprintf("image delete failed: %v", err))
	}

	if item.ThumbnailPath != "" {
		if err := s.files.Delete(ctx, relPath(naming.ThumbnailName(item.Filename))); err != nil {
			log.Warn("failed to delete thumbnail", sl.Err(err))
			result.Warnings = append(result.Warnings, fmt.Sprintf("thumbnail delete failed: %v", err))
		}
	}

	items = append(items[:idx], items[idx+1:]...)

	if err := s.gallery.SaveItems(ctx, items); err != nil {
		log.Error("failed to persist gallery", sl.Err(err))
		return dto.DeletePhotoResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("photo deleted")

	return result, nil
}

// PhotosByAlbum: resolve → filter → sort → limit, всегда в этом порядке.
func (s *PhotoService) PhotosByAlbum(ctx context.Context, ref string, mode query.SortMode, limit int) ([]models.GalleryItem, error) {
	const op = "service.PhotoService.PhotosByAlbum"

	albums, err := s.albums.Albums(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.gallery.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	albumID := query.ResolveRef(query.AlbumRefs(albums), ref)

	return query.Limit(query.SortByDate(query.FilterByAlbum(items, albumID), mode), limit), nil
}

func (s *PhotoService) PhotosByTag(ctx context.Context, ref string, mode query.SortMode, limit int) ([]models.GalleryItem, error) {
	const op = "service.PhotoService.PhotosByTag"

	tags, err := s.tags.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.gallery.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tagID := query.ResolveRef(query.TagRefs(tags), ref)

	return query.Limit(query.SortByDate(query.FilterByTag(items, tagID), mode), limit), nil
}

func (s *PhotoService) albumExists(ctx context.Context, albumID string) (bool, error) {
	albums, err := s.albums.Albums(ctx)
	if err != nil {
		return false, err
	}

	for _, a := range albums {
		if a.AlbumID == albumID {
			return true, nil
		}
	}

	return false, nil
}

func (s *PhotoService) tagExists(ctx context.Context, tagID string) (bool, error) {
	tags, err := s.tags.Tags(ctx)
	if err != nil {
		return false, err
	}

	for _, t := range tags {
		if t.TagID == tagID {
			return true, nil
		}
	}

	return false, nil
}

func parseIntOr(raw *string, current int) int {
	if raw == nil {
		return current
	}

	n, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil {
		return current
	}

	return n
}
