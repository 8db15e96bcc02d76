package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gallery_admin/internal/domain/apperr"
	"gallery_admin/internal/domain/models"
	"gallery_admin/internal/lib/collate"
	"gallery_admin/internal/lib/logger/sl"
	"gallery_admin/internal/lib/naming"
	"gallery_admin/internal/repository"
	"gallery_admin/internal/transport/http/dto"
)

type AlbumService struct {
	log     *slog.Logger
	albums  repository.AlbumRepository
	gallery repository.GalleryRepository
}

func NewAlbumService(log *slog.Logger, albums repository.AlbumRepository, gallery repository.GalleryRepository) *AlbumService {
	return &AlbumService{
		log:     log,
		albums:  albums,
		gallery: gallery,
	}
}

// CreateAlbum создает альбом. Имя обязательно и уникально без учёта
// регистра и диакритики; явный albumId не должен быть занят.
func (s *AlbumService) CreateAlbum(ctx context.Context, req dto.CreateAlbumRequest) (models.Album, error) {
	const op = "service.AlbumService.CreateAlbum"
	log := s.log.With(
		slog.String("op", op),
		slog.String("name", req.Name),
	)

	log.Info("creating album")

	name := strings.TrimSpace(req.Name)
	if name == "" {
		log.Warn("blank album name")
		return models.Album{}, apperr.Validation(apperr.ReasonNameRequired, "album name is required")
	}

	albums, err := s.albums.Albums(ctx)
	if err != nil {
		log.Error("failed to load albums", sl.Err(err))
		return models.Album{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, a := range albums {
		if req.AlbumID != "" && a.AlbumID == req.AlbumID {
			return models.Album{}, apperr.Conflict(apperr.ReasonAlbumIDExists, "albumId already in use")
		}
		if collate.EqualFold(a.Name, name) {
			return models.Album{}, apperr.Conflict(apperr.ReasonAlbumNameExists, "album with this name already exists")
		}
	}

	album := models.Album{
		AlbumID: req.AlbumID,
		Name:    name,
		Desc:    req.Desc,
	}
	if album.AlbumID == "" {
		album.AlbumID = naming.NewID()
	}

	if err := s.albums.SaveAlbums(ctx, append(albums, album)); err != nil {
		log.Error("failed to persist albums", sl.Err(err))
		return models.Album{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("album created", slog.String("album_id", album.AlbumID))

	return album, nil
}

func (s *AlbumService) ListAlbums(ctx context.Context) ([]models.Album, error) {
	const op = "service.AlbumService.ListAlbums"

	albums, err := s.albums.Albums(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return albums, nil
}

// UpdateAlbum применяет частичный патч. ReplaceID переписывает идентификатор
// и каскадом обновляет albumId у всех фотографий; число затронутых записей
// возвращается вызывающему. Документ альбомов пишется первым, затем галерея —
// между двумя записями атомарности нет.
func (s *AlbumService) UpdateAlbum(ctx context.Context, albumID string, req dto.UpdateAlbumRequest) (dto.UpdateAlbumResult, error) {
	const op = "service.AlbumService.UpdateAlbum"
	log := s.log.With(
		slog.String("op", op),
		slog.String("album_id", albumID),
	)

	log.Info("updating album")

	albums, err := s.albums.Albums(ctx)
	if err != nil {
		log.Error("failed to load albums", sl.Err(err))
		return dto.UpdateAlbumResult{}, fmt.Errorf("%s: %w", op, err)
	}

	idx := -1
	for i, a := range albums {
		if a.AlbumID == albumID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return dto.UpdateAlbumResult{}, apperr.NotFound(apperr.ReasonAlbumNotFound, "album does not exist")
	}

	album := albums[idx]

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return dto.UpdateAlbumResult{}, apperr.Validation(apperr.ReasonNameRequired, "album name is required")
		}
		for i, a := range albums {
			if i != idx && collate.EqualFold(a.Name, name) {
				return dto.UpdateAlbumResult{}, apperr.Conflict(apperr.ReasonAlbumNameExists, "album with this name already exists")
			}
		}
		album.Name = name
	}

	if req.Desc != nil {
		album.Desc = *req.Desc
	}

	if req.Published != nil {
		album.Published = *req.Published
	}

	oldID := album.AlbumID
	replacing := req.ReplaceID != nil && *req.ReplaceID != "" && *req.ReplaceID != oldID

	if replacing {
		for _, a := range albums {
			if a.AlbumID == *req.ReplaceID {
				return dto.UpdateAlbumResult{}, apperr.Conflict(apperr.ReasonAlbumIDExists, "replacement albumId already in use")
			}
		}
		album.AlbumID = *req.ReplaceID
	}

	albums[idx] = album

	if err := s.albums.SaveAlbums(ctx, albums); err != nil {
		log.Error("failed to persist albums", sl.Err(err))
		return dto.UpdateAlbumResult{}, fmt.Errorf("%s: %w", op, err)
	}

	result := dto.UpdateAlbumResult{Album: album}

	if replacing {
		items, err := s.gallery.Items(ctx)
		if err != nil {
			log.Error("failed to load gallery for cascade", sl.Err(err))
			return dto.UpdateAlbumResult{}, fmt.Errorf("%s: %w", op, err)
		}

		for i := range items {
			if items[i].AlbumID == oldID {
				items[i].AlbumID = album.AlbumID
				result.UpdatedPhotos++
			}
		}

		if result.UpdatedPhotos > 0 {
			if err := s.gallery.SaveItems(ctx, items); err != nil {
				log.Error("failed to persist gallery cascade", sl.Err(err))
				return dto.UpdateAlbumResult{}, fmt.Errorf("%s: %w", op, err)
			}
		}

		log.Info("album id replaced",
			slog.String("new_album_id", album.AlbumID),
			slog.Int("updated_photos", result.UpdatedPhotos),
		)
	}

	log.Info("album updated")

	return result, nil
}

// DeleteAlbum удаляет альбом безусловно: у ссылающихся фотографий albumId
// обнуляется (мягкая отвязка), удаление никогда не блокируется.
func (s *AlbumService) DeleteAlbum(ctx context.Context, albumID string) (dto.DeleteAlbumResult, error) {
	const op = "service.AlbumService.DeleteAlbum"
	log := s.log.With(
		slog.String("op", op),
		slog.String("album_id", albumID),
	)

	log.Info("deleting album")

	albums, err := s.albums.Albums(ctx)
	if err != nil {
		log.Error("failed to load albums", sl.Err(err))
		return dto.DeleteAlbumResult{}, fmt.Errorf("%s: %w", op, err)
	}

	idx := -1
	for i, a := range albums {
		if a.AlbumID == albumID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return dto.DeleteAlbumResult{}, apperr.NotFound(apperr.ReasonAlbumNotFound, "album does not exist")
	}

	albums = append(albums[:idx], albums[idx+1:]...)

	if err := s.albums.SaveAlbums(ctx, albums); err != nil {
		log.Error("failed to persist albums", sl.Err(err))
		return dto.DeleteAlbumResult{}, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.gallery.Items(ctx)
	if err != nil {
		log.Error("failed to load gallery for unlink", sl.Err(err))
		return dto.DeleteAlbumResult{}, fmt.Errorf("%s: %w", op, err)
	}

	result := dto.DeleteAlbumResult{}
	for i := range items {
		if items[i].AlbumID == albumID {
			items[i].AlbumID = ""
			result.UnlinkedPhotos++
		}
	}

	if result.UnlinkedPhotos > 0 {
		if err := s.gallery.SaveItems(ctx, items); err != nil {
			log.Error("failed to persist gallery unlink", sl.Err(err))
			return dto.DeleteAlbumResult{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("album deleted", slog.Int("unlinked_photos", result.UnlinkedPhotos))

	return result, nil
}
