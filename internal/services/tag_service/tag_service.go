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

// TagService зеркален AlbumService: то же пространство операций над
// независимой коллекцией тегов и полем tagId галереи.
type TagService struct {
	log     *slog.Logger
	tags    repository.TagRepository
	gallery repository.GalleryRepository
}

func NewTagService(log *slog.Logger, tags repository.TagRepository, gallery repository.GalleryRepository) *TagService {
	return &TagService{
		log:     log,
		tags:    tags,
		gallery: gallery,
	}
}

func (s *TagService) CreateTag(ctx context.Context, req dto.CreateTagRequest) (models.Tag, error) {
	const op = "service.TagService.CreateTag"
	log := s.log.With(
		slog.String("op", op),
		slog.String("name", req.Name),
	)

	log.Info("creating tag")

	name := strings.TrimSpace(req.Name)
	if name == "" {
		log.Warn("blank tag name")
		return models.Tag{}, apperr.Validation(apperr.ReasonNameRequired, "tag name is required")
	}

	tags, err := s.tags.Tags(ctx)
	if err != nil {
		log.Error("failed to load tags", sl.Err(err))
		return models.Tag{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, t := range tags {
		if req.TagID != "" && t.TagID == req.TagID {
			return models.Tag{}, apperr.Conflict(apperr.ReasonTagIDExists, "tagId already in use")
		}
		if collate.EqualFold(t.Name, name) {
			return models.Tag{}, apperr.Conflict(apperr.ReasonTagNameExists, "tag with this name already exists")
		}
	}

	tag := models.Tag{
		TagID: req.TagID,
		Name:  name,
		Desc:  req.Desc,
	}
	if tag.TagID == "" {
		tag.TagID = naming.NewID()
	}

	if err := s.tags.SaveTags(ctx, append(tags, tag)); err != nil {
		log.Error("failed to persist tags", sl.Err(err))
		return models.Tag{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("tag created", slog.String("tag_id", tag.TagID))

	return tag, nil
}

func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	const op = "service.TagService.ListTags"

	tags, err := s.tags.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tags, nil
}

func (s *TagService) UpdateTag(ctx context.Context, tagID string, req dto.UpdateTagRequest) (dto.UpdateTagResult, error) {
	const op = "service.TagService.UpdateTag"
	log := s.log.With(
		slog.String("op", op),
		slog.String("tag_id", tagID),
	)

	log.Info("updating tag")

	tags, err := s.tags.Tags(ctx)
	if err != nil {
		log.Error("failed to load tags", sl.Err(err))
		return dto.UpdateTagResult{}, fmt.Errorf("%s: %w", op, err)
	}

	idx := -1
	for i, t := range tags {
		if t.TagID == tagID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return dto.UpdateTagResult{}, apperr.NotFound(apperr.ReasonTagNotFound, "tag does not exist")
	}

	tag := tags[idx]

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return dto.UpdateTagResult{}, apperr.Validation(apperr.ReasonNameRequired, "tag name is required")
		}
		for i, t := range tags {
			if i != idx && collate.EqualFold(t.Name, name) {
				return dto.UpdateTagResult{}, apperr.Conflict(apperr.ReasonTagNameExists, "tag with this name already exists")
			}
		}
		tag.Name = name
	}

	if req.Desc != nil {
		tag.Desc = *req.Desc
	}

	oldID := tag.TagID
	replacing := req.ReplaceID != nil && *req.ReplaceID != "" && *req.ReplaceID != oldID

	if replacing {
		for _, t := range tags {
			if t.TagID == *req.ReplaceID {
				return dto.UpdateTagResult{}, apperr.Conflict(apperr.ReasonTagIDExists, "replacement tagId already in use")
			}
		}
		tag.TagID = *req.ReplaceID
	}

	tags[idx] = tag

	if err := s.tags.SaveTags(ctx, tags); err != nil {
		log.Error("failed to persist tags", sl.Err(err))
		return dto.UpdateTagResult{}, fmt.Errorf("%s: %w", op, err)
	}

	result := dto.UpdateTagResult{Tag: tag}

	if replacing {
		items, err := s.gallery.Items(ctx)
		if err != nil {
			log.Error("failed to load gallery for cascade", sl.Err(err))
			return dto.UpdateTagResult{}, fmt.Errorf("%s: %w", op, err)
		}

		for i := range items {
			if items[i].TagID == oldID {
				items[i].TagID = tag.TagID
				result.UpdatedPhotos++
			}
		}

		if result.UpdatedPhotos > 0 {
			if err := s.gallery.SaveItems(ctx, items); err != nil {
				log.Error("failed to persist gallery cascade", sl.Err(err))
				return dto.UpdateTagResult{}, fmt.Errorf("%s: %w", op, err)
			}
		}

		log.Info("tag id replaced",
			slog.String("new_tag_id", tag.TagID),
			slog.Int("updated_photos", result.UpdatedPhotos),
		)
	}

	log.Info("tag updated")

	return result, nil
}

func (s *TagService) DeleteTag(ctx context.Context, tagID string) (dto.DeleteTagResult, error) {
	const op = "service.TagService.DeleteTag"
	log := s.log.With(
		slog.String("op", op),
		slog.String("tag_id", tagID),
	)

	log.Info("deleting tag")

	tags, err := s.tags.Tags(ctx)
	if err != nil {
		log.Error("failed to load tags", sl.Err(err))
		return dto.DeleteTagResult{}, fmt.Errorf("%s: %w", op, err)
	}

	idx := -1
	for i, t := range tags {
		if t.TagID == tagID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return dto.DeleteTagResult{}, apperr.NotFound(apperr.ReasonTagNotFound, "tag does not exist")
	}

	tags = append(tags[:idx], tags[idx+1:]...)

	if err := s.tags.SaveTags(ctx, tags); err != nil {
		log.Error("failed to persist tags", sl.Err(err))
		return dto.DeleteTagResult{}, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.gallery.Items(ctx)
	if err != nil {
		log.Error("failed to load gallery for unlink", sl.Err(err))
		return dto.DeleteTagResult{}, fmt.Errorf("%s: %w", op, err)
	}

	result := dto.DeleteTagResult{}
	for i := range items {
		if items[i].TagID == tagID {
			items[i].TagID = ""
			result.UnlinkedPhotos++
		}
	}

	if result.UnlinkedPhotos > 0 {
		if err := s.gallery.SaveItems(ctx, items); err != nil {
			log.Error("failed to persist gallery unlink", sl.Err(err))
			return dto.DeleteTagResult{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("tag deleted", slog.Int("unlinked_photos", result.UnlinkedPhotos))

	return result, nil
}
