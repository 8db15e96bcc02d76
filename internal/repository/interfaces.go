package repository

import (
	"context"

	"gallery_admin/internal/domain/models"
)

// Repositories expose whole-document load/save: every catalog operation is a
// read-modify-write over one small JSON array. Implementations must make
// Save atomic; they are not required to serialize concurrent writers.

type AlbumRepository interface {
	Albums(ctx context.Context) ([]models.Album, error)
	SaveAlbums(ctx context.Context, albums []models.Album) error
}

type TagRepository interface {
	Tags(ctx context.Context) ([]models.Tag, error)
	SaveTags(ctx context.Context, tags []models.Tag) error
}

type GalleryRepository interface {
	Items(ctx context.Context) ([]models.GalleryItem, error)
	SaveItems(ctx context.Context, items []models.GalleryItem) error
}
