package repository

import (
	"context"

	"gallery_admin/internal/domain/models"
	"gallery_admin/internal/storage/jsondoc"
)

type AlbumRepo struct {
	store *jsondoc.Store
}

func NewAlbumRepository(store *jsondoc.Store) *AlbumRepo {
	return &AlbumRepo{store: store}
}

func (r *AlbumRepo) Albums(ctx context.Context) ([]models.Album, error) {
	return jsondoc.Read[models.Album](ctx, r.store, jsondoc.KindAlbums)
}

func (r *AlbumRepo) SaveAlbums(ctx context.Context, albums []models.Album) error {
	return jsondoc.Write(ctx, r.store, jsondoc.KindAlbums, albums)
}
